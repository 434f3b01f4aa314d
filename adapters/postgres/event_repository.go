package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tally/domain/core"
	"tally/internal"
	"tally/internal/errors"
)

// EventRepository reads counter events from the counter app's database.
// Works with any driver sqlx knows how to rebind for (postgres, sqlite3).
type EventRepository struct {
	db     *sqlx.DB
	logger *internal.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sqlx.DB, logger *internal.Logger) *EventRepository {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &EventRepository{db: db, logger: logger}
}

// ListEvents implements ports.EventSource. Rows come back in insertion-time
// order; the engine does not rely on it.
func (r *EventRepository) ListEvents(ctx context.Context, counterID core.CounterID) ([]core.Event, error) {
	query := `SELECT created_at, number FROM datas`
	var args []interface{}
	if !counterID.IsEmpty() {
		query += ` WHERE counter_ref = ?`
		args = append(args, counterID.String())
	}
	query = r.db.Rebind(query + ` ORDER BY created_at`)

	start := time.Now()
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.DatabaseError("failed to query events", err)
	}
	defer rows.Close()

	var events []core.Event
	for rows.Next() {
		var (
			createdAt sql.NullTime
			number    sql.NullInt64
		)
		if err := rows.Scan(&createdAt, &number); err != nil {
			return nil, errors.DatabaseError("failed to scan event", err)
		}
		if !createdAt.Valid {
			return nil, errors.Validationf(core.ErrInvalidTimestamp,
				"event %d of counter %q has no created_at", len(events)+1, counterID)
		}
		events = append(events, core.Event{OccurredAt: createdAt.Time, Value: number.Int64})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("failed to iterate events", err)
	}

	r.logger.Debug("[EventRepository] %d events for counter %q in %s", len(events), counterID, time.Since(start))
	return events, nil
}

// ListCounters implements ports.CounterCatalog
func (r *EventRepository) ListCounters(ctx context.Context) ([]core.Counter, error) {
	query := `SELECT id, COALESCE(name, '') AS name, created_at FROM counters ORDER BY created_at, id`

	var counters []core.Counter
	if err := r.db.SelectContext(ctx, &counters, query); err != nil {
		return nil, errors.DatabaseError("failed to list counters", err)
	}
	return counters, nil
}

// GetCounter returns one counter by id
func (r *EventRepository) GetCounter(ctx context.Context, id core.CounterID) (*core.Counter, error) {
	query := r.db.Rebind(`SELECT id, COALESCE(name, '') AS name, created_at FROM counters WHERE id = ?`)

	var counter core.Counter
	err := r.db.GetContext(ctx, &counter, query, id.String())
	if err == sql.ErrNoRows {
		return nil, core.NewNotFoundError("counter", id.String())
	}
	if err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("failed to get counter %s", id), err)
	}
	return &counter, nil
}
