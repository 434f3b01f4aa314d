package postgres

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/domain/core"
	"tally/internal"
	"tally/internal/errors"
)

const (
	counterA = "0190a7b2-1c3d-7e4f-8a9b-0c1d2e3f4a5b"
	counterB = "0190a7b2-1c3d-7e4f-8a9b-ffffffffffff"
)

const schema = `
CREATE TABLE counters (
	id TEXT PRIMARY KEY,
	name TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE datas (
	created_at TIMESTAMP,
	number INTEGER NOT NULL,
	counter_ref TEXT NOT NULL
);`

func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}

func insertEvent(t *testing.T, db *sqlx.DB, counter string, at time.Time, number int64) {
	t.Helper()
	_, err := db.Exec(db.Rebind(`INSERT INTO datas (created_at, number, counter_ref) VALUES (?, ?, ?)`), at, number, counter)
	require.NoError(t, err)
}

func TestEventRepository_ListEvents(t *testing.T) {
	db := setupDB(t)
	repo := NewEventRepository(db, internal.NewLogger(internal.LogLevelError))

	insertEvent(t, db, counterA, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), 2)
	insertEvent(t, db, counterA, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), 1)
	insertEvent(t, db, counterB, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC), 10)

	events, err := repo.ListEvents(context.Background(), core.CounterID(counterA))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.True(t, events[0].OccurredAt.Equal(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(1), events[0].Value)
	assert.Equal(t, int64(2), events[1].Value)

	all, err := repo.ListEvents(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(13), core.SumValues(all))
}

func TestEventRepository_EmptyCounter(t *testing.T) {
	db := setupDB(t)
	repo := NewEventRepository(db, nil)

	events, err := repo.ListEvents(context.Background(), core.CounterID(counterA))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEventRepository_NullTimestamp(t *testing.T) {
	db := setupDB(t)
	repo := NewEventRepository(db, nil)

	_, err := db.Exec(`INSERT INTO datas (created_at, number, counter_ref) VALUES (NULL, 1, ?)`, counterA)
	require.NoError(t, err)

	_, err = repo.ListEvents(context.Background(), core.CounterID(counterA))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.True(t, stderrors.Is(err, core.ErrInvalidTimestamp))
}

func TestEventRepository_QueryFailure(t *testing.T) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	repo := NewEventRepository(db, nil)

	_, err = repo.ListEvents(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))
}

func TestEventRepository_Counters(t *testing.T) {
	db := setupDB(t)
	repo := NewEventRepository(db, nil)

	_, err := db.Exec(`INSERT INTO counters (id, name, created_at) VALUES (?, ?, ?), (?, ?, ?)`,
		counterB, "push-ups", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		counterA, "coffee", time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	counters, err := repo.ListCounters(context.Background())
	require.NoError(t, err)
	require.Len(t, counters, 2)
	assert.Equal(t, core.CounterID(counterA), counters[0].ID)
	assert.Equal(t, "coffee", counters[0].Name)
	assert.Equal(t, 2023, counters[0].CreatedAt.Year())

	counter, err := repo.GetCounter(context.Background(), core.CounterID(counterB))
	require.NoError(t, err)
	assert.Equal(t, "push-ups", counter.Name)

	_, err = repo.GetCounter(context.Background(), core.CounterID("missing"))
	assert.True(t, core.IsNotFoundError(err))
}
