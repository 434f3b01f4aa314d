package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"tally/adapters/excel"
	"tally/adapters/postgres"
	"tally/app"
	"tally/internal"
	"tally/internal/config"
	"tally/internal/errors"
	"tally/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure, nil for file sources
	DB *sqlx.DB

	// Event access
	Source  ports.EventSource
	Catalog ports.CounterCatalog // nil for file sources

	// Services
	Reports *app.ReportService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{
		Config: cfg,
		Logger: internal.NewLogger(cfg.Log.Level),
	}, nil
}

// InitWithFile wires the file event source described by the config
func (c *Container) InitWithFile() error {
	sourceConfig := excel.DefaultSourceConfig(c.Config.Source.EventsFile)
	sourceConfig.SheetName = c.Config.Source.SheetName
	sourceConfig.DataPath = c.Config.Source.DataPath
	sourceConfig.Location = c.Config.Engine.Location()

	c.Source = excel.NewDataReader(sourceConfig, c.Logger)
	c.initServices()

	c.Logger.Debug("Container initialized with file source %s", sourceConfig.FilePath)
	return nil
}

// InitWithDatabase wires the SQL event source on an open connection
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	c.DB = db

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		return errors.DatabaseError("database connection test failed", err)
	}

	repo := postgres.NewEventRepository(db, c.Logger)
	c.Source, c.Catalog = repo, repo
	c.initServices()

	c.Logger.Debug("Container initialized with %s database", c.Config.Source.Kind)
	return nil
}

// Init connects whichever source the config selects
func (c *Container) Init(ctx context.Context) error {
	if c.Config.Source.Kind == config.SourceFile {
		return c.InitWithFile()
	}

	db, err := sqlx.Open(c.Config.Source.Driver(), c.Config.Source.DatabaseURL)
	if err != nil {
		return errors.DatabaseError("failed to open "+c.Config.Source.Kind+" database", err)
	}
	if err := c.InitWithDatabase(ctx, db); err != nil {
		db.Close()
		c.DB = nil
		return err
	}
	return nil
}

func (c *Container) initServices() {
	c.Reports = app.NewReportService(c.Source, c.Config.Engine.Clock(), c.Config.Engine.Location(), c.Logger)
}

// Shutdown releases the database connection, if any
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
