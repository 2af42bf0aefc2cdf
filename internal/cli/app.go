package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/emiliopalmerini/pausa/internal/adapters/i18n"
	"github.com/emiliopalmerini/pausa/internal/adapters/logger"
	"github.com/emiliopalmerini/pausa/internal/adapters/turso"
	"github.com/emiliopalmerini/pausa/internal/infrastructure/config"
	"github.com/emiliopalmerini/pausa/internal/migrate"
	"github.com/emiliopalmerini/pausa/internal/ports"
)

// testDBOverride allows tests to inject a database connection.
// When set, NewAppContext uses it instead of opening the configured database.
var testDBOverride *sql.DB

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	DB         *turso.DB
	Config     *config.Config
	Counter    ports.CounterRepository
	Outcomes   ports.OutcomeRepository
	Stats      ports.StatsRepository
	Logger     ports.Logger
	Translator ports.Translator

	closeLog func() error
}

// NewAppContext loads the configuration, opens the database and builds the
// repositories. With migrateSchema set, pending migrations are applied first.
func NewAppContext(ctx context.Context, migrateSchema bool) (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	fileLog := logger.NewFileLogger(cfg.Debug)
	a := &AppContext{
		Config:   cfg,
		Logger:   fileLog,
		closeLog: fileLog.Close,
	}

	sqlDB := testDBOverride
	if sqlDB == nil {
		db, err := turso.Open(turso.Options{
			URL:       cfg.Database.URL,
			AuthToken: cfg.Database.AuthToken,
			Path:      cfg.Database.Path,
			Ping:      true,
		})
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.DB = db
		sqlDB = db.DB
	}

	if migrateSchema {
		if err := migrate.RunAll(ctx, sqlDB); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	translator, err := i18n.New(cfg.Locale)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}
	a.Translator = translator

	repos := turso.NewRepositories(sqlDB)
	a.Counter = repos.Counter
	a.Outcomes = repos.Outcomes
	a.Stats = repos.Stats

	a.Logger.Debug(fmt.Sprintf("Opened database (url=%t, path=%q)", cfg.Database.URL != "", cfg.Database.Path))
	return a, nil
}

// SQL returns the underlying connection, for commands that work below the
// repositories.
func (a *AppContext) SQL() *sql.DB {
	if testDBOverride != nil {
		return testDBOverride
	}
	if a.DB == nil {
		return nil
	}
	return a.DB.DB
}

// Sync pushes local writes of an embedded replica to the remote database.
// Failures only warn: the data is safe locally and goes up with the next sync.
func (a *AppContext) Sync() {
	if a.DB == nil {
		return
	}
	if err := a.DB.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: sync failed: %v\n", err)
		a.Logger.Error(fmt.Sprintf("Sync failed: %v", err))
	}
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	var err error
	if a.DB != nil {
		err = a.DB.Close()
	}
	if a.closeLog != nil {
		if cerr := a.closeLog(); err == nil {
			err = cerr
		}
	}
	return err
}
