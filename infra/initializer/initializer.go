// Package initializer wires configuration, logging, storage and services
// into the dependency set shared by the server and the sweeper.
package initializer

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sunubank/ledger/infra/repository"
	"github.com/sunubank/ledger/pkg/config"
	"github.com/sunubank/ledger/pkg/notification"
	"github.com/sunubank/ledger/pkg/service/ledger"
	"github.com/sunubank/ledger/pkg/service/lifecycle"
	"github.com/sunubank/ledger/pkg/service/opening"
	outboxworker "github.com/sunubank/ledger/pkg/service/outbox"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Deps holds everything a process entry point needs.
type Deps struct {
	Cfg       *config.App
	Logger    *slog.Logger
	DB        *gorm.DB
	Ledger    *ledger.Service
	Lifecycle *lifecycle.Service
	Opening   *opening.Service
	Outbox    *outboxworker.Worker
}

// NewDBConnection opens the postgres connection and configures the pool.
// Default transactions are skipped: atomicity comes from the unit of work,
// not from per-statement wrapping.
func NewDBConnection(cnf config.DB, appEnv string) (*gorm.DB, error) {
	if cnf.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	connection, err := gorm.Open(postgres.Open(cnf.Url), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return connection, nil
}

// InitializeDependencies loads configuration, connects storage, migrates
// the schema and builds the services.
func InitializeDependencies() (*Deps, error) {
	bootLogger := slog.Default()
	cfg, err := config.Load(bootLogger)
	if err != nil {
		return nil, err
	}

	log := SetupLogger(cfg.Log)

	db, err := NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, err
	}

	uow := repository.NewUoW(db)
	notifier := &notification.LogNotifier{Logger: log}

	return &Deps{
		Cfg:       cfg,
		Logger:    log,
		DB:        db,
		Ledger:    ledger.New(uow, log, cfg.Ledger.MaxRetries),
		Lifecycle: lifecycle.New(uow, log, cfg.Ledger.MaxRetries),
		Opening:   opening.New(uow, log),
		Outbox: outboxworker.NewWorker(
			uow, notifier, log,
			cfg.Outbox.PollInterval, cfg.Outbox.BatchSize,
		),
	}, nil
}
