package backend

import (
	"context"
	"fmt"
	"log/slog"

	"pointage/internal/amqp"
	"pointage/internal/services"
	"pointage/internal/store/memory"
	"pointage/internal/store/sqlite"
)

// DefaultFactory implements the Factory interface.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	repo, err := sqlite.NewRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional: without a broker the app runs, it just keeps no
	// asynchronous audit trail.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change events", "error", err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	service := services.NewRecordService(repo, amqpClient)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	cleanup := func() error {
		if err := service.Close(); err != nil {
			f.logger.Warn("Failed to close AMQP client", "error", err)
		}
		return repo.Close()
	}

	return &Result{
		Store:   repo,
		Service: service,
		Audit:   repo,
		Cleanup: cleanup,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*Result, error) {
	var st *memory.Store
	if config.DataDirectory != "" {
		st = memory.NewFromFiles(config.DataDirectory)
	} else {
		st = memory.New()
	}

	f.logger.Info("Initialized memory backend", "data_directory", config.DataDirectory)

	return &Result{
		Store:   st,
		Service: services.NewRecordService(st, nil),
		Audit:   st,
		Cleanup: nil,
	}, nil
}
