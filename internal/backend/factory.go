package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"fintrack/internal/amqp"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	kv, err := f.createKV(config)
	if err != nil {
		return nil, err
	}

	instanceID := config.InstanceID
	if instanceID == "" {
		instanceID = uuid.NewString()
	}

	// Change notifications are optional
	var notifier *amqp.Client
	if config.AMQPURL != "" {
		queue := config.AMQPExchange + "." + instanceID
		notifier, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, queue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change notifications", "error", err)
			notifier = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", queue)
		}
	}

	opts := []services.StoreOption{services.WithInstanceID(instanceID)}
	if notifier != nil {
		opts = append(opts, services.WithPublisher(notifier))
	}
	if config.Clock != nil {
		opts = append(opts, services.WithClock(config.Clock))
	}

	store, err := services.NewTransactionStore(ctx, kv, opts...)
	if err != nil {
		if notifier != nil {
			_ = notifier.Close()
		}
		_ = kv.Close()
		return nil, fmt.Errorf("load transaction store: %w", err)
	}

	f.logger.Info("Initialized backend",
		"type", config.Type,
		"instance_id", instanceID,
		"amqp_enabled", notifier != nil)

	return &BackendResult{
		KV:          kv,
		Store:       store,
		Preferences: services.NewPreferences(kv),
		Notifier:    notifier,
		Cleanup: func() error {
			var errs []error
			if notifier != nil {
				errs = append(errs, notifier.Close())
			}
			errs = append(errs, store.Close())
			return errors.Join(errs...)
		},
	}, nil
}

func (f *DefaultFactory) createKV(config Config) (storage.KVStore, error) {
	switch config.Type {
	case SQLiteBackend:
		kv, err := storage.NewSQLiteKV(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite storage: %w", err)
		}
		f.logger.Info("Initialized SQLite storage", "db_path", config.SQLiteDBPath)
		return kv, nil
	case MemoryBackend:
		f.logger.Info("Initialized memory storage; data is lost on exit")
		return storage.NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
