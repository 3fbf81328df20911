package repository

import (
	"context"
	"fmt"

	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/ingest"
	"github.com/shenikar/safe_route_system/internal/repository/memory"
	"github.com/shenikar/safe_route_system/internal/service"
	mongoclient "github.com/shenikar/safe_route_system/pkg/mongo"
	"github.com/shenikar/safe_route_system/pkg/postgres"
	"github.com/sirupsen/logrus"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend - настроенное хранилище инцидентов со всеми его ролями
type Backend struct {
	Store   service.IncidentStore
	Writer  ingest.IncidentWriter
	Heatmap service.HeatmapStore
	Pinger  Pinger
	close   func(ctx context.Context) error
}

// Close освобождает соединения хранилища
func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

type incidentBackend interface {
	GeoStore
	ingest.IncidentWriter
	service.HeatmapStore
	Pinger
}

// OpenBackend подключается к хранилищу, выбранному в STORE_BACKEND
func OpenBackend(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			return nil, fmt.Errorf("repository: %w: %w", service.ErrStoreUnavailable, err)
		}
		log.Info("Successfully connected to PostgreSQL")
		return newBackend(NewIncidentRepository(dbpool), cfg, log, func(context.Context) error {
			dbpool.Close()
			return nil
		}), nil

	case config.BackendMongo:
		client, err := mongoclient.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("repository: %w: %w", service.ErrStoreUnavailable, err)
		}
		repo := NewMongoIncidentRepository(client.Database(cfg.MongoDB).Collection(cfg.MongoCollection), log)
		if err := repo.EnsureIndexes(ctx); err != nil {
			// Без 2dsphere-индекса FindNear отказывает, это решает политика отказа геоиндекса
			log.WithError(err).Warn("Failed to ensure MongoDB indexes")
		}
		log.Info("Successfully connected to MongoDB")
		return newBackend(repo, cfg, log, client.Disconnect), nil

	case config.BackendMemory:
		log.Warn("Using in-memory incident store, data is lost on restart")
		return newBackend(memory.NewStore(), cfg, log, nil), nil

	default:
		return nil, fmt.Errorf("repository: %w: unknown backend %q", service.ErrStoreUnavailable, cfg.StoreBackend)
	}
}

func newBackend(store incidentBackend, cfg *config.Config, log *logrus.Logger, closeFn func(context.Context) error) *Backend {
	return &Backend{
		Store:   NewGeoPolicyStore(store, cfg.GeoFallbackPolicy, cfg.BoxScanLimit, log),
		Writer:  store,
		Heatmap: store,
		Pinger:  store,
		close:   closeFn,
	}
}
