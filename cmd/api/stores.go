package main

import (
	"context"
	"fmt"
	"time"

	"nutrilens/internal/applog"
	"nutrilens/internal/config"
	"nutrilens/internal/database"
	"nutrilens/internal/database/migration"
	"nutrilens/internal/repository"
	"nutrilens/internal/repository/memory"
	mongorepo "nutrilens/internal/repository/mongo"
	"nutrilens/internal/repository/postgres"
	"nutrilens/internal/storage"
)

// stores are the persistence dependencies chosen from configuration.
type stores struct {
	meals   repository.MealRepository
	users   repository.UserRepository
	uploads storage.Storage
	health  []database.Pinger
	closers []func(context.Context) error
}

func (s *stores) close(ctx context.Context, log *applog.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			log.Error("main", "close_failed", err, nil)
		}
	}
}

// openStores selects memory (DEV_MOCK), PostgreSQL or MongoDB records, and
// MinIO or local-disk uploads.
func openStores(ctx context.Context, cfg *config.AppConfig, log *applog.Logger) (*stores, error) {
	s := &stores{}

	switch {
	case cfg.DevMock:
		s.meals = memory.NewMealMemory()
		s.users = memory.NewUserMemory()
		log.Info("main", "store_selected", map[string]any{"store": "memory"})

	case cfg.Database.Driver == "mongo":
		m, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		s.closers = append(s.closers, m.Close)
		if err := m.EnsureIndexes(ctx); err != nil {
			s.close(ctx, log)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		s.meals = mongorepo.NewMealMongo(m.DB)
		s.users = mongorepo.NewUserMongo(m.DB)
		s.health = append(s.health, m)
		log.Info("main", "store_selected", map[string]any{"store": "mongo", "database": cfg.Mongo.Database})

	default:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		s.closers = append(s.closers, func(context.Context) error { return db.Close() })
		mctx, cancel := context.WithTimeout(ctx, time.Minute)
		err = migration.EnsureMigrated(mctx, db, log, cfg.Database.Host)
		cancel()
		if err != nil {
			s.close(ctx, log)
			return nil, err
		}
		s.meals = postgres.NewMealPostgres(db)
		s.users = postgres.NewUserPostgres(db)
		s.health = append(s.health, db)
		log.Info("main", "store_selected", map[string]any{"store": "postgres", "db_host": cfg.Database.Host})
	}

	if cfg.MinIO.Endpoint != "" {
		up, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			s.close(ctx, log)
			return nil, fmt.Errorf("init object storage: %w", err)
		}
		s.uploads = up
		return s, nil
	}
	up, err := storage.NewLocal(cfg.Upload.Dir)
	if err != nil {
		s.close(ctx, log)
		return nil, err
	}
	s.uploads = up
	return s, nil
}
