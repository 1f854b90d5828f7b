package main

import (
	"context"
	"fmt"

	"github.com/mind-engage/eduquiz/internal/config"
	"github.com/mind-engage/eduquiz/internal/db"
	"github.com/mind-engage/eduquiz/internal/session"
	"github.com/mind-engage/eduquiz/internal/storage"
	syncx "github.com/mind-engage/eduquiz/internal/sync"
)

type stores struct {
	kv     storage.KV
	events session.EventAppender // nil unless the store is SQL-backed
}

func openStore(ctx context.Context, cfg config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case "memory":
		return stores{kv: storage.NewMemoryStore()}, nil
	case "file":
		fs, err := storage.NewFSStore(cfg.StoreBasePath)
		if err != nil {
			return stores{}, err
		}
		return stores{kv: fs}, nil
	case "sqlite", "postgres":
		dbh, err := db.Open(ctx, db.Driver(cfg.StoreDriver), cfg.DBDSN)
		if err != nil {
			return stores{}, err
		}
		return stores{kv: storage.NewSQLStore(dbh), events: syncx.NewEventRepo(dbh)}, nil
	case "redis":
		rs, err := storage.NewRedisStore(ctx, storage.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return stores{}, err
		}
		return stores{kv: rs}, nil
	default:
		return stores{}, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
	}
}
