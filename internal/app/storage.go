package app

import (
	"context"
	"fmt"

	"production/internal/cache"
	"production/internal/config"
	"production/internal/storage"
)

// OpenStorage builds the backend named by cfg.Backend. The returned close
// func is never nil.
func OpenStorage(ctx context.Context, cfg config.Config) (storage.Storage, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendMemory:
		return cache.NewMem(), noop, nil
	case config.BackendSQLite:
		s, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case config.BackendPostgres:
		p, err := storage.NewPostgres(ctx, cfg.PGURL)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	case config.BackendS3:
		s, err := storage.NewS3(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
