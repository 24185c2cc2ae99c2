package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/serp-db/serp-backend/config"
	"github.com/serp-db/serp-backend/internal/storage/postgres"
)

type DBOptions struct {
	ConnectTO time.Duration
}

// OpenPostgres opens the pgx pool, wraps it in database/sql and makes sure the
// documents table exists. The returned func closes both.
func OpenPostgres(ctx context.Context, cfg *config.DatabaseConfig, opt DBOptions) (*postgres.DocumentStore, func(), error) {
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	pool, err := postgres.OpenPool(cctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}

	db := postgres.NewConnection(pool)
	store := postgres.NewDocumentStore(db)
	if err := store.EnsureSchema(cctx); err != nil {
		_ = db.Close()
		pool.Close()
		return nil, nil, err
	}

	return store, func() {
		_ = db.Close()
		pool.Close()
	}, nil
}
