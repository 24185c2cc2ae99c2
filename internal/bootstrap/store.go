package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"

	"github.com/serp-db/serp-backend/config"
	"github.com/serp-db/serp-backend/internal/auth"
	"github.com/serp-db/serp-backend/internal/catalog/domain"
	"github.com/serp-db/serp-backend/internal/storage/firestore"
	"github.com/serp-db/serp-backend/internal/storage/memstore"
)

// Store is a document store that can report its health.
type Store interface {
	domain.DocumentStore
	Ping(ctx context.Context) error
}

// OpenStore opens the backend named by STORE_BACKEND. app is only used by the
// firestore backend and may be nil otherwise.
func OpenStore(ctx context.Context, cfg *config.Config, app *firebase.App) (Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendFirestore:
		if app == nil {
			var err error
			if app, err = auth.NewFirebaseApp(ctx, &cfg.Store); err != nil {
				return nil, nil, err
			}
		}
		fs, err := firestore.Open(ctx, app)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() { _ = fs.Close() }, nil

	case config.BackendPostgres:
		pg, closePG, err := OpenPostgres(ctx, &cfg.Database, DBOptions{})
		if err != nil {
			return nil, nil, err
		}
		return pg, closePG, nil

	case config.BackendMemory:
		if cfg.Store.SeedPath == "" {
			return memstore.New(), func() {}, nil
		}
		ms, err := memstore.LoadFile(cfg.Store.SeedPath)
		if err != nil {
			return nil, nil, err
		}
		return ms, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
