package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"

	"github.com/serp-db/serp-backend/config"
	"github.com/serp-db/serp-backend/internal/auth"
	cataloghttp "github.com/serp-db/serp-backend/internal/catalog/http"
	"github.com/serp-db/serp-backend/internal/catalog/repository"
	"github.com/serp-db/serp-backend/internal/catalog/service"
)

// App holds the long-lived dependencies shared by the api and worker binaries.
type App struct {
	Config   *config.Config
	Firebase *firebase.App
	Store    Store
	Redis    *redis.Client
	Runs     *repository.RunRepository
	Catalog  *service.CatalogService

	closers []func()
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	if cfg.Store.Backend == config.BackendFirestore || cfg.Auth.FirebaseAuthEnabled {
		fb, err := auth.NewFirebaseApp(ctx, &cfg.Store)
		if err != nil {
			return nil, err
		}
		a.Firebase = fb
	}

	store, closeStore, err := OpenStore(ctx, cfg, a.Firebase)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	a.Store = store
	a.closers = append(a.closers, closeStore)

	rdb, err := OpenRedis(ctx, cfg.Redis.URL)
	if err != nil {
		a.Close()
		return nil, err
	}

	var recorder service.Recorder
	if rdb != nil {
		a.Redis = rdb
		a.Runs = repository.NewRunRepository(rdb, cfg.Catalog.RunTTL)
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		recorder = a.Runs
	}

	a.Catalog = NewCatalogService(&cfg.Catalog, store, recorder)
	return a, nil
}

// RunReports returns the run repository as the handler interface, or a nil
// interface when Redis is not configured.
func (a *App) RunReports() cataloghttp.Runs {
	if a.Runs == nil {
		return nil
	}
	return a.Runs
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
