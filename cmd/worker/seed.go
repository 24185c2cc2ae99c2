package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/serp-db/serp-backend/config"
	"github.com/serp-db/serp-backend/internal/bootstrap"
	"github.com/serp-db/serp-backend/internal/logging"
	"github.com/serp-db/serp-backend/internal/storage/docjson"
)

// runSeed loads a seed file into the postgres documents table.
func runSeed(ctx context.Context, cfg *config.Config, path string) error {
	if cfg.Store.Backend != config.BackendPostgres {
		return fmt.Errorf("seed needs STORE_BACKEND=postgres, got %q", cfg.Store.Backend)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()

	colls, err := docjson.DecodeCollections(f)
	if err != nil {
		return err
	}

	store, closeStore, err := bootstrap.OpenPostgres(ctx, &cfg.Database, bootstrap.DBOptions{})
	if err != nil {
		return err
	}
	defer closeStore()

	names := make([]string, 0, len(colls))
	for name := range colls {
		names = append(names, name)
	}
	sort.Strings(names)

	logger := logging.NewLogger(ctx)
	for _, name := range names {
		for _, doc := range colls[name] {
			if err := store.Put(ctx, doc); err != nil {
				return err
			}
		}
		logger.LogInfof("seed", "%s: %d documents", name, len(colls[name]))
	}
	return nil
}
