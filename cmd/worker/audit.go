package main

import (
	"context"
	"os"

	"github.com/serp-db/serp-backend/internal/bootstrap"
	"github.com/serp-db/serp-backend/internal/catalog/audit"
)

// runAudit runs one cycle and prints the diagnostic summary.
func runAudit(ctx context.Context, app *bootstrap.App) error {
	summary, err := audit.Run(ctx, app.Catalog)
	if err != nil {
		return err
	}
	return summary.Write(os.Stdout)
}

func runSchedule(ctx context.Context, app *bootstrap.App) error {
	return audit.NewScheduler(app.Catalog, app.Config.Audit.Schedule, os.Stdout).Start(ctx)
}
