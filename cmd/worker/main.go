package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/serp-db/serp-backend/config"
	"github.com/serp-db/serp-backend/internal/bootstrap"
	"github.com/serp-db/serp-backend/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: worker audit | schedule | seed <file>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Init(cfg.App.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "audit":
		err = withApp(ctx, cfg, runAudit)
	case "schedule":
		err = withApp(ctx, cfg, runSchedule)
	case "seed":
		if len(os.Args) < 3 {
			log.Fatal("usage: worker seed <file>")
		}
		err = runSeed(ctx, cfg, os.Args[2])
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func withApp(ctx context.Context, cfg *config.Config, fn func(context.Context, *bootstrap.App) error) error {
	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}
