package bootstrap

import (
	"math"

	"golang.org/x/time/rate"

	"github.com/serp-db/serp-backend/config"
	"github.com/serp-db/serp-backend/internal/catalog/diag"
	"github.com/serp-db/serp-backend/internal/catalog/domain"
	"github.com/serp-db/serp-backend/internal/catalog/service"
)

// NewCatalogService wires the fetch-resolve cycle from configuration. recorder may be nil.
func NewCatalogService(cfg *config.CatalogConfig, store domain.DocumentStore, recorder service.Recorder) *service.CatalogService {
	sc := service.Config{
		Timeout:        cfg.FetchTimeout,
		MaxConcurrency: cfg.MaxConcurrency,
		Sink:           diag.LogSink{},
		Limiter:        newLimiter(cfg.ReadsPerSecond),
	}
	if recorder != nil {
		sc.Recorder = recorder
	}
	return service.NewCatalogService(store, sc)
}

// newLimiter allows bursts of one second's worth of reads. Zero disables throttling.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), int(math.Max(1, math.Ceil(rps))))
}
