package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

const (
	runKeyPrefix   = "catalog:run:" // catalog:run:{run_id}
	runIndexKey    = "catalog:runs" // newest first
	maxIndexedRuns = 100
	defaultRunTTL  = 7 * 24 * time.Hour
)

// RunRepository stores cycle reports in Redis.
type RunRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRunRepository creates a new RunRepository. A non-positive ttl keeps reports for 7 days.
func NewRunRepository(client *redis.Client, ttl time.Duration) *RunRepository {
	if ttl <= 0 {
		ttl = defaultRunTTL
	}
	return &RunRepository{client: client, ttl: ttl}
}

// Save writes the report and pushes its id onto the recent-runs index.
func (r *RunRepository) Save(ctx context.Context, report domain.CycleReport) error {
	if report.RunID == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrValidation)
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.runKey(report.RunID), data, r.ttl)
	pipe.LPush(ctx, runIndexKey, report.RunID)
	pipe.LTrim(ctx, runIndexKey, 0, maxIndexedRuns-1)
	pipe.Expire(ctx, runIndexKey, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}
	return nil
}

// Get retrieves a report by run id.
func (r *RunRepository) Get(ctx context.Context, runID string) (*domain.CycleReport, error) {
	data, err := r.client.Get(ctx, r.runKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}

	var report domain.CycleReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run report: %w", err)
	}
	return &report, nil
}

// ListRecent returns up to limit reports, newest first. Expired reports are skipped.
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]domain.CycleReport, error) {
	if limit <= 0 || limit > maxIndexedRuns {
		limit = maxIndexedRuns
	}

	ids, err := r.client.LRange(ctx, runIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	reports := make([]domain.CycleReport, 0, len(ids))
	if len(ids) == 0 {
		return reports, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.runKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load runs: %w", err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var report domain.CycleReport
		if err := json.Unmarshal([]byte(s), &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run %s: %w", ids[i], err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (r *RunRepository) runKey(runID string) string {
	return runKeyPrefix + runID
}
