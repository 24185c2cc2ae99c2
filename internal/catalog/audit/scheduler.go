package audit

import (
	"context"
	"fmt"
	"io"

	"github.com/robfig/cron/v3"

	"github.com/serp-db/serp-backend/internal/logging"
)

type Scheduler struct {
	runner Runner
	spec   string
	out    io.Writer
}

// NewScheduler runs an audit on spec, a cron expression with a leading seconds field.
func NewScheduler(runner Runner, spec string, out io.Writer) *Scheduler {
	return &Scheduler{runner: runner, spec: spec, out: out}
}

// Start schedules the audit and blocks until ctx is done. A run still in progress
// when the next tick fires is not overlapped.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	if _, err := c.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}

	logging.NewLogger(ctx).LogInfof("audit.schedule", "audit scheduler started (%s)", s.spec)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	logger := logging.NewLogger(ctx)

	summary, err := Run(ctx, s.runner)
	if err != nil {
		logger.LogErrorf("audit.run", "audit failed: %v", err)
		return
	}

	if err := summary.Write(s.out); err != nil {
		logger.LogErrorf("audit.run", "write summary: %v", err)
	}
}
