// Package audit runs catalogue cycles outside a request and reports what was dropped.
package audit

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/serp-db/serp-backend/internal/catalog/diag"
	"github.com/serp-db/serp-backend/internal/catalog/domain"
	"github.com/serp-db/serp-backend/internal/catalog/service"
)

// Runner runs one catalogue cycle.
type Runner interface {
	Run(ctx context.Context) (*service.Result, error)
}

// Summary counts the diagnostics of one cycle by reason.
type Summary struct {
	RunID    string
	Projects int
	Reasons  map[domain.DiagnosticReason]int
	Dropped  []domain.Diagnostic
}

// Run executes one cycle and summarises its diagnostics.
func Run(ctx context.Context, runner Runner) (Summary, error) {
	res, err := runner.Run(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		RunID:    res.RunID,
		Projects: len(res.Projects),
		Reasons:  diag.Summarize(res.Diagnostics),
		Dropped:  res.Diagnostics,
	}, nil
}

// Total is the number of diagnostics.
func (s Summary) Total() int {
	return len(s.Dropped)
}

// Write prints the summary, one reason per line in name order, followed by every diagnostic.
func (s Summary) Write(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "run %s: %d projects, %d diagnostics\n", s.RunID, s.Projects, s.Total()); err != nil {
		return err
	}

	reasons := make([]string, 0, len(s.Reasons))
	for r := range s.Reasons {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		if _, err := fmt.Fprintf(w, "  %-20s %d\n", r, s.Reasons[domain.DiagnosticReason(r)]); err != nil {
			return err
		}
	}

	for _, d := range s.Dropped {
		line := fmt.Sprintf("  - %s %s", d.Reason, d.Ref)
		if d.Field != "" {
			line += " field=" + d.Field
		}
		if d.Message != "" {
			line += ": " + d.Message
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
