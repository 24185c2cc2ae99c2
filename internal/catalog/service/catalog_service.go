package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/serp-db/serp-backend/internal/catalog/aggregator"
	"github.com/serp-db/serp-backend/internal/catalog/diag"
	"github.com/serp-db/serp-backend/internal/catalog/domain"
	"github.com/serp-db/serp-backend/internal/catalog/normalize"
	"github.com/serp-db/serp-backend/internal/catalog/resolver"
	"github.com/serp-db/serp-backend/internal/logging"
)

// Recorder persists the report of each completed cycle.
type Recorder interface {
	Save(ctx context.Context, report domain.CycleReport) error
}

// Config tunes a CatalogService. The zero value runs without timeout, limits or recording.
type Config struct {
	Timeout        time.Duration
	MaxConcurrency int
	Limiter        *rate.Limiter
	Sink           diag.Sink
	Recorder       Recorder
}

// CatalogService runs fetch-resolve cycles against one document store.
type CatalogService struct {
	store domain.DocumentStore
	cfg   Config
	now   func() time.Time
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(store domain.DocumentStore, cfg Config) *CatalogService {
	if cfg.Sink == nil {
		cfg.Sink = diag.Discard
	}
	return &CatalogService{store: store, cfg: cfg, now: time.Now}
}

// Result is the output of one successful cycle.
type Result struct {
	RunID       string
	Projects    []domain.Project
	Diagnostics []domain.Diagnostic
}

// cycle carries the per-run collaborators.
type cycle struct {
	collector  *diag.Collector
	resolver   *resolver.Resolver
	aggregator *aggregator.Aggregator
	logger     *logging.Logger
}

// Run lists every project and hydrates it. It returns exactly once: either the full
// hydrated list or a single *domain.FetchError. When ctx is cancelled the result is an
// error wrapping domain.ErrCancelled and no report is recorded.
func (s *CatalogService) Run(ctx context.Context) (*Result, error) {
	return s.execute(ctx, "catalog.run", func(ctx context.Context, c *cycle) (int, []domain.Project, error) {
		raw, err := s.store.ListDocuments(ctx, domain.CollectionProjects)
		if err != nil {
			return 0, nil, storeUnavailable("list projects", err)
		}
		projects, err := c.aggregator.Aggregate(ctx, raw)
		return len(raw), projects, err
	})
}

// MyProjects runs a cycle and keeps the projects one of whose creators carries externalID.
func (s *CatalogService) MyProjects(ctx context.Context, externalID string) (*Result, error) {
	res, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}
	res.Projects = OwnedBy(res.Projects, externalID)
	return res, nil
}

// InspirationBin hydrates the projects saved in the inspiration bin of the creator whose
// auth id is externalID. A user with no creator record has an empty bin.
func (s *CatalogService) InspirationBin(ctx context.Context, externalID string) (*Result, error) {
	return s.execute(ctx, "catalog.inspiration_bin", func(ctx context.Context, c *cycle) (int, []domain.Project, error) {
		raw, err := s.store.ListDocuments(ctx, domain.CollectionCreators)
		if err != nil {
			return 0, nil, storeUnavailable("list creators", err)
		}

		owner, doc, found := findCreator(raw, externalID)
		if !found {
			return 0, []domain.Project{}, nil
		}

		ownerRef := doc.Ref()
		_, issues := normalize.InspirationBin(doc)
		for _, issue := range issues {
			c.resolver.Sink().Report(ctx, binDiagnostic(ownerRef, domain.Reference{}, domain.ReasonMalformedReference, issue))
		}

		refs := make([]domain.Reference, 0, len(owner.InspirationBin))
		for _, ref := range owner.InspirationBin {
			if ref.Collection != domain.CollectionProjects {
				c.resolver.Sink().Report(ctx, binDiagnostic(ownerRef, ref, domain.ReasonMalformedReference,
					fmt.Errorf("%w: %q is not a project reference", domain.ErrMalformedReference, ref.String())))
				continue
			}
			refs = append(refs, ref)
		}
		if len(refs) == 0 {
			return 0, []domain.Project{}, nil
		}

		docs, err := s.fetchBin(ctx, c, ownerRef, refs)
		if err != nil {
			return 0, nil, err
		}
		projects, err := c.aggregator.Aggregate(ctx, docs)
		return len(docs), projects, err
	})
}

// fetchBin reads every saved project on its own, so a failed read drops only that entry.
// The result keeps the order of refs. Only cancellation is returned as an error.
func (s *CatalogService) fetchBin(ctx context.Context, c *cycle, owner domain.Reference, refs []domain.Reference) ([]domain.Document, error) {
	slots := make([][]domain.Document, len(refs))
	var g errgroup.Group
	if s.cfg.MaxConcurrency > 0 {
		g.SetLimit(s.cfg.MaxConcurrency)
	}
	for i, ref := range refs {
		g.Go(func() error {
			docs, err := c.resolver.Fetch(ctx, owner, domain.FieldInspirationBin, []domain.Reference{ref}, domain.KindProject)
			if err == nil {
				slots[i] = docs
				return nil
			}
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			c.resolver.Sink().Report(ctx, binDiagnostic(owner, ref, domain.ReasonProjectFailure, err))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.Document, 0, len(refs))
	for _, docs := range slots {
		out = append(out, docs...)
	}
	return out, nil
}

func binDiagnostic(owner, ref domain.Reference, reason domain.DiagnosticReason, err error) domain.Diagnostic {
	return domain.Diagnostic{
		Owner:   owner.String(),
		Ref:     ref,
		Reason:  reason,
		Field:   domain.FieldInspirationBin,
		Message: err.Error(),
	}
}

// Query returns a one-shot query over Run.
func (s *CatalogService) Query() *Query {
	return NewQuery(func(ctx context.Context) ([]domain.Project, error) {
		res, err := s.Run(ctx)
		if err != nil {
			return nil, err
		}
		return res.Projects, nil
	})
}

type cycleFunc func(ctx context.Context, c *cycle) (raw int, projects []domain.Project, err error)

func (s *CatalogService) execute(parent context.Context, op string, fn cycleFunc) (*Result, error) {
	runID := uuid.NewString()
	logger := logging.NewLogger(parent).With("run_id", runID)

	ctx := parent
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, s.cfg.Timeout)
		defer cancel()
	}

	collector := diag.NewCollector()
	r := resolver.New(s.store,
		resolver.WithSink(diag.Multi(collector, s.cfg.Sink)),
		resolver.WithConcurrency(s.cfg.MaxConcurrency),
		resolver.WithLimiter(s.cfg.Limiter),
	)
	c := &cycle{
		collector:  collector,
		resolver:   r,
		aggregator: aggregator.New(r, aggregator.WithConcurrency(s.cfg.MaxConcurrency)),
		logger:     logger,
	}

	report := domain.CycleReport{RunID: runID, StartedAt: s.now().UTC()}
	raw, projects, err := fn(ctx, c)

	if perr := parent.Err(); perr != nil {
		logger.LogInfof(op, "cancelled after %s", s.now().Sub(report.StartedAt))
		return nil, fmt.Errorf("%w: %w", domain.ErrCancelled, perr)
	}
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = &domain.FetchError{Op: op, Err: fmt.Errorf("%w after %s", domain.ErrTimeout, s.cfg.Timeout)}
	}

	report.CompletedAt = s.now().UTC()
	report.RawProjects = raw
	report.Diagnostics = collector.Diagnostics()
	if report.Diagnostics == nil {
		report.Diagnostics = []domain.Diagnostic{}
	}

	if err != nil {
		var fe *domain.FetchError
		if !errors.As(err, &fe) {
			err = &domain.FetchError{Op: op, Err: err}
		}
		report.Status = domain.RunStatusFailed
		report.Error = err.Error()
		logger.LogError(op, err)
		s.record(parent, logger, report)
		return nil, err
	}

	report.Status = domain.RunStatusSucceeded
	report.Projects = len(projects)
	logger.LogInfof(op, "hydrated %d of %d projects, %d diagnostics", len(projects), raw, len(report.Diagnostics))
	s.record(parent, logger, report)

	return &Result{RunID: runID, Projects: projects, Diagnostics: report.Diagnostics}, nil
}

func (s *CatalogService) record(ctx context.Context, logger *logging.Logger, report domain.CycleReport) {
	if s.cfg.Recorder == nil {
		return
	}
	if err := s.cfg.Recorder.Save(context.WithoutCancel(ctx), report); err != nil {
		logger.LogErrorf("catalog.record", "save run report: %v", err)
	}
}

func storeUnavailable(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		err = fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return &domain.FetchError{Op: op, Err: err}
}

// findCreator returns the first valid creator whose auth id equals externalID.
func findCreator(raw []domain.Document, externalID string) (domain.Creator, domain.Document, bool) {
	if externalID == "" {
		return domain.Creator{}, domain.Document{}, false
	}
	for _, doc := range raw {
		c, err := normalize.Creator(doc)
		if err != nil {
			continue
		}
		if c.ExternalAuthID == externalID {
			return c, doc, true
		}
	}
	return domain.Creator{}, domain.Document{}, false
}
