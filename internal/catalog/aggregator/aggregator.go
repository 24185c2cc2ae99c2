// Package aggregator hydrates raw project documents: each project's scalar fields are
// normalized and its creators and services are resolved, with every project isolated
// from the failures of the others.
package aggregator

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/serp-db/serp-backend/internal/catalog/diag"
	"github.com/serp-db/serp-backend/internal/catalog/domain"
	"github.com/serp-db/serp-backend/internal/catalog/normalize"
	"github.com/serp-db/serp-backend/internal/catalog/resolver"
)

type Option func(*Aggregator)

// WithConcurrency bounds how many projects hydrate at once. n <= 0 means unbounded.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) { a.limit = n }
}

type Aggregator struct {
	resolver *resolver.Resolver
	limit    int
}

func New(r *resolver.Resolver, opts ...Option) *Aggregator {
	a := &Aggregator{resolver: r}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is the outcome of hydrating one raw project.
type Result struct {
	Project domain.Project
	Err     error
}

// Aggregate hydrates every raw project concurrently and returns the survivors in input
// order. A project that fails validation or whose references cannot be resolved is
// omitted and reported; it never affects its siblings. The only error returned is the
// cancellation of ctx.
func (a *Aggregator) Aggregate(ctx context.Context, raw []domain.Document) ([]domain.Project, error) {
	results := a.HydrateAll(ctx, raw)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sink := a.resolver.Sink()
	out := make([]domain.Project, 0, len(raw))
	for i, res := range results {
		if res.Err != nil {
			sink.Report(ctx, projectDiagnostic(raw[i], res.Err))
			continue
		}
		out = append(out, res.Project)
	}
	return out, nil
}

// HydrateAll returns one Result per raw project, index-aligned with raw.
func (a *Aggregator) HydrateAll(ctx context.Context, raw []domain.Document) []Result {
	results := make([]Result, len(raw))

	var g errgroup.Group
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}
	for i, doc := range raw {
		g.Go(func() error {
			p, err := a.hydrate(ctx, doc)
			results[i] = Result{Project: p, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// hydrate is the per-project error boundary.
func (a *Aggregator) hydrate(ctx context.Context, doc domain.Document) (p domain.Project, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			p = domain.Project{}
			err = fmt.Errorf("%w: panic: %v", domain.ErrProjectFailure, rec)
		}
	}()

	p, err = normalize.Project(doc)
	if err != nil {
		return domain.Project{}, err
	}
	links, err := normalize.ProjectLinks(doc)
	if err != nil {
		return domain.Project{}, err
	}

	owner := doc.Ref()
	var creators []domain.Creator
	var services []domain.Service

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		creators, err = a.resolver.Creators(gctx, owner, links.Creators)
		return err
	})
	g.Go(func() error {
		var err error
		services, err = a.resolver.Services(gctx, owner, links.Services)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrMalformedReference) {
			return domain.Project{}, err
		}
		return domain.Project{}, fmt.Errorf("%w: %s: %w", domain.ErrProjectFailure, owner, err)
	}

	p.Creators = creators
	p.ProductsAndServices = services
	return p, nil
}

func projectDiagnostic(doc domain.Document, err error) domain.Diagnostic {
	d := domain.Diagnostic{
		Owner:   domain.CollectionProjects,
		Ref:     doc.Ref(),
		Reason:  domain.ReasonProjectFailure,
		Message: err.Error(),
	}
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		d.Reason = domain.ReasonValidation
		d.Field = ve.Field
	case errors.Is(err, domain.ErrMalformedReference):
		d.Reason = domain.ReasonMalformedReference
	}
	return d
}

// Sink returns the diagnostic sink shared with the resolver.
func (a *Aggregator) Sink() diag.Sink {
	return a.resolver.Sink()
}
