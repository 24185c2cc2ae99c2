// Package resolver hydrates sequences of references by fetching every target
// concurrently and compacting the results back into reference order.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/serp-db/serp-backend/internal/catalog/diag"
	"github.com/serp-db/serp-backend/internal/catalog/domain"
	"github.com/serp-db/serp-backend/internal/catalog/normalize"
)

type Option func(*Resolver)

// WithConcurrency bounds the number of in-flight fetches of one sequence. n <= 0 means unbounded.
func WithConcurrency(n int) Option {
	return func(r *Resolver) { r.limit = n }
}

// WithLimiter throttles every store read through l.
func WithLimiter(l *rate.Limiter) Option {
	return func(r *Resolver) { r.limiter = l }
}

func WithSink(s diag.Sink) Option {
	return func(r *Resolver) {
		if s != nil {
			r.sink = s
		}
	}
}

// Resolver is safe for concurrent use; it holds no per-call state.
type Resolver struct {
	store   domain.DocumentStore
	sink    diag.Sink
	limit   int
	limiter *rate.Limiter
}

func New(store domain.DocumentStore, opts ...Option) *Resolver {
	r := &Resolver{store: store, sink: diag.Discard}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sink returns the diagnostic sink the resolver reports to.
func (r *Resolver) Sink() diag.Sink {
	return r.sink
}

// Fetch loads the documents behind refs concurrently. The result keeps the relative
// order of refs; documents that do not exist are elided and reported.
//
// An error is returned only for references that are malformed or point outside
// kind's collection, for store failures other than not-found, and for cancellation.
func (r *Resolver) Fetch(ctx context.Context, owner domain.Reference, field string, refs []domain.Reference, kind domain.EntityKind) ([]domain.Document, error) {
	for _, ref := range refs {
		if !ref.Valid() || ref.Collection != kind.Collection() {
			return nil, fmt.Errorf("%s field %q: %w: %q is not a %s reference",
				owner, field, domain.ErrMalformedReference, ref.String(), kind)
		}
	}
	if len(refs) == 0 {
		return []domain.Document{}, nil
	}

	slots := make([]*domain.Document, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, ref := range refs {
		g.Go(func() error {
			doc, err := r.get(gctx, ref)
			switch {
			case err == nil:
				slots[i] = &doc
				return nil
			case errors.Is(err, domain.ErrNotFound):
				r.sink.Report(ctx, domain.Diagnostic{
					Owner:   owner.String(),
					Ref:     ref,
					Reason:  domain.ReasonNotFound,
					Field:   field,
					Message: err.Error(),
				})
				return nil
			default:
				return fmt.Errorf("fetch %s: %w", ref, err)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.Document, 0, len(refs))
	for _, doc := range slots {
		if doc != nil {
			out = append(out, *doc)
		}
	}
	return out, nil
}

// get performs one read, honouring the limiter and turning a store panic into an error.
func (r *Resolver) get(ctx context.Context, ref domain.Reference) (doc domain.Document, err error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return domain.Document{}, err
		}
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("store panic: %v", rec)
		}
	}()
	return r.store.GetDocument(ctx, ref)
}

// ResolveAll fetches refs and normalizes each document as kind. Positions whose target
// is missing or fails validation are dropped with a diagnostic; survivors keep their
// original relative order.
func ResolveAll[T domain.Entity](ctx context.Context, r *Resolver, owner domain.Reference, field string, refs []domain.Reference, kind domain.EntityKind) ([]T, error) {
	docs, err := r.Fetch(ctx, owner, field, refs, kind)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		e, err := normalize.Normalize(doc, kind)
		if err != nil {
			d := domain.Diagnostic{
				Owner:   owner.String(),
				Ref:     doc.Ref(),
				Reason:  domain.ReasonValidation,
				Field:   field,
				Message: err.Error(),
			}
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				d.Field = ve.Field
			}
			r.sink.Report(ctx, d)
			continue
		}
		t, ok := e.(T)
		if !ok {
			return nil, fmt.Errorf("resolve %s: %s does not hydrate to %T", owner, kind, t)
		}
		out = append(out, t)
	}
	return out, nil
}

// Creators resolves a creators reference sequence.
func (r *Resolver) Creators(ctx context.Context, owner domain.Reference, refs []domain.Reference) ([]domain.Creator, error) {
	return ResolveAll[domain.Creator](ctx, r, owner, domain.FieldCreators, refs, domain.KindCreator)
}

// Services resolves a ProductsAndServices reference sequence.
func (r *Resolver) Services(ctx context.Context, owner domain.Reference, refs []domain.Reference) ([]domain.Service, error) {
	return ResolveAll[domain.Service](ctx, r, owner, domain.FieldServices, refs, domain.KindService)
}
