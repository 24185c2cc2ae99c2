package service

import (
	"context"
	"sync"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

// State is what a consumer observes of a Query: pending (Loading), success or failure.
type State struct {
	Projects []domain.Project
	Loading  bool
	Err      error
}

// Query is a single-shot asynchronous fetch. It moves from pending to exactly one of
// success or failure, unless the context given to Start is cancelled first, in which
// case it never transitions.
type Query struct {
	fetch func(context.Context) ([]domain.Project, error)

	once  sync.Once
	mu    sync.RWMutex
	state State
	done  chan struct{}
}

func NewQuery(fetch func(context.Context) ([]domain.Project, error)) *Query {
	return &Query{
		fetch: fetch,
		state: State{Loading: true},
		done:  make(chan struct{}),
	}
}

// Start launches the fetch in the background. Calls after the first are no-ops.
func (q *Query) Start(ctx context.Context) {
	q.once.Do(func() {
		go func() {
			projects, err := q.fetch(ctx)
			if ctx.Err() != nil {
				return
			}

			q.mu.Lock()
			if err != nil {
				q.state = State{Err: err}
			} else {
				q.state = State{Projects: projects}
			}
			q.mu.Unlock()
			close(q.done)
		}()
	})
}

func (q *Query) State() State {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.state
}

// Done is closed once the query has transitioned out of pending.
func (q *Query) Done() <-chan struct{} {
	return q.done
}

// Wait blocks until the query settles or ctx is done.
func (q *Query) Wait(ctx context.Context) (State, error) {
	select {
	case <-q.done:
		return q.State(), nil
	case <-ctx.Done():
		return q.State(), ctx.Err()
	}
}
