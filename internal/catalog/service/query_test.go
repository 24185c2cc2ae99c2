package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

func TestQuery_Success(t *testing.T) {
	q := NewCatalogService(seed(t), Config{}).Query()
	assert.True(t, q.State().Loading)

	q.Start(context.Background())
	st, err := q.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)
	assert.Len(t, st.Projects, 2)
}

func TestQuery_Failure(t *testing.T) {
	store := seed(t)
	store.FailList("Projects", errors.New("offline"))
	q := NewCatalogService(store, Config{}).Query()

	q.Start(context.Background())
	st, err := q.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Loading)
	assert.ErrorIs(t, st.Err, domain.ErrStoreUnavailable)
	assert.Empty(t, st.Projects)
}

func TestQuery_CancelledNeverTransitions(t *testing.T) {
	started := make(chan struct{})
	q := NewQuery(func(ctx context.Context) ([]domain.Project, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx)
	<-started
	cancel()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer waitCancel()
	st, err := q.Wait(waitCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, st.Loading)
	assert.Nil(t, st.Err)
}

func TestQuery_StartOnce(t *testing.T) {
	calls := 0
	q := NewQuery(func(context.Context) ([]domain.Project, error) {
		calls++
		return []domain.Project{}, nil
	})
	q.Start(context.Background())
	q.Start(context.Background())
	<-q.Done()
	assert.Equal(t, 1, calls)
}
