package diag

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

func TestCollector_ConcurrentReports(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Report(context.Background(), domain.Diagnostic{Reason: domain.ReasonNotFound})
		}()
	}
	wg.Wait()
	assert.Len(t, c.Diagnostics(), 50)
}

func TestMulti_FansOutAndSkipsNil(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	s := Multi(a, nil, b)

	d := domain.Diagnostic{Owner: "p1", Reason: domain.ReasonValidation, Field: "link"}
	s.Report(context.Background(), d)

	assert.Equal(t, []domain.Diagnostic{d}, a.Diagnostics())
	assert.Equal(t, []domain.Diagnostic{d}, b.Diagnostics())
}

func TestSummarize(t *testing.T) {
	got := Summarize([]domain.Diagnostic{
		{Reason: domain.ReasonNotFound},
		{Reason: domain.ReasonNotFound},
		{Reason: domain.ReasonValidation},
	})
	assert.Equal(t, 2, got[domain.ReasonNotFound])
	assert.Equal(t, 1, got[domain.ReasonValidation])
	assert.Zero(t, got[domain.ReasonProjectFailure])
}
