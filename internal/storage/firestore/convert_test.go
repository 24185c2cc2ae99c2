package firestore

import (
	"testing"
	"time"

	gfs "cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

func docRef(collection, id string) *gfs.DocumentRef {
	return &gfs.DocumentRef{
		ID:     id,
		Path:   "projects/demo/databases/(default)/documents/" + collection + "/" + id,
		Parent: &gfs.CollectionRef{ID: collection},
	}
}

func TestToDocument_ConvertsReferences(t *testing.T) {
	when := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	doc := toDocument("Projects", "p1", map[string]any{
		"title":       "Solar Oven",
		"lastUpdated": when,
		"creators":    []any{docRef("creators", "ada"), docRef("creators", "grace")},
		"owner":       docRef("creators", "ada"),
		"meta":        map[string]any{"source": docRef("Projects", "p0")},
	})

	assert.Equal(t, domain.NewReference("Projects", "p1"), doc.Ref())
	assert.Equal(t, "Solar Oven", doc.Fields["title"])
	assert.Equal(t, when, doc.Fields["lastUpdated"])
	assert.Equal(t, []any{
		domain.NewReference("creators", "ada"),
		domain.NewReference("creators", "grace"),
	}, doc.Fields["creators"])
	assert.Equal(t, domain.NewReference("creators", "ada"), doc.Fields["owner"])
	assert.Equal(t, map[string]any{"source": domain.NewReference("Projects", "p0")}, doc.Fields["meta"])
}

func TestToReference_Nil(t *testing.T) {
	ref := toReference(nil)
	assert.False(t, ref.Valid())

	orphan := toReference(&gfs.DocumentRef{ID: "x"})
	assert.Equal(t, domain.Reference{ID: "x"}, orphan)
}
