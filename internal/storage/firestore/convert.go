package firestore

import (
	gfs "cloud.google.com/go/firestore"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

func toDocument(collection, id string, data map[string]any) domain.Document {
	fields := make(map[string]any, len(data))
	for k, v := range data {
		fields[k] = convertValue(v)
	}
	return domain.Document{ID: id, Collection: collection, Fields: fields}
}

// convertValue replaces Firestore document references with domain references,
// descending into arrays and maps. Every other value is returned as is.
func convertValue(v any) any {
	switch t := v.(type) {
	case *gfs.DocumentRef:
		return toReference(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = convertValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = convertValue(e)
		}
		return out
	default:
		return v
	}
}

// toReference keeps the innermost collection and id. A nil ref yields the zero
// Reference, which normalization rejects as malformed.
func toReference(ref *gfs.DocumentRef) domain.Reference {
	if ref == nil {
		return domain.Reference{}
	}
	r := domain.Reference{ID: ref.ID}
	if ref.Parent != nil {
		r.Collection = ref.Parent.ID
	}
	return r
}
