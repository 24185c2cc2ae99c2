package domain

import (
	"fmt"
	"strings"
)

// Reference is a lookup key for a document in another collection.
// Two references are equal iff both components match, so the struct is comparable.
type Reference struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
}

func NewReference(collection, id string) Reference {
	return Reference{Collection: collection, ID: id}
}

// ParseReference parses "collection/id" (a leading slash is tolerated).
func ParseReference(path string) (Reference, error) {
	path = strings.TrimPrefix(strings.TrimSpace(path), "/")
	coll, id, ok := strings.Cut(path, "/")
	if !ok || coll == "" || id == "" || strings.Contains(id, "/") {
		return Reference{}, fmt.Errorf("%w: %q", ErrMalformedReference, path)
	}
	return Reference{Collection: coll, ID: id}, nil
}

func (r Reference) String() string {
	return r.Collection + "/" + r.ID
}

// Valid reports whether both components are set.
func (r Reference) Valid() bool {
	return strings.TrimSpace(r.Collection) != "" && strings.TrimSpace(r.ID) != ""
}
