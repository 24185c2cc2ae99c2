package domain

import "context"

// DocumentStore is the read side of the document database.
//
// ListDocuments fails with an error wrapping ErrStoreUnavailable when the collection
// cannot be read. GetDocument returns an error wrapping ErrNotFound when the referenced
// document does not exist; any other error is a transport failure.
type DocumentStore interface {
	ListDocuments(ctx context.Context, collection string) ([]Document, error)
	GetDocument(ctx context.Context, ref Reference) (Document, error)
}
