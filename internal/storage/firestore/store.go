// Package firestore reads catalogue documents from Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"

	gfs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
)

// Store implements domain.DocumentStore on a Firestore client.
type Store struct {
	client *gfs.Client
}

// NewStore wraps an existing Firestore client.
func NewStore(client *gfs.Client) *Store {
	return &Store{client: client}
}

// Open creates a Firestore client from a Firebase app.
func Open(ctx context.Context, app *firebase.App) (*Store, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}
	return NewStore(client), nil
}

// ListDocuments returns every document in collection, ordered by document id.
func (s *Store) ListDocuments(ctx context.Context, collection string) ([]domain.Document, error) {
	snaps, err := s.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: list %s: %w", domain.ErrStoreUnavailable, collection, err)
	}

	docs := make([]domain.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, toDocument(collection, snap.Ref.ID, snap.Data()))
	}
	return docs, nil
}

// GetDocument reads the document ref points at.
func (s *Store) GetDocument(ctx context.Context, ref domain.Reference) (domain.Document, error) {
	if !ref.Valid() {
		return domain.Document{}, fmt.Errorf("%w: %q", domain.ErrMalformedReference, ref.String())
	}

	doc := s.client.Collection(ref.Collection).Doc(ref.ID)
	if doc == nil {
		return domain.Document{}, fmt.Errorf("%w: %q", domain.ErrMalformedReference, ref.String())
	}

	snap, err := doc.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, ref)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Document{}, ctxErr
		}
		return domain.Document{}, fmt.Errorf("get %s: %w", ref, err)
	}
	return toDocument(ref.Collection, ref.ID, snap.Data()), nil
}

// Ping reads at most one project to check connectivity and permissions.
func (s *Store) Ping(ctx context.Context) error {
	it := s.client.Collection(domain.CollectionProjects).Limit(1).Documents(ctx)
	defer it.Stop()

	_, err := it.Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
