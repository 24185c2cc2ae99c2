package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
	"github.com/serp-db/serp-backend/internal/logging"
	"github.com/serp-db/serp-backend/internal/storage/docjson"
)

// Schema creates the documents table used by DocumentStore.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection  TEXT        NOT NULL,
	id          TEXT        NOT NULL,
	data        JSONB       NOT NULL DEFAULT '{}'::jsonb,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
)`

// DocumentStore keeps catalogue documents as JSONB rows, one per (collection, id).
// References and timestamps use the docjson tagged encoding.
type DocumentStore struct {
	db *sql.DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// EnsureSchema creates the documents table when missing.
func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

// ListDocuments returns every document of collection ordered by id. Rows whose data
// is not a JSON object are skipped with a warning; only query and scan failures fail the listing.
func (s *DocumentStore) ListDocuments(ctx context.Context, collection string) ([]domain.Document, error) {
	query := `SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, s.unavailable(ctx, fmt.Errorf("list %s: %w", collection, err))
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, s.unavailable(ctx, fmt.Errorf("scan %s: %w", collection, err))
		}
		fields, err := docjson.DecodeFields(data)
		if err != nil {
			logging.NewLogger(ctx).LogWarnf("postgres.list_documents", "skipping %s/%s: %v", collection, id, err)
			continue
		}
		docs = append(docs, domain.Document{ID: id, Collection: collection, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, s.unavailable(ctx, fmt.Errorf("list %s: %w", collection, err))
	}

	return docs, nil
}

// GetDocument reads a single document. A missing row yields domain.ErrNotFound.
func (s *DocumentStore) GetDocument(ctx context.Context, ref domain.Reference) (domain.Document, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	var data []byte
	err := s.db.QueryRowContext(ctx, query, ref.Collection, ref.ID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, ref)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Document{}, ctxErr
		}
		return domain.Document{}, fmt.Errorf("get %s: %w", ref, err)
	}

	fields, err := docjson.DecodeFields(data)
	if err != nil {
		return domain.Document{}, fmt.Errorf("decode %s: %w", ref, err)
	}
	return domain.Document{ID: ref.ID, Collection: ref.Collection, Fields: fields}, nil
}

// Put upserts a document.
func (s *DocumentStore) Put(ctx context.Context, doc domain.Document) error {
	data, err := docjson.EncodeFields(doc.Fields)
	if err != nil {
		return fmt.Errorf("encode %s: %w", doc.Ref(), err)
	}

	query := `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, doc.Collection, doc.ID, data); err != nil {
		return fmt.Errorf("failed to put %s: %w", doc.Ref(), err)
	}
	return nil
}

// Ping checks the connection.
func (s *DocumentStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *DocumentStore) unavailable(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}
