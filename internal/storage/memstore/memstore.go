// Package memstore is an in-memory DocumentStore. It backs local development (seeded
// from a JSON file) and lets tests inject store faults per collection or reference.
package memstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
	"github.com/serp-db/serp-backend/internal/storage/docjson"
)

type Store struct {
	mu    sync.RWMutex
	docs  map[string]map[string]domain.Document
	order map[string][]string

	listErr  map[string]error
	getErr   map[domain.Reference]error
	getPanic map[domain.Reference]any
	delay    map[domain.Reference]time.Duration

	gets atomic.Int64
}

func New() *Store {
	return &Store{
		docs:     make(map[string]map[string]domain.Document),
		order:    make(map[string][]string),
		listErr:  make(map[string]error),
		getErr:   make(map[domain.Reference]error),
		getPanic: make(map[domain.Reference]any),
		delay:    make(map[domain.Reference]time.Duration),
	}
}

// Load builds a store from a seed document (see docjson.DecodeCollections).
func Load(r io.Reader) (*Store, error) {
	colls, err := docjson.DecodeCollections(r)
	if err != nil {
		return nil, err
	}
	s := New()
	for coll, docs := range colls {
		for _, d := range docs {
			s.Put(coll, d.ID, d.Fields)
		}
	}
	return s, nil
}

func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Put inserts or replaces a document. New documents list after existing ones.
func (s *Store) Put(collection, id string, fields map[string]any) domain.Reference {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.docs[collection]
	if !ok {
		coll = make(map[string]domain.Document)
		s.docs[collection] = coll
	}
	if _, exists := coll[id]; !exists {
		s.order[collection] = append(s.order[collection], id)
	}
	coll[id] = domain.NewDocument(collection, id, fields)
	return domain.NewReference(collection, id)
}

func (s *Store) Delete(ref domain.Reference) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.docs[ref.Collection]
	if !ok {
		return
	}
	if _, exists := coll[ref.ID]; !exists {
		return
	}
	delete(coll, ref.ID)
	ids := s.order[ref.Collection]
	for i, id := range ids {
		if id == ref.ID {
			s.order[ref.Collection] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
}

// FailList makes ListDocuments on collection fail with err.
func (s *Store) FailList(collection string, err error) {
	s.mu.Lock()
	s.listErr[collection] = err
	s.mu.Unlock()
}

// FailGet makes GetDocument on ref fail with err.
func (s *Store) FailGet(ref domain.Reference, err error) {
	s.mu.Lock()
	s.getErr[ref] = err
	s.mu.Unlock()
}

// PanicOnGet makes GetDocument on ref panic with v.
func (s *Store) PanicOnGet(ref domain.Reference, v any) {
	s.mu.Lock()
	s.getPanic[ref] = v
	s.mu.Unlock()
}

// DelayGet makes GetDocument on ref wait d (or until ctx is done) before answering.
func (s *Store) DelayGet(ref domain.Reference, d time.Duration) {
	s.mu.Lock()
	s.delay[ref] = d
	s.mu.Unlock()
}

// Gets reports how many GetDocument calls were made.
func (s *Store) Gets() int64 {
	return s.gets.Load()
}

func (s *Store) ListDocuments(ctx context.Context, collection string) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.listErr[collection]; err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", domain.ErrStoreUnavailable, collection, err)
	}
	ids := s.order[collection]
	out := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		d := s.docs[collection][id]
		out = append(out, domain.NewDocument(d.Collection, d.ID, d.Fields))
	}
	return out, nil
}

func (s *Store) GetDocument(ctx context.Context, ref domain.Reference) (domain.Document, error) {
	s.gets.Add(1)

	s.mu.RLock()
	delay := s.delay[ref]
	pv, panics := s.getPanic[ref]
	getErr := s.getErr[ref]
	s.mu.RUnlock()

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return domain.Document{}, ctx.Err()
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}
	if panics {
		panic(pv)
	}
	if getErr != nil {
		return domain.Document{}, getErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[ref.Collection][ref.ID]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, ref)
	}
	return domain.NewDocument(d.Collection, d.ID, d.Fields), nil
}

// Ping always succeeds; it lets the store serve health checks.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}
