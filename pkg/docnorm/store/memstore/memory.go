package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/docnorm/pkg/docnorm/document"
	"github.com/cognicore/docnorm/pkg/docnorm/store"
)

// Store is an in-memory implementation of store.Store.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*document.Document
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{docs: make(map[string]*document.Document)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// PutDocument implements store.Store.
func (s *Store) PutDocument(ctx context.Context, d *document.Document) error {
	if d == nil {
		return fmt.Errorf("put document: nil document")
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("put document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[d.ID] = d.Clone()
	return nil
}

// GetDocument implements store.Store.
func (s *Store) GetDocument(ctx context.Context, id string) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, store.ErrNotFound)
	}
	return d.Clone(), nil
}

// ListDocuments implements store.Store. Document IDs sort in creation order.
func (s *Store) ListDocuments(ctx context.Context, opts store.ListOptions) ([]store.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := []store.Summary{}
	for _, id := range ids {
		sum := store.Summarize(s.docs[id])
		if !opts.Matches(sum) {
			continue
		}
		out = append(out, sum)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

// DeleteDocument implements store.Store.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, store.ErrNotFound)
	}
	delete(s.docs, id)
	return nil
}
