// Package deltaset keeps a collection of JSON records keyed by id, ordered newest first,
// and applies RFC 7386 merge patches to them.
package deltaset

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
)

type record struct {
	doc       json.RawMessage
	seq       int64
	createdAt time.Time
}

// Set is safe for concurrent use.
type Set struct {
	mu    sync.RWMutex
	items map[int64]*record
}

func New() *Set {
	return &Set{items: make(map[int64]*record)}
}

type header struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
}

// Seed replaces the collection with full records, as returned by an initial query.
// The record's "version" becomes the last applied sequence number.
func (s *Set) Seed(docs []json.RawMessage) error {
	items := make(map[int64]*record, len(docs))
	for _, doc := range docs {
		var h header
		if err := json.Unmarshal(doc, &h); err != nil {
			return fmt.Errorf("deltaset: decode record: %w", err)
		}
		items[h.ID] = &record{doc: doc, seq: h.Version, createdAt: h.CreatedAt}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Apply merges patch into the record with the given id, creating it when absent.
// A positive seq not greater than the last applied one is ignored and Apply returns false.
func (s *Set) Apply(id, seq int64, patch json.RawMessage) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[id]
	if ok && seq > 0 && seq <= cur.seq {
		return false, nil
	}

	base := json.RawMessage(`{}`)
	if ok {
		base = cur.doc
	}

	merged, err := jsonpatch.MergePatch(base, patch)
	if err != nil {
		return false, fmt.Errorf("deltaset: merge patch for %d: %w", id, err)
	}

	var h header
	if err := json.Unmarshal(merged, &h); err != nil {
		return false, fmt.Errorf("deltaset: decode merged record %d: %w", id, err)
	}

	next := &record{doc: merged, createdAt: h.CreatedAt, seq: seq}
	if ok && seq <= 0 {
		next.seq = cur.seq
	}
	s.items[id] = next
	return true, nil
}

// Remove drops a record.
func (s *Set) Remove(id int64) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// Get returns the current document for id.
func (s *Set) Get(id int64) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	if !ok {
		return nil, false
	}
	return r.doc, true
}

// Seq returns the last applied sequence number for id.
func (s *Set) Seq(id int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.items[id]; ok {
		return r.seq
	}
	return 0
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Items returns documents ordered by createdAt descending, ties broken by id descending.
func (s *Set) Items() []json.RawMessage {
	s.mu.RLock()
	type entry struct {
		id int64
		r  *record
	}
	entries := make([]entry, 0, len(s.items))
	for id, r := range s.items {
		entries = append(entries, entry{id: id, r: r})
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.r.createdAt.Equal(b.r.createdAt) {
			return a.r.createdAt.After(b.r.createdAt)
		}
		return a.id > b.id
	})

	out := make([]json.RawMessage, len(entries))
	for i, e := range entries {
		out[i] = e.r.doc
	}
	return out
}

// Decode unmarshals every item, in order, into a slice of T.
func Decode[T any](s *Set) ([]T, error) {
	items := s.Items()
	out := make([]T, 0, len(items))
	for _, doc := range items {
		var v T
		if err := json.Unmarshal(doc, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
