// Package session holds the per-session snapshot of the three tables.
// A snapshot is immutable once published: every upload produces a new
// complete snapshot that replaces the previous one atomically, so a
// concurrent reader never observes a half-written table.
package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vendapainel/vendapainel/internal/aggregate"
	"github.com/vendapainel/vendapainel/internal/dataset"
)

// Snapshot is the full ingestion result for one uploaded file. Either
// derived dataset may be nil, meaning that view is unavailable.
type Snapshot struct {
	ID         uuid.UUID                   `json:"id"`
	Filename   string                      `json:"filename"`
	UploadedAt time.Time                   `json:"uploadedAt"`
	Raw        *dataset.Table              `json:"raw,omitempty"`
	Customers  []aggregate.CustomerSummary `json:"customers,omitempty"`
	Franchise  *aggregate.FranchiseTable   `json:"franchise,omitempty"`
}

// HasCustomers reports whether the customer view is available.
func (s *Snapshot) HasCustomers() bool { return s != nil && len(s.Customers) > 0 }

// HasFranchise reports whether the franchise view is available.
func (s *Snapshot) HasFranchise() bool {
	return s != nil && s.Franchise != nil && len(s.Franchise.Rows) > 0
}

// Encode serializes the snapshot for client-side/session storage.
func (s *Snapshot) Encode() ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// LoadSnapshot restores a snapshot produced by Encode.
func LoadSnapshot(b []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

// Store is the session state holder: one current snapshot behind a
// read-write lock, replaced wholesale and never mutated in place.
type Store struct {
	mu  sync.RWMutex
	cur *Snapshot
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// Replace publishes a new snapshot, discarding the previous one.
func (st *Store) Replace(s *Snapshot) {
	st.mu.Lock()
	st.cur = s
	st.mu.Unlock()
}

// Current returns the published snapshot, or nil before any upload.
func (st *Store) Current() *Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.cur
}

// Clear discards the session state.
func (st *Store) Clear() { st.Replace(nil) }
