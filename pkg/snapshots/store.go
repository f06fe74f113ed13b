// Package snapshots keeps reconciliation snapshots for the lifetime of the
// process. Nothing is written to disk.
package snapshots

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/assetmap/pkg/errors"
	"github.com/agentstation/assetmap/pkg/inventory"
)

// Store is an in-memory snapshot store safe for concurrent use. Stored
// snapshots are never modified; readers must treat them as read-only.
type Store struct {
	// mu serializes Promote so a draft is not promoted twice concurrently.
	mu    sync.Mutex
	items *gocache.Cache
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for creation dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		items: gocache.New(gocache.NoExpiration, 0),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a fresh snapshot ID.
func NewID() string {
	return uuid.NewString()
}

// Put stores snap. A missing ID or creation date is filled in before the
// snapshot is stored; the stored snapshot is returned.
func (s *Store) Put(snap *inventory.Snapshot) (*inventory.Snapshot, error) {
	if snap == nil {
		return nil, &errors.ValidationError{Field: "snapshot", Message: "cannot be nil"}
	}
	if snap.ID == "" {
		snap.ID = NewID()
	}
	if snap.DateCreated.IsZero() {
		snap.DateCreated = utc.New(s.now())
	}
	s.items.Set(snap.ID, snap, gocache.NoExpiration)
	return snap, nil
}

// Get returns the snapshot with the given ID.
func (s *Store) Get(id string) (*inventory.Snapshot, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError("snapshot", id)
	}
	return v.(*inventory.Snapshot), nil
}

// List returns every snapshot, newest first.
func (s *Store) List() []*inventory.Snapshot {
	items := s.items.Items()
	out := make([]*inventory.Snapshot, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(*inventory.Snapshot))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].DateCreated.Time, out[j].DateCreated.Time
		if a.Equal(b) {
			return out[i].ID < out[j].ID
		}
		return a.After(b)
	})
	return out
}

// Latest returns the newest snapshot.
func (s *Store) Latest() (*inventory.Snapshot, error) {
	list := s.List()
	if len(list) == 0 {
		return nil, errors.NewNotFoundError("snapshot", "latest")
	}
	return list[0], nil
}

// Promote copies a draft into a permanent snapshot with a new ID and label.
// The draft stays in the store.
func (s *Store) Promote(id, label string) (*inventory.Snapshot, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, &errors.ValidationError{Field: "label", Message: "period label is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !draft.Draft {
		return nil, &errors.ValidationError{Field: "draft", Value: id, Message: "snapshot is already permanent"}
	}

	promoted := draft.Copy()
	promoted.ID = NewID()
	promoted.PeriodLabel = label
	promoted.Draft = false
	promoted.DateCreated = utc.New(s.now())
	return s.Put(promoted)
}

// Delete removes the snapshot with the given ID.
func (s *Store) Delete(id string) error {
	if _, ok := s.items.Get(id); !ok {
		return errors.NewNotFoundError("snapshot", id)
	}
	s.items.Delete(id)
	return nil
}

// Len returns the number of stored snapshots.
func (s *Store) Len() int {
	return s.items.ItemCount()
}
