package datasets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/dataprocessing"
)

// ErrNotFound is returned for unknown or expired dataset ids
var ErrNotFound = errors.New("dataset not found")

// RemoveReason says why an entry left the store
type RemoveReason string

const (
	ReasonDeleted RemoveReason = "deleted"
	ReasonExpired RemoveReason = "expired"
	ReasonEvicted RemoveReason = "evicted"
)

// Entry is one stored dataset. The table is never modified after Put.
type Entry struct {
	ID        string
	Filename  string
	Size      int64
	Table     *dataprocessing.Table
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Options configures a MemoryStore
type Options struct {
	TTL           time.Duration
	MaxEntries    int
	SweepInterval time.Duration

	// OnRemove is called outside the lock for every entry that leaves the store
	OnRemove func(e Entry, reason RemoveReason)

	// Now overrides the clock in tests
	Now func() time.Time
}

// MemoryStore is a concurrency-safe, size-bounded dataset store
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	opts    Options
	logger  *slog.Logger
}

// NewMemoryStore creates a store. Non-positive options fall back to
// one-hour TTL, 64 entries and a one-minute sweep.
func NewMemoryStore(opts Options, logger *slog.Logger) *MemoryStore {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = 64
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryStore{
		entries: make(map[string]*Entry),
		opts:    opts,
		logger:  logger.With(slog.String("component", "dataset_store")),
	}
}

// Put stores t under a fresh id
func (s *MemoryStore) Put(filename string, size int64, t *dataprocessing.Table) (Entry, error) {
	if t == nil {
		return Entry{}, fmt.Errorf("cannot store a nil table")
	}

	now := s.opts.Now()
	entry := &Entry{
		ID:        uuid.NewString(),
		Filename:  filename,
		Size:      size,
		Table:     t,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.TTL),
	}

	var evicted []Entry
	s.mu.Lock()
	for len(s.entries) >= s.opts.MaxEntries {
		oldest := s.oldestLocked()
		if oldest == nil {
			break
		}
		delete(s.entries, oldest.ID)
		evicted = append(evicted, *oldest)
	}
	s.entries[entry.ID] = entry
	s.mu.Unlock()

	for _, e := range evicted {
		s.logger.Info("dataset evicted",
			slog.String("dataset_id", e.ID),
			slog.String("filename", e.Filename))
		s.notify(e, ReasonEvicted)
	}
	return *entry, nil
}

// Get returns the entry for id and pushes its expiry back by the TTL
func (s *MemoryStore) Get(id string) (Entry, error) {
	now := s.opts.Now()

	s.mu.Lock()
	entry, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if !now.Before(entry.ExpiresAt) {
		delete(s.entries, id)
		s.mu.Unlock()
		s.notify(*entry, ReasonExpired)
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	entry.ExpiresAt = now.Add(s.opts.TTL)
	out := *entry
	s.mu.Unlock()

	return out, nil
}

// Delete removes id from the store
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.notify(*entry, ReasonDeleted)
	return nil
}

// Len returns the number of stored entries, expired or not
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes entries that expired at or before now and returns how many
func (s *MemoryStore) Sweep(now time.Time) int {
	var expired []Entry
	s.mu.Lock()
	for id, entry := range s.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(s.entries, id)
			expired = append(expired, *entry)
		}
	}
	s.mu.Unlock()

	for _, e := range expired {
		s.notify(e, ReasonExpired)
	}
	return len(expired)
}

// Run sweeps expired entries every SweepInterval until ctx is done
func (s *MemoryStore) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	s.logger.Info("dataset janitor started",
		slog.Duration("ttl", s.opts.TTL),
		slog.Duration("interval", s.opts.SweepInterval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("dataset janitor stopped")
			return nil
		case <-ticker.C:
			if n := s.Sweep(s.opts.Now()); n > 0 {
				s.logger.Debug("expired datasets swept",
					slog.Int("removed", n),
					slog.Int("remaining", s.Len()))
			}
		}
	}
}

func (s *MemoryStore) oldestLocked() *Entry {
	var oldest *Entry
	for _, entry := range s.entries {
		if oldest == nil || entry.CreatedAt.Before(oldest.CreatedAt) {
			oldest = entry
		}
	}
	return oldest
}

func (s *MemoryStore) notify(e Entry, reason RemoveReason) {
	if s.opts.OnRemove != nil {
		s.opts.OnRemove(e, reason)
	}
}
