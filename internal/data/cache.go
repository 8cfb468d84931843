package data

import (
	"fmt"
	"sync"
	"time"

	"energy-lsmc/internal/lsmc"
	"energy-lsmc/internal/model"

	"github.com/google/uuid"
)

// Valuation is a finished valuation kept so its paths can be requested
// after the fact. Exactly one of Storage and Swing is set.
type Valuation struct {
	ID        string
	Kind      model.ContractKind
	CreatedAt time.Time

	Storage *lsmc.StorageResult
	Swing   *lsmc.SwingResult
}

func (v *Valuation) Price() float64 {
	if v.Storage != nil {
		return v.Storage.Price
	}
	if v.Swing != nil {
		return v.Swing.Price
	}
	return 0
}

func (v *Valuation) Scenarios() int {
	if v.Storage != nil {
		return v.Storage.Prices.Scenarios()
	}
	if v.Swing != nil {
		return v.Swing.Prices.Scenarios()
	}
	return 0
}

// Path reconstructs the policy path of one scenario.
func (v *Valuation) Path(scenario int) (*lsmc.Path, error) {
	switch {
	case v.Storage != nil:
		return v.Storage.Path(scenario)
	case v.Swing != nil:
		return v.Swing.Path(scenario)
	default:
		return nil, fmt.Errorf("valuation %s has no result", v.ID)
	}
}

type storeEntry struct {
	valuation *Valuation
	expiresAt time.Time
}

// ResultStore keeps valuations in memory for a fixed TTL.
type ResultStore struct {
	mu    sync.RWMutex
	store map[string]*storeEntry
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewResultStore starts a store whose entries expire after ttl. Expired
// entries are swept every sweep interval; sweep <= 0 disables the sweeper.
func NewResultStore(ttl, sweep time.Duration) *ResultStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	s := &ResultStore{
		store: make(map[string]*storeEntry),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if sweep > 0 {
		go s.cleanup(sweep)
	}
	return s
}

// Put stores v under a fresh id (unless v already has one) and returns it.
func (s *ResultStore) Put(v *Valuation) string {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := s.now()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[v.ID] = &storeEntry{valuation: v, expiresAt: now.Add(s.ttl)}
	return v.ID
}

// Get returns a stored valuation if present and not expired.
func (s *ResultStore) Get(id string) (*Valuation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.store[id]
	if !ok || s.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.valuation, true
}

func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.store)
}

// Close stops the sweeper.
func (s *ResultStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *ResultStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictExpired()
		}
	}
}

func (s *ResultStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, entry := range s.store {
		if now.After(entry.expiresAt) {
			delete(s.store, id)
		}
	}
}
