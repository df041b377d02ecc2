// Package session holds the in-flight login attempts between the provider
// callback and the embedding page's status polling. Records are transient,
// single-use, and swept after a short TTL; nothing survives a restart.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/authrelay/authrelay/internal/oauth"
)

// Status is the lifecycle phase of a login attempt.
type Status string

const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// ErrStateExists means a state token collided with a live record. With
// 256-bit random tokens this indicates a broken RNG, not user input.
var ErrStateExists = errors.New("session: state already exists")

// Record is one login attempt, keyed by its state token.
type Record struct {
	State     string
	Status    Status
	CreatedAt time.Time

	// Set when Status is StatusComplete.
	Token oauth.Token
	User  *oauth.Identity

	// Set when Status is StatusError.
	Error string
}

// Store is a mutex-guarded map of pending and finished login attempts.
// Ownership of a key passes from the writer (start, then callback) to the
// first status poll that observes a terminal record, which also deletes it.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	records map[string]*Record
}

// New creates an empty store whose records expire after ttl.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		records: make(map[string]*Record),
	}
}

// Create inserts a pending record for state.
func (s *Store) Create(state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[state]; ok {
		return ErrStateExists
	}
	s.records[state] = &Record{
		State:     state,
		Status:    StatusPending,
		CreatedAt: s.now(),
	}
	return nil
}

// Complete transitions a pending record to complete with the exchanged
// token and verified identity. Unknown or already-terminal states are
// ignored: the record may have expired while the user sat on the consent
// screen, and the callback renders its page either way.
func (s *Store) Complete(state string, token oauth.Token, user *oauth.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[state]
	if !ok || rec.Status != StatusPending {
		return
	}
	rec.Status = StatusComplete
	rec.Token = token
	rec.User = user
}

// Fail transitions a pending record to error with a human-readable cause.
// Unknown or already-terminal states are ignored, as in Complete.
func (s *Store) Fail(state, cause string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[state]
	if !ok || rec.Status != StatusPending {
		return
	}
	rec.Status = StatusError
	rec.Error = cause
}

// Get returns a copy of the record for state without consuming it.
func (s *Store) Get(state string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[state]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Consume returns the record for state and, when it is terminal, deletes it
// in the same step so a second poll cannot observe it. Pending records are
// returned untouched. The check-and-delete happens under one lock hold;
// two racing polls for the same terminal state see one payload and one miss.
func (s *Store) Consume(state string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[state]
	if !ok {
		return Record{}, false
	}
	if rec.Status != StatusPending {
		delete(s.records, state)
	}
	return *rec, true
}

// Sweep deletes every record created more than the TTL before now,
// terminal or not, and reports how many were dropped.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	swept := 0
	for state, rec := range s.records {
		if now.Sub(rec.CreatedAt) > s.ttl {
			delete(s.records, state)
			swept++
		}
	}
	return swept
}

// Len reports the number of live records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Run sweeps expired records every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(s.now()); n > 0 {
				log.Debug().Int("swept", n).Msg("session store: purged expired records")
			}
		}
	}
}
