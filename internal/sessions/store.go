// Package sessions keeps explorer sessions for remote clients in a bounded
// least-recently-used store.
package sessions

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/explorer"
	"github.com/danmuck/blestack/internal/observability"
	"github.com/golang/groupcache/lru"
	"github.com/rs/zerolog/log"
	uuid "github.com/satori/go.uuid"
)

const DefaultCapacity = 256

var ErrNotFound = errors.New("sessions: not found")

// Store maps session ids to explorer sessions. When full, the least recently
// used session is evicted. Sessions are only touched under the store lock.
type Store struct {
	mu       sync.Mutex
	cat      *catalog.Catalog
	cache    *lru.Cache
	removing bool
}

// NewStore returns a store holding at most capacity sessions; capacity <= 0
// uses DefaultCapacity.
func NewStore(cat *catalog.Catalog, capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{cat: cat, cache: lru.New(capacity)}
	s.cache.OnEvicted = func(key lru.Key, _ interface{}) {
		if s.removing {
			return
		}
		live := s.cache.Len()
		log.Info().Str("session", fmt.Sprint(key)).Int("live", live).Msg("session evicted")
		observability.RecordSessionEvicted(live)
	}
	return s
}

func newID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	id, err := uuid.FromBytes(b)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Create starts a new session and returns its id and initial view.
func (s *Store) Create() (string, explorer.View, error) {
	id, err := newID()
	if err != nil {
		return "", explorer.View{}, fmt.Errorf("sessions: generate id: %w", err)
	}
	sess := explorer.New(s.cat)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(id, sess)
	live := s.cache.Len()
	observability.RecordSessionCreated(live)
	log.Debug().Str("session", id).Int("live", live).Msg("session created")
	return id, sess.View(), nil
}

func (s *Store) lookup(id string) (*explorer.Session, error) {
	parsed, err := uuid.FromString(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	v, ok := s.cache.Get(parsed.String())
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return v.(*explorer.Session), nil
}

// Get returns the current view of a session.
func (s *Store) Get(id string) (explorer.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id)
	if err != nil {
		return explorer.View{}, err
	}
	return sess.View(), nil
}

// Update runs fn against the session under the store lock and returns the
// resulting view. The view is returned even when fn fails so callers can
// echo the unchanged state.
func (s *Store) Update(id string, fn func(*explorer.Session) error) (explorer.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.lookup(id)
	if err != nil {
		return explorer.View{}, err
	}
	err = fn(sess)
	return sess.View(), err
}

// Dispatch applies one event to a session.
func (s *Store) Dispatch(id string, ev explorer.Event) (explorer.View, error) {
	return s.Update(id, func(sess *explorer.Session) error {
		return sess.Dispatch(ev)
	})
}

// Remove drops a session. Removing an unknown id is not an error.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removing = true
	s.cache.Remove(id)
	s.removing = false
	observability.RecordSessionLive(s.cache.Len())
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

func (s *Store) Catalog() *catalog.Catalog {
	return s.cat
}
