// Package sessions keeps the live editing sessions of the designer API in
// memory, keyed by session id.
package sessions

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linesmerrill/report-designer-api/designer"
)

// ErrSessionNotFound is returned for unknown or discarded session ids
var ErrSessionNotFound = errors.New("session not found")

// subscriberBuffer is how many snapshots a slow listener may fall behind
// before newer ones are dropped for it
const subscriberBuffer = 8

// Entry is one live session plus the listeners watching it
type Entry struct {
	ID      string
	Session *designer.Session

	mu          sync.Mutex
	lastActive  time.Time
	subscribers map[chan designer.State]struct{}
	closed      bool
}

// Subscribe registers a listener for session snapshots. The returned cancel
// func unregisters it. The channel is closed when the session is discarded.
func (e *Entry) Subscribe() (<-chan designer.State, func()) {
	ch := make(chan designer.State, subscriberBuffer)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch, func() {}
	}
	e.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if _, ok := e.subscribers[ch]; ok {
				delete(e.subscribers, ch)
				close(ch)
			}
		})
	}
}

// Publish sends a snapshot to every listener without blocking
func (e *Entry) Publish(st designer.State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subscribers {
		select {
		case ch <- st:
		default:
			zap.S().Debugw("dropping session snapshot for slow listener", "sessionId", e.ID)
		}
	}
}

// Subscribers returns the number of registered listeners
func (e *Entry) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subscribers)
}

func (e *Entry) touch(now time.Time) {
	e.mu.Lock()
	e.lastActive = now
	e.mu.Unlock()
}

func (e *Entry) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastActive
}

func (e *Entry) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for ch := range e.subscribers {
		close(ch)
	}
	e.subscribers = map[chan designer.State]struct{}{}
}

// Store holds the live sessions
type Store struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	designer *designer.Designer
	saver    designer.Saver
	now      func() time.Time
	log      *zap.SugaredLogger
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now for idle tracking
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger used for session lifecycle events
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// NewStore creates an empty store. Every session it creates edits through d
// and saves through saver.
func NewStore(d *designer.Designer, saver designer.Saver, opts ...Option) *Store {
	s := &Store{
		entries:  make(map[string]*Entry),
		designer: d,
		saver:    saver,
		now:      time.Now,
		log:      zap.S(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new, empty session
func (s *Store) Create() *Entry {
	e := &Entry{
		ID:          "session_" + uuid.NewString(),
		Session:     designer.NewSession(s.designer, s.saver),
		lastActive:  s.now(),
		subscribers: make(map[chan designer.State]struct{}),
	}
	s.mu.Lock()
	s.entries[e.ID] = e
	s.mu.Unlock()
	s.log.Infow("session created", "sessionId", e.ID)
	return e
}

// Get returns the session with the given id and marks it active
func (s *Store) Get(id string) (*Entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.touch(s.now())
	return e, nil
}

// Discard removes a session and closes its listeners
func (s *Store) Discard(id string) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	e.close()
	s.log.Infow("session discarded", "sessionId", id)
	return nil
}

// ReapIdle discards every session idle for longer than maxIdle and returns
// how many were removed.
func (s *Store) ReapIdle(maxIdle time.Duration) int {
	now := s.now()
	cutoff := now.Add(-maxIdle)

	s.mu.Lock()
	var reaped []*Entry
	for id, e := range s.entries {
		// a watched session is active; its idle time restarts at the last
		// sweep that saw a subscriber
		if e.Subscribers() > 0 {
			e.touch(now)
			continue
		}
		if e.idleSince().Before(cutoff) {
			reaped = append(reaped, e)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, e := range reaped {
		e.close()
		s.log.Infow("session expired", "sessionId", e.ID, "lastActive", e.idleSince())
	}
	return len(reaped)
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
