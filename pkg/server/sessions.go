package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-surveyform/pkg/orchestrator"
)

// ErrUnknownSession is returned for ids that were never issued or have
// expired.
var ErrUnknownSession = errors.New("server: unknown session")

// session pairs one orchestrator with the lock that serialises the requests
// driving it.
type session struct {
	id   string
	orch *orchestrator.Orchestrator

	mu       sync.Mutex
	lastSeen time.Time
}

// sessionStore keeps live sessions in memory. Nothing survives a restart.
type sessionStore struct {
	mu       sync.Mutex
	items    map[string]*session
	newOrch  func() *orchestrator.Orchestrator
	now      func() time.Time
	onOpen   func()
	onClosed func()
}

func newSessionStore(factory func() *orchestrator.Orchestrator) *sessionStore {
	return &sessionStore{
		items:    make(map[string]*session),
		newOrch:  factory,
		now:      time.Now,
		onOpen:   func() {},
		onClosed: func() {},
	}
}

func (s *sessionStore) create() *session {
	sess := &session{
		id:       uuid.NewString(),
		orch:     s.newOrch(),
		lastSeen: s.now(),
	}

	s.mu.Lock()
	s.items[sess.id] = sess
	s.mu.Unlock()

	s.onOpen()
	return sess
}

func (s *sessionStore) get(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return nil, ErrUnknownSession
	}
	sess.lastSeen = s.now()
	return sess, nil
}

func (s *sessionStore) remove(id string) error {
	s.mu.Lock()
	sess, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()

	if !ok {
		return ErrUnknownSession
	}
	sess.orch.Close()
	s.onClosed()
	return nil
}

// sweep closes sessions idle for longer than ttl and reports how many went.
func (s *sessionStore) sweep(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	var expired []*session
	for id, sess := range s.items {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.orch.Close()
		s.onClosed()
	}
	return len(expired)
}

func (s *sessionStore) closeAll() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range items {
		sess.orch.Close()
		s.onClosed()
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
