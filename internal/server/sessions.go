package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TAKIS21345/SeniorHelp/internal/llm"
)

// chatSession is one browser or terminal conversation.
type chatSession struct {
	history    []llm.Exchange
	generation int
	touched    time.Time
}

// sessionStore keeps conversations in memory, keyed by the session cookie.
type sessionStore struct {
	mu    sync.Mutex
	items map[string]*chatSession
	ttl   time.Duration
	now   func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{items: make(map[string]*chatSession), ttl: ttl, now: time.Now}
}

// resolve returns id when it names a live session, or a fresh id otherwise.
func (s *sessionStore) resolve(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	if id != "" {
		if _, ok := s.items[id]; ok {
			return id, false
		}
		if _, err := uuid.Parse(id); err == nil {
			s.items[id] = &chatSession{touched: s.now()}
			return id, false
		}
	}
	id = uuid.NewString()
	s.items[id] = &chatSession{touched: s.now()}
	return id, true
}

// begin records the user side of an exchange and returns the history to prompt with.
func (s *sessionStore) begin(id, user string) (history []llm.Exchange, index, generation int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getLocked(id)
	sess.history = append(sess.history, llm.Exchange{User: user})
	return append([]llm.Exchange(nil), sess.history...), len(sess.history) - 1, sess.generation
}

// finish stores the answer for the exchange begin returned, unless the session was reset
// in between. It returns the history after the update.
func (s *sessionStore) finish(id string, index, generation int, answer string) []llm.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getLocked(id)
	if sess.generation == generation && index < len(sess.history) {
		sess.history[index].AI = answer
	}
	return append([]llm.Exchange(nil), sess.history...)
}

// reset drops the session's history.
func (s *sessionStore) reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.items[id]; ok {
		sess.history = nil
		sess.generation++
		sess.touched = s.now()
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *sessionStore) getLocked(id string) *chatSession {
	sess, ok := s.items[id]
	if !ok {
		sess = &chatSession{}
		s.items[id] = sess
	}
	sess.touched = s.now()
	return sess
}

func (s *sessionStore) pruneLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.items {
		if sess.touched.Before(cutoff) {
			delete(s.items, id)
		}
	}
}
