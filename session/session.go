// Package session keys banking service instances by opaque tokens for the
// HTTP front-end. One session owns one bank.Service; the console front-ends
// use a single Service directly and never touch this package.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"bankapp/bank"
)

// Session wraps one service instance. The mutex serializes requests that
// carry the same token: a Service is not safe for concurrent use, and two
// concurrent withdrawals against one account must not both pass the balance
// check before either commits.
type Session struct {
	mu  sync.Mutex
	svc *bank.Service

	// unix nanos; atomic because the store reads it while only holding its
	// own lock.
	lastSeen atomic.Int64
}

// Do runs fn with exclusive access to the session's service and marks the
// session as recently used.
func (s *Session) Do(fn func(*bank.Service)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen.Store(time.Now().UnixNano())
	fn(s.svc)
}

// Store maps opaque tokens to sessions. Sessions expire after sitting idle
// for the configured TTL; expired ones are dropped on access and by Sweep.
type Store struct {
	mu   sync.Mutex
	ttl  time.Duration
	sess map[string]*Session
}

// NewStore creates an empty store. ttl <= 0 disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, sess: make(map[string]*Session)}
}

func (st *Store) expired(s *Session, now time.Time) bool {
	return st.ttl > 0 && now.UnixNano()-s.lastSeen.Load() > int64(st.ttl)
}

// New starts a fresh session and returns its token.
func (st *Store) New() string {
	token := uuid.NewString()
	st.mu.Lock()
	defer st.mu.Unlock()
	s := &Session{svc: bank.NewService()}
	s.lastSeen.Store(time.Now().UnixNano())
	st.sess[token] = s
	return token
}

// Get returns the live session for token, if any.
func (st *Store) Get(token string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sess[token]
	if !ok {
		return nil, false
	}
	if st.expired(s, time.Now()) {
		delete(st.sess, token)
		return nil, false
	}
	return s, true
}

// GetOrCreate resolves token to a session, starting a new one when the
// token is empty, unknown or expired. A non-empty unknown token is adopted
// as-is so a client keeps its identifier across server restarts. created
// reports whether the caller got a fresh session.
func (st *Store) GetOrCreate(token string) (string, *Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := time.Now()
	if s, ok := st.sess[token]; ok && !st.expired(s, now) {
		return token, s, false
	}
	if token == "" {
		token = uuid.NewString()
	}
	s := &Session{svc: bank.NewService()}
	s.lastSeen.Store(now.UnixNano())
	st.sess[token] = s
	return token, s, true
}

// Drop ends a session immediately.
func (st *Store) Drop(token string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sess, token)
}

// Len reports the number of sessions currently held.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sess)
}

// Sweep drops every expired session.
func (st *Store) Sweep() {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := time.Now()
	for token, s := range st.sess {
		if st.expired(s, now) {
			delete(st.sess, token)
		}
	}
}

// Janitor sweeps on the given interval until stop is closed.
func (st *Store) Janitor(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			st.Sweep()
		case <-stop:
			return
		}
	}
}
