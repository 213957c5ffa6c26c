package services

import (
	"fmt"
	"sync"
	"time"

	"barbertrack-backend/models"

	"github.com/robfig/cron/v3"
)

// SessionRegistry tracks the dashboard sessions of signed-in callers, keyed
// by the token's session id. Dropping an entry signs the token out.
type SessionRegistry struct {
	mu       sync.RWMutex
	dash     *Dashboard
	sessions map[string]*Session
	now      func() time.Time
	cron     *cron.Cron
}

func NewSessionRegistry(dash *Dashboard) *SessionRegistry {
	return &SessionRegistry{dash: dash, sessions: make(map[string]*Session), now: time.Now}
}

// Open registers a session for caller that lapses at expiresAt. A zero
// expiresAt never lapses.
func (r *SessionRegistry) Open(id string, caller models.Caller, expiresAt time.Time) *Session {
	s := r.dash.Open(id, &caller)
	s.setExpiry(expiresAt)

	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.sessions[id]; ok {
		old.Close()
	}
	r.sessions[id] = s
	return s
}

func (r *SessionRegistry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close removes and tears down the session. It reports whether one existed.
func (r *SessionRegistry) Close(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

// Sweep closes every session whose token has expired at now and returns how
// many were dropped.
func (r *SessionRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.Expired(now) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	return len(expired)
}

// StartSweeper runs Sweep on spec (standard cron syntax or @every).
func (r *SessionRegistry) StartSweeper(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if n := r.Sweep(r.now()); n > 0 {
			r.dash.log.WithField("sessions", n).Info("expired sessions dropped")
		}
	}); err != nil {
		return fmt.Errorf("schedule session sweep: %w", err)
	}
	c.Start()
	r.cron = c
	return nil
}

func (r *SessionRegistry) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
