// Package session keeps one gallery controller per browser session in memory.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ImageGallery/internal/gallery"
	"github.com/ImageGallery/internal/infra/metrics"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

var ErrNotFound = errors.New("session not found")

// ControllerFactory builds the controller for a new session.
type ControllerFactory func() *gallery.Controller

type entry struct {
	controller *gallery.Controller
	lastSeen   time.Time
}

type Store struct {
	newController ControllerFactory
	ttl           time.Duration
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry

	cron *cron.Cron
}

func NewStore(factory ControllerFactory, ttl time.Duration) *Store {
	return &Store{
		newController: factory,
		ttl:           ttl,
		now:           time.Now,
		sessions:      make(map[string]*entry),
	}
}

// Create starts a new session whose controller has already issued its
// initial page fetch.
func (s *Store) Create() (string, *gallery.Controller, error) {
	id := uuid.NewString()
	c := s.newController()
	if err := c.Start(); err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	s.sessions[id] = &entry{controller: c, lastSeen: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	slog.Debug("Session created", "session_id", id, "active", n)
	return id, c, nil
}

// Get returns the controller of a live session and marks it as used.
func (s *Store) Get(id string) (*gallery.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = s.now()
	return e.controller, nil
}

// GetOrCreate resolves id, creating a fresh session when it is unknown.
// The returned bool is true when a session was created.
func (s *Store) GetOrCreate(id string) (string, *gallery.Controller, bool, error) {
	if id != "" {
		if c, err := s.Get(id); err == nil {
			return id, c, false, nil
		}
	}
	newID, c, err := s.Create()
	if err != nil {
		return "", nil, false, err
	}
	return newID, c, true, nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep closes and removes every session idle for longer than the TTL.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	var expired []*gallery.Controller
	s.mu.Lock()
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.controller)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, c := range expired {
		c.Close()
	}

	metrics.ActiveSessions.Set(float64(n))
	if len(expired) > 0 {
		metrics.SessionsEvicted.Add(float64(len(expired)))
		slog.Info("Evicted idle sessions", "count", len(expired), "active", n)
	}
	return len(expired)
}

// StartSweeper runs Sweep on the given cron schedule until Stop is called.
func (s *Store) StartSweeper(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { s.Sweep() }); err != nil {
		return err
	}
	s.cron = c
	c.Start()
	slog.Info("Session sweeper started", "schedule", schedule, "ttl", s.ttl)
	return nil
}

// Stop halts the sweeper and closes every session.
func (s *Store) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	s.mu.Lock()
	all := make([]*gallery.Controller, 0, len(s.sessions))
	for id, e := range s.sessions {
		all = append(all, e.controller)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
	metrics.ActiveSessions.Set(0)
}
