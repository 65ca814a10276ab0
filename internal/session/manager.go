package session

import (
	"context"
	"sync"

	"github.com/preston-bernstein/scoreboard-service/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-service/internal/history"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
)

// Manager keeps one live session per match id.
type Manager struct {
	deps Deps

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(deps Deps) *Manager {
	return &Manager{deps: deps, sessions: make(map[string]*Session)}
}

// Open returns the session for matchID. An open session with a different configuration is
// reseeded; otherwise a new session is created from the stored history.
func (m *Manager) Open(ctx context.Context, matchID string, cfg match.Config) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[matchID]; ok {
		if s.Config() == cfg {
			return s, nil
		}
		logging.Info(m.deps.Logger, "match config changed, reseeding", logging.FieldMatchID, matchID)
		if _, err := s.Reseed(ctx, cfg); err != nil {
			return nil, err
		}
		return s, nil
	}

	s, err := New(ctx, m.deps, matchID, cfg)
	if err != nil {
		return nil, err
	}
	m.sessions[matchID] = s
	return s, nil
}

// Get returns an already open session.
func (m *Manager) Get(matchID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[matchID]
	return s, ok
}

// Close stops and forgets the session for matchID.
func (m *Manager) Close(matchID string) {
	m.mu.Lock()
	s, ok := m.sessions[matchID]
	delete(m.sessions, matchID)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// CloseAll stops every open session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	open := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range open {
		s.Close()
	}
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Live returns the head state of an open session with its running clock value.
func (m *Manager) Live(matchID string) (history.Entry, bool) {
	s, ok := m.Get(matchID)
	if !ok {
		return history.Entry{}, false
	}
	snap := s.Snapshot()
	return history.Entry{GameState: snap.GameState, Time: snap.Time}, true
}
