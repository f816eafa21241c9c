package service

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/symptom-triage-server/internal/domain"
)

// SessionManager is the in-memory registry of active intake sessions.
// Sessions are never persisted; a process restart discards them. Each
// session carries its own mutex so concurrent requests on the same ID are
// serialized; the session state itself stays lock-free under the intake
// service's single-owner discipline.
type SessionManager struct {
	logger   *logrus.Logger
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu    sync.Mutex
	state *domain.ConversationState
}

// NewSessionManager creates an empty session registry.
func NewSessionManager(logger *logrus.Logger) *SessionManager {
	return &SessionManager{
		logger:   logger,
		sessions: make(map[string]*sessionEntry),
	}
}

// Create registers a fresh session positioned at the welcome step and
// returns its ID.
func (m *SessionManager) Create() string {
	state := domain.NewConversationState()

	m.mu.Lock()
	m.sessions[state.ID] = &sessionEntry{state: state}
	m.mu.Unlock()

	m.logger.WithField("session", state.ID).Debug("Created intake session")
	return state.ID
}

// WithSession runs fn with the session's state under its per-session lock.
// All reads and transitions go through here, so two concurrent requests on
// the same session execute one after the other.
func (m *SessionManager) WithSession(id string, fn func(*domain.ConversationState)) error {
	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return domain.ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	fn(entry.state)
	return nil
}

// Delete removes a session from the registry.
func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of active sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
