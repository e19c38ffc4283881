package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spacegothic/internal/game/character"
	"github.com/cory-johannsen/spacegothic/internal/game/combat"
	"github.com/cory-johannsen/spacegothic/internal/game/inventory"
)

// Rules are the per-session settings every new Session starts from.
type Rules struct {
	// RerollLimit is the reroll budget of each generation cycle.
	RerollLimit int
	// Weapon is the profile issued to every session.
	Weapon *inventory.WeaponProfile
}

// Manager tracks all open sessions by user ID.
// All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // userID → session

	rules    Rules
	engine   *character.Engine
	resolver *combat.Resolver
	logger   *zap.Logger
}

// NewManager creates an empty session Manager.
//
// Precondition: rules.RerollLimit >= 0; rules.Weapon, engine, resolver and logger must be non-nil.
func NewManager(rules Rules, engine *character.Engine, resolver *combat.Resolver, logger *zap.Logger) *Manager {
	if rules.RerollLimit < 0 {
		panic("session: NewManager: reroll limit must be >= 0")
	}
	if rules.Weapon == nil {
		panic("session: NewManager: weapon must not be nil")
	}
	return &Manager{
		sessions: make(map[string]*Session),
		rules:    rules,
		engine:   engine,
		resolver: resolver,
		logger:   logger,
	}
}

// Open creates and registers a Session for userID.
//
// Precondition: userID must be non-empty.
// Postcondition: Returns the new Session, or an error if userID already has one.
func (m *Manager) Open(userID string) (*Session, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[userID]; exists {
		return nil, fmt.Errorf("user %q already has an open session", userID)
	}
	sess := newSession(userID, m.rules, m.engine, m.resolver, m.logger)
	m.sessions[userID] = sess
	m.logger.Info("session opened",
		zap.String("session_id", sess.ID),
		zap.String("user_id", userID),
		zap.Int("open_sessions", len(m.sessions)),
	)
	return sess, nil
}

// Get returns the open Session for userID.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	return sess, ok
}

// Close removes the Session for userID.
//
// Postcondition: The session is no longer tracked. Returns an error if not found.
func (m *Manager) Close(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[userID]
	if !ok {
		return fmt.Errorf("user %q has no open session", userID)
	}
	delete(m.sessions, userID)
	m.logger.Info("session closed",
		zap.String("session_id", sess.ID),
		zap.String("user_id", userID),
		zap.Int("open_sessions", len(m.sessions)),
	)
	return nil
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
