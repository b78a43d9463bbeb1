package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/go2048/game/engine"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session is a single game and the metadata needed to reproduce it
type Session struct {
	ID             string
	Engine         *engine.Engine
	RulesetID      string
	Seed           int64
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// NewSession wraps an existing engine
func NewSession(id string, eng *engine.Engine, rulesetID string, seed int64) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		Engine:         eng,
		RulesetID:      rulesetID,
		Seed:           seed,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

// Move applies a move while holding the session lock
func (s *Session) Move(dir engine.Direction) (engine.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastAccessedAt = time.Now()
	return s.Engine.Move(dir)
}

// Snapshot returns the grid, status and move count under the session lock
func (s *Session) Snapshot() (engine.Grid, engine.Status, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.Engine.Grid(), s.Engine.Status(), s.Engine.TotalMoves()
}

// Reset starts the game over with the same ruleset. The random source is
// reseeded so the new game matches the one Seed produced originally.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Engine.SetRandomSource(engine.NewRand(s.Seed)); err != nil {
		return err
	}
	s.LastAccessedAt = time.Now()
	s.Engine.Initialize()
	return nil
}

// Inspect runs fn with exclusive access to the engine
func (s *Session) Inspect(fn func(eng *engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.Engine)
}

// Manager handles session lifecycle
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// Create starts a new game with the given ruleset. An empty id is replaced by
// a generated one and a zero seed by a random one.
func (m *Manager) Create(id string, rules *engine.Ruleset, seed int64) (*Session, error) {
	if seed == 0 {
		s, err := engine.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("failed to generate seed: %w", err)
		}
		seed = s
	}

	eng, err := engine.NewEngineWithSeed(rules, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id, err = m.generateSessionID()
		if err != nil {
			return nil, err
		}
	} else if _, exists := m.sessions[strings.ToLower(id)]; exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionAlreadyExists, id)
	}

	session := NewSession(id, eng, rules.Name, seed)
	m.sessions[strings.ToLower(id)] = session

	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// List returns all sessions ordered by creation time
func (m *Manager) List() []*Session {
	m.mu.RLock()
	result := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete removes a session
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, lowerID)
	return nil
}

// CleanupExpiredSessions removes sessions that haven't been accessed in the given duration
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, session := range m.sessions {
		session.mu.Lock()
		expired := session.LastAccessedAt.Before(cutoff)
		session.mu.Unlock()
		if expired {
			delete(m.sessions, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID returns an unused 4-character ID. Callers hold m.mu.
func (m *Manager) generateSessionID() (string, error) {
	bytes := make([]byte, 2)
	for {
		if _, err := rand.Read(bytes); err != nil {
			return "", fmt.Errorf("failed to generate session ID: %w", err)
		}
		id := hex.EncodeToString(bytes)
		if _, exists := m.sessions[id]; !exists {
			return id, nil
		}
	}
}
