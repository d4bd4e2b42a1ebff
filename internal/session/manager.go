package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Manager хранит открытые сессии в памяти.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	defaults Config
	deps     Deps
}

// NewManager создаёт менеджер; defaults задаёт размеры и режим новых сессий.
func NewManager(defaults Config, deps Deps) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		defaults: defaults,
		deps:     deps.withDefaults(),
	}
}

// Create открывает сессию. seed == 0 выбирает сид по времени.
func (m *Manager) Create(ctx context.Context, seed int64) (*Session, error) {
	cfg := m.defaults
	cfg.Seed = seed
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	s, err := New(ctx, cfg, m.deps)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s, nil
}

// Get возвращает сессию по ID
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// List возвращает состояния всех сессий в порядке создания
func (m *Manager) List() []State {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	states := make([]State, 0, len(sessions))
	for _, s := range sessions {
		states = append(states, s.Snapshot())
	}
	sort.Slice(states, func(i, j int) bool {
		if states[i].CreatedAt.Equal(states[j].CreatedAt) {
			return states[i].ID < states[j].ID
		}
		return states[i].CreatedAt.Before(states[j].CreatedAt)
	})
	return states
}

// Delete закрывает сессию
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.deps.Metrics.SessionClosed()
	m.deps.Logger.Info("🗑️ Сессия %s удалена", id)
	return nil
}

// Count возвращает число открытых сессий
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
