package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/clipforge/clipforge-agent/internal/media"
	"github.com/clipforge/clipforge-agent/internal/project"
	"github.com/clipforge/clipforge-agent/internal/timeline"
)

// Manager tracks one live session per project. Opening a project restores
// its latest saved snapshot; saving writes a new snapshot version.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	projects project.StoreService
	registry media.RegistryService
	logger   *slog.Logger
}

func NewManager(projects project.StoreService, registry media.RegistryService, logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		projects: projects,
		registry: registry,
		logger:   logger,
	}
}

// Open returns the live session for a project, creating one from the latest
// snapshot if none is open yet.
func (m *Manager) Open(ctx context.Context, projectID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[projectID]; ok {
		return s, nil
	}

	p, err := m.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("project %s not found", projectID)
	}

	var state *timeline.State
	snap, err := m.projects.LatestSnapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		state, err = timeline.Restore(snap.State)
		if err != nil {
			return nil, fmt.Errorf("failed to restore snapshot v%d: %w", snap.Version, err)
		}
	}

	s := NewSession(projectID, state, m.registry, m.logger)
	m.sessions[projectID] = s

	if m.logger != nil {
		m.logger.Info("session opened", "project_id", projectID, "restored", snap != nil)
	}
	return s, nil
}

// Get returns the live session for a project, or nil if none is open.
func (m *Manager) Get(projectID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[projectID]
}

// Save persists the session's current state as a new snapshot version.
func (m *Manager) Save(ctx context.Context, projectID string) (*project.Snapshot, error) {
	s := m.Get(projectID)
	if s == nil {
		return nil, fmt.Errorf("no open session for project %s", projectID)
	}

	state, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return m.projects.SaveSnapshot(ctx, projectID, state)
}

// Close stops the session's playback and drops it from the manager. It does
// not save; callers save explicitly first if they want the state kept.
func (m *Manager) Close(projectID string) bool {
	m.mu.Lock()
	s, ok := m.sessions[projectID]
	delete(m.sessions, projectID)
	m.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()

	if m.logger != nil {
		m.logger.Info("session closed", "project_id", projectID)
	}
	return true
}

// Playing reports whether any open session is currently playing.
func (m *Manager) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.IsPlaying() {
			return true
		}
	}
	return false
}

// CloseAll shuts down every live session. Used on agent shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
