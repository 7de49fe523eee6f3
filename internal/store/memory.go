package store

import (
	"context"
	"strings"
	"sync"

	"sparrow-backend/internal/models"
)

// Memory keeps everything in process. Values are copied on the way in and
// out so callers never share state with the store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]any)}
}

func (m *Memory) LoadProject(_ context.Context, key string) (*models.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.data[ProjectKey(key)].(*models.Project)
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

func (m *Memory) SaveProject(_ context.Context, key string, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[ProjectKey(key)] = p.Clone()
	return nil
}

func (m *Memory) ListProjects(_ context.Context) ([]models.ProjectSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.ProjectSummary{}
	for k, v := range m.data {
		if p, ok := v.(*models.Project); ok {
			out = append(out, SummarizeProject(strings.TrimPrefix(k, projectPrefix), p))
		}
	}
	SortProjects(out)
	return out, nil
}

func (m *Memory) DeleteProject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[ProjectKey(key)]; !ok {
		return ErrNotFound
	}
	delete(m.data, ProjectKey(key))
	return nil
}

func (m *Memory) LoadSession(_ context.Context, id string) (*models.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.data[SessionKey(id)].(*models.ChatSession)
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *Memory) SaveSession(_ context.Context, s *models.ChatSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[SessionKey(s.ID)] = s.Clone()
	return nil
}

func (m *Memory) ListSessions(_ context.Context) ([]models.SessionSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.SessionSummary{}
	for _, v := range m.data {
		if s, ok := v.(*models.ChatSession); ok {
			out = append(out, SummarizeSession(s))
		}
	}
	SortSessions(out)
	return out, nil
}
