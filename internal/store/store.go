// Package store defines where projects and chat sessions live between requests.
package store

import (
	"context"
	"errors"
	"sort"

	"sparrow-backend/internal/models"
)

var ErrNotFound = errors.New("not found")

const (
	projectPrefix = "sparrow_project_"
	sessionPrefix = "sparrow_chat_session_"
)

// ProjectKey is the storage key of a project.
func ProjectKey(key string) string { return projectPrefix + key }

// SessionKey is the storage key of a chat session.
func SessionKey(id string) string { return sessionPrefix + id }

type ProjectRepository interface {
	LoadProject(ctx context.Context, key string) (*models.Project, error)
	SaveProject(ctx context.Context, key string, p *models.Project) error
	ListProjects(ctx context.Context) ([]models.ProjectSummary, error)
	DeleteProject(ctx context.Context, key string) error
}

type SessionRepository interface {
	LoadSession(ctx context.Context, id string) (*models.ChatSession, error)
	SaveSession(ctx context.Context, s *models.ChatSession) error
	ListSessions(ctx context.Context) ([]models.SessionSummary, error)
}

// Repository is the full persistence surface a backend provides.
type Repository interface {
	ProjectRepository
	SessionRepository
}

// SummarizeProject builds the listing view of p stored under key.
func SummarizeProject(key string, p *models.Project) models.ProjectSummary {
	return models.ProjectSummary{
		Key:          key,
		ID:           p.ID,
		Name:         p.Name,
		FileCount:    len(p.Files),
		CreatedAt:    p.CreatedAt,
		LastModified: p.LastModified,
	}
}

func SummarizeSession(s *models.ChatSession) models.SessionSummary {
	return models.SessionSummary{
		ID:           s.ID,
		Title:        s.Title,
		ProjectKey:   s.ProjectKey,
		MessageCount: len(s.Messages),
		CreatedAt:    s.CreatedAt,
		LastModified: s.LastModified,
	}
}

// SortProjects orders summaries most recently modified first.
func SortProjects(list []models.ProjectSummary) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].LastModified.Equal(list[j].LastModified) {
			return list[i].LastModified.After(list[j].LastModified)
		}
		return list[i].Key < list[j].Key
	})
}

// SortSessions orders summaries most recently modified first.
func SortSessions(list []models.SessionSummary) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].LastModified.Equal(list[j].LastModified) {
			return list[i].LastModified.After(list[j].LastModified)
		}
		return list[i].ID < list[j].ID
	})
}
