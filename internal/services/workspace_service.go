package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"sparrow-backend/internal/deploy"
	"sparrow-backend/internal/events"
	"sparrow-backend/internal/llm"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/preview"
	"sparrow-backend/internal/session"
	"sparrow-backend/internal/store"
	"sparrow-backend/internal/synthesizer"
)

var ErrNoHTML = errors.New("project has no HTML file")

var unsafeExportName = regexp.MustCompile(`[^a-zA-Z0-9]`)

type Options struct {
	Repository store.Repository
	Deployer   deploy.Deployer
	Completer  llm.Completer
	Describer  llm.Describer
	Publisher  events.Publisher
	Backoff    llm.Backoff
	Now        func() time.Time
}

// WorkspaceService owns the live chat sessions and the projects they write
// into. Sessions are loaded lazily from the repository and kept in memory.
type WorkspaceService struct {
	repo      store.Repository
	deployer  deploy.Deployer
	completer llm.Completer
	describer llm.Describer
	pub       events.Publisher
	backoff   llm.Backoff
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session.Session
	// project key -> live session writing into it
	attached map[string]*session.Session

	// serializes project read-modify-write cycles
	edit sync.Mutex
}

func NewWorkspaceService(opts Options) *WorkspaceService {
	if opts.Repository == nil {
		opts.Repository = store.NewMemory()
	}
	if opts.Deployer == nil {
		opts.Deployer = deploy.Nop{}
	}
	if opts.Publisher == nil {
		opts.Publisher = events.Nop
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &WorkspaceService{
		repo:      opts.Repository,
		deployer:  opts.Deployer,
		completer: opts.Completer,
		describer: opts.Describer,
		pub:       opts.Publisher,
		backoff:   opts.Backoff,
		now:       opts.Now,
		sessions:  make(map[string]*session.Session),
		attached:  make(map[string]*session.Session),
	}
}

// CreateSession starts a conversation with a fresh starter project.
func (s *WorkspaceService) CreateSession(ctx context.Context, projectName string) (*models.ChatSession, *models.Project, error) {
	now := s.now()
	project := synthesizer.NewDefaultProject(projectName, now)
	key := project.ID
	if err := s.repo.SaveProject(ctx, key, project); err != nil {
		return nil, nil, fmt.Errorf("failed to save project: %w", err)
	}

	chat := &models.ChatSession{
		ID:           uuid.New().String(),
		ProjectKey:   key,
		Messages:     []models.Message{},
		State:        string(session.Idle),
		CreatedAt:    now,
		LastModified: now,
	}
	if err := s.repo.SaveSession(ctx, chat); err != nil {
		return nil, nil, fmt.Errorf("failed to save session: %w", err)
	}

	sess := s.track(chat, project)
	slog.Info("session created", "session", chat.ID, "project", key)
	return sess.Chat(), sess.Project(), nil
}

func (s *WorkspaceService) ListSessions(ctx context.Context) ([]models.SessionSummary, error) {
	return s.repo.ListSessions(ctx)
}

// GetSession returns the transcript and current project of a session.
func (s *WorkspaceService) GetSession(ctx context.Context, id string) (*models.ChatSession, *models.Project, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sess.Chat(), sess.Project(), nil
}

// SendMessage runs one chat turn and persists the transcript, and the
// project when the turn produced files.
func (s *WorkspaceService) SendMessage(ctx context.Context, id string, in session.Input) (session.Turn, *models.Project, error) {
	sess, err := s.session(ctx, id)
	if err != nil {
		return session.Turn{}, nil, err
	}
	turn, err := sess.Send(ctx, in)
	if err != nil {
		return session.Turn{}, nil, err
	}

	// persistence must outlive a cancelled request
	saveCtx := context.WithoutCancel(ctx)
	chat := sess.Chat()
	project := sess.Project()
	if turn.Outcome == session.Success {
		// reread under edit so a manual edit saved after the turn is kept
		s.edit.Lock()
		project = sess.Project()
		if s.tracked(sess) {
			err = s.repo.SaveProject(saveCtx, chat.ProjectKey, project)
		}
		s.edit.Unlock()
		if err != nil {
			return turn, project, fmt.Errorf("failed to save project: %w", err)
		}
	}
	if err := s.repo.SaveSession(saveCtx, chat); err != nil {
		return turn, project, fmt.Errorf("failed to save session: %w", err)
	}
	return turn, project, nil
}

func (s *WorkspaceService) ListProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	return s.repo.ListProjects(ctx)
}

// GetProject prefers the live copy held by an attached session.
func (s *WorkspaceService) GetProject(ctx context.Context, key string) (*models.Project, error) {
	if sess := s.attachedTo(key); sess != nil {
		return sess.Project(), nil
	}
	return s.repo.LoadProject(ctx, key)
}

// CreateProject stores an empty project under a new key.
func (s *WorkspaceService) CreateProject(ctx context.Context, name, description string) (string, *models.Project, error) {
	p := synthesizer.NewProject(name, description, s.now())
	if err := s.repo.SaveProject(ctx, p.ID, p); err != nil {
		return "", nil, fmt.Errorf("failed to save project: %w", err)
	}
	return p.ID, p, nil
}

// ImportProject stores p under key with a fresh id. Files with unsafe names
// are rejected.
func (s *WorkspaceService) ImportProject(ctx context.Context, key string, p *models.Project) (*models.Project, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: empty project", synthesizer.ErrInvalidFilename)
	}
	now := s.now()
	imported := p.Clone()
	imported.ID = uuid.New().String()
	imported.LastModified = now
	if imported.CreatedAt.IsZero() {
		imported.CreatedAt = now
	}
	if imported.Files == nil {
		imported.Files = []models.ProjectFile{}
	}
	seen := make(map[string]bool, len(imported.Files))
	for i := range imported.Files {
		f := &imported.Files[i]
		if !synthesizer.ValidFilename(f.Name) {
			return nil, fmt.Errorf("%w: %q", synthesizer.ErrInvalidFilename, f.Name)
		}
		f.ID = synthesizer.FileID(f.Name)
		if seen[f.ID] {
			return nil, fmt.Errorf("%w: %s", synthesizer.ErrFileExists, f.Name)
		}
		seen[f.ID] = true
		f.Language = synthesizer.NormalizeLanguage(f.Language, f.Name)
		if f.LastModified.IsZero() {
			f.LastModified = now
		}
	}

	return s.mutate(ctx, key, true, func(*models.Project) (*models.Project, error) {
		return imported, nil
	})
}

func (s *WorkspaceService) DeleteProject(ctx context.Context, key string) error {
	s.edit.Lock()
	defer s.edit.Unlock()
	if err := s.repo.DeleteProject(ctx, key); err != nil {
		return err
	}
	// live sessions on the project reload and get a starter project
	s.mu.Lock()
	delete(s.attached, key)
	for id, sess := range s.sessions {
		if sess.ProjectKey() == key {
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
	return nil
}

// DuplicateProject copies the project at key to a new key.
func (s *WorkspaceService) DuplicateProject(ctx context.Context, key string) (string, *models.Project, error) {
	src, err := s.GetProject(ctx, key)
	if err != nil {
		return "", nil, err
	}
	cp := synthesizer.Duplicate(src, s.now())
	if err := s.repo.SaveProject(ctx, cp.ID, cp); err != nil {
		return "", nil, fmt.Errorf("failed to save project: %w", err)
	}
	return cp.ID, cp, nil
}

// ExportProject returns the project as indented JSON with a download name
// derived from the project name.
func (s *WorkspaceService) ExportProject(ctx context.Context, key string) ([]byte, string, error) {
	p, err := s.GetProject(ctx, key)
	if err != nil {
		return nil, "", err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return data, unsafeExportName.ReplaceAllString(p.Name, "_") + ".json", nil
}

// ArchiveProject zips every file of the project.
func (s *WorkspaceService) ArchiveProject(ctx context.Context, key string) ([]byte, string, error) {
	p, err := s.GetProject(ctx, key)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range p.Files {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.LastModified})
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write([]byte(f.Content)); err != nil {
			return nil, "", err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), unsafeExportName.ReplaceAllString(p.Name, "_") + ".zip", nil
}

func (s *WorkspaceService) UpsertFile(ctx context.Context, key, name, content, language string) (*models.Project, error) {
	now := s.now()
	return s.mutate(ctx, key, false, func(p *models.Project) (*models.Project, error) {
		return synthesizer.UpsertFile(p, name, content, language, now)
	})
}

func (s *WorkspaceService) RenameFile(ctx context.Context, key, fileID, newName string) (*models.Project, error) {
	now := s.now()
	return s.mutate(ctx, key, false, func(p *models.Project) (*models.Project, error) {
		return synthesizer.RenameFile(p, fileID, newName, now)
	})
}

func (s *WorkspaceService) DeleteFile(ctx context.Context, key, fileID string) (*models.Project, error) {
	now := s.now()
	return s.mutate(ctx, key, false, func(p *models.Project) (*models.Project, error) {
		return synthesizer.DeleteFile(p, fileID, now)
	})
}

// Preview assembles the project's preview document.
func (s *WorkspaceService) Preview(ctx context.Context, key string, forDeploy bool) (string, error) {
	p, err := s.GetProject(ctx, key)
	if err != nil {
		return "", err
	}
	opts := preview.ForEditor()
	if forDeploy {
		opts = preview.ForDeploy()
	}
	doc := preview.Assemble(p.Files, opts)
	if doc == "" {
		return "", ErrNoHTML
	}
	return doc, nil
}

// Deploy publishes the project through the configured deployer.
func (s *WorkspaceService) Deploy(ctx context.Context, key string) (deploy.Result, error) {
	p, err := s.GetProject(ctx, key)
	if err != nil {
		return deploy.Result{}, err
	}
	files, err := deploy.Payload(p)
	if err != nil {
		return deploy.Result{}, err
	}
	res, err := s.deployer.Deploy(ctx, p.Name, files)
	if err != nil {
		return deploy.Result{}, err
	}
	slog.Info("project deployed", "project", key, "url", res.URL)
	return res, nil
}

// mutate applies fn to the project at key, through its live session when one
// is attached, and saves the result. create allows key to be absent.
func (s *WorkspaceService) mutate(ctx context.Context, key string, create bool, fn func(*models.Project) (*models.Project, error)) (*models.Project, error) {
	s.edit.Lock()
	defer s.edit.Unlock()

	var (
		updated *models.Project
		err     error
	)
	if sess := s.attachedTo(key); sess != nil {
		updated, err = sess.UpdateProject(fn)
	} else {
		current, lerr := s.repo.LoadProject(ctx, key)
		switch {
		case errors.Is(lerr, store.ErrNotFound) && create:
			current = nil
		case lerr != nil:
			return nil, lerr
		}
		updated, err = fn(current)
	}
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveProject(ctx, key, updated); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	return updated, nil
}

// session returns the live session for id, loading it on first use.
func (s *WorkspaceService) session(ctx context.Context, id string) (*session.Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	chat, err := s.repo.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	project, err := s.repo.LoadProject(ctx, chat.ProjectKey)
	if errors.Is(err, store.ErrNotFound) {
		// the project was deleted; start over with the starter files
		project = synthesizer.NewDefaultProject("", s.now())
		if err := s.repo.SaveProject(ctx, chat.ProjectKey, project); err != nil {
			return nil, fmt.Errorf("failed to save project: %w", err)
		}
	} else if err != nil {
		return nil, err
	}
	return s.track(chat, project), nil
}

func (s *WorkspaceService) track(chat *models.ChatSession, project *models.Project) *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[chat.ID]; ok {
		return existing
	}
	sess := session.New(chat, project, session.Options{
		Completer: s.completer,
		Describer: s.describer,
		Publisher: s.pub,
		Backoff:   s.backoff,
		Now:       s.now,
	})
	s.sessions[chat.ID] = sess
	s.attached[chat.ProjectKey] = sess
	return sess
}

// tracked reports whether sess is still the live session for its id.
func (s *WorkspaceService) tracked(sess *session.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sess.ID()] == sess
}

func (s *WorkspaceService) attachedTo(key string) *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached[key]
}
