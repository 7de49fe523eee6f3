package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"path"
	"sort"
	"strings"
	"sync"

	storage "github.com/supabase-community/storage-go"
	"sparrow-backend/internal/deploy"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/store"
)

const (
	projectsFolder = "projects"
	sessionsFolder = "sessions"
	sitesFolder    = "sites"
	listLimit      = 1000
)

// StorageClient keeps projects and sessions as JSON objects in a Supabase
// Storage bucket and can publish a project as a static site.
type StorageClient struct {
	// storage-go keeps per-upload headers on the shared client, so calls are serialized.
	mu      sync.Mutex
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	if supabaseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storagePath)
}

func projectPath(key string) string {
	return projectsFolder + "/" + store.ProjectKey(key) + ".json"
}

func sessionPath(id string) string {
	return sessionsFolder + "/" + store.SessionKey(id) + ".json"
}

func (s *StorageClient) LoadProject(_ context.Context, key string) (*models.Project, error) {
	var p models.Project
	if err := s.getJSON(projectPath(key), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *StorageClient) SaveProject(_ context.Context, key string, p *models.Project) error {
	return s.putJSON(projectPath(key), p)
}

func (s *StorageClient) ListProjects(ctx context.Context) ([]models.ProjectSummary, error) {
	keys, err := s.listKeys(projectsFolder, "sparrow_project_")
	if err != nil {
		return nil, err
	}
	out := []models.ProjectSummary{}
	for _, key := range keys {
		p, err := s.LoadProject(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, store.SummarizeProject(key, p))
	}
	store.SortProjects(out)
	return out, nil
}

func (s *StorageClient) DeleteProject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed, err := s.client.RemoveFile(s.bucket, []string{projectPath(key)})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if len(removed) == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *StorageClient) LoadSession(_ context.Context, id string) (*models.ChatSession, error) {
	var cs models.ChatSession
	if err := s.getJSON(sessionPath(id), &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (s *StorageClient) SaveSession(_ context.Context, cs *models.ChatSession) error {
	return s.putJSON(sessionPath(cs.ID), cs)
}

func (s *StorageClient) ListSessions(ctx context.Context) ([]models.SessionSummary, error) {
	ids, err := s.listKeys(sessionsFolder, "sparrow_chat_session_")
	if err != nil {
		return nil, err
	}
	out := []models.SessionSummary{}
	for _, id := range ids {
		cs, err := s.LoadSession(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, store.SummarizeSession(cs))
	}
	store.SortSessions(out)
	return out, nil
}

// Deploy publishes files under sites/<slug>/ and returns the public URL of
// the site's index.html.
func (s *StorageClient) Deploy(_ context.Context, name string, files map[string]string) (deploy.Result, error) {
	slug := deploy.Slug(name)
	prefix := sitesFolder + "/" + slug + "/"

	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		if err := s.upload(prefix+n, []byte(files[n]), contentType(n)); err != nil {
			return deploy.Result{}, fmt.Errorf("failed to publish %s: %w", n, err)
		}
	}
	return deploy.Result{URL: s.GetPublicURL(prefix + "index.html"), SiteID: slug}, nil
}

func (s *StorageClient) getJSON(objectPath string, v any) error {
	s.mu.Lock()
	data, err := s.client.DownloadFile(s.bucket, objectPath)
	s.mu.Unlock()
	if err != nil {
		if isNotFound(err) {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to download %s: %w", objectPath, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", objectPath, err)
	}
	return nil
}

func (s *StorageClient) putJSON(objectPath string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", objectPath, err)
	}
	return s.upload(objectPath, data, "application/json")
}

func (s *StorageClient) upload(objectPath string, data []byte, ct string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	upsert := true
	_, err := s.client.UploadFile(s.bucket, objectPath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &ct,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// listKeys returns the keys of objects named <prefix><key>.json in folder.
func (s *StorageClient) listKeys(folder, prefix string) ([]string, error) {
	s.mu.Lock()
	files, err := s.client.ListFiles(s.bucket, folder, storage.FileSearchOptions{Limit: listLimit})
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	var keys []string
	for _, f := range files {
		name := path.Base(f.Name)
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json"))
	}
	return keys, nil
}

func isNotFound(err error) bool {
	var se *storage.StorageError
	if errors.As(err, &se) {
		return se.Status == 404 || strings.Contains(strings.ToLower(se.Message), "not found")
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "text/plain; charset=utf-8"
}
