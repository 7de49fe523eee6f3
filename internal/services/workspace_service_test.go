package services_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sparrow-backend/internal/deploy"
	"sparrow-backend/internal/events"
	"sparrow-backend/internal/llm"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/services"
	"sparrow-backend/internal/session"
	"sparrow-backend/internal/store"
	"sparrow-backend/internal/synthesizer"
)

var t0 = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

const reply = "Done.\n\n## File Structure\n- index.html\n- about.html\n## Code Files\n" +
	"```html file=\"index.html\"\n<!DOCTYPE html><html><head></head><body>Home</body></html>\n```\n" +
	"```html file=\"about.html\"\n<p>About</p>\n```"

type completer struct {
	mu      sync.Mutex
	replies []any
	calls   int
}

func (c *completer) Complete(context.Context, []llm.Message) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := min(c.calls, len(c.replies)-1)
	c.calls++
	if err, ok := c.replies[i].(error); ok {
		return "", err
	}
	return c.replies[i].(string), nil
}

type recordingDeployer struct {
	name  string
	files map[string]string
}

func (d *recordingDeployer) Deploy(_ context.Context, name string, files map[string]string) (deploy.Result, error) {
	d.name, d.files = name, files
	return deploy.Result{URL: "https://demo.example", SiteID: "site"}, nil
}

func newService(c llm.Completer, d deploy.Deployer) (*services.WorkspaceService, *store.Memory, *events.Recorder) {
	repo := store.NewMemory()
	rec := &events.Recorder{}
	svc := services.NewWorkspaceService(services.Options{
		Repository: repo,
		Deployer:   d,
		Completer:  c,
		Publisher:  rec,
		Backoff:    llm.Backoff{MaxRetries: 3, BaseDelay: time.Second, Sleep: func(context.Context, time.Duration) error { return nil }},
		Now:        func() time.Time { return t0 },
	})
	return svc, repo, rec
}

func TestCreateSession_PersistsStarterProject(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService(&completer{replies: []any{reply}}, nil)

	chat, project, err := svc.CreateSession(ctx, "Landing")
	require.NoError(t, err)
	assert.Equal(t, project.ID, chat.ProjectKey)
	assert.Equal(t, "Landing", project.Name)
	assert.Len(t, project.Files, 3)

	stored, err := repo.LoadProject(ctx, chat.ProjectKey)
	require.NoError(t, err)
	assert.Equal(t, project, stored)

	list, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, chat.ID, list[0].ID)
}

func TestSendMessage_PersistsTurn(t *testing.T) {
	ctx := context.Background()
	svc, repo, rec := newService(&completer{replies: []any{reply}}, nil)
	chat, _, err := svc.CreateSession(ctx, "Landing")
	require.NoError(t, err)

	turn, project, err := svc.SendMessage(ctx, chat.ID, session.Input{Text: "Build a landing page"})
	require.NoError(t, err)
	assert.Equal(t, session.Success, turn.Outcome)
	assert.GreaterOrEqual(t, project.FileByName("about.html"), 0)
	assert.Contains(t, rec.Types(), events.TabPreview)

	stored, err := repo.LoadProject(ctx, chat.ProjectKey)
	require.NoError(t, err)
	assert.Equal(t, project, stored)

	storedChat, err := repo.LoadSession(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, storedChat.Messages, 2)
	assert.Equal(t, "Build a landing page...", storedChat.Title)
	assert.Equal(t, "Done.", storedChat.Messages[1].Content)
}

func TestSendMessage_FailureLeavesProjectAlone(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService(&completer{replies: []any{&llm.StatusError{Code: http.StatusInternalServerError}}}, nil)
	chat, before, err := svc.CreateSession(ctx, "Landing")
	require.NoError(t, err)

	turn, _, err := svc.SendMessage(ctx, chat.ID, session.Input{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, session.FatalError, turn.Outcome)

	stored, err := repo.LoadProject(ctx, chat.ProjectKey)
	require.NoError(t, err)
	assert.Equal(t, before, stored)

	storedChat, err := repo.LoadSession(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, storedChat.Messages, 2)
	assert.Equal(t, models.KindError, storedChat.Messages[1].Kind)
}

func TestSendMessage_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(&completer{replies: []any{reply}}, nil)

	_, _, err := svc.SendMessage(ctx, "missing", session.Input{Text: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	chat, _, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	_, _, err = svc.SendMessage(ctx, chat.ID, session.Input{Text: " "})
	assert.ErrorIs(t, err, session.ErrEmptyInput)
}

func TestSessionLoadedFromRepository(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	project := synthesizer.NewDefaultProject("Stored", t0)
	require.NoError(t, repo.SaveProject(ctx, "k1", project))
	require.NoError(t, repo.SaveSession(ctx, &models.ChatSession{ID: "s1", ProjectKey: "k1", CreatedAt: t0, LastModified: t0}))

	svc := services.NewWorkspaceService(services.Options{Repository: repo, Completer: &completer{replies: []any{reply}}, Now: func() time.Time { return t0 }})
	chat, got, err := svc.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", chat.ID)
	assert.Equal(t, project, got)
}

func TestFileEditsGoThroughLiveSession(t *testing.T) {
	ctx := context.Background()
	svc, repo, rec := newService(&completer{replies: []any{reply}}, nil)
	chat, _, err := svc.CreateSession(ctx, "Landing")
	require.NoError(t, err)
	key := chat.ProjectKey

	p, err := svc.UpsertFile(ctx, key, "notes.txt", "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "text", p.Files[p.FileByName("notes.txt")].Language)
	assert.Equal(t, []events.Type{events.PreviewUpdated}, rec.Types())

	p, err = svc.RenameFile(ctx, key, "notes_txt", "readme.txt")
	require.NoError(t, err)
	assert.Equal(t, -1, p.FileByName("notes.txt"))
	assert.GreaterOrEqual(t, p.FileByID("readme_txt"), 0)

	_, err = svc.RenameFile(ctx, key, "readme_txt", "../escape.txt")
	assert.ErrorIs(t, err, synthesizer.ErrInvalidFilename)

	p, err = svc.DeleteFile(ctx, key, "readme_txt")
	require.NoError(t, err)
	assert.Equal(t, -1, p.FileByID("readme_txt"))

	_, err = svc.DeleteFile(ctx, key, "readme_txt")
	assert.ErrorIs(t, err, synthesizer.ErrFileNotFound)

	_, live, err := svc.GetSession(ctx, chat.ID)
	require.NoError(t, err)
	stored, err := repo.LoadProject(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, live, stored)
}

func TestProjectLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil, nil)

	key, p, err := svc.CreateProject(ctx, "My Site", "demo")
	require.NoError(t, err)
	assert.Empty(t, p.Files)

	_, err = svc.UpsertFile(ctx, key, "index.html", "<h1>Hi</h1>", "html")
	require.NoError(t, err)

	dupKey, dup, err := svc.DuplicateProject(ctx, key)
	require.NoError(t, err)
	assert.NotEqual(t, key, dupKey)
	assert.Equal(t, "My Site (Copy)", dup.Name)

	list, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	data, name, err := svc.ExportProject(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "My_Site.json", name)
	var exported models.Project
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Equal(t, "My Site", exported.Name)

	require.NoError(t, svc.DeleteProject(ctx, key))
	_, err = svc.GetProject(ctx, key)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProject(ctx, key), store.ErrNotFound)
}

func TestImportProject(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil, nil)

	in := &models.Project{ID: "old", Name: "Imported", Files: []models.ProjectFile{
		{Name: "index.html", Content: "<p>x</p>"},
		{Name: "app.js", Content: "1", Language: "js"},
	}}
	p, err := svc.ImportProject(ctx, "imp", in)
	require.NoError(t, err)
	assert.NotEqual(t, "old", p.ID)
	assert.Equal(t, t0, p.LastModified)
	assert.Equal(t, "index_html", p.Files[0].ID)
	assert.Equal(t, "javascript", p.Files[1].Language)

	_, err = svc.ImportProject(ctx, "bad", &models.Project{Files: []models.ProjectFile{{Name: "/etc/passwd"}}})
	assert.ErrorIs(t, err, synthesizer.ErrInvalidFilename)
}

func TestArchiveProject(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil, nil)
	key, _, err := svc.CreateProject(ctx, "Zip Me", "")
	require.NoError(t, err)
	_, err = svc.UpsertFile(ctx, key, "index.html", "<p>zip</p>", "")
	require.NoError(t, err)
	_, err = svc.UpsertFile(ctx, key, "styles.css", "p{}", "")
	require.NoError(t, err)

	data, name, err := svc.ArchiveProject(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Zip_Me.zip", name)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "index.html", zr.File[0].Name)
	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "<p>zip</p>", string(body))
}

func TestPreviewAndDeploy(t *testing.T) {
	ctx := context.Background()
	d := &recordingDeployer{}
	svc, _, _ := newService(nil, d)
	key, _, err := svc.CreateProject(ctx, "Site", "")
	require.NoError(t, err)

	_, err = svc.Preview(ctx, key, false)
	assert.ErrorIs(t, err, services.ErrNoHTML)
	_, err = svc.Deploy(ctx, key)
	assert.ErrorIs(t, err, deploy.ErrNoFiles)

	_, err = svc.UpsertFile(ctx, key, "index.html", "<p>hi</p>", "")
	require.NoError(t, err)

	doc, err := svc.Preview(ctx, key, false)
	require.NoError(t, err)
	assert.Contains(t, doc, "<p>hi</p>")
	assert.NotContains(t, doc, "sparrow-label")

	doc, err = svc.Preview(ctx, key, true)
	require.NoError(t, err)
	assert.Contains(t, doc, "sparrow-label")

	res, err := svc.Deploy(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "https://demo.example", res.URL)
	assert.Equal(t, "Site", d.name)
	assert.Contains(t, d.files["index.html"], "sparrow-label")
}

func TestDeploy_DefaultsToDisabled(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(nil, nil)
	key, _, err := svc.CreateProject(ctx, "Site", "")
	require.NoError(t, err)
	_, err = svc.UpsertFile(ctx, key, "index.html", "<p>hi</p>", "")
	require.NoError(t, err)

	_, err = svc.Deploy(ctx, key)
	assert.ErrorIs(t, err, deploy.ErrDisabled)
}

func TestDeleteProject_LiveSessionStartsOver(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newService(&completer{replies: []any{reply}}, nil)
	chat, _, err := svc.CreateSession(ctx, "p")
	require.NoError(t, err)
	key := chat.ProjectKey
	_, err = svc.UpsertFile(ctx, key, "notes.txt", "old", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(ctx, key))
	_, err = repo.LoadProject(ctx, key)
	require.ErrorIs(t, err, store.ErrNotFound)

	turn, project, err := svc.SendMessage(ctx, chat.ID, session.Input{Text: "again"})
	require.NoError(t, err)
	assert.Equal(t, session.Success, turn.Outcome)

	stored, err := repo.LoadProject(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, project, stored)
	assert.NotEqual(t, "p", stored.Name)
	assert.Equal(t, -1, stored.FileByName("notes.txt"))
	assert.GreaterOrEqual(t, stored.FileByName("about.html"), 0)
	assert.Len(t, stored.Files, 4)

	// the transcript survives the reload
	storedChat, err := repo.LoadSession(ctx, chat.ID)
	require.NoError(t, err)
	assert.Len(t, storedChat.Messages, 2)
}
