package workdir_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sparrow-backend/internal/synthesizer"
	"sparrow-backend/internal/workdir"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"index.html":     "<p>hi</p>",
		"styles.css":     "p{}",
		"js/app.js":      "run()",
		".git/config":    "x",
		".env":           "SECRET=1",
		"preview.html":   "old",
		"bad name!.html": "x",
	})

	p, err := workdir.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), p.Name)

	byName := map[string]string{}
	for _, f := range p.Files {
		byName[f.Name] = f.Language
	}
	assert.Equal(t, map[string]string{
		"index.html": "html",
		"styles.css": "css",
		"js/app.js":  "javascript",
	}, byName)
	assert.GreaterOrEqual(t, p.FileByID("js_app_js"), 0)
}

func TestLoad_JSON(t *testing.T) {
	p := synthesizer.NewDefaultProject("Exported", time.Now())
	data, err := json.Marshal(p)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "Exported.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := workdir.Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Len(t, got.Files, 3)

	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))
	_, err = workdir.Load(path)
	assert.Error(t, err)

	_, err = workdir.Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	p := synthesizer.NewDefaultProject("Site", time.Now())
	p, err := synthesizer.UpsertFile(p, "pages/about.html", "<p>About</p>", "", time.Now())
	require.NoError(t, err)

	require.NoError(t, workdir.Write(dir, p))

	about, err := os.ReadFile(filepath.Join(dir, "pages", "about.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>About</p>", string(about))

	doc, err := os.ReadFile(filepath.Join(dir, workdir.PreviewFile))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "<style>")

	// round trip skips the generated preview
	back, err := workdir.LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, back.Files, 4)
	assert.Equal(t, -1, back.FileByName(workdir.PreviewFile))
}

func TestWritePreview_NoHTML(t *testing.T) {
	dir := t.TempDir()
	p := synthesizer.NewProject("css only", "", time.Now())
	p, err := synthesizer.UpsertFile(p, "styles.css", "p{}", "", time.Now())
	require.NoError(t, err)

	require.NoError(t, workdir.WritePreview(dir, p))
	_, err = os.Stat(filepath.Join(dir, workdir.PreviewFile))
	assert.True(t, os.IsNotExist(err))
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"index.html": "<p>v1</p>"})

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- workdir.Watch(ctx, dir, 20*time.Millisecond, func() { calls.Add(1) })
	}()

	// the watcher may not be registered yet, so keep touching the file
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>v2</p>"), 0o644)
		return calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}
