package supabase_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/store"
	"sparrow-backend/internal/supabase"
)

// fakeStorage mimics the Supabase Storage object endpoints for one bucket.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeStorage(t *testing.T) *httptest.Server {
	f := &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /storage/v1/object/list/{bucket}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Prefix string `json:"prefix"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		defer f.mu.Unlock()
		out := []map[string]string{}
		for key := range f.objects {
			if rest, ok := strings.CutPrefix(key, body.Prefix+"/"); ok && !strings.Contains(rest, "/") {
				out = append(out, map[string]string{"name": rest})
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("POST /storage/v1/object/{bucket}/{path...}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		data, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.objects[r.PathValue("path")] = data
		f.types[r.PathValue("path")] = r.Header.Get("Content-Type")
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"Key": r.PathValue("bucket") + "/" + r.PathValue("path")})
	})
	mux.HandleFunc("GET /storage/v1/object/{bucket}/{path...}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		data, ok := f.objects[r.PathValue("path")]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"statusCode":"404","error":"not_found","message":"Object not found"}`))
			return
		}
		_, _ = w.Write(data)
	})
	mux.HandleFunc("DELETE /storage/v1/object/{bucket}", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Prefixes []string `json:"prefixes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		defer f.mu.Unlock()
		removed := []map[string]string{}
		for _, p := range body.Prefixes {
			if _, ok := f.objects[p]; ok {
				delete(f.objects, p)
				removed = append(removed, map[string]string{"name": p})
			}
		}
		_ = json.NewEncoder(w).Encode(removed)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newStorage(t *testing.T) *supabase.StorageClient {
	srv := newFakeStorage(t)
	c, err := supabase.NewStorageClient(srv.URL, "service-key", "sparrow")
	require.NoError(t, err)
	return c
}

func TestNewStorageClient_RequiresURL(t *testing.T) {
	_, err := supabase.NewStorageClient("", "k", "b")
	assert.Error(t, err)
}

func TestStorageClient_ProjectRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newStorage(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &models.Project{
		ID: "p1", Name: "Demo", CreatedAt: now, LastModified: now,
		Files: []models.ProjectFile{{ID: "index_html", Name: "index.html", Content: "<h1>x</h1>", Language: "html", LastModified: now}},
	}

	require.NoError(t, c.SaveProject(ctx, "demo", p))
	got, err := c.LoadProject(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	list, err := c.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "demo", list[0].Key)
	assert.Equal(t, 1, list[0].FileCount)

	require.NoError(t, c.DeleteProject(ctx, "demo"))
	_, err = c.LoadProject(ctx, "demo")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, c.DeleteProject(ctx, "demo"), store.ErrNotFound)
}

func TestStorageClient_Sessions(t *testing.T) {
	ctx := context.Background()
	c := newStorage(t)
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, c.SaveSession(ctx, &models.ChatSession{ID: "a", Title: "first", LastModified: t0}))
	require.NoError(t, c.SaveSession(ctx, &models.ChatSession{ID: "b", Title: "second", LastModified: t0.Add(time.Minute),
		Messages: []models.Message{{ID: "m1", Role: models.RoleUser, Content: "hi", Timestamp: t0}}}))

	got, err := c.LoadSession(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Messages[0].Content)

	list, err := c.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, 1, list[0].MessageCount)

	_, err = c.LoadSession(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStorageClient_Deploy(t *testing.T) {
	c := newStorage(t)
	res, err := c.Deploy(context.Background(), "My Site", map[string]string{
		"index.html": "<html></html>",
		"styles.css": "body{}",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.SiteID, "my-site-"))
	assert.Contains(t, res.URL, "/storage/v1/object/public/sparrow/sites/"+res.SiteID+"/index.html")
}

func TestStorageClient_GetPublicURL(t *testing.T) {
	c, err := supabase.NewStorageClient("https://abc.supabase.co/", "k", "bucket")
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/bucket/a/b.html", c.GetPublicURL("a/b.html"))
}
