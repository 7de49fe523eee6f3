package supabase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sparrow-backend/internal/database"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/store"
	"sparrow-backend/internal/supabase"
)

func newSQLite(t *testing.T) *supabase.DatabaseClient {
	t.Helper()
	db, err := supabase.NewDatabaseClient(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.NewMigrator(db.DB(), database.DriverSQLite).Run(context.Background()))
	return db
}

func TestMigrator_Idempotent(t *testing.T) {
	db := newSQLite(t)
	m := database.NewMigrator(db.DB(), database.DriverSQLite)
	require.NoError(t, m.Run(context.Background()))

	applied, err := m.Applied(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql"}, applied)
}

func TestDatabaseClient_ProjectRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newSQLite(t)
	now := time.Date(2025, 5, 6, 7, 8, 9, 123456789, time.UTC)
	p := &models.Project{
		ID: "p1", Name: "Demo", Description: "d", CreatedAt: now, LastModified: now.Add(time.Second),
		Files: []models.ProjectFile{
			{ID: "index_html", Name: "index.html", Content: "<h1>x</h1>", Language: "html", LastModified: now},
			{ID: "styles_css", Name: "styles.css", Content: "h1{}", Language: "css", LastModified: now},
			{ID: "about_html", Name: "about.html", Content: "<p>a</p>", Language: "html", LastModified: now},
		},
	}

	require.NoError(t, db.SaveProject(ctx, "demo", p))
	got, err := db.LoadProject(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// saving again replaces the file set
	p.Files = p.Files[:1]
	p.Name = "Renamed"
	require.NoError(t, db.SaveProject(ctx, "demo", p))
	got, err = db.LoadProject(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Len(t, got.Files, 1)

	list, err := db.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ProjectSummary{Key: "demo", ID: "p1", Name: "Renamed", FileCount: 1, CreatedAt: now, LastModified: now.Add(time.Second)}, list[0])
}

func TestDatabaseClient_DeleteProject(t *testing.T) {
	ctx := context.Background()
	db := newSQLite(t)
	require.NoError(t, db.SaveProject(ctx, "k", &models.Project{ID: "1", Files: []models.ProjectFile{{ID: "a", Name: "a.txt"}}}))

	require.NoError(t, db.DeleteProject(ctx, "k"))
	_, err := db.LoadProject(ctx, "k")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, db.DeleteProject(ctx, "k"), store.ErrNotFound)
}

func TestDatabaseClient_Sessions(t *testing.T) {
	ctx := context.Background()
	db := newSQLite(t)
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &models.ChatSession{
		ID: "s1", Title: "Build a landing page", ProjectKey: "demo", State: "idle",
		CreatedAt: t0, LastModified: t0.Add(time.Minute),
		Messages: []models.Message{
			{ID: "m1", Role: models.RoleUser, Content: "Build a landing page", Timestamp: t0},
			{ID: "m2", Role: models.RoleAssistant, Content: "Rate limit reached.", Kind: models.KindNotice, Timestamp: t0},
			{ID: "m3", Role: models.RoleAssistant, Content: "Done", Timestamp: t0.Add(time.Second)},
		},
	}
	require.NoError(t, db.SaveSession(ctx, s))
	require.NoError(t, db.SaveSession(ctx, &models.ChatSession{ID: "s0", CreatedAt: t0, LastModified: t0}))

	got, err := db.LoadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, s, got)

	list, err := db.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s1", list[0].ID)
	assert.Equal(t, 3, list[0].MessageCount)

	_, err = db.LoadSession(ctx, "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
