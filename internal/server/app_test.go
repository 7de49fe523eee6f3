package server_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sparrow-backend/internal/config"
	"sparrow-backend/internal/server"
)

func baseConfig() *config.Config {
	return &config.Config{
		LLMProvider:       "openrouter",
		OpenRouterAPIKey:  "k",
		OpenRouterBaseURL: "http://127.0.0.1:1",
		LLMModel:          "test-model",
		StoreDriver:       "memory",
		DeployTarget:      "none",
	}
}

func TestBuild_Memory(t *testing.T) {
	app, err := server.Build(context.Background(), baseConfig())
	require.NoError(t, err)
	defer app.Close()

	chat, project, err := app.Service.CreateSession(context.Background(), "Demo")
	require.NoError(t, err)
	got, err := app.Service.GetProject(context.Background(), chat.ProjectKey)
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
}

func TestBuild_SQLiteRunsMigrations(t *testing.T) {
	cfg := baseConfig()
	cfg.StoreDriver = "sqlite"
	cfg.SQLitePath = ":memory:"

	app, err := server.Build(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()

	_, _, err = app.Service.CreateProject(context.Background(), "Stored", "")
	require.NoError(t, err)
	list, err := app.Service.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Stored", list[0].Name)
}

func TestBuild_UnknownProvider(t *testing.T) {
	cfg := baseConfig()
	cfg.LLMProvider = "nope"
	_, err := server.Build(context.Background(), cfg)
	assert.Error(t, err)
}
