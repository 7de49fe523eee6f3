package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sparrow-backend/internal/llm"
	"sparrow-backend/internal/models"
	"sparrow-backend/internal/session"
	"sparrow-backend/internal/store"
	"sparrow-backend/internal/synthesizer"
)

type fixedCompleter string

func (f fixedCompleter) Complete(context.Context, []llm.Message) (string, error) {
	return string(f), nil
}

func TestSendMessage_KeepsEditSavedAfterTurn(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	svc := NewWorkspaceService(Options{
		Repository: repo,
		Completer:  fixedCompleter("Done.\n```html file=\"about.html\"\n<p>About</p>\n```"),
	})
	chat, _, err := svc.CreateSession(ctx, "race")
	require.NoError(t, err)
	sess, err := svc.session(ctx, chat.ID)
	require.NoError(t, err)

	// hold the edit lock so the turn finishes but cannot save yet
	svc.edit.Lock()
	done := make(chan error, 1)
	go func() {
		_, _, err := svc.SendMessage(ctx, chat.ID, session.Input{Text: "add an about page"})
		done <- err
	}()
	require.Eventually(t, func() bool {
		return len(sess.Chat().Messages) == 2 && sess.State() == session.Idle
	}, 2*time.Second, 5*time.Millisecond)

	// a manual edit that won the lock first
	edited, err := sess.UpdateProject(func(p *models.Project) (*models.Project, error) {
		return synthesizer.UpsertFile(p, "manual.js", "edit()", "", time.Now())
	})
	require.NoError(t, err)
	require.NoError(t, repo.SaveProject(ctx, chat.ProjectKey, edited))
	svc.edit.Unlock()

	require.NoError(t, <-done)

	stored, err := repo.LoadProject(ctx, chat.ProjectKey)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stored.FileByName("manual.js"), 0)
	assert.GreaterOrEqual(t, stored.FileByName("about.html"), 0)
	assert.Len(t, stored.Files, len(sess.Project().Files))
}
