package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/phamduyan/tutorvoice/domain/entities"
	"github.com/phamduyan/tutorvoice/domain/repositories"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:", zaptest.NewLogger(t))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateSessionDefaultTitle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateSession(ctx, "")
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	session, err := store.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, session.Title, "Conversation ")
	assert.False(t, session.CreatedAt.IsZero())
}

func TestGetSessionNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.GetSession(ctx, 42)
	require.Error(t, err)
	assert.True(t, repositories.IsKind(err, repositories.FaultNotFound))
}

func TestAddMessageAndHistoryOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateSession(ctx, "math homework")
	require.NoError(t, err)

	_, err = store.AddMessage(ctx, id, entities.MessageRoleUser, "What is 2+2?", "static/uploads/q.wav")
	require.NoError(t, err)
	_, err = store.AddMessage(ctx, id, entities.MessageRoleAssistant, "2+2 equals 4.", "")
	require.NoError(t, err)

	history, err := store.GetSessionHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, entities.MessageRoleUser, history[0].Role)
	assert.Equal(t, "What is 2+2?", history[0].Content)
	assert.Equal(t, "static/uploads/q.wav", history[0].AudioPath)
	assert.Equal(t, entities.MessageRoleAssistant, history[1].Role)
	assert.Empty(t, history[1].AudioPath)
	assert.False(t, history[1].CreatedAt.Before(history[0].CreatedAt),
		"messages must be in non-decreasing creation order")
}

func TestAddMessageUnknownSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.AddMessage(ctx, 999, entities.MessageRoleUser, "hello", "")
	require.Error(t, err)
	assert.True(t, repositories.IsKind(err, repositories.FaultNotFound),
		"orphaned messages must be rejected")
}

func TestAddMessageInvalidRole(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateSession(ctx, "t")
	require.NoError(t, err)

	_, err = store.AddMessage(ctx, id, "narrator", "hello", "")
	require.Error(t, err)
	assert.True(t, repositories.IsKind(err, repositories.FaultInvalidInput))
}

func TestAddMessageBumpsLastUpdated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first, err := store.CreateSession(ctx, "first")
	require.NoError(t, err)
	second, err := store.CreateSession(ctx, "second")
	require.NoError(t, err)

	// Ensure a strictly later timestamp before appending to the older session.
	time.Sleep(10 * time.Millisecond)
	_, err = store.AddMessage(ctx, first, entities.MessageRoleUser, "hi", "")
	require.NoError(t, err)

	sessions, err := store.GetAllSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first, sessions[0].ID, "session with the newest message must sort first")
	assert.Equal(t, second, sessions[1].ID)
}

func TestFormatConversationHistory(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateSession(ctx, "greetings")
	require.NoError(t, err)
	_, err = store.AddMessage(ctx, id, entities.MessageRoleUser, "Hi", "")
	require.NoError(t, err)
	_, err = store.AddMessage(ctx, id, entities.MessageRoleAssistant, "Hello", "")
	require.NoError(t, err)

	transcript, err := store.FormatConversationHistory(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Student: Hi\nTutor: Hello\n", transcript)
}

func TestDeleteSessionCascades(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateSession(ctx, "doomed")
	require.NoError(t, err)
	_, err = store.AddMessage(ctx, id, entities.MessageRoleUser, "bye", "")
	require.NoError(t, err)

	require.NoError(t, store.DeleteSession(ctx, id))

	history, err := store.GetSessionHistory(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)

	sessions, err := store.GetAllSessions(ctx)
	require.NoError(t, err)
	for _, s := range sessions {
		assert.NotEqual(t, id, s.ID, "deleted session must not be listed")
	}
}

func TestDeleteSessionNotFound(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.DeleteSession(ctx, 123)
	require.Error(t, err)
	assert.True(t, repositories.IsKind(err, repositories.FaultNotFound))
}

func TestGetSessionHistoryEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateSession(ctx, "empty")
	require.NoError(t, err)

	history, err := store.GetSessionHistory(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}
