package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaenox/stocksense/internal/models"
)

func TestMemoryStorageMessageOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	require.NoError(t, store.CreateConversation(ctx, "c1"))

	for i := 0; i < 5; i++ {
		msg := &models.Message{
			ConversationID: "c1",
			Role:           models.RoleUser,
			Content:        fmt.Sprintf("msg %d", i),
			Mode:           models.ModeBeginner,
		}
		require.NoError(t, store.SaveMessage(ctx, msg))
		assert.NotZero(t, msg.ID)
		assert.False(t, msg.CreatedAt.IsZero())
	}

	msgs, err := store.GetMessages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	for i, msg := range msgs {
		assert.Equal(t, fmt.Sprintf("msg %d", i), msg.Content)
		if i > 0 {
			assert.Greater(t, msg.ID, msgs[i-1].ID)
			assert.False(t, msg.CreatedAt.Before(msgs[i-1].CreatedAt))
		}
	}
}

func TestMemoryStorageSaveRequiresConversation(t *testing.T) {
	store := NewMemoryStorage()

	err := store.SaveMessage(context.Background(), &models.Message{
		ConversationID: "missing",
		Role:           models.RoleUser,
		Content:        "hi",
	})
	assert.Error(t, err)
}

func TestMemoryStorageDeleteCascadesAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	require.NoError(t, store.CreateConversation(ctx, "c1"))
	require.NoError(t, store.SaveMessage(ctx, &models.Message{
		ConversationID: "c1", Role: models.RoleUser, Content: "hi", Mode: models.ModeBeginner,
	}))

	require.NoError(t, store.DeleteConversation(ctx, "c1"))
	msgs, err := store.GetMessages(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.NoError(t, store.DeleteConversation(ctx, "c1"))
}

func TestMemoryStorageTickerViews(t *testing.T) {
	store := NewMemoryStorage()

	require.NoError(t, store.RecordTickerView(context.Background(), "AAPL"))
	require.NoError(t, store.Close())
}
