package chatstore_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/chatstore"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryTranscriptStore_RoundTrip(t *testing.T) {
	store := chatstore.NewInMemoryTranscriptStore()
	ctx := context.Background()

	msgs, err := store.Load(ctx, 1)
	assert.NoError(t, err)
	assert.Empty(t, msgs)

	saved := []model.ChatMessage{
		{ID: "m1", UserID: 1, Text: "hello", CreatedAt: time.Now()},
		{ID: "m2", UserID: 1, Text: "Hi!", IsBot: true, CreatedAt: time.Now()},
	}
	assert.NoError(t, store.Save(ctx, 1, saved))

	got, err := store.Load(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].ID)
}

func TestInMemoryTranscriptStore_SaveReplacesWhole(t *testing.T) {
	store := chatstore.NewInMemoryTranscriptStore()
	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, 1, []model.ChatMessage{{ID: "m1"}, {ID: "m2"}}))
	//上書き保存で件数が減る（クリア相当）
	assert.NoError(t, store.Save(ctx, 1, []model.ChatMessage{{ID: "m3"}}))

	got, err := store.Load(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "m3", got[0].ID)
}

func TestInMemoryTranscriptStore_UsersAreIsolated(t *testing.T) {
	store := chatstore.NewInMemoryTranscriptStore()
	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, 1, []model.ChatMessage{{ID: "m1"}}))

	got, err := store.Load(ctx, 2)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestInMemoryTranscriptStore_LoadReturnsCopy(t *testing.T) {
	store := chatstore.NewInMemoryTranscriptStore()
	ctx := context.Background()

	assert.NoError(t, store.Save(ctx, 1, []model.ChatMessage{{ID: "m1", Text: "original"}}))

	got, _ := store.Load(ctx, 1)
	got[0].Text = "mutated"

	again, _ := store.Load(ctx, 1)
	assert.Equal(t, "original", again[0].Text)
}
