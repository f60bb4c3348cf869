package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/margin/internal/core/domain"
)

func TestIdeaStore_SaveAndGet(t *testing.T) {
	store := NewIdeaStore()
	ctx := context.Background()

	idea := domain.Idea{ID: "idea-1", Rephrase: "a long enough claim", Type: domain.IdeaTypeClaim}
	require.NoError(t, store.Save(ctx, idea))

	got, err := store.Get(ctx, "idea-1")
	require.NoError(t, err)
	assert.Equal(t, idea, *got)
}

func TestIdeaStore_Get_NotFound(t *testing.T) {
	_, err := NewIdeaStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIdeaStore_List_InsertionOrder(t *testing.T) {
	store := NewIdeaStore()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Save(ctx, domain.Idea{ID: id}))
	}
	// Re-saving keeps the original position.
	require.NoError(t, store.Save(ctx, domain.Idea{ID: "c", Rephrase: "updated"}))

	ideas, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, ideas, 3)
	assert.Equal(t, "c", ideas[0].ID)
	assert.Equal(t, "updated", ideas[0].Rephrase)
	assert.Equal(t, "a", ideas[1].ID)
	assert.Equal(t, "b", ideas[2].ID)
}

func TestIdeaStore_Update(t *testing.T) {
	store := NewIdeaStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.Idea{ID: "i", Rephrase: "original text", Confidence: 0.5}))

	hidden := true
	require.NoError(t, store.Update(ctx, "i", domain.IdeaPatch{HiddenFromNotes: &hidden}))

	got, err := store.Get(ctx, "i")
	require.NoError(t, err)
	assert.True(t, got.HiddenFromNotes)
	assert.Equal(t, "original text", got.Rephrase)
}

func TestIdeaStore_Update_NotFound(t *testing.T) {
	err := NewIdeaStore().Update(context.Background(), "missing", domain.IdeaPatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
