package ideas

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/margin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/margin/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/core/services"
)

func setup(t *testing.T, rephrases ...string) (*View, *services.Workspace) {
	t.Helper()
	ws := services.NewWorkspace(services.WorkspaceStores{
		Ideas:      memory.NewIdeaStore(),
		Anchors:    memory.NewAnchorStore(),
		Relations:  memory.NewRelationStore(),
		Highlights: memory.NewHighlightStore(),
		Links:      memory.NewIdeaAnchorStore(),
	}, domain.DefaultAppSettings(), nil)
	for _, r := range rephrases {
		_, err := ws.AddIdea(context.Background(), domain.IdeaDraft{Rephrase: r})
		require.NoError(t, err)
	}

	v := NewView(nil, nil, ws)
	v.SetDimensions(120, 30)
	v, _ = v.Update(v.Init()())
	return v, ws
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestView_Init(t *testing.T) {
	v, _ := setup(t, "Sleep consolidates memory", "Dreams replay the day")

	assert.Equal(t, 2, v.List().Count())
	assert.Contains(t, v.View(), "Dreams replay the day")
}

func TestView_Reorder(t *testing.T) {
	v, ws := setup(t, "Sleep consolidates memory", "Dreams replay the day")
	first := ws.Ideas()[0].ID

	v, _ = v.Update(runes("J"))

	order := v.List().Order()
	assert.Equal(t, first, order[1])
	assert.Equal(t, first, v.List().SelectedRow().Idea.ID)

	v, _ = v.Update(runes("K"))
	assert.Equal(t, first, v.List().Order()[0])
}

func TestView_Hide(t *testing.T) {
	v, ws := setup(t, "Sleep consolidates memory")

	_, cmd := v.Update(runes("h"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(messages.IdeaHidden)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.True(t, msg.Hidden)

	v, cmd = v.Update(msg)
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())

	assert.Len(t, ws.VisibleIdeas(), 0)
	assert.Equal(t, 0, v.List().Count())
}

func TestView_Hide_EmptyList(t *testing.T) {
	v, _ := setup(t)

	_, cmd := v.Update(runes("h"))

	assert.Nil(t, cmd)
}

func TestView_NewIdea(t *testing.T) {
	v, ws := setup(t)

	v, _ = v.Update(runes("n"))
	require.True(t, v.Editing())

	v, _ = v.Update(runes("A question worth asking"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(messages.IdeaAdded)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, domain.IdeaTypeClaim, msg.Idea.Type)

	v, _ = v.Update(msg)
	assert.False(t, v.Editing())
	assert.Len(t, ws.Ideas(), 1)
}

func TestView_NewIdea_Cancel(t *testing.T) {
	v, ws := setup(t)

	v, _ = v.Update(runes("n"))
	v, _ = v.Update(runes("half a thought"))
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, v.Editing())
	assert.Empty(t, ws.Ideas())
	assert.NotContains(t, v.View(), "half a thought")
}

func TestView_NewIdea_ErrorKeepsText(t *testing.T) {
	v, _ := setup(t)

	v, _ = v.Update(runes("n"))
	v, _ = v.Update(runes("tiny"))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := cmd().(messages.IdeaAdded)
	require.Error(t, msg.Err)

	v, _ = v.Update(msg)

	assert.True(t, v.Editing())
	assert.Contains(t, v.View(), "tiny")
}
