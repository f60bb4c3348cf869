package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/margin/internal/core/domain"
)

func TestIdeaAdd_CreatesManualIdea(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := run("idea", "add", "Sleep consolidates memory", "--type", "claim")
	require.NoError(t, err)
	assert.Contains(t, out, "Added idea")
	assert.Contains(t, out, "CLAIM")

	ideas := workspaceService.Ideas()
	require.Len(t, ideas, 1)
	assert.Equal(t, domain.IdeaOriginManual, ideas[0].Origin)
	assert.Equal(t, domain.IdeaStatusDraft, ideas[0].Status)
	assert.InDelta(t, 0.5, ideas[0].Confidence, 1e-9)
}

func TestIdeaAdd_ShortRephraseFails(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run("idea", "add", "too short")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, workspaceService.Ideas())
}

func TestIdeaAdd_NaNConfidenceFails(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run("idea", "add", "Sleep consolidates memory", "--confidence", "NaN")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, workspaceService.Ideas())

	_, err = run("idea", "add", "Sleep consolidates memory")
	require.NoError(t, err)
	id := workspaceService.Ideas()[0].ID

	_, err = run("idea", "edit", id, "--confidence", "NaN")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.InDelta(t, 0.5, workspaceService.Ideas()[0].Confidence, 1e-9)
}

func TestIdeaAdd_UnknownType(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run("idea", "add", "Sleep consolidates memory", "--type", "hunch")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIdeaAdd_RequiresExactlyOneArg(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run("idea", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIdeaList_ShowsFlagsAndHidesHidden(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run("idea", "add", "Sleep consolidates memory")
	require.NoError(t, err)
	id := workspaceService.Ideas()[0].ID

	out, err := run("idea", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "ISOLATED")
	assert.Contains(t, out, "NO_EVIDENCE")

	_, err = run("idea", "hide", id)
	require.NoError(t, err)

	out, err = run("idea", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No ideas yet.")

	out, err = run("idea", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, id)
}

func TestIdeaList_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run("idea", "add", "Sleep consolidates memory")
	require.NoError(t, err)

	out, err := run("idea", "list", "--json")
	require.NoError(t, err)

	var ideas []domain.Idea
	require.NoError(t, json.Unmarshal([]byte(out), &ideas))
	require.Len(t, ideas, 1)
	assert.Equal(t, "Sleep consolidates memory", ideas[0].Rephrase)
}

func TestIdeaEdit_AppliesChangedFlagsOnly(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run("idea", "add", "Sleep consolidates memory", "--type", "QUESTION")
	require.NoError(t, err)
	id := workspaceService.Ideas()[0].ID

	_, err = run("idea", "edit", id, "--status", "reviewed")
	require.NoError(t, err)

	idea, err := workspaceService.Idea(id)
	require.NoError(t, err)
	assert.Equal(t, domain.IdeaStatusReviewed, idea.Status)
	assert.Equal(t, domain.IdeaTypeQuestion, idea.Type)
	assert.Equal(t, "Sleep consolidates memory", idea.Rephrase)
}

func TestIdeaEdit_NothingToChange(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run("idea", "add", "Sleep consolidates memory")
	require.NoError(t, err)
	id := workspaceService.Ideas()[0].ID

	_, err = run("idea", "edit", id)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIdeaShow_PrintsRelations(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run("idea", "add", "Sleep consolidates memory")
	require.NoError(t, err)
	_, err = run("idea", "add", "Rats replay maze runs in sleep", "--type", "EVIDENCE")
	require.NoError(t, err)
	ideas := workspaceService.Ideas()
	claim, evidence := ideas[0].ID, ideas[1].ID

	_, err = run("relation", "add", evidence, claim, "--type", "supports")
	require.NoError(t, err)

	out, err := run("idea", "show", claim)
	require.NoError(t, err)
	assert.Contains(t, out, "Sleep consolidates memory")
	assert.Contains(t, out, "<- SUPPORTS "+evidence)
	assert.NotContains(t, out, "Flags:")
}

func TestIdeaShow_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run("idea", "show", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
