package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/margin/internal/core/domain"
)

func seedExportWorkspace(t *testing.T) {
	t.Helper()
	_, err := run("idea", "add", "Sleep consolidates memory")
	require.NoError(t, err)
	claim := workspaceService.Ideas()[0].ID

	args := append([]string{"comment", "paper.pdf", "Rats replay maze runs while asleep",
		"--type", "evidence", "--related", claim, "--relation", "supports", "--direction", "incoming"}, selectionArgs...)
	_, err = run(args...)
	require.NoError(t, err)

	anchorID := workspaceService.Anchors()[0].ID
	_, err = run("idea", "add", "The replay happens during slow-wave sleep", "--anchor", anchorID)
	require.NoError(t, err)
}

func TestExport_YAML(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	seedExportWorkspace(t)

	out, err := run("export")
	require.NoError(t, err)

	var doc exportDocument
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, exportVersion, doc.Version)
	assert.Len(t, doc.Ideas, 3)
	assert.Len(t, doc.Anchors, 1)
	assert.Len(t, doc.Relations, 1)
	assert.Len(t, doc.Highlights, 1)
	assert.Len(t, doc.Links, 2)
	assert.Equal(t, "SUPPORTS", doc.Relations[0].Type)
	assert.NotEmpty(t, doc.Anchors[0].Rects)
}

func TestExport_IncludesFlagsAndHidden(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run("idea", "add", "Sleep consolidates memory")
	require.NoError(t, err)
	idea := workspaceService.Ideas()[0]
	_, err = run("idea", "hide", idea.ID)
	require.NoError(t, err)

	out, err := run("export", "--format", "json")
	require.NoError(t, err)

	var doc exportDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Ideas, 1)
	assert.True(t, doc.Ideas[0].Hidden)
	assert.Equal(t, []string{"ISOLATED", "NO_EVIDENCE"}, doc.Ideas[0].Flags)
	assert.Empty(t, doc.Relations)
}

func TestExport_EmptyWorkspace(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := run("export", "-f", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"ideas": []`)
}

func TestExport_UnknownFormat(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := run("export", "--format", "csv")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExport_ToFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	seedExportWorkspace(t)

	path := filepath.Join(t.TempDir(), "notes.yaml")
	out, err := run("export", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 ideas")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc exportDocument
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Len(t, doc.Ideas, 3)
}
