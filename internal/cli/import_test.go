package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theothertored/keyframelinker/internal/frames"
)

const walkYAML = `scene:
  frame: 10
  editors: [dopesheet]
actions:
  - name: walk
    active: true
    linked_frames:
      - [[10, 0], [20, 1]]
    curves:
      - name: arm.L/location.x
        keys:
          - {frame: 10, value: 1.5}
`

// writeDescription writes a description YAML into a temp dir.
func writeDescription(t *testing.T, yaml string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "walk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	return path
}

func TestImportCommand(t *testing.T) {
	descPath := writeDescription(t, walkYAML)
	dbPath := filepath.Join(t.TempDir(), "walk.anim")

	out, err := executeCommand(t, "import", descPath, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Imported 1 action(s) into "+dbPath)
	assert.Contains(t, out, "walk: 1 curve(s), 1 linked set(s)")

	// The built document carries the described content
	part := loadPartition(t, dbPath, "walk")
	require.Len(t, part, 1)
	assert.Equal(t, frames.Set{{Frame: 10}, {Frame: 20, Flipped: true}}, part[0])
}

func TestImportCommandMissingDescription(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "walk.anim")

	out, err := executeCommand(t, "import", filepath.Join(t.TempDir(), "missing.yaml"), "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E001]")
	assert.Contains(t, out, "description not found")

	// No document left behind
	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestImportCommandInvalidDescription(t *testing.T) {
	descPath := writeDescription(t, `
scene:
  editors: [timeline]
actions:
  - name: walk
`)
	dbPath := filepath.Join(t.TempDir(), "walk.anim")

	out, err := executeCommand(t, "import", descPath, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "unknown editor")
}

func TestImportCommandRefusesOverwrite(t *testing.T) {
	descPath := writeDescription(t, walkYAML)
	dbPath := filepath.Join(t.TempDir(), "walk.anim")
	require.NoError(t, os.WriteFile(dbPath, []byte("existing"), 0644))

	out, err := executeCommand(t, "import", descPath, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "document already exists")

	// The existing file is untouched
	data, readErr := os.ReadFile(dbPath)
	require.NoError(t, readErr)
	assert.Equal(t, "existing", string(data))
}

func TestImportCommandJSONOutput(t *testing.T) {
	descPath := writeDescription(t, walkYAML)
	dbPath := filepath.Join(t.TempDir(), "walk.anim")

	out, err := executeCommand(t, "import", descPath, "--db", dbPath, "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, dbPath, data["database"])
	actions, ok := data["actions"].([]interface{})
	require.True(t, ok)
	require.Len(t, actions, 1)
}
