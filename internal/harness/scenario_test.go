package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes scenario YAML to a temp file and returns its path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validScenarioYAML = `
name: test_scenario
description: "Links two frames"
document:
  actions:
    - name: walk
      active: true
      curves:
        - name: arm.L/location.x
          keys:
            - { frame: 10, value: 1.0 }
            - { frame: 20, value: 2.0 }
steps:
  - select: [10, 20]
  - run: link
assertions:
  - type: linked
    action: walk
    sets: [[[10, 0], [20, 1]]]
`

func TestLoadScenarioValidFile(t *testing.T) {
	scenario, err := LoadScenario(writeScenario(t, validScenarioYAML))
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Links two frames", scenario.Description)
	require.Len(t, scenario.Document.Actions, 1)
	assert.Equal(t, "walk", scenario.Document.Actions[0].Name)
	require.Len(t, scenario.Steps, 2)
	assert.Equal(t, []int64{10, 20}, scenario.Steps[0].Select)
	assert.Equal(t, "link", scenario.Steps[1].Run)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, AssertLinked, scenario.Assertions[0].Type)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenarioUnknownField(t *testing.T) {
	content := `
name: test
description: "Typo in the steps key"
document:
  actions: [{ name: walk, active: true }]
stepz:
  - run: info
assertions:
  - type: clean
`
	_, err := LoadScenario(writeScenario(t, content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenarioValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "x"
document: { actions: [{ name: walk }] }
steps: [{ run: info }]
assertions: [{ type: clean }]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: test
document: { actions: [{ name: walk }] }
steps: [{ run: info }]
assertions: [{ type: clean }]
`,
			wantErr: "description is required",
		},
		{
			name: "invalid document",
			content: `
name: test
description: "x"
document:
  scene: { editors: [timeline] }
  actions: [{ name: walk }]
steps: [{ run: info }]
assertions: [{ type: clean }]
`,
			wantErr: `unknown editor "timeline"`,
		},
		{
			name: "missing steps",
			content: `
name: test
description: "x"
document: { actions: [{ name: walk }] }
assertions: [{ type: clean }]
`,
			wantErr: "steps list is required",
		},
		{
			name: "empty step",
			content: `
name: test
description: "x"
document: { actions: [{ name: walk }] }
steps: [{}]
assertions: [{ type: clean }]
`,
			wantErr: "steps[0]: one of select, goto, run, set_key, save is required",
		},
		{
			name: "two directives in one step",
			content: `
name: test
description: "x"
document: { actions: [{ name: walk }] }
steps: [{ run: info, goto: 5 }]
assertions: [{ type: clean }]
`,
			wantErr: "steps[0]: want one directive per step",
		},
		{
			name: "unknown command",
			content: `
name: test
description: "x"
document: { actions: [{ name: walk }] }
steps: [{ run: blend }]
assertions: [{ type: clean }]
`,
			wantErr: `steps[0]: unknown command "blend"`,
		},
		{
			name: "set_key without curve",
			content: `
name: test
description: "x"
document: { actions: [{ name: walk }] }
steps: [{ set_key: { action: walk, frame: 1, value: 2.0 } }]
assertions: [{ type: clean }]
`,
			wantErr: "steps[0].set_key: curve is required",
		},
		{
			name: "too few sync tokens",
			content: `
name: test
description: "x"
document: { actions: [{ name: walk }] }
sync_tokens: [only-one]
steps: [{ save: true }, { save: true }]
assertions: [{ type: clean }]
`,
			wantErr: "sync_tokens: need at least 2",
		},
		{
			name: "missing assertions",
			content: `
name: test
description: "x"
document: { actions: [{ name: walk }] }
steps: [{ run: info }]
`,
			wantErr: "assertions list is required",
		},
		{
			name: "unknown assertion type",
			content: `
name: test
description: "x"
document: { actions: [{ name: walk }] }
steps: [{ run: info }]
assertions: [{ type: trace_contains }]
`,
			wantErr: `unknown assertion type "trace_contains"`,
		},
		{
			name: "linked assertion without action",
			content: `
name: test
description: "x"
document: { actions: [{ name: walk }] }
steps: [{ run: info }]
assertions: [{ type: linked }]
`,
			wantErr: "assertions[0]: action is required for linked",
		},
		{
			name: "linked assertion with bad pair",
			content: `
name: test
description: "x"
document: { actions: [{ name: walk }] }
steps: [{ run: info }]
assertions: [{ type: linked, action: walk, sets: [[[10]]] }]
`,
			wantErr: "assertions[0].sets[0][0]: want [frame, flag] pair",
		},
		{
			name: "pose assertion without channel",
			content: `
name: test
description: "x"
document: { actions: [{ name: walk }] }
steps: [{ run: info }]
assertions: [{ type: pose, action: walk, element: arm.L }]
`,
			wantErr: "assertions[0]: channel is required for pose",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
