package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/theothertored/keyframelinker/internal/command"
	"github.com/theothertored/keyframelinker/internal/document"
)

// Scenario defines a conformance test scenario.
// Scenarios build a document, drive the commands and the save hook
// against it, and assert on the resulting trace and final state.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the
	// golden trace file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Document describes the document the scenario runs against.
	Document document.Description `yaml:"document"`

	// Steps contains the user steps to execute, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final document state.
	// Supported types: linked, key, pose, playhead, selected, clean, dirty.
	Assertions []Assertion `yaml:"assertions"`

	// SyncTokens fixes the run tokens handed out during saves, for
	// deterministic golden file comparison. If empty, the harness
	// generates "sync-01", "sync-02", ... one per save step.
	SyncTokens []string `yaml:"sync_tokens,omitempty"`
}

// Step represents a single user step. Exactly one directive must be
// set per step.
type Step struct {
	// Select replaces the key selection on the active action. An
	// explicit empty list clears the selection.
	Select []int64 `yaml:"select,omitempty"`

	// Goto moves the scene playhead to the given frame.
	Goto *int64 `yaml:"goto,omitempty"`

	// Run executes a command by name: link, flip, unlink, or info.
	Run string `yaml:"run,omitempty"`

	// SetKey writes one curve key, the way a user edit would.
	SetKey *KeyEdit `yaml:"set_key,omitempty"`

	// Save saves the document, running the pre-save sync hook.
	Save bool `yaml:"save,omitempty"`
}

// KeyEdit identifies one curve key write.
type KeyEdit struct {
	// Action names the action holding the curve.
	Action string `yaml:"action"`

	// Curve is the curve path, e.g. "arm.L/location.x".
	Curve string `yaml:"curve"`

	// Frame is the key's frame.
	Frame int64 `yaml:"frame"`

	// Value is the key's new value.
	Value float64 `yaml:"value"`
}

// directives lists the directives set on this step. Valid steps carry
// exactly one.
func (s *Step) directives() []string {
	var kinds []string
	if s.Select != nil {
		kinds = append(kinds, "select")
	}
	if s.Goto != nil {
		kinds = append(kinds, "goto")
	}
	if s.Run != "" {
		kinds = append(kinds, "run")
	}
	if s.SetKey != nil {
		kinds = append(kinds, "set_key")
	}
	if s.Save {
		kinds = append(kinds, "save")
	}
	return kinds
}

// Assertion validates final document state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "linked": the persisted linked-frame sets on an action
	// - "key": a curve key's value on an action
	// - "pose": one pose channel's value at a frame
	// - "playhead": the scene playhead position
	// - "selected": the selected key frames on the active action
	// - "clean": the document has no unsaved changes
	// - "dirty": the document has unsaved changes
	Type string `yaml:"type"`

	// Action names the action to inspect (linked, key, pose).
	Action string `yaml:"action,omitempty"`

	// Sets is the expected persisted partition as sequences of
	// [frame, flag] pairs (linked). Empty means nothing may be
	// persisted.
	Sets [][][]int64 `yaml:"sets,omitempty"`

	// Curve is the curve path (key).
	Curve string `yaml:"curve,omitempty"`

	// Frame is the frame to inspect (key, pose, playhead).
	Frame int64 `yaml:"frame,omitempty"`

	// Value is the expected value (key, pose).
	Value float64 `yaml:"value,omitempty"`

	// Element and Channel address one pose channel (pose).
	Element string `yaml:"element,omitempty"`
	Channel string `yaml:"channel,omitempty"`

	// Frames is the expected selection, ascending (selected).
	Frames []int64 `yaml:"frames,omitempty"`
}

// Assertion type constants.
const (
	AssertLinked   = "linked"
	AssertKey      = "key"
	AssertPose     = "pose"
	AssertPlayhead = "playhead"
	AssertSelected = "selected"
	AssertClean    = "clean"
	AssertDirty    = "dirty"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if err := document.ValidateDescription(&s.Document); err != nil {
		return fmt.Errorf("document: %w", err)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	saves := 0
	for i, step := range s.Steps {
		kinds := step.directives()
		if len(kinds) == 0 {
			return fmt.Errorf("steps[%d]: one of select, goto, run, set_key, save is required", i)
		}
		if len(kinds) > 1 {
			return fmt.Errorf("steps[%d]: want one directive per step, got %v", i, kinds)
		}

		if step.Run != "" {
			if _, ok := command.Find(step.Run); !ok {
				return fmt.Errorf("steps[%d]: unknown command %q", i, step.Run)
			}
		}
		if step.SetKey != nil {
			if step.SetKey.Action == "" {
				return fmt.Errorf("steps[%d].set_key: action is required", i)
			}
			if step.SetKey.Curve == "" {
				return fmt.Errorf("steps[%d].set_key: curve is required", i)
			}
		}
		if step.Save {
			saves++
		}
	}

	if len(s.SyncTokens) > 0 && len(s.SyncTokens) < saves {
		return fmt.Errorf("sync_tokens: need at least %d, one per save step, got %d",
			saves, len(s.SyncTokens))
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertLinked:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for linked", index)
		}
		for j, set := range a.Sets {
			for k, pair := range set {
				if len(pair) != 2 {
					return fmt.Errorf("assertions[%d].sets[%d][%d]: want [frame, flag] pair", index, j, k)
				}
			}
		}
	case AssertKey:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for key", index)
		}
		if a.Curve == "" {
			return fmt.Errorf("assertions[%d]: curve is required for key", index)
		}
	case AssertPose:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for pose", index)
		}
		if a.Element == "" {
			return fmt.Errorf("assertions[%d]: element is required for pose", index)
		}
		if a.Channel == "" {
			return fmt.Errorf("assertions[%d]: channel is required for pose", index)
		}
	case AssertPlayhead, AssertSelected, AssertClean, AssertDirty:
		// No extra fields required.
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
