package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/theothertored/keyframelinker/internal/frames"
)

// Description is a declarative document layout, loaded from YAML.
// The CLI import command and the conformance harness both build
// documents from descriptions.
type Description struct {
	// Scene sets the playhead and open editors. Optional.
	Scene SceneDescription `yaml:"scene"`

	// Actions lists the actions to create, in order.
	Actions []ActionDescription `yaml:"actions"`
}

// SceneDescription configures scene state.
type SceneDescription struct {
	// Frame is the initial playhead position. Zero leaves the
	// document default in place.
	Frame int64 `yaml:"frame,omitempty"`

	// Editors lists the open editor surfaces. Omitted keeps the
	// document default; an explicit empty list closes all editors.
	Editors []string `yaml:"editors,omitempty"`
}

// ActionDescription declares one action and its content.
type ActionDescription struct {
	// Name uniquely identifies the action.
	Name string `yaml:"name"`

	// Active marks this action as the one being edited. At most one
	// action may be active.
	Active bool `yaml:"active,omitempty"`

	// LinkedFrames seeds the linked frame sets as sequences of
	// [frame, flag] pairs, the persisted partition layout. Each set
	// needs at least two pairs.
	LinkedFrames [][][]int64 `yaml:"linked_frames,omitempty"`

	// Curves lists the action's curves and their keys.
	Curves []CurveDescription `yaml:"curves,omitempty"`

	// Poses maps frames to whole-pose snapshots.
	Poses map[int64]Pose `yaml:"poses,omitempty"`
}

// CurveDescription declares one curve.
type CurveDescription struct {
	// Name is the curve path, e.g. "arm.L/location.x".
	Name string `yaml:"name"`

	// Keys lists the curve's keyframes.
	Keys []KeyDescription `yaml:"keys,omitempty"`
}

// KeyDescription declares one keyframe.
type KeyDescription struct {
	Frame    int64   `yaml:"frame"`
	Value    float64 `yaml:"value"`
	Selected bool    `yaml:"selected,omitempty"`
}

// LoadDescription reads and parses a document description YAML file.
// Returns an error if the file doesn't exist, is malformed, or
// contains unknown fields (typos).
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read description file: %w", err)
	}
	return ParseDescription(data)
}

// ParseDescription parses a document description from YAML bytes with
// strict field validation.
func ParseDescription(data []byte) (*Description, error) {
	var desc Description
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&desc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ValidateDescription(&desc); err != nil {
		return nil, fmt.Errorf("invalid description: %w", err)
	}
	return &desc, nil
}

// ValidateDescription checks required fields and structural rules.
// Callers that embed a Description inside a larger config run this
// themselves; ParseDescription already does.
func ValidateDescription(desc *Description) error {
	for _, ed := range desc.Scene.Editors {
		switch ed {
		case EditorDopeSheet, EditorGraph, EditorNLA:
		default:
			return fmt.Errorf("scene: unknown editor %q", ed)
		}
	}

	seen := make(map[string]bool)
	activeCount := 0
	for i, act := range desc.Actions {
		if act.Name == "" {
			return fmt.Errorf("actions[%d]: name is required", i)
		}
		if seen[act.Name] {
			return fmt.Errorf("actions[%d]: duplicate action name %q", i, act.Name)
		}
		seen[act.Name] = true

		if act.Active {
			activeCount++
		}

		for j, set := range act.LinkedFrames {
			if len(set) < 2 {
				return fmt.Errorf("actions[%d].linked_frames[%d]: a set needs at least two frames", i, j)
			}
			for k, pair := range set {
				if len(pair) != 2 {
					return fmt.Errorf("actions[%d].linked_frames[%d][%d]: want [frame, flag] pair", i, j, k)
				}
			}
		}

		for j, curve := range act.Curves {
			if curve.Name == "" {
				return fmt.Errorf("actions[%d].curves[%d]: name is required", i, j)
			}
		}
	}

	if activeCount > 1 {
		return fmt.Errorf("at most one action may be active, got %d", activeCount)
	}
	return nil
}

// Import builds the described content inside the document.
func (d *Document) Import(ctx context.Context, desc *Description) error {
	for i, ad := range desc.Actions {
		act, err := d.CreateAction(ctx, ad.Name)
		if err != nil {
			return fmt.Errorf("actions[%d]: %w", i, err)
		}

		for _, cd := range ad.Curves {
			if err := act.AddCurve(ctx, cd.Name); err != nil {
				return fmt.Errorf("actions[%d]: %w", i, err)
			}
			for _, kd := range cd.Keys {
				if err := act.SetKey(ctx, cd.Name, kd.Frame, kd.Value, kd.Selected); err != nil {
					return fmt.Errorf("actions[%d]: %w", i, err)
				}
			}
		}

		poseFrames := make([]int64, 0, len(ad.Poses))
		for frame := range ad.Poses {
			poseFrames = append(poseFrames, frame)
		}
		sort.Slice(poseFrames, func(a, b int) bool { return poseFrames[a] < poseFrames[b] })
		for _, frame := range poseFrames {
			if err := act.SetPose(ctx, frame, ad.Poses[frame]); err != nil {
				return fmt.Errorf("actions[%d]: %w", i, err)
			}
		}

		if len(ad.LinkedFrames) > 0 {
			if err := frames.NewStore(act).Save(partitionFromPairs(ad.LinkedFrames)); err != nil {
				return fmt.Errorf("actions[%d]: seed linked frames: %w", i, err)
			}
		}

		if ad.Active {
			if err := d.SetActiveAction(ctx, ad.Name); err != nil {
				return fmt.Errorf("actions[%d]: %w", i, err)
			}
		}
	}

	if desc.Scene.Editors != nil {
		if err := d.SetEditors(desc.Scene.Editors); err != nil {
			return err
		}
	}
	if desc.Scene.Frame != 0 {
		if err := d.SetFrame(desc.Scene.Frame); err != nil {
			return err
		}
	}

	d.log.Debug("imported document description", "actions", len(desc.Actions))
	return nil
}

// partitionFromPairs builds a partition from the persisted pair
// layout. Callers validate pair shape first.
func partitionFromPairs(sets [][][]int64) frames.Partition {
	var part frames.Partition
	for _, pairs := range sets {
		members := make([]frames.Member, 0, len(pairs))
		for _, pair := range pairs {
			members = append(members, frames.Member{Frame: pair[0], Flipped: pair[1] != 0})
		}
		part = append(part, frames.NewSet(members...))
	}
	return part
}
