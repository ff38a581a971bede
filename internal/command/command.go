package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theothertored/keyframelinker/internal/frames"
)

// Host is the slice of the editing session commands read from: the
// active action, the key selection, and the playhead.
type Host interface {
	// ActiveAction returns the property carrier of the action being
	// edited, or false when no action is active.
	ActiveAction() (frames.PropCarrier, bool)

	// SelectedFrames returns the distinct frame numbers with at least
	// one selected key on the active action.
	SelectedFrames() ([]int64, error)

	// CurrentFrame returns the playhead position.
	CurrentFrame() int64
}

// Outcome describes what a command changed and what the host should do
// about it.
type Outcome struct {
	// Saved is true when the persisted partition was rewritten.
	Saved bool `json:"saved"`

	// Refresh is true when keyframe editors should redraw.
	Refresh bool `json:"refresh"`

	// Lines holds the report, one entry per line.
	Lines []string `json:"lines,omitempty"`
}

// Link groups the selected frames so edits propagate between them. A
// selection spanning existing sets merges them into one. An empty
// selection or a missing action is a no-op.
func Link(host Host) (*Outcome, error) {
	carrier, ok := host.ActiveAction()
	if !ok {
		return &Outcome{}, nil
	}
	store := frames.NewStore(carrier)
	part, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load linked frames: %w", err)
	}
	selected, err := host.SelectedFrames()
	if err != nil {
		return nil, fmt.Errorf("resolve selected frames: %w", err)
	}
	if len(selected) == 0 {
		return &Outcome{}, nil
	}
	if err := store.Save(frames.Link(part, selected)); err != nil {
		return nil, fmt.Errorf("save linked frames: %w", err)
	}
	return saved(store, true)
}

// Unlink removes the selected frames (or the current frame when
// nothing is selected) from their sets. Sets left with fewer than two
// members are dropped. Targets not in any set make the whole command a
// no-op.
func Unlink(host Host) (*Outcome, error) {
	carrier, ok := host.ActiveAction()
	if !ok {
		return &Outcome{}, nil
	}
	store := frames.NewStore(carrier)
	part, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load linked frames: %w", err)
	}
	targets, err := resolveTargets(host)
	if err != nil {
		return nil, err
	}
	next, touched := frames.Unlink(part, targets)
	if touched == 0 {
		return &Outcome{}, nil
	}
	if err := store.Save(next); err != nil {
		return nil, fmt.Errorf("save linked frames: %w", err)
	}
	return saved(store, true)
}

// Flip toggles the mirror flag of the selected frames (or the current
// frame when nothing is selected). Frames not in any set are skipped;
// the command saves only when at least one flag actually flipped.
func Flip(host Host) (*Outcome, error) {
	carrier, ok := host.ActiveAction()
	if !ok {
		return &Outcome{}, nil
	}
	store := frames.NewStore(carrier)
	part, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load linked frames: %w", err)
	}
	targets, err := resolveTargets(host)
	if err != nil {
		return nil, err
	}
	if frames.Flip(part, targets) == 0 {
		return &Outcome{}, nil
	}
	if err := store.Save(part); err != nil {
		return nil, fmt.Errorf("save linked frames: %w", err)
	}
	return saved(store, false)
}

// Info reports the linked frame sets of the active action.
func Info(host Host) (*Outcome, error) {
	carrier, ok := host.ActiveAction()
	if !ok {
		return &Outcome{}, nil
	}
	part, err := frames.NewStore(carrier).Load()
	if err != nil {
		return nil, fmt.Errorf("load linked frames: %w", err)
	}
	return &Outcome{Lines: reportLines(part)}, nil
}

// resolveTargets returns the selection, falling back to the current
// frame when nothing is selected.
func resolveTargets(host Host) ([]int64, error) {
	selected, err := host.SelectedFrames()
	if err != nil {
		return nil, fmt.Errorf("resolve selected frames: %w", err)
	}
	if len(selected) == 0 {
		return []int64{host.CurrentFrame()}, nil
	}
	return selected, nil
}

// saved reloads the partition after a write so the report shows what
// actually persisted, with degenerate sets already dropped.
func saved(store *frames.Store, refresh bool) (*Outcome, error) {
	part, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("reload linked frames: %w", err)
	}
	return &Outcome{Saved: true, Refresh: refresh, Lines: reportLines(part)}, nil
}

// reportLines renders a partition the way the info command prints it:
// one line per set, members ascending, "F" marking mirrored frames.
func reportLines(p frames.Partition) []string {
	if len(p) == 0 {
		return []string{"no linked frames for this action."}
	}
	lines := make([]string, 0, len(p))
	for i, set := range p {
		parts := make([]string, 0, len(set))
		for _, m := range set {
			if m.Flipped {
				parts = append(parts, fmt.Sprintf("%d F", m.Frame))
			} else {
				parts = append(parts, strconv.FormatInt(m.Frame, 10))
			}
		}
		lines = append(lines, fmt.Sprintf("set %02d: %s", i+1, strings.Join(parts, ", ")))
	}
	return lines
}
