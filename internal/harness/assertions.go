package harness

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/theothertored/keyframelinker/internal/document"
	"github.com/theothertored/keyframelinker/internal/frames"
)

// AssertionError is returned when an assertion fails.
// It includes expected and actual context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the final
// document state. Returns a slice of error messages for failed
// assertions.
func EvaluateAssertions(ctx context.Context, doc *document.Document, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertLinked:
			err = assertLinked(ctx, doc, assertion)
		case AssertKey:
			err = assertKey(ctx, doc, assertion)
		case AssertPose:
			err = assertPose(ctx, doc, assertion)
		case AssertPlayhead:
			err = assertPlayhead(doc, assertion)
		case AssertSelected:
			err = assertSelected(doc, assertion)
		case AssertClean:
			err = assertSaveState(doc, false)
		case AssertDirty:
			err = assertSaveState(doc, true)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// assertLinked checks the persisted linked-frame sets on an action
// against the expected [frame, flag] pairs.
func assertLinked(ctx context.Context, doc *document.Document, assertion Assertion) error {
	act, err := doc.ActionByName(ctx, assertion.Action)
	if err != nil {
		return fmt.Errorf("linked: %w", err)
	}
	part, err := frames.NewStore(act).Load()
	if err != nil {
		return fmt.Errorf("linked: %w", err)
	}

	actual := pairsOf(part)
	if len(actual) == 0 && len(assertion.Sets) == 0 {
		return nil
	}
	if !reflect.DeepEqual(actual, assertion.Sets) {
		return &AssertionError{
			Type:     AssertLinked,
			Expected: fmt.Sprintf("sets %v on action %q", assertion.Sets, assertion.Action),
			Actual:   fmt.Sprintf("sets %v", actual),
		}
	}
	return nil
}

// assertKey checks one curve key's value on an action.
func assertKey(ctx context.Context, doc *document.Document, assertion Assertion) error {
	act, err := doc.ActionByName(ctx, assertion.Action)
	if err != nil {
		return fmt.Errorf("key: %w", err)
	}
	keys, err := act.Keys(ctx, assertion.Curve)
	if err != nil {
		return fmt.Errorf("key: %w", err)
	}

	expected := fmt.Sprintf("%s @%d = %s", assertion.Curve, assertion.Frame, formatValue(assertion.Value))
	for _, k := range keys {
		if k.Frame != assertion.Frame {
			continue
		}
		if k.Value != assertion.Value {
			return &AssertionError{
				Type:     AssertKey,
				Expected: expected,
				Actual:   fmt.Sprintf("%s @%d = %s", assertion.Curve, assertion.Frame, formatValue(k.Value)),
			}
		}
		return nil
	}
	return &AssertionError{
		Type:     AssertKey,
		Expected: expected,
		Actual:   "key not found",
	}
}

// assertPose checks one pose channel's value at a frame.
func assertPose(ctx context.Context, doc *document.Document, assertion Assertion) error {
	act, err := doc.ActionByName(ctx, assertion.Action)
	if err != nil {
		return fmt.Errorf("pose: %w", err)
	}
	pose, ok, err := act.Pose(ctx, assertion.Frame)
	if err != nil {
		return fmt.Errorf("pose: %w", err)
	}

	expected := fmt.Sprintf("%s.%s @%d = %s",
		assertion.Element, assertion.Channel, assertion.Frame, formatValue(assertion.Value))
	if !ok {
		return &AssertionError{
			Type:     AssertPose,
			Expected: expected,
			Actual:   fmt.Sprintf("no pose at frame %d", assertion.Frame),
		}
	}
	value, ok := pose[assertion.Element][assertion.Channel]
	if !ok {
		return &AssertionError{
			Type:     AssertPose,
			Expected: expected,
			Actual:   fmt.Sprintf("channel %s.%s not in pose", assertion.Element, assertion.Channel),
		}
	}
	if value != assertion.Value {
		return &AssertionError{
			Type:     AssertPose,
			Expected: expected,
			Actual: fmt.Sprintf("%s.%s @%d = %s",
				assertion.Element, assertion.Channel, assertion.Frame, formatValue(value)),
		}
	}
	return nil
}

// assertPlayhead checks the scene playhead position.
func assertPlayhead(doc *document.Document, assertion Assertion) error {
	if actual := doc.Frame(); actual != assertion.Frame {
		return &AssertionError{
			Type:     AssertPlayhead,
			Expected: fmt.Sprintf("playhead at %d", assertion.Frame),
			Actual:   fmt.Sprintf("playhead at %d", actual),
		}
	}
	return nil
}

// assertSelected checks the selected key frames on the active action.
func assertSelected(doc *document.Document, assertion Assertion) error {
	actual, err := doc.SelectedFrames()
	if err != nil {
		return fmt.Errorf("selected: %w", err)
	}
	if len(actual) == 0 && len(assertion.Frames) == 0 {
		return nil
	}
	if !reflect.DeepEqual(actual, assertion.Frames) {
		return &AssertionError{
			Type:     AssertSelected,
			Expected: fmt.Sprintf("selection %v", assertion.Frames),
			Actual:   fmt.Sprintf("selection %v", actual),
		}
	}
	return nil
}

// assertSaveState checks the document's unsaved-changes flag.
func assertSaveState(doc *document.Document, wantDirty bool) error {
	if doc.Dirty() == wantDirty {
		return nil
	}
	typ := AssertClean
	if wantDirty {
		typ = AssertDirty
	}
	return &AssertionError{
		Type:     typ,
		Expected: describeSaveState(wantDirty),
		Actual:   describeSaveState(!wantDirty),
	}
}

func describeSaveState(dirty bool) string {
	if dirty {
		return "document has unsaved changes"
	}
	return "document is saved"
}

// pairsOf renders a partition in the persisted [frame, flag] pair
// layout for comparison.
func pairsOf(p frames.Partition) [][][]int64 {
	var sets [][][]int64
	for _, set := range p {
		pairs := make([][]int64, 0, len(set))
		for _, m := range set {
			flag := int64(0)
			if m.Flipped {
				flag = 1
			}
			pairs = append(pairs, []int64{m.Frame, flag})
		}
		sets = append(sets, pairs)
	}
	return sets
}
