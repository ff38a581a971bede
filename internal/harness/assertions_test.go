package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theothertored/keyframelinker/internal/document"
)

// createAssertionDocument builds a document with one action carrying a
// linked pair, one selected key, and a pose.
func createAssertionDocument(t *testing.T) *document.Document {
	t.Helper()

	doc, err := document.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { doc.Close() })

	desc := &document.Description{
		Scene: document.SceneDescription{Frame: 10},
		Actions: []document.ActionDescription{
			{
				Name:         "walk",
				Active:       true,
				LinkedFrames: [][][]int64{{{10, 0}, {20, 1}}},
				Curves: []document.CurveDescription{
					{Name: "arm.L/location.x", Keys: []document.KeyDescription{
						{Frame: 10, Value: 1.5, Selected: true},
					}},
				},
				Poses: map[int64]document.Pose{
					10: {"arm.L": {"x": 1, "rot": 30}},
				},
			},
		},
	}
	require.NoError(t, doc.Import(context.Background(), desc))
	return doc
}

func TestEvaluateAssertionsAllPass(t *testing.T) {
	doc := createAssertionDocument(t)

	errs := EvaluateAssertions(context.Background(), doc, []Assertion{
		{Type: AssertLinked, Action: "walk", Sets: [][][]int64{{{10, 0}, {20, 1}}}},
		{Type: AssertKey, Action: "walk", Curve: "arm.L/location.x", Frame: 10, Value: 1.5},
		{Type: AssertPose, Action: "walk", Frame: 10, Element: "arm.L", Channel: "rot", Value: 30},
		{Type: AssertPlayhead, Frame: 10},
		{Type: AssertSelected, Frames: []int64{10}},
		{Type: AssertDirty},
	})
	assert.Empty(t, errs)
}

func TestAssertLinkedMismatch(t *testing.T) {
	doc := createAssertionDocument(t)

	errs := EvaluateAssertions(context.Background(), doc, []Assertion{
		{Type: AssertLinked, Action: "walk", Sets: [][][]int64{{{10, 1}, {20, 0}}}},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Assertion failed: linked")
	assert.Contains(t, errs[0], "Expected:")
	assert.Contains(t, errs[0], "Actual:")
}

func TestAssertLinkedUnknownAction(t *testing.T) {
	doc := createAssertionDocument(t)

	errs := EvaluateAssertions(context.Background(), doc, []Assertion{
		{Type: AssertLinked, Action: "run", Sets: [][][]int64{{{10, 0}, {20, 1}}}},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "action not found")
}

func TestAssertKeyWrongValue(t *testing.T) {
	doc := createAssertionDocument(t)

	errs := EvaluateAssertions(context.Background(), doc, []Assertion{
		{Type: AssertKey, Action: "walk", Curve: "arm.L/location.x", Frame: 10, Value: 2},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Assertion failed: key")
	assert.Contains(t, errs[0], "arm.L/location.x @10 = 2")
	assert.Contains(t, errs[0], "arm.L/location.x @10 = 1.5")
}

func TestAssertKeyNotFound(t *testing.T) {
	doc := createAssertionDocument(t)

	errs := EvaluateAssertions(context.Background(), doc, []Assertion{
		{Type: AssertKey, Action: "walk", Curve: "arm.L/location.x", Frame: 99, Value: 1},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "key not found")
}

func TestAssertPoseFailures(t *testing.T) {
	doc := createAssertionDocument(t)

	errs := EvaluateAssertions(context.Background(), doc, []Assertion{
		{Type: AssertPose, Action: "walk", Frame: 55, Element: "arm.L", Channel: "x", Value: 1},
		{Type: AssertPose, Action: "walk", Frame: 10, Element: "arm.L", Channel: "z", Value: 1},
		{Type: AssertPose, Action: "walk", Frame: 10, Element: "arm.L", Channel: "x", Value: -1},
	})
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "no pose at frame 55")
	assert.Contains(t, errs[1], "channel arm.L.z not in pose")
	assert.Contains(t, errs[2], "arm.L.x @10 = 1")
}

func TestAssertPlayheadMismatch(t *testing.T) {
	doc := createAssertionDocument(t)

	errs := EvaluateAssertions(context.Background(), doc, []Assertion{
		{Type: AssertPlayhead, Frame: 99},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "playhead at 99")
	assert.Contains(t, errs[0], "playhead at 10")
}

func TestAssertSelectedMismatch(t *testing.T) {
	doc := createAssertionDocument(t)

	errs := EvaluateAssertions(context.Background(), doc, []Assertion{
		{Type: AssertSelected, Frames: []int64{20}},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "selection [20]")
	assert.Contains(t, errs[0], "selection [10]")
}

func TestAssertCleanOnDirtyDocument(t *testing.T) {
	doc := createAssertionDocument(t)

	errs := EvaluateAssertions(context.Background(), doc, []Assertion{
		{Type: AssertClean},
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Assertion failed: clean")
	assert.Contains(t, errs[0], "document has unsaved changes")
}

func TestAssertCleanAfterSave(t *testing.T) {
	doc := createAssertionDocument(t)
	require.NoError(t, doc.Save(context.Background()))

	errs := EvaluateAssertions(context.Background(), doc, []Assertion{
		{Type: AssertClean},
	})
	assert.Empty(t, errs)
}

func TestAssertionErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertPlayhead,
		Expected: "playhead at 5",
		Actual:   "playhead at 9",
	}
	want := "Assertion failed: playhead\n" +
		"  Expected: playhead at 5\n" +
		"  Actual: playhead at 9"
	assert.Equal(t, want, err.Error())
}
