package document

import (
	"context"
	"errors"
	"testing"
)

func TestCreateActionNormalizesName(t *testing.T) {
	ctx := context.Background()
	d := createTestDocument(t)

	// decomposed e + combining acute
	if _, err := d.CreateAction(ctx, "marchée"); err != nil {
		t.Fatalf("CreateAction failed: %v", err)
	}

	// composed form must resolve to the same action
	act, err := d.ActionByName(ctx, "marchée")
	if err != nil {
		t.Fatalf("ActionByName failed: %v", err)
	}
	if act.Name() != "marchée" {
		t.Errorf("name = %q, want composed form", act.Name())
	}
}

func TestCreateActionDuplicateName(t *testing.T) {
	ctx := context.Background()
	d := createTestDocument(t)

	if _, err := d.CreateAction(ctx, "walk"); err != nil {
		t.Fatalf("CreateAction failed: %v", err)
	}
	if _, err := d.CreateAction(ctx, "walk"); err == nil {
		t.Fatal("duplicate action name should fail")
	}
}

func TestActionByNameNotFound(t *testing.T) {
	d := createTestDocument(t)

	_, err := d.ActionByName(context.Background(), "missing")
	if !errors.Is(err, ErrActionNotFound) {
		t.Fatalf("error = %v, want ErrActionNotFound", err)
	}
}

func TestActionsSorted(t *testing.T) {
	ctx := context.Background()
	d := createTestDocument(t)

	for _, name := range []string{"walk", "idle", "run"} {
		if _, err := d.CreateAction(ctx, name); err != nil {
			t.Fatalf("CreateAction(%q) failed: %v", name, err)
		}
	}

	names, err := d.Actions(ctx)
	if err != nil {
		t.Fatalf("Actions failed: %v", err)
	}
	want := []string{"idle", "run", "walk"}
	if len(names) != len(want) {
		t.Fatalf("actions = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("actions[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestActiveActionAbsent(t *testing.T) {
	d := createTestDocument(t)

	if _, ok := d.ActiveAction(); ok {
		t.Error("fresh document should have no active action")
	}
	if err := d.SetActiveAction(context.Background(), "missing"); !errors.Is(err, ErrActionNotFound) {
		t.Errorf("SetActiveAction error = %v, want ErrActionNotFound", err)
	}
}

func TestPropRoundTrip(t *testing.T) {
	d := createTestDocument(t)
	act := createTestAction(t, d, "walk")

	if _, ok, err := act.Prop("linked_frames"); err != nil || ok {
		t.Fatalf("Prop on empty bag = ok=%v err=%v, want absent", ok, err)
	}

	if err := act.SetProp("linked_frames", []byte(`[[[1,0],[2,1]]]`)); err != nil {
		t.Fatalf("SetProp failed: %v", err)
	}
	blob, ok, err := act.Prop("linked_frames")
	if err != nil || !ok {
		t.Fatalf("Prop = ok=%v err=%v, want present", ok, err)
	}
	if string(blob) != `[[[1,0],[2,1]]]` {
		t.Errorf("blob = %q", blob)
	}

	// overwrite
	if err := act.SetProp("linked_frames", []byte(`[[[3,0],[4,0]]]`)); err != nil {
		t.Fatalf("SetProp overwrite failed: %v", err)
	}
	blob, _, _ = act.Prop("linked_frames")
	if string(blob) != `[[[3,0],[4,0]]]` {
		t.Errorf("blob after overwrite = %q", blob)
	}

	if err := act.DeleteProp("linked_frames"); err != nil {
		t.Fatalf("DeleteProp failed: %v", err)
	}
	if _, ok, _ := act.Prop("linked_frames"); ok {
		t.Error("prop should be gone after delete")
	}
}

func TestDeleteAbsentPropIsNoop(t *testing.T) {
	ctx := context.Background()
	d := createTestDocument(t)
	act := createTestAction(t, d, "walk")
	if err := d.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := act.DeleteProp("linked_frames"); err != nil {
		t.Fatalf("DeleteProp on absent key failed: %v", err)
	}
	if d.Dirty() {
		t.Error("deleting an absent prop should not dirty the document")
	}
}

func TestSelectedFrames(t *testing.T) {
	ctx := context.Background()
	d := createTestDocument(t)
	act := createTestAction(t, d, "walk")

	keys := []struct {
		curve    string
		frame    int64
		selected bool
	}{
		{"arm.L/location.x", 10, true},
		{"arm.L/location.x", 20, false},
		{"arm.L/location.y", 10, true},
		{"arm.L/location.y", 30, true},
	}
	for _, k := range keys {
		if err := act.SetKey(ctx, k.curve, k.frame, 1.0, k.selected); err != nil {
			t.Fatalf("SetKey failed: %v", err)
		}
	}

	got, err := d.SelectedFrames()
	if err != nil {
		t.Fatalf("SelectedFrames failed: %v", err)
	}
	want := []int64{10, 30}
	if len(got) != len(want) {
		t.Fatalf("selected = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selected[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSelectFramesReplacesSelection(t *testing.T) {
	ctx := context.Background()
	d := createTestDocument(t)
	act := createTestAction(t, d, "walk")

	for _, frame := range []int64{10, 20, 30} {
		if err := act.SetKey(ctx, "root/location.x", frame, 0, frame == 10); err != nil {
			t.Fatalf("SetKey failed: %v", err)
		}
	}

	if err := d.SelectFrames(ctx, []int64{20, 30}); err != nil {
		t.Fatalf("SelectFrames failed: %v", err)
	}
	got, err := d.SelectedFrames()
	if err != nil {
		t.Fatalf("SelectedFrames failed: %v", err)
	}
	if len(got) != 2 || got[0] != 20 || got[1] != 30 {
		t.Errorf("selected = %v, want [20 30]", got)
	}
}

func TestSelectedFramesNoActiveAction(t *testing.T) {
	d := createTestDocument(t)

	got, err := d.SelectedFrames()
	if err != nil {
		t.Fatalf("SelectedFrames failed: %v", err)
	}
	if got != nil {
		t.Errorf("selected = %v, want none", got)
	}
}
