package document

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestDocument creates a new in-memory document for testing.
func createTestDocument(t *testing.T) *Document {
	t.Helper()
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() failed: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

// createTestFile creates a file-backed document in a temp dir and
// returns it with its path for reopen tests.
func createTestFile(t *testing.T) (*Document, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.anim")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d, path
}

// createTestAction creates an action and makes it active.
func createTestAction(t *testing.T, d *Document, name string) *Action {
	t.Helper()
	ctx := context.Background()
	act, err := d.CreateAction(ctx, name)
	if err != nil {
		t.Fatalf("CreateAction(%q) failed: %v", name, err)
	}
	if err := d.SetActiveAction(ctx, name); err != nil {
		t.Fatalf("SetActiveAction(%q) failed: %v", name, err)
	}
	return act
}
