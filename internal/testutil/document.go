// Package testutil provides shared document builders for tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/theothertored/keyframelinker/internal/document"
)

// Logger returns a logger that discards everything, keeping test
// output clean.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SeedDocument builds an on-disk animation document from a description
// and returns its path. The file lives in the test's temp directory.
func SeedDocument(t *testing.T, desc *document.Description) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doc.anim")
	doc, err := document.Open(path, document.WithLogger(Logger()))
	if err != nil {
		t.Fatalf("open document: %v", err)
	}
	if err := doc.Import(context.Background(), desc); err != nil {
		doc.Close()
		t.Fatalf("import description: %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Fatalf("close document: %v", err)
	}
	return path
}

// MemoryDocument builds an in-memory document from a description and
// closes it when the test ends.
func MemoryDocument(t *testing.T, desc *document.Description) *document.Document {
	t.Helper()

	doc, err := document.OpenMemory(document.WithLogger(Logger()))
	if err != nil {
		t.Fatalf("open in-memory document: %v", err)
	}
	t.Cleanup(func() { doc.Close() })
	if err := doc.Import(context.Background(), desc); err != nil {
		t.Fatalf("import description: %v", err)
	}
	return doc
}

// WalkDescription returns a fresh copy of the standard test document:
// a walk action with one linked pair (20 flipped), arm curves keyed at
// the trigger frame, a pose snapshot, and the playhead on the trigger.
func WalkDescription() *document.Description {
	return &document.Description{
		Scene: document.SceneDescription{
			Frame:   10,
			Editors: []string{document.EditorDopeSheet, document.EditorGraph},
		},
		Actions: []document.ActionDescription{
			{
				Name:   "walk",
				Active: true,
				LinkedFrames: [][][]int64{
					{{10, 0}, {20, 1}},
				},
				Curves: []document.CurveDescription{
					{
						Name: "arm.L/location.x",
						Keys: []document.KeyDescription{{Frame: 10, Value: 1.5}},
					},
					{
						Name: "arm.L/location.y",
						Keys: []document.KeyDescription{{Frame: 10, Value: 4}},
					},
				},
				Poses: map[int64]document.Pose{
					10: {"arm.L": {"x": 1, "rot": 30}},
				},
			},
		},
	}
}
