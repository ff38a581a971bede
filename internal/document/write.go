package document

import (
	"context"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// AddCurve creates a curve on the action if it does not already exist.
// The name is normalized to NFC.
func (a *Action) AddCurve(ctx context.Context, name string) error {
	name = norm.NFC.String(name)
	res, err := a.doc.db.ExecContext(ctx, `
		INSERT INTO curves (action_id, name) VALUES (?, ?)
		ON CONFLICT(action_id, name) DO NOTHING
	`, a.id, name)
	if err != nil {
		return fmt.Errorf("add curve %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add curve %q: %w", name, err)
	}
	if n == 0 {
		return nil
	}
	return a.doc.bumpRevision()
}

// ensureCurve returns the curve's id, creating the curve when missing.
func (a *Action) ensureCurve(ctx context.Context, name string) (int64, error) {
	name = norm.NFC.String(name)
	if err := a.AddCurve(ctx, name); err != nil {
		return 0, err
	}
	var id int64
	err := a.doc.db.QueryRowContext(ctx,
		`SELECT id FROM curves WHERE action_id = ? AND name = ?`, a.id, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("look up curve %q: %w", name, err)
	}
	return id, nil
}

// SetKey writes one key on a curve, creating the curve when missing.
// An existing key at the same frame is replaced.
func (a *Action) SetKey(ctx context.Context, curve string, frame int64, value float64, selected bool) error {
	curveID, err := a.ensureCurve(ctx, curve)
	if err != nil {
		return err
	}
	_, err = a.doc.db.ExecContext(ctx, `
		INSERT INTO curve_keys (curve_id, frame, value, selected) VALUES (?, ?, ?, ?)
		ON CONFLICT(curve_id, frame) DO UPDATE
		SET value = excluded.value, selected = excluded.selected
	`, curveID, frame, value, selected)
	if err != nil {
		return fmt.Errorf("set key %s@%d: %w", curve, frame, err)
	}
	return a.doc.bumpRevision()
}

// SetPose writes the pose snapshot at a frame, replacing any previous
// one. Element names are normalized to NFC.
func (a *Action) SetPose(ctx context.Context, frame int64, pose Pose) error {
	raw, err := marshalPose(pose.normalized())
	if err != nil {
		return err
	}
	_, err = a.doc.db.ExecContext(ctx, `
		INSERT INTO poses (action_id, frame, pose) VALUES (?, ?, ?)
		ON CONFLICT(action_id, frame) DO UPDATE SET pose = excluded.pose
	`, a.id, frame, raw)
	if err != nil {
		return fmt.Errorf("set pose @%d: %w", frame, err)
	}
	return a.doc.bumpRevision()
}
