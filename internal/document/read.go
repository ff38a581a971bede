package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Key is one keyframe on a curve.
type Key struct {
	Frame    int64
	Value    float64
	Selected bool
}

// Curves returns the action's curve names, sorted.
func (a *Action) Curves(ctx context.Context) ([]string, error) {
	rows, err := a.doc.db.QueryContext(ctx,
		`SELECT name FROM curves WHERE action_id = ? ORDER BY name ASC`, a.id)
	if err != nil {
		return nil, fmt.Errorf("query curves: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan curve: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate curves: %w", err)
	}
	return names, nil
}

// Keys returns a curve's keys ordered by frame. An unknown curve has
// no keys.
func (a *Action) Keys(ctx context.Context, curve string) ([]Key, error) {
	rows, err := a.doc.db.QueryContext(ctx, `
		SELECT k.frame, k.value, k.selected
		FROM curve_keys k
		JOIN curves c ON c.id = k.curve_id
		WHERE c.action_id = ? AND c.name = ?
		ORDER BY k.frame ASC
	`, a.id, norm.NFC.String(curve))
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	var keys []Key
	for rows.Next() {
		var k Key
		if err := rows.Scan(&k.Frame, &k.Value, &k.Selected); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

// keysAt returns curve name → value for the action's keys at one
// frame. With selectedOnly, unselected keys are excluded.
func (a *Action) keysAt(ctx context.Context, frame int64, selectedOnly bool) (map[string]float64, error) {
	query := `
		SELECT c.name, k.value
		FROM curve_keys k
		JOIN curves c ON c.id = k.curve_id
		WHERE c.action_id = ? AND k.frame = ?
	`
	if selectedOnly {
		query += ` AND k.selected = 1`
	}
	rows, err := a.doc.db.QueryContext(ctx, query, a.id, frame)
	if err != nil {
		return nil, fmt.Errorf("query keys at frame %d: %w", frame, err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var (
			name  string
			value float64
		)
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan key at frame %d: %w", frame, err)
		}
		out[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys at frame %d: %w", frame, err)
	}
	return out, nil
}

// Pose returns the pose snapshot stored at a frame, if any.
func (a *Action) Pose(ctx context.Context, frame int64) (Pose, bool, error) {
	var raw string
	err := a.doc.db.QueryRowContext(ctx,
		`SELECT pose FROM poses WHERE action_id = ? AND frame = ?`, a.id, frame).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read pose @%d: %w", frame, err)
	}
	pose, err := parsePose(raw)
	if err != nil {
		return nil, false, fmt.Errorf("pose @%d: %w", frame, err)
	}
	return pose, true, nil
}

// PoseFrames returns the frames that carry a pose snapshot, ascending.
func (a *Action) PoseFrames(ctx context.Context) ([]int64, error) {
	rows, err := a.doc.db.QueryContext(ctx,
		`SELECT frame FROM poses WHERE action_id = ? ORDER BY frame ASC`, a.id)
	if err != nil {
		return nil, fmt.Errorf("query pose frames: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var frame int64
		if err := rows.Scan(&frame); err != nil {
			return nil, fmt.Errorf("scan pose frame: %w", err)
		}
		out = append(out, frame)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pose frames: %w", err)
	}
	return out, nil
}
