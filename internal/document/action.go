package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/theothertored/keyframelinker/internal/frames"
)

// ErrActionNotFound is returned when a named action does not exist.
var ErrActionNotFound = errors.New("action not found")

// Action is a handle on one action row. It carries the custom
// properties the linked-frame store reads and writes, and scopes
// curve, key, and pose access.
type Action struct {
	doc  *Document
	id   string
	name string
}

// ID returns the action's stable identifier.
func (a *Action) ID() string { return a.id }

// Name returns the action's name.
func (a *Action) Name() string { return a.name }

// CreateAction inserts a new action. The name is normalized to NFC.
func (d *Document) CreateAction(ctx context.Context, name string) (*Action, error) {
	name = norm.NFC.String(name)
	id := uuid.Must(uuid.NewV7()).String()
	_, err := d.db.ExecContext(ctx, `INSERT INTO actions (id, name) VALUES (?, ?)`, id, name)
	if err != nil {
		return nil, fmt.Errorf("create action %q: %w", name, err)
	}
	if err := d.bumpRevision(); err != nil {
		return nil, err
	}
	return &Action{doc: d, id: id, name: name}, nil
}

// ActionByName looks an action up by name (NFC-normalized).
func (d *Document) ActionByName(ctx context.Context, name string) (*Action, error) {
	name = norm.NFC.String(name)
	var id string
	err := d.db.QueryRowContext(ctx, `SELECT id FROM actions WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("action %q: %w", name, ErrActionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("look up action %q: %w", name, err)
	}
	return &Action{doc: d, id: id, name: name}, nil
}

// Actions returns all action names, sorted.
func (d *Document) Actions(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT name FROM actions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actions: %w", err)
	}
	return names, nil
}

// SetActiveAction makes the named action the one being edited.
func (d *Document) SetActiveAction(ctx context.Context, name string) error {
	act, err := d.ActionByName(ctx, name)
	if err != nil {
		return err
	}
	if _, err := d.db.ExecContext(ctx,
		`UPDATE scene SET active_action = ? WHERE id = 1`, act.id); err != nil {
		return fmt.Errorf("set active action: %w", err)
	}
	d.scene.activeActionID = act.id
	d.scene.activeAction = act.name
	return nil
}

// ActiveAction returns the property carrier of the action being
// edited, or false when no action is active.
func (d *Document) ActiveAction() (frames.PropCarrier, bool) {
	act, ok := d.activeAction()
	if !ok {
		return nil, false
	}
	return act, true
}

func (d *Document) activeAction() (*Action, bool) {
	if d.scene.activeActionID == "" {
		return nil, false
	}
	return &Action{doc: d, id: d.scene.activeActionID, name: d.scene.activeAction}, true
}

// SelectedFrames returns the distinct frame numbers with at least one
// selected key on the active action, ascending. No active action means
// no selection.
func (d *Document) SelectedFrames() ([]int64, error) {
	act, ok := d.activeAction()
	if !ok {
		return nil, nil
	}
	rows, err := d.db.Query(`
		SELECT DISTINCT k.frame
		FROM curve_keys k
		JOIN curves c ON c.id = k.curve_id
		WHERE c.action_id = ? AND k.selected = 1
		ORDER BY k.frame ASC
	`, act.id)
	if err != nil {
		return nil, fmt.Errorf("query selected frames: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var frame int64
		if err := rows.Scan(&frame); err != nil {
			return nil, fmt.Errorf("scan selected frame: %w", err)
		}
		out = append(out, frame)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate selected frames: %w", err)
	}
	return out, nil
}

// SelectFrames marks every key at the given frames selected and
// deselects the rest, across all curves of the active action.
func (d *Document) SelectFrames(ctx context.Context, frameNums []int64) error {
	act, ok := d.activeAction()
	if !ok {
		return errors.New("no active action")
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("select frames: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE curve_keys SET selected = 0
		WHERE curve_id IN (SELECT id FROM curves WHERE action_id = ?)
	`, act.id); err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	for _, frame := range frameNums {
		if _, err := tx.ExecContext(ctx, `
			UPDATE curve_keys SET selected = 1
			WHERE frame = ?
			  AND curve_id IN (SELECT id FROM curves WHERE action_id = ?)
		`, frame, act.id); err != nil {
			return fmt.Errorf("select frame %d: %w", frame, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("select frames: %w", err)
	}
	return nil
}

// Prop reads a custom property value.
func (a *Action) Prop(key string) ([]byte, bool, error) {
	var value []byte
	err := a.doc.db.QueryRow(
		`SELECT value FROM props WHERE action_id = ? AND key = ?`, a.id, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read prop %q: %w", key, err)
	}
	return value, true, nil
}

// SetProp writes a custom property value, replacing any previous one.
func (a *Action) SetProp(key string, value []byte) error {
	_, err := a.doc.db.Exec(`
		INSERT INTO props (action_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(action_id, key) DO UPDATE SET value = excluded.value
	`, a.id, key, value)
	if err != nil {
		return fmt.Errorf("write prop %q: %w", key, err)
	}
	return a.doc.bumpRevision()
}

// DeleteProp removes a custom property. Deleting an absent key is not
// an error, but still counts as a mutation only when a row existed.
func (a *Action) DeleteProp(key string) error {
	res, err := a.doc.db.Exec(
		`DELETE FROM props WHERE action_id = ? AND key = ?`, a.id, key)
	if err != nil {
		return fmt.Errorf("delete prop %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete prop %q: %w", key, err)
	}
	if n == 0 {
		return nil
	}
	return a.doc.bumpRevision()
}
