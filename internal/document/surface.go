package document

import (
	"errors"
	"fmt"

	"github.com/theothertored/keyframelinker/internal/command"
	"github.com/theothertored/keyframelinker/internal/engine"
	"github.com/theothertored/keyframelinker/internal/frames"
)

// SyncSurface returns the keyframe editing surface the pre-save sync
// drives, or false when neither a dope sheet nor a graph editor is
// open in the scene.
func (d *Document) SyncSurface() (command.SyncSurface, bool) {
	for _, ed := range d.scene.editors {
		if ed == EditorDopeSheet || ed == EditorGraph {
			return &Surface{doc: d}, true
		}
	}
	return nil, false
}

// Surface adapts the document to the sync hook's surface contract.
type Surface struct {
	doc *Document
}

// Action returns the active action's property carrier.
func (s *Surface) Action() (frames.PropCarrier, bool) {
	return s.doc.ActiveAction()
}

// Playhead returns the scene playhead.
func (s *Surface) Playhead() engine.Playhead {
	return s.doc
}

// Channels returns the keys and pose transports for the active action.
func (s *Surface) Channels() []engine.Channel {
	act, ok := s.doc.activeAction()
	if !ok {
		return nil
	}
	return s.doc.channels(act)
}

// keyRef addresses one key for selection snapshots.
type keyRef struct {
	curveID int64
	frame   int64
}

// BeginSync captures the current key selection and editor layout,
// switches to the dope sheet, and selects the key column at the
// trigger frame so the keys transport copies exactly that column. The
// returned function puts selection and editors back.
func (s *Surface) BeginSync(trigger int64) (func() error, error) {
	act, ok := s.doc.activeAction()
	if !ok {
		return nil, errors.New("no active action")
	}

	before, err := s.selectedRefs(act)
	if err != nil {
		return nil, err
	}
	editors := s.doc.Editors()

	if err := s.doc.SetEditors([]string{EditorDopeSheet}); err != nil {
		return nil, err
	}
	if _, err := s.doc.db.Exec(`
		UPDATE curve_keys
		SET selected = CASE WHEN frame = ? THEN 1 ELSE 0 END
		WHERE curve_id IN (SELECT id FROM curves WHERE action_id = ?)
	`, trigger, act.id); err != nil {
		return nil, fmt.Errorf("select trigger column: %w", err)
	}

	restore := func() error {
		if _, err := s.doc.db.Exec(`
			UPDATE curve_keys SET selected = 0
			WHERE curve_id IN (SELECT id FROM curves WHERE action_id = ?)
		`, act.id); err != nil {
			return fmt.Errorf("clear selection: %w", err)
		}
		for _, ref := range before {
			if _, err := s.doc.db.Exec(`
				UPDATE curve_keys SET selected = 1
				WHERE curve_id = ? AND frame = ?
			`, ref.curveID, ref.frame); err != nil {
				return fmt.Errorf("restore selection: %w", err)
			}
		}
		if err := s.doc.SetEditors(editors); err != nil {
			return fmt.Errorf("restore editors: %w", err)
		}
		return nil
	}
	return restore, nil
}

func (s *Surface) selectedRefs(act *Action) ([]keyRef, error) {
	rows, err := s.doc.db.Query(`
		SELECT k.curve_id, k.frame
		FROM curve_keys k
		JOIN curves c ON c.id = k.curve_id
		WHERE c.action_id = ? AND k.selected = 1
		ORDER BY k.curve_id ASC, k.frame ASC
	`, act.id)
	if err != nil {
		return nil, fmt.Errorf("snapshot selection: %w", err)
	}
	defer rows.Close()

	var refs []keyRef
	for rows.Next() {
		var ref keyRef
		if err := rows.Scan(&ref.curveID, &ref.frame); err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate selection: %w", err)
	}
	return refs, nil
}
