package frames

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The persisted form is a JSON sequence of sequences of [frame, flag]
// pairs, one inner sequence per set. Only sets with at least two members
// are written; a partition with none has no persisted form at all.

// Decode parses a stored linked-frames blob into a partition.
//
// A nil or empty blob decodes to an empty partition. Flags are coerced to
// booleans by value truthiness (numbers by non-zero, strings by non-empty),
// so a malformed flag never fails the decode; only structurally invalid
// input is an error.
func Decode(blob []byte) (Partition, error) {
	if len(blob) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(blob))
	dec.UseNumber()
	var raw [][][]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode linked frames: %w", err)
	}

	p := make(Partition, 0, len(raw))
	for i, pairs := range raw {
		s := make(Set, 0, len(pairs))
		for j, pair := range pairs {
			if len(pair) < 2 {
				return nil, fmt.Errorf("decode linked frames: set %d entry %d: want [frame, flag] pair, got %d values", i, j, len(pair))
			}
			frame, err := coerceFrame(pair[0])
			if err != nil {
				return nil, fmt.Errorf("decode linked frames: set %d entry %d: %w", i, j, err)
			}
			s.Add(Member{Frame: frame, Flipped: truthy(pair[1])})
		}
		p = append(p, s)
	}
	return p, nil
}

// Encode renders the partition to its persisted form. Sets with fewer than
// two members are dropped; when nothing remains the second return is false
// and the caller must delete any previously stored value instead of writing
// an empty list.
//
// Output is deterministic: sets in partition order, members ascending by
// frame, flags as 0 or 1.
func Encode(p Partition) ([]byte, bool) {
	rows := make([][][2]int64, 0, len(p))
	for _, s := range p {
		if len(s) < 2 {
			continue
		}
		pairs := make([][2]int64, 0, len(s))
		for _, m := range s {
			flag := int64(0)
			if m.Flipped {
				flag = 1
			}
			pairs = append(pairs, [2]int64{m.Frame, flag})
		}
		rows = append(rows, pairs)
	}
	if len(rows) == 0 {
		return nil, false
	}

	blob, err := json.Marshal(rows)
	if err != nil {
		// Fixed-shape integer data cannot fail to marshal.
		panic(fmt.Sprintf("encode linked frames: %v", err))
	}
	return blob, true
}

// coerceFrame reads a frame number from a decoded JSON value. Integral
// floats are accepted; anything non-numeric is a structural error.
func coerceFrame(v any) (int64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("frame must be a number, got %T", v)
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("frame %q is not numeric", n.String())
	}
	return int64(f), nil
}

// truthy coerces a decoded JSON value to a boolean flag.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}
