package frames

import "fmt"

// PropKey is the custom-property key the linked-frame table is stored under
// on the host's action object.
const PropKey = "linked_frames"

// PropCarrier is the host action's custom-property surface. The store is the
// only code that touches it, and only under PropKey.
//
// Prop reports whether the key is present; an absent key is not an error.
// DeleteProp removes a key; deleting an absent key is not an error.
type PropCarrier interface {
	Prop(key string) ([]byte, bool, error)
	SetProp(key string, value []byte) error
	DeleteProp(key string) error
}

// Store reads and writes one action's partition through its property
// carrier. It holds no partition state: Load decodes fresh on every call,
// and a Store value is meant to live for a single command invocation.
type Store struct {
	carrier PropCarrier
}

// NewStore binds a store to an action's property carrier.
func NewStore(carrier PropCarrier) *Store {
	return &Store{carrier: carrier}
}

// Load decodes the currently stored partition. An absent property loads as
// an empty partition.
func (s *Store) Load() (Partition, error) {
	blob, ok, err := s.carrier.Prop(PropKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", PropKey, err)
	}
	if !ok {
		return nil, nil
	}
	p, err := Decode(blob)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", PropKey, err)
	}
	return p, nil
}

// Save encodes and writes the partition. When the partition has no set worth
// persisting, any previously stored property is deleted rather than
// overwritten with an empty list.
func (s *Store) Save(p Partition) error {
	blob, ok := Encode(p)
	if !ok {
		if err := s.carrier.DeleteProp(PropKey); err != nil {
			return fmt.Errorf("delete %s: %w", PropKey, err)
		}
		return nil
	}
	if err := s.carrier.SetProp(PropKey, blob); err != nil {
		return fmt.Errorf("save %s: %w", PropKey, err)
	}
	return nil
}
