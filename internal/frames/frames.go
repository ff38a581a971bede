package frames

import "sort"

// Member records one frame's membership in a linked set.
//
// Flipped marks the member's content as the mirrored variant relative to the
// set's reference orientation. It is carried alongside the frame but plays
// no part in membership: two members with the same frame are the same
// member. Link never rewrites the flag of an existing member; only Flip
// changes it.
type Member struct {
	Frame   int64 `json:"frame"`
	Flipped bool  `json:"flipped"`
}

// Set is one linked group: members unique by frame, sorted ascending.
type Set []Member

// NewSet builds a set from members, sorting by frame and dropping duplicate
// frames (the first occurrence wins).
func NewSet(members ...Member) Set {
	s := make(Set, 0, len(members))
	for _, m := range members {
		s.Add(m)
	}
	return s
}

// index returns the insertion position for frame.
func (s Set) index(frame int64) int {
	return sort.Search(len(s), func(i int) bool { return s[i].Frame >= frame })
}

// Contains reports whether frame is a member of the set.
func (s Set) Contains(frame int64) bool {
	i := s.index(frame)
	return i < len(s) && s[i].Frame == frame
}

// Find returns the member at frame.
func (s Set) Find(frame int64) (Member, bool) {
	i := s.index(frame)
	if i < len(s) && s[i].Frame == frame {
		return s[i], true
	}
	return Member{}, false
}

// Add inserts m in frame order. It reports whether the set changed; a member
// with the same frame already present is left untouched, flag included.
func (s *Set) Add(m Member) bool {
	i := s.index(m.Frame)
	if i < len(*s) && (*s)[i].Frame == m.Frame {
		return false
	}
	*s = append(*s, Member{})
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = m
	return true
}

// Remove deletes the member at frame, reporting whether one was present.
func (s *Set) Remove(frame int64) bool {
	i := s.index(frame)
	if i >= len(*s) || (*s)[i].Frame != frame {
		return false
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
	return true
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	c := make(Set, len(s))
	copy(c, s)
	return c
}

// Partition is the collection of linked sets for one action, in append
// order. Sets are pairwise disjoint over frames.
type Partition []Set

// FindSet returns the index of the set containing frame, or -1.
func (p Partition) FindSet(frame int64) int {
	for i, s := range p {
		if s.Contains(frame) {
			return i
		}
	}
	return -1
}

// touched returns the indices of sets containing at least one of the frames,
// in partition order.
func (p Partition) touched(frameSet map[int64]bool) []int {
	var idx []int
	for i, s := range p {
		for _, m := range s {
			if frameSet[m.Frame] {
				idx = append(idx, i)
				break
			}
		}
	}
	return idx
}

// Clone returns a deep copy of the partition.
func (p Partition) Clone() Partition {
	if p == nil {
		return nil
	}
	c := make(Partition, len(p))
	for i, s := range p {
		c[i] = s.Clone()
	}
	return c
}
