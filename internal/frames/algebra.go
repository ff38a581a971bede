package frames

import "sort"

// normalize sorts and dedupes the target frames, returning both the ordered
// slice and a membership map.
func normalize(targets []int64) ([]int64, map[int64]bool) {
	set := make(map[int64]bool, len(targets))
	for _, f := range targets {
		set[f] = true
	}
	ordered := make([]int64, 0, len(set))
	for f := range set {
		ordered = append(ordered, f)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })
	return ordered, set
}

// Link links the target frames together and returns the updated partition.
//
// Three cases, by how many existing sets the targets touch:
//
//   - none: a new set is appended. Members are the targets in ascending
//     order with alternating flip flags, starting unflipped at the lowest
//     frame.
//   - one: targets not already in that set join it unflipped. Existing
//     members keep their flags.
//   - two or more: linking is transitive, so the touched sets collapse into
//     one. Their members merge with flags intact, targets missing from the
//     union join unflipped, and the merged set is appended in place of the
//     removed ones.
//
// An empty target list returns the partition unchanged.
func Link(p Partition, targets []int64) Partition {
	ordered, set := normalize(targets)
	if len(ordered) == 0 {
		return p
	}

	touched := p.touched(set)
	switch len(touched) {
	case 0:
		s := make(Set, 0, len(ordered))
		flip := false
		for _, f := range ordered {
			s.Add(Member{Frame: f, Flipped: flip})
			flip = !flip
		}
		return append(p, s)

	case 1:
		s := &p[touched[0]]
		for _, f := range ordered {
			s.Add(Member{Frame: f})
		}
		return p

	default:
		var union Set
		for _, i := range touched {
			for _, m := range p[i] {
				union.Add(m)
			}
		}
		for _, f := range ordered {
			union.Add(Member{Frame: f})
		}

		merged := make(Partition, 0, len(p)-len(touched)+1)
		skip := make(map[int]bool, len(touched))
		for _, i := range touched {
			skip[i] = true
		}
		for i, s := range p {
			if !skip[i] {
				merged = append(merged, s)
			}
		}
		return append(merged, union)
	}
}

// Unlink removes the target frames from every set containing one of them and
// then drops every set left with fewer than two members. It returns the
// updated partition and the number of sets the targets touched; zero touched
// means nothing changed and nothing needs saving.
func Unlink(p Partition, targets []int64) (Partition, int) {
	ordered, set := normalize(targets)
	if len(ordered) == 0 {
		return p, 0
	}

	touched := p.touched(set)
	if len(touched) == 0 {
		return p, 0
	}

	for _, i := range touched {
		s := &p[i]
		for _, f := range ordered {
			s.Remove(f)
		}
	}

	kept := p[:0]
	for _, s := range p {
		if len(s) > 1 {
			kept = append(kept, s)
		}
	}
	return kept, len(touched)
}

// Flip toggles the flip flag of the member at each target frame, in place.
// Frames not in any set are skipped. The returned count is the number of
// members actually toggled; zero means nothing changed and nothing needs
// saving.
func Flip(p Partition, targets []int64) int {
	ordered, _ := normalize(targets)
	flips := 0
	for _, f := range ordered {
		i := p.FindSet(f)
		if i < 0 {
			continue
		}
		s := p[i]
		j := s.index(f)
		s[j].Flipped = !s[j].Flipped
		flips++
	}
	return flips
}
