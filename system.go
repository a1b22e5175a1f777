package stockpile

import (
	"iter"
)

var _ iSystem = &System{}

func newSystemPart(sto *Storage, part, totalParts int, comps ...Component) (*System, error) {
	if totalParts < 1 || part < 0 || part >= totalParts {
		return nil, InvalidPartitionError{Part: part, TotalParts: totalParts}
	}
	if len(comps) == 0 {
		return nil, EmptyComponentListError{}
	}
	filter, err := sto.filterMask(comps)
	if err != nil {
		return nil, err
	}

	// Partitions split the full slot table, not the pruned window: size
	// N/totalParts each, with the last partition absorbing the remainder so
	// the union covers [0, N) exactly.
	n := len(sto.entities)
	size := n / totalParts
	begin := part * size
	end := begin + size
	if part == totalParts-1 {
		end = n
	}

	// Prune with the component range match and the logical end boundary.
	end = min(end, sto.endSlot)
	if first, last, ok := sto.matchRanges(comps); ok {
		begin = max(begin, first)
		end = min(end, last+1)
	} else {
		begin, end = 0, 0
	}
	if begin > end {
		begin, end = 0, 0
	}

	sys := &System{
		sto:    sto,
		comps:  comps,
		filter: filter,
		begin:  begin,
		end:    end,
	}
	sys.Reset()
	return sys, nil
}

// Next advances to the next live entity in the system's window that holds
// every requested component. It returns false when the window is exhausted.
func (s *System) Next() bool {
	for s.pos+1 < s.end {
		s.pos++
		rec := &s.sto.entities[s.pos]
		if rec.active && rec.flags.ContainsAll(s.filter) {
			return true
		}
	}
	s.pos = s.end
	return false
}

// CurrentEntity returns the entity at the iteration position. Only valid
// after a Next call that returned true.
func (s *System) CurrentEntity() EntityID {
	return s.sto.entities[s.pos].id
}

// Entities yields (slot, id) for every matching entity in the window. The
// view is live: component values written through pointers obtained during the
// walk are visible to later entities in the same pass.
func (s *System) Entities() iter.Seq2[int, EntityID] {
	return func(yield func(int, EntityID) bool) {
		s.Reset()
		for s.Next() {
			if !yield(s.pos, s.sto.entities[s.pos].id) {
				return
			}
		}
		s.Reset()
	}
}

// Reset rewinds the iteration to the start of the window. The window itself
// is fixed at construction; build a new system to pick up structural changes.
func (s *System) Reset() {
	s.pos = s.begin - 1
}

// TotalMatched counts the matching entities in the window without disturbing
// the iteration position.
func (s *System) TotalMatched() int {
	total := 0
	for i := s.begin; i < s.end; i++ {
		rec := &s.sto.entities[i]
		if rec.active && rec.flags.ContainsAll(s.filter) {
			total++
		}
	}
	return total
}
