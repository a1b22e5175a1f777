package stockpile

import "math"

// componentRange tracks the smallest and largest slot index that have ever
// held a component type. It only grows: attach widens it, detach leaves it
// alone. That makes it a cheap upper bound for pruning iteration, never a
// precise index of the active set; after many detachments a system's pruned
// window can degrade back to a full scan without affecting correctness.
type componentRange struct {
	present bool
	first   int
	last    int
}

func (r *componentRange) widen(slot int) {
	if !r.present {
		r.present = true
		r.first = slot
		r.last = slot
		return
	}
	r.first = min(r.first, slot)
	r.last = max(r.last, slot)
}

// matchRanges intersects the ranges of the requested components: the largest
// first bound and the smallest last bound. If any requested component has
// never been attached anywhere, or the per-type ranges do not overlap, there
// is no candidate window and iteration yields nothing.
func (sto *Storage) matchRanges(comps []Component) (first, last int, ok bool) {
	first = 0
	last = math.MaxInt
	for _, comp := range comps {
		r := sto.ranges[comp.RowIndex()]
		if !r.present {
			return 0, 0, false
		}
		first = max(first, r.first)
		last = min(last, r.last)
	}
	if first > last {
		return 0, 0, false
	}
	return first, last, true
}
