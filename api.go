package stockpile

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

// Component is the untyped face of a ComponentType handle, used wherever an
// operation takes a set of component types (Has, system construction, detach).
// Only handles returned by RegisterComponent satisfy it.
type Component interface {
	RowIndex() uint32
	TypeName() string
	schema() *Schema
}

// ComponentValue is a component type paired with a concrete value, built with
// ComponentType.With. BuildEntity and the enqueue APIs consume it.
type ComponentValue interface {
	Component
	applyTo(sto *Storage, id EntityID) error
}

type iSystem interface {
	Next() bool
	CurrentEntity() EntityID
	Entities() iter.Seq2[int, EntityID]
	Reset()
}

// System is a filtered, range-pruned view over the entities that hold a given
// component combination, optionally restricted to one contiguous partition of
// the slot table. Warning: internal dependencies abound!
type System struct {
	// The storage being walked and the requested component set
	sto   *Storage
	comps []Component

	// Presence mask all yielded entities must contain
	filter mask.Mask

	// Slot window [begin, end): partition bounds intersected with the
	// component range match and the logical end boundary
	begin, end int

	// Current iteration state
	pos int
}
