package stockpile

import (
	"github.com/TheBitDrifter/mask"
)

// EntityID is a stable handle to a slot in a Storage. The zero value is the
// invalid id: it never refers to a live entity and fails every operation that
// takes an id. A slot's index is only handed out again after the entity in it
// has been destroyed and a new one is created.
type EntityID struct {
	ref uint32 // slot index + 1, so the zero value stays invalid
}

// NewEntityID returns the id for a slot index. Negative indices yield the
// invalid id.
func NewEntityID(slot int) EntityID {
	if slot < 0 {
		return EntityID{}
	}
	return EntityID{ref: uint32(slot) + 1}
}

// Valid reports whether the id refers to a slot at all. A valid id may still
// point at a destroyed entity; use Storage.HasEntity for liveness.
func (id EntityID) Valid() bool {
	return id.ref != 0
}

// Index returns the slot index behind the id, or -1 for the invalid id.
func (id EntityID) Index() int {
	if id.ref == 0 {
		return -1
	}
	return int(id.ref - 1)
}

// entityRecord is the per-slot directory entry: which components are attached,
// whether the slot currently holds a live entity, and the slot's own id.
// Records are created when the slot table grows and reused forever after.
type entityRecord struct {
	flags  mask.Mask
	active bool
	id     EntityID
}
