package stockpile

import (
	"github.com/TheBitDrifter/mask"
)

// Attach sets the component's presence flag on the entity, stores value in
// the component's column, and widens the column's slot range to include the
// entity's slot.
func (c ComponentType[T]) Attach(sto *Storage, id EntityID, value T) error {
	if sto.Locked() {
		return LockedStorageError{}
	}
	if c.sch != sto.schema {
		return SchemaMismatchError{Component: c}
	}
	idx, err := sto.validateLiveEntity(id)
	if err != nil {
		return err
	}
	rec := &sto.entities[idx]
	var single mask.Mask
	single.Mark(c.idx)
	if rec.flags.ContainsAll(single) {
		return AlreadyAttachedError{Component: c}
	}
	rec.flags.Mark(c.idx)
	c.columnOf(sto).data[idx] = value
	sto.ranges[c.idx].widen(idx)
	return nil
}

// Detach clears the component's presence flag. The stored value is left in
// the column as stale data and the slot range is not shrunk.
func (c ComponentType[T]) Detach(sto *Storage, id EntityID) error {
	return sto.detach(id, c)
}

// Get returns a mutable pointer into the component's column for the entity.
func (c ComponentType[T]) Get(sto *Storage, id EntityID) (*T, error) {
	if c.sch != sto.schema {
		return nil, SchemaMismatchError{Component: c}
	}
	idx, err := sto.validateLiveEntity(id)
	if err != nil {
		return nil, err
	}
	var single mask.Mask
	single.Mark(c.idx)
	if !sto.entities[idx].flags.ContainsAll(single) {
		return nil, NotAttachedError{Component: c}
	}
	return &c.columnOf(sto).data[idx], nil
}

// Has reports whether the entity currently holds the component.
func (c ComponentType[T]) Has(sto *Storage, id EntityID) (bool, error) {
	return sto.Has(id, c)
}

// GetFromSystem retrieves the component for the entity at the system's
// current position. The system's filter guarantees presence, so there is no
// check; only call it for components the system was built with.
func (c ComponentType[T]) GetFromSystem(sys *System) *T {
	return &c.columnOf(sys.sto).data[sys.pos]
}

// GetFromSystemSafe checks the presence flag at the system's current position
// before access, for components outside the system's filter.
func (c ComponentType[T]) GetFromSystemSafe(sys *System) (bool, *T) {
	var single mask.Mask
	single.Mark(c.idx)
	if !sys.sto.entities[sys.pos].flags.ContainsAll(single) {
		return false, nil
	}
	return true, c.GetFromSystem(sys)
}

func (c ComponentType[T]) columnOf(sto *Storage) *column[T] {
	return sto.columns[c.idx].(*column[T])
}
