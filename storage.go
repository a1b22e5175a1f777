package stockpile

import (
	"github.com/TheBitDrifter/mask"
)

// Storage is the container itself: the slot table, one column per registered
// component type, per-type range trackers, and the operation queue that picks
// up structural work deferred while the storage is locked.
//
// Storage performs no internal synchronization. Structural operations
// (create, destroy, attach, detach) must be serialized by the caller;
// disjoint partitioned iteration that only mutates component values is safe
// to run on parallel goroutines.
type Storage struct {
	schema   *Schema
	entities []entityRecord
	columns  []anyColumn
	ranges   []componentRange
	opQueue  opQueue

	// endSlot is the logical end-of-use boundary: every slot at or beyond it
	// is inactive. It retracts by a single step when the trailing entity is
	// destroyed, so stale inactive slots can remain below it.
	endSlot int
	count   int
	locks   mask.Mask
}

func newStorage(schema *Schema, opts ...StorageOption) *Storage {
	cfg := storageConfig{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	schema.seal()

	sto := &Storage{
		schema:   schema,
		entities: make([]entityRecord, 0, cfg.capacity),
		columns:  make([]anyColumn, schema.Count()),
		ranges:   make([]componentRange, schema.Count()),
		opQueue:  newOpQueue(),
	}
	for i, build := range schema.factories {
		sto.columns[i] = build(cfg.capacity)
	}
	return sto
}

// Schema returns the sealed schema the storage was built from.
func (sto *Storage) Schema() *Schema {
	return sto.schema
}

// Size returns the number of live entities.
func (sto *Storage) Size() int {
	return sto.count
}

// Capacity returns the number of allocated slots, live or not.
func (sto *Storage) Capacity() int {
	return len(sto.entities)
}

// Reserve grows the slot table's and every column's spare capacity to hold at
// least n more entities. Growth relocates backing storage, so reserve before
// an iteration phase rather than during one.
func (sto *Storage) Reserve(n int) error {
	if sto.Locked() {
		return LockedStorageError{}
	}
	if n <= 0 {
		return nil
	}
	if cap(sto.entities)-len(sto.entities) < n {
		grown := make([]entityRecord, len(sto.entities), len(sto.entities)+n)
		copy(grown, sto.entities)
		sto.entities = grown
	}
	for _, col := range sto.columns {
		col.reserve(n)
	}
	return nil
}

// CreateEntity claims the lowest-indexed free slot, extending the slot table
// and every column by one default element when none is free. The new entity
// starts with no components attached; if the schema registered EntityID, the
// entity's own id is attached automatically.
func (sto *Storage) CreateEntity() (EntityID, error) {
	if sto.Locked() {
		return EntityID{}, LockedStorageError{}
	}
	slot := sto.firstEmptySlot()
	if slot == len(sto.entities) {
		sto.entities = append(sto.entities, entityRecord{id: NewEntityID(slot)})
		for _, col := range sto.columns {
			col.push()
		}
	}

	rec := &sto.entities[slot]
	rec.active = true
	rec.flags = mask.Mask{}
	sto.count++

	if idx := sto.schema.idIndex; idx >= 0 {
		rec.flags.Mark(uint32(idx))
		sto.columns[idx].(*column[EntityID]).data[slot] = rec.id
		sto.ranges[idx].widen(slot)
	}
	return rec.id, nil
}

// firstEmptySlot scans from slot 0 for the lowest inactive slot below the end
// boundary, pushing the boundary out by one when everything below it is taken.
func (sto *Storage) firstEmptySlot() int {
	slot := 0
	for slot < sto.endSlot && sto.entities[slot].active {
		slot++
	}
	if slot == sto.endSlot {
		sto.endSlot++
	}
	return slot
}

// DestroyEntity marks the entity's slot inactive and clears its presence
// flags. Destroying the trailing entity retracts the end boundary by exactly
// one slot; earlier inactive slots stay below the boundary and are skipped by
// scans until reused.
func (sto *Storage) DestroyEntity(id EntityID) error {
	if sto.Locked() {
		return LockedStorageError{}
	}
	idx := id.Index()
	if idx < 0 || idx >= len(sto.entities) {
		return InvalidEntityError{ID: id}
	}
	rec := &sto.entities[idx]
	if !rec.active {
		return EntityNotActiveError{ID: id}
	}
	rec.active = false
	rec.flags = mask.Mask{}
	sto.count--
	if idx == sto.endSlot-1 {
		sto.endSlot--
	}
	return nil
}

// HasEntity reports whether the id's slot currently holds a live entity.
func (sto *Storage) HasEntity(id EntityID) (bool, error) {
	idx := id.Index()
	if idx < 0 {
		return false, InvalidEntityError{ID: id}
	}
	if idx >= len(sto.entities) {
		return false, OutOfRangeError{Index: idx, Size: len(sto.entities)}
	}
	return sto.entities[idx].active, nil
}

// Has reports whether the entity holds every listed component. The component
// list must not be empty.
func (sto *Storage) Has(id EntityID, comps ...Component) (bool, error) {
	idx := id.Index()
	if idx < 0 {
		return false, InvalidEntityError{ID: id}
	}
	if len(comps) == 0 {
		return false, EmptyComponentListError{}
	}
	want, err := sto.filterMask(comps)
	if err != nil {
		return false, err
	}
	if idx >= len(sto.entities) {
		return false, OutOfRangeError{Index: idx, Size: len(sto.entities)}
	}
	return sto.entities[idx].flags.ContainsAll(want), nil
}

// BuildEntity is CreateEntity plus one attach per supplied value.
func (sto *Storage) BuildEntity(values ...ComponentValue) (EntityID, error) {
	id, err := sto.CreateEntity()
	if err != nil {
		return EntityID{}, err
	}
	for _, v := range values {
		if err := v.applyTo(sto, id); err != nil {
			return EntityID{}, err
		}
	}
	return id, nil
}

// filterMask folds a component list into a single presence mask, validating
// that every handle belongs to this storage's schema.
func (sto *Storage) filterMask(comps []Component) (mask.Mask, error) {
	var m mask.Mask
	for _, comp := range comps {
		if comp.schema() != sto.schema {
			return mask.Mask{}, SchemaMismatchError{Component: comp}
		}
		m.Mark(comp.RowIndex())
	}
	return m, nil
}

// validateLiveEntity resolves an id to its slot index for a component
// operation: the id must be valid, within the allocated table, and its entity
// active.
func (sto *Storage) validateLiveEntity(id EntityID) (int, error) {
	idx := id.Index()
	if idx < 0 || idx >= len(sto.entities) {
		return 0, InvalidEntityError{ID: id}
	}
	if !sto.entities[idx].active {
		return 0, EntityNotActiveError{ID: id}
	}
	return idx, nil
}

// detach clears a component's presence flag. The range tracker is left as-is:
// ranges only ever grow, so pruning bounds can stay wide after detachments.
func (sto *Storage) detach(id EntityID, comp Component) error {
	if sto.Locked() {
		return LockedStorageError{}
	}
	if comp.schema() != sto.schema {
		return SchemaMismatchError{Component: comp}
	}
	idx, err := sto.validateLiveEntity(id)
	if err != nil {
		return err
	}
	rec := &sto.entities[idx]
	var single mask.Mask
	single.Mark(comp.RowIndex())
	if !rec.flags.ContainsAll(single) {
		return NotAttachedError{Component: comp}
	}
	rec.flags.Unmark(comp.RowIndex())
	return nil
}

// Locked reports whether any lock bit is held.
func (sto *Storage) Locked() bool {
	var zero mask.Mask
	return sto.locks != zero
}

// AddLock sets one lock bit. While any bit is held, structural operations
// fail with LockedStorageError and the Enqueue variants defer instead.
func (sto *Storage) AddLock(bit uint32) {
	sto.locks.Mark(bit)
}

// RemoveLock clears one lock bit. Dropping the last bit flushes the operation
// queue; a queued operation that violates its contract at flush time panics,
// since the caller can no longer observe the error.
func (sto *Storage) RemoveLock(bit uint32) {
	sto.locks.Unmark(bit)
	if sto.Locked() {
		return
	}
	if err := sto.processOperationQueue(); err != nil {
		panic(err)
	}
}
