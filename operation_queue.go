package stockpile

import (
	"fmt"
	"sync"
)

type operation struct {
	typ    operationType
	amount int
	id     EntityID
	value  ComponentValue
	comp   Component
	values []ComponentValue
}

type operationType int

const (
	opCreate operationType = iota
	opDestroy
	opAttach
	opDetach
)

// opKey identifies a pending component operation by entity and column, so a
// later enqueue for the same pair replaces the earlier one.
type opKey struct {
	id  EntityID
	row uint32
}

// opQueue is the one shared sink during partitioned iteration, so enqueues are
// guarded by a mutex even though the storage itself is unsynchronized.
type opQueue struct {
	mu             sync.Mutex
	createOps      []operation
	componentOps   []operation
	destroyOps     []operation
	pendingDestroy map[EntityID]struct{}
	pendingMods    map[opKey]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDestroy: make(map[EntityID]struct{}),
		pendingMods:    make(map[opKey]int),
	}
}

// EnqueueCreateEntities creates n entities, each built with the given values.
// While the storage is locked the creation is queued for the final unlock;
// otherwise it happens immediately.
func (sto *Storage) EnqueueCreateEntities(n int, values ...ComponentValue) error {
	if !sto.Locked() {
		for i := 0; i < n; i++ {
			if _, err := sto.BuildEntity(values...); err != nil {
				return fmt.Errorf("failed to create entities directly: %w", err)
			}
		}
		return nil
	}
	sto.opQueue.enqueueCreate(n, values)
	return nil
}

// EnqueueDestroyEntities destroys the entities, deferring while locked.
// Queued component operations for a destroyed entity are dropped.
func (sto *Storage) EnqueueDestroyEntities(ids ...EntityID) error {
	if !sto.Locked() {
		for _, id := range ids {
			if err := sto.DestroyEntity(id); err != nil {
				return err
			}
		}
		return nil
	}
	sto.opQueue.enqueueDestroy(ids)
	return nil
}

// EnqueueAttach attaches value's component to the entity, deferring while
// locked. A pending attach or detach for the same (entity, component) pair is
// replaced.
func (sto *Storage) EnqueueAttach(id EntityID, value ComponentValue) error {
	if !sto.Locked() {
		return value.applyTo(sto, id)
	}
	sto.opQueue.enqueueComponentOp(opAttach, id, value, value)
	return nil
}

// EnqueueDetach detaches the component from the entity, deferring while locked.
func (sto *Storage) EnqueueDetach(id EntityID, comp Component) error {
	if !sto.Locked() {
		return sto.detach(id, comp)
	}
	sto.opQueue.enqueueComponentOp(opDetach, id, nil, comp)
	return nil
}

// processOperationQueue flushes deferred work in order: creates first, then
// component operations, destroys last.
func (sto *Storage) processOperationQueue() error {
	q := &sto.opQueue
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.createOps) == 0 && len(q.componentOps) == 0 && len(q.destroyOps) == 0 {
		return nil
	}

	for _, op := range q.createOps {
		for i := 0; i < op.amount; i++ {
			if _, err := sto.BuildEntity(op.values...); err != nil {
				return fmt.Errorf("failed to process queued entity creation: %w", err)
			}
		}
	}

	for _, op := range q.componentOps {
		switch op.typ {
		case opAttach:
			if err := op.value.applyTo(sto, op.id); err != nil {
				return fmt.Errorf("failed to attach queued component: %w", err)
			}
		case opDetach:
			if err := sto.detach(op.id, op.comp); err != nil {
				return fmt.Errorf("failed to detach queued component: %w", err)
			}
		}
	}

	for _, op := range q.destroyOps {
		if err := sto.DestroyEntity(op.id); err != nil {
			return fmt.Errorf("failed to destroy queued entity: %w", err)
		}
	}

	q.createOps = q.createOps[:0]
	q.componentOps = q.componentOps[:0]
	q.destroyOps = q.destroyOps[:0]
	clear(q.pendingDestroy)
	clear(q.pendingMods)
	return nil
}

func (q *opQueue) enqueueCreate(n int, values []ComponentValue) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.createOps = append(q.createOps, operation{
		typ:    opCreate,
		amount: n,
		values: values,
	})
}

func (q *opQueue) enqueueDestroy(ids []EntityID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, id := range ids {
		if _, exists := q.pendingDestroy[id]; exists {
			continue
		}
		q.pendingDestroy[id] = struct{}{}

		// Drop pending component operations for the doomed entity
		for i := range q.componentOps {
			if q.componentOps[i].id == id {
				q.componentOps[i].typ = -1
				delete(q.pendingMods, opKey{id: id, row: q.componentOps[i].comp.RowIndex()})
			}
		}
		q.destroyOps = append(q.destroyOps, operation{typ: opDestroy, id: id})
	}
}

func (q *opQueue) enqueueComponentOp(typ operationType, id EntityID, value ComponentValue, comp Component) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, doomed := q.pendingDestroy[id]; doomed {
		return
	}
	key := opKey{id: id, row: comp.RowIndex()}
	if existing, ok := q.pendingMods[key]; ok {
		q.componentOps[existing].typ = typ
		q.componentOps[existing].value = value
		q.componentOps[existing].comp = comp
		return
	}
	q.pendingMods[key] = len(q.componentOps)
	q.componentOps = append(q.componentOps, operation{
		typ:   typ,
		id:    id,
		value: value,
		comp:  comp,
	})
}
