package stockpile

// ComponentType is the typed handle for a registered component type: it knows
// the type's column in every Storage built from its schema. Handles are small
// values meant to be created once at setup and passed around freely.
type ComponentType[T any] struct {
	sch *Schema
	idx uint32
}

// RowIndex returns the component's position in the schema's type list.
func (c ComponentType[T]) RowIndex() uint32 {
	return c.idx
}

// TypeName returns the registered type's name, for diagnostics.
func (c ComponentType[T]) TypeName() string {
	return c.sch.names[c.idx]
}

func (c ComponentType[T]) schema() *Schema {
	return c.sch
}

// With pairs the handle with a value, producing a ComponentValue that can be
// applied by BuildEntity or the operation queue.
func (c ComponentType[T]) With(value T) ComponentValue {
	return componentValue[T]{ComponentType: c, value: value}
}

type componentValue[T any] struct {
	ComponentType[T]
	value T
}

func (v componentValue[T]) applyTo(sto *Storage, id EntityID) error {
	return v.ComponentType.Attach(sto, id, v.value)
}

// anyColumn is the untyped face of a component column. Columns grow in
// lock-step with the slot table; entries for slots without the component are
// stale and must not be read without checking the presence flag.
type anyColumn interface {
	push()
	reserve(n int)
}

type column[T any] struct {
	data []T
}

func (c *column[T]) push() {
	var zero T
	c.data = append(c.data, zero)
}

func (c *column[T]) reserve(n int) {
	if cap(c.data)-len(c.data) >= n {
		return
	}
	grown := make([]T, len(c.data), len(c.data)+n)
	copy(grown, c.data)
	c.data = grown
}
