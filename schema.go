package stockpile

import (
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// MaxComponentTypes caps how many component types a single schema can track.
// Presence flags for a slot live in one mask, so the cap follows the mask width.
const MaxComponentTypes = 64

// Schema is the declaration surface for a Storage: the fixed, ordered list of
// component types the container tracks. Types are registered up front with
// RegisterComponent; building a Storage from the schema seals it, after which
// registration fails. The same schema can back several storages.
type Schema struct {
	indices   *intmap.Map[uint64, uint32]
	factories []func(capacity int) anyColumn
	names     []string
	idIndex   int // column holding EntityID when registered, -1 otherwise
	sealed    bool
}

func newSchema() *Schema {
	return &Schema{
		indices: intmap.New[uint64, uint32](16),
		idIndex: -1,
	}
}

// Count returns the number of registered component types.
func (s *Schema) Count() int {
	return len(s.factories)
}

// Sealed reports whether the schema has been frozen by a Storage build.
func (s *Schema) Sealed() bool {
	return s.sealed
}

func (s *Schema) seal() {
	s.sealed = true
}

// RegisterComponent adds T to the schema's type list and returns its typed
// handle. Registering the same T twice returns the handle of the first
// registration. Registering EntityID makes every created entity carry its own
// id as a component.
func RegisterComponent[T any](schema *Schema) (ComponentType[T], error) {
	t := reflect.TypeFor[T]()
	if idx, ok := schema.indices.Get(typeID(t)); ok {
		return ComponentType[T]{sch: schema, idx: idx}, nil
	}
	if schema.sealed {
		return ComponentType[T]{}, SchemaSealedError{TypeName: t.String()}
	}
	if len(schema.factories) >= MaxComponentTypes {
		return ComponentType[T]{}, SchemaFullError{Limit: MaxComponentTypes}
	}

	idx := uint32(len(schema.factories))
	schema.indices.Put(typeID(t), idx)
	schema.factories = append(schema.factories, func(capacity int) anyColumn {
		return &column[T]{data: make([]T, 0, capacity)}
	})
	schema.names = append(schema.names, t.String())

	if t == reflect.TypeFor[EntityID]() {
		schema.idIndex = int(idx)
	}
	return ComponentType[T]{sch: schema, idx: idx}, nil
}

// iface mirrors the runtime layout of an interface value. The data pointer of
// a reflect.Type identifies the runtime type uniquely, which gives a cheap
// integer key for the column index map.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

func typeID(t reflect.Type) uint64 {
	ptr := (*iface)(unsafe.Pointer(&t)).data
	return uint64(uintptr(ptr))
}
