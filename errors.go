package stockpile

import "fmt"

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

// InvalidEntityError reports an operation given the invalid id or an id whose
// slot was never allocated.
type InvalidEntityError struct {
	ID EntityID
}

func (e InvalidEntityError) Error() string {
	if !e.ID.Valid() {
		return "entity id is not initialized"
	}
	return fmt.Sprintf("entity slot was never allocated: %d", e.ID.Index())
}

// OutOfRangeError reports a slot index beyond the allocated table.
type OutOfRangeError struct {
	Index int
	Size  int
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("slot index %d outside allocated table of size %d", e.Index, e.Size)
}

// EntityNotActiveError reports a destroy or component operation on a slot
// whose entity has been destroyed.
type EntityNotActiveError struct {
	ID EntityID
}

func (e EntityNotActiveError) Error() string {
	return fmt.Sprintf("entity is not active: %d", e.ID.Index())
}

type AlreadyAttachedError struct {
	Component Component
}

func (e AlreadyAttachedError) Error() string {
	return fmt.Sprintf("component already attached to entity: %s", e.Component.TypeName())
}

type NotAttachedError struct {
	Component Component
}

func (e NotAttachedError) Error() string {
	return fmt.Sprintf("component not attached to entity: %s", e.Component.TypeName())
}

// SchemaSealedError reports a registration attempt after a Storage was built
// from the schema.
type SchemaSealedError struct {
	TypeName string
}

func (e SchemaSealedError) Error() string {
	return fmt.Sprintf("schema is sealed, cannot register component type: %s", e.TypeName)
}

type SchemaFullError struct {
	Limit int
}

func (e SchemaFullError) Error() string {
	return fmt.Sprintf("schema is full, at most %d component types can be registered", e.Limit)
}

// SchemaMismatchError reports a component handle used against a storage built
// from a different schema.
type SchemaMismatchError struct {
	Component Component
}

func (e SchemaMismatchError) Error() string {
	return fmt.Sprintf("component belongs to a different schema: %s", e.Component.TypeName())
}

type EmptyComponentListError struct{}

func (e EmptyComponentListError) Error() string {
	return "component list must not be empty"
}

type InvalidPartitionError struct {
	Part       int
	TotalParts int
}

func (e InvalidPartitionError) Error() string {
	return fmt.Sprintf("invalid partition %d of %d", e.Part, e.TotalParts)
}
