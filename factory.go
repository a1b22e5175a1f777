package stockpile

type factory struct{}

var Factory factory

func (f factory) NewSchema() *Schema {
	return newSchema()
}

func (f factory) NewStorage(schema *Schema, opts ...StorageOption) *Storage {
	return newStorage(schema, opts...)
}

// NewSystem builds a full-table system over the given component combination.
func (f factory) NewSystem(sto *Storage, comps ...Component) (*System, error) {
	return newSystemPart(sto, 0, 1, comps...)
}

// NewSystemPart builds a system restricted to one of totalParts contiguous
// slot partitions, for handing disjoint slot ranges to parallel workers.
func (f factory) NewSystemPart(sto *Storage, part, totalParts int, comps ...Component) (*System, error) {
	return newSystemPart(sto, part, totalParts, comps...)
}
