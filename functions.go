package stockpile

// GetMany2 returns simultaneous pointers to two components on the same
// entity. Each access follows Get's failure rules.
func GetMany2[A, B any](sto *Storage, ca ComponentType[A], cb ComponentType[B], id EntityID) (*A, *B, error) {
	a, err := ca.Get(sto, id)
	if err != nil {
		return nil, nil, err
	}
	b, err := cb.Get(sto, id)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// GetMany3 returns simultaneous pointers to three components on the same
// entity.
func GetMany3[A, B, C any](sto *Storage, ca ComponentType[A], cb ComponentType[B], cc ComponentType[C], id EntityID) (*A, *B, *C, error) {
	a, b, err := GetMany2(sto, ca, cb, id)
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := cc.Get(sto, id)
	if err != nil {
		return nil, nil, nil, err
	}
	return a, b, c, nil
}
