package stockpile

import (
	"errors"
	"sync"
)

// RunnerLockBit is the lock bit RunPartitioned holds for the duration of a
// run. Callers using AddLock directly should pick other bits.
const RunnerLockBit uint32 = 63

// RunPartitioned splits the slot table into totalParts disjoint partitions,
// builds one system per partition over the given component combination, and
// runs fn for each on its own goroutine. The storage is locked for the
// duration, so structural operations inside fn must use the Enqueue variants;
// they apply after the last worker returns. Workers never share a slot, so fn
// may freely mutate component values through its own system.
func RunPartitioned(sto *Storage, totalParts int, fn func(*System) error, comps ...Component) error {
	if totalParts < 1 {
		return InvalidPartitionError{Part: 0, TotalParts: totalParts}
	}
	systems := make([]*System, totalParts)
	for part := range systems {
		sys, err := newSystemPart(sto, part, totalParts, comps...)
		if err != nil {
			return err
		}
		systems[part] = sys
	}

	sto.AddLock(RunnerLockBit)
	defer sto.RemoveLock(RunnerLockBit)

	var wg sync.WaitGroup
	errs := make([]error, totalParts)
	for part, sys := range systems {
		wg.Add(1)
		go func(part int, sys *System) {
			defer wg.Done()
			errs[part] = fn(sys)
		}(part, sys)
	}
	wg.Wait()
	return errors.Join(errs...)
}
