package stockpile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectSlots drains a system and returns the visited slot indices.
func collectSlots(sys *System) []int {
	slots := []int{}
	for slot := range sys.Entities() {
		slots = append(slots, slot)
	}
	return slots
}

func TestSystemFilterCorrectness(t *testing.T) {
	sto, pos, vel, _ := newTestStorage(t)

	// Entities with {A}, {B}, {A,B}, {} where A=Position, B=Velocity.
	onlyA, _ := sto.BuildEntity(pos.With(Position{}))
	onlyB, _ := sto.BuildEntity(vel.With(Velocity{}))
	both, _ := sto.BuildEntity(pos.With(Position{}), vel.With(Velocity{}))
	_, _ = sto.CreateEntity()

	sysBoth, err := Factory.NewSystem(sto, pos, vel)
	require.NoError(t, err)
	assert.Equal(t, []int{both.Index()}, collectSlots(sysBoth))

	sysA, err := Factory.NewSystem(sto, pos)
	require.NoError(t, err)
	assert.Equal(t, []int{onlyA.Index(), both.Index()}, collectSlots(sysA))

	sysB, err := Factory.NewSystem(sto, vel)
	require.NoError(t, err)
	assert.Equal(t, []int{onlyB.Index(), both.Index()}, collectSlots(sysB))
}

func TestSystemSkipsInactiveEntities(t *testing.T) {
	sto, pos, _, _ := newTestStorage(t)

	ids := make([]EntityID, 5)
	for i := range ids {
		ids[i], _ = sto.BuildEntity(pos.With(Position{X: float64(i)}))
	}
	require.NoError(t, sto.DestroyEntity(ids[1]))
	require.NoError(t, sto.DestroyEntity(ids[3]))

	sys, err := Factory.NewSystem(sto, pos)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 4}, collectSlots(sys))
	assert.Equal(t, 3, sys.TotalMatched())
}

func TestSystemNeverAttachedType(t *testing.T) {
	sto, pos, vel, _ := newTestStorage(t)

	_, _ = sto.BuildEntity(pos.With(Position{}))

	// Velocity has never been attached to anything: the candidate range is
	// empty and iteration yields nothing, even for combinations.
	sys, err := Factory.NewSystem(sto, vel)
	require.NoError(t, err)
	assert.False(t, sys.Next())

	sysBoth, err := Factory.NewSystem(sto, pos, vel)
	require.NoError(t, err)
	assert.Empty(t, collectSlots(sysBoth))
}

// TestRangePruningIsInvisible verifies pruning is a pure optimization:
// stale-wide ranges after detaches must not change iteration results compared
// to a brute-force scan with Has.
func TestRangePruningIsInvisible(t *testing.T) {
	sto, pos, vel, _ := newTestStorage(t)

	ids := make([]EntityID, 10)
	for i := range ids {
		ids[i], _ = sto.BuildEntity(pos.With(Position{X: float64(i)}), vel.With(Velocity{}))
	}
	// Detach at the edges so the tracked ranges stay wider than the live set.
	require.NoError(t, pos.Detach(sto, ids[0]))
	require.NoError(t, pos.Detach(sto, ids[9]))
	require.NoError(t, vel.Detach(sto, ids[9]))

	brute := []int{}
	for slot := 0; slot < sto.Capacity(); slot++ {
		id := NewEntityID(slot)
		if alive, _ := sto.HasEntity(id); !alive {
			continue
		}
		if has, _ := sto.Has(id, pos, vel); has {
			brute = append(brute, slot)
		}
	}

	sys, err := Factory.NewSystem(sto, pos, vel)
	require.NoError(t, err)
	assert.Equal(t, brute, collectSlots(sys))
}

func TestSystemDisjointRanges(t *testing.T) {
	sto, pos, vel, _ := newTestStorage(t)

	ids := make([]EntityID, 6)
	for i := range ids {
		ids[i], _ = sto.CreateEntity()
	}
	// Position only at low slots, Velocity only at high slots: the range
	// intersection is empty although both types are present.
	require.NoError(t, pos.Attach(sto, ids[0], Position{}))
	require.NoError(t, pos.Attach(sto, ids[1], Position{}))
	require.NoError(t, vel.Attach(sto, ids[4], Velocity{}))
	require.NoError(t, vel.Attach(sto, ids[5], Velocity{}))

	sys, err := Factory.NewSystem(sto, pos, vel)
	require.NoError(t, err)
	assert.Empty(t, collectSlots(sys))
}

func TestSystemLiveView(t *testing.T) {
	sto, pos, _, _ := newTestStorage(t)

	for i := 0; i < 3; i++ {
		_, _ = sto.BuildEntity(pos.With(Position{X: 1}))
	}

	// Mutations through yielded pointers are visible within the same pass
	// and to systems built afterward.
	sys, err := Factory.NewSystem(sto, pos)
	require.NoError(t, err)
	sum := 0.0
	for sys.Next() {
		p := pos.GetFromSystem(sys)
		sum += p.X
		p.X *= 10
	}
	assert.Equal(t, 3.0, sum)

	after, err := Factory.NewSystem(sto, pos)
	require.NoError(t, err)
	for after.Next() {
		assert.Equal(t, 10.0, pos.GetFromSystem(after).X)
	}
}

func TestSystemReset(t *testing.T) {
	sto, pos, _, _ := newTestStorage(t)
	for i := 0; i < 4; i++ {
		_, _ = sto.BuildEntity(pos.With(Position{}))
	}

	sys, err := Factory.NewSystem(sto, pos)
	require.NoError(t, err)

	first := 0
	for sys.Next() {
		first++
	}
	sys.Reset()
	second := 0
	for sys.Next() {
		second++
	}
	assert.Equal(t, first, second)
	assert.Equal(t, 4, first)
}

func TestGetFromSystemSafe(t *testing.T) {
	sto, pos, vel, _ := newTestStorage(t)

	_, _ = sto.BuildEntity(pos.With(Position{}))
	_, _ = sto.BuildEntity(pos.With(Position{}), vel.With(Velocity{X: 2}))

	sys, err := Factory.NewSystem(sto, pos)
	require.NoError(t, err)

	found := 0
	for sys.Next() {
		if ok, v := vel.GetFromSystemSafe(sys); ok {
			found++
			assert.Equal(t, 2.0, v.X)
		}
	}
	assert.Equal(t, 1, found)
}

func TestSystemArgumentValidation(t *testing.T) {
	sto, pos, _, _ := newTestStorage(t)

	_, err := Factory.NewSystem(sto)
	assert.ErrorAs(t, err, &EmptyComponentListError{})

	_, err = Factory.NewSystemPart(sto, 2, 2, pos)
	assert.ErrorAs(t, err, &InvalidPartitionError{})

	_, err = Factory.NewSystemPart(sto, 0, 0, pos)
	assert.ErrorAs(t, err, &InvalidPartitionError{})

	other := Factory.NewSchema()
	foreign, _ := RegisterComponent[Position](other)
	_, err = Factory.NewSystem(sto, foreign)
	assert.ErrorAs(t, err, &SchemaMismatchError{})
}

// TestSystemLeavesLockingToCaller pins the explicit-locking contract: a
// System never touches the lock bits, so guarding an iteration phase is the
// caller's job, via AddLock/RemoveLock or RunPartitioned.
func TestSystemLeavesLockingToCaller(t *testing.T) {
	sto, pos, _, _ := newTestStorage(t)
	ids := make([]EntityID, 4)
	for i := range ids {
		ids[i], _ = sto.BuildEntity(pos.With(Position{}))
	}

	sys, err := Factory.NewSystem(sto, pos)
	require.NoError(t, err)
	require.True(t, sys.Next())

	// Mid-iteration the storage is unlocked and structural ops go through.
	assert.False(t, sto.Locked())
	require.NoError(t, sto.DestroyEntity(ids[3]))

	// Guarding the pass explicitly makes structural ops fail until release.
	sto.AddLock(1)
	assert.True(t, sto.Locked())
	err = sto.DestroyEntity(ids[2])
	assert.ErrorAs(t, err, &LockedStorageError{})
	sto.RemoveLock(1)

	// Exhausting or resetting the system changes nothing about the lock.
	for sys.Next() {
	}
	sys.Reset()
	assert.False(t, sto.Locked())
	assert.NoError(t, sto.DestroyEntity(ids[2]))
}

// TestPartitionCoverage checks the partition contract: contiguous windows of
// size N/totalParts, the last absorbing the remainder, whose union visits
// every entity exactly once.
func TestPartitionCoverage(t *testing.T) {
	entityCounts := []int{1, 2, 7, 10, 16, 23}
	partCounts := []int{1, 2, 3, 4, 7, 23}

	for _, n := range entityCounts {
		for _, totalParts := range partCounts {
			t.Run(fmt.Sprintf("%d entities %d parts", n, totalParts), func(t *testing.T) {
				sto, pos, _, _ := newTestStorage(t)
				for i := 0; i < n; i++ {
					_, err := sto.BuildEntity(pos.With(Position{X: float64(i)}))
					require.NoError(t, err)
				}

				seen := map[int]int{}
				for part := 0; part < totalParts; part++ {
					sys, err := Factory.NewSystemPart(sto, part, totalParts, pos)
					require.NoError(t, err)

					// Raw window sizes follow the remainder rule.
					wantSize := n / totalParts
					if part == totalParts-1 {
						wantSize = n - (totalParts-1)*(n/totalParts)
					}
					if sys.end != sys.begin { // pruned-to-empty windows collapse to [0,0)
						assert.Equal(t, wantSize, sys.end-sys.begin, "partition %d window", part)
					}

					for slot := range sys.Entities() {
						seen[slot]++
					}
				}

				require.Len(t, seen, n, "every entity visited")
				for slot, visits := range seen {
					assert.Equal(t, 1, visits, "slot %d visited once", slot)
				}
			})
		}
	}
}

func TestPartitionsAreDisjoint(t *testing.T) {
	sto, pos, _, _ := newTestStorage(t)
	for i := 0; i < 10; i++ {
		_, _ = sto.BuildEntity(pos.With(Position{}))
	}

	a, err := Factory.NewSystemPart(sto, 0, 3, pos)
	require.NoError(t, err)
	b, err := Factory.NewSystemPart(sto, 1, 3, pos)
	require.NoError(t, err)
	c, err := Factory.NewSystemPart(sto, 2, 3, pos)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, collectSlots(a))
	assert.Equal(t, []int{3, 4, 5}, collectSlots(b))
	assert.Equal(t, []int{6, 7, 8, 9}, collectSlots(c))
}

func TestRunPartitioned(t *testing.T) {
	sto, pos, vel, _ := newTestStorage(t)
	const n = 25
	for i := 0; i < n; i++ {
		_, err := sto.BuildEntity(
			pos.With(Position{X: float64(i)}),
			vel.With(Velocity{X: 1}),
		)
		require.NoError(t, err)
	}

	err := RunPartitioned(sto, 4, func(sys *System) error {
		for sys.Next() {
			p := pos.GetFromSystem(sys)
			v := vel.GetFromSystem(sys)
			p.X += v.X
		}
		return nil
	}, pos, vel)
	require.NoError(t, err)

	for slot := 0; slot < n; slot++ {
		p, err := pos.Get(sto, NewEntityID(slot))
		require.NoError(t, err)
		assert.Equal(t, float64(slot)+1, p.X, "slot %d integrated once", slot)
	}
}

func TestRunPartitionedDefersStructuralOps(t *testing.T) {
	sto, pos, _, _ := newTestStorage(t)
	ids := make([]EntityID, 8)
	for i := range ids {
		ids[i], _ = sto.BuildEntity(pos.With(Position{}))
	}

	err := RunPartitioned(sto, 2, func(sys *System) error {
		for sys.Next() {
			// Direct structural calls fail while the runner holds the lock.
			if err := sto.DestroyEntity(sys.CurrentEntity()); err == nil {
				return fmt.Errorf("structural op succeeded during iteration")
			}
			if err := sto.EnqueueDestroyEntities(sys.CurrentEntity()); err != nil {
				return err
			}
		}
		return nil
	}, pos)
	require.NoError(t, err)

	// Queued destroys applied after the run.
	assert.Equal(t, 0, sto.Size())
}
