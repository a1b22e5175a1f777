/*
Package stockpile provides slot-addressed Entity-Component-System (ECS) storage for games and simulations.

Stockpile keeps every entity in a fixed slot for its whole lifetime. Component data lives in one
column per tracked type, presence is a per-slot flag set, and per-type slot ranges prune filtered
iteration. Destroyed slots are reused lowest-index-first, so handles stay stable and index reuse
is deterministic.

Core Concepts:

  - Entity: a stable slot-backed handle to which components are attached.
  - Component: a typed value stored columnar (one array per type across all entities).
  - System: a filtered, range-pruned view over entities holding a component combination.
  - Partition: a contiguous, disjoint slot sub-range handed to one worker for parallel iteration.

Basic Usage:

	// Declare the tracked component types
	schema := stockpile.Factory.NewSchema()
	position, _ := stockpile.RegisterComponent[Position](schema)
	velocity, _ := stockpile.RegisterComponent[Velocity](schema)

	// Build storage (seals the schema)
	storage := stockpile.Factory.NewStorage(schema)

	// Create an entity and attach components
	player, _ := storage.BuildEntity(
		position.With(Position{X: 1, Y: 2}),
		velocity.With(Velocity{X: 0.5}),
	)
	_ = player

	// Iterate the entities holding both components
	sys, _ := stockpile.Factory.NewSystem(storage, position, velocity)
	for sys.Next() {
		pos := position.GetFromSystem(sys)
		vel := velocity.GetFromSystem(sys)
		pos.X += vel.X
		pos.Y += vel.Y
	}

The container performs no internal synchronization: structural operations (create, destroy,
attach, detach) belong in a single-threaded phase, while RunPartitioned hands disjoint slot
partitions to parallel workers that may mutate component values freely.
*/
package stockpile
