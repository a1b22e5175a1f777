// Command ecs-stress exercises a stockpile storage under a sustained
// structural-phase / parallel-iteration-phase workload and reports timing.
package main

import (
	"flag"
	"math/rand"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/TheBitDrifter/stockpile"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

func main() {
	duration := flag.Duration("duration", 10*time.Second, "total duration the stress run should last")
	entityCount := flag.Int("entities", 10000, "initial number of entities to create")
	parts := flag.Int("parts", runtime.NumCPU(), "partition count for parallel iteration")
	churn := flag.Int("churn", 100, "entities destroyed and recreated per frame")
	profileMode := flag.String("profile", "", "write a profile: cpu or mem")
	flag.Parse()

	log, err := newLogger()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	schema := stockpile.Factory.NewSchema()
	position, _ := stockpile.RegisterComponent[Position](schema)
	velocity, _ := stockpile.RegisterComponent[Velocity](schema)
	health, _ := stockpile.RegisterComponent[Health](schema)
	storage := stockpile.Factory.NewStorage(schema, stockpile.WithCapacity(*entityCount))

	log.Info("populating storage",
		zap.Int("entities", *entityCount),
		zap.Int("parts", *parts),
	)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < *entityCount; i++ {
		if err := spawnRandom(storage, position, velocity, health, rng); err != nil {
			log.Fatal("population failed", zap.Error(err))
		}
	}

	report := newReport(*entityCount, *parts)
	deadline := time.Now().Add(*duration)
	log.Info("running", zap.Duration("duration", *duration))

	for time.Now().Before(deadline) {
		frameStart := time.Now()

		// Parallel iteration phase: integrate velocities on disjoint
		// partitions, queueing the churn destroys for the unlock.
		var destroyed atomic.Int64
		err := stockpile.RunPartitioned(storage, *parts, func(sys *stockpile.System) error {
			for sys.Next() {
				pos := position.GetFromSystem(sys)
				vel := velocity.GetFromSystem(sys)
				pos.X += vel.X
				pos.Y += vel.Y

				if destroyed.Load() < int64(*churn) && int(pos.X)%97 == 0 {
					destroyed.Add(1)
					if err := storage.EnqueueDestroyEntities(sys.CurrentEntity()); err != nil {
						return err
					}
				}
			}
			return nil
		}, position, velocity)
		if err != nil {
			log.Fatal("iteration phase failed", zap.Error(err))
		}

		// Structural phase: refill the holes the churn left behind.
		for storage.Size() < *entityCount {
			if err := spawnRandom(storage, position, velocity, health, rng); err != nil {
				log.Fatal("respawn failed", zap.Error(err))
			}
		}

		report.observeFrame(time.Since(frameStart))
	}

	if err := report.write(os.Stdout); err != nil {
		log.Fatal("report failed", zap.Error(err))
	}
	log.Info("done",
		zap.Int64("frames", report.Frames),
		zap.Int("slots", storage.Capacity()),
	)
}

// spawnRandom creates one entity with position plus a random tail of the
// other components, so systems see mixed archetype-like populations.
func spawnRandom(
	storage *stockpile.Storage,
	position stockpile.ComponentType[Position],
	velocity stockpile.ComponentType[Velocity],
	health stockpile.ComponentType[Health],
	rng *rand.Rand,
) error {
	values := []stockpile.ComponentValue{
		position.With(Position{X: rng.Float64() * 100, Y: rng.Float64() * 100}),
		velocity.With(Velocity{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}),
	}
	if rng.Intn(2) == 0 {
		values = append(values, health.With(Health{Current: 100, Max: 100}))
	}
	_, err := storage.BuildEntity(values...)
	return err
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}
