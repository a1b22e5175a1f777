package stockpile

// DefaultCapacity is the slot count storages preallocate for when built
// without WithCapacity.
const DefaultCapacity = 256

type storageConfig struct {
	capacity int
}

// StorageOption configures a Storage at build time. The type list itself
// comes from the schema; capacity is the only other tunable.
type StorageOption func(*storageConfig)

// WithCapacity preallocates the slot table and every component column for n
// entities, so the first n creations never relocate backing storage.
func WithCapacity(n int) StorageOption {
	return func(cfg *storageConfig) {
		if n > 0 {
			cfg.capacity = n
		}
	}
}
