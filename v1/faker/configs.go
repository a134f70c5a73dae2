package faker

// Namespace is the registry namespace every generator is registered under.
const Namespace = "faker"

// Config defines how generators are seeded.
type Config struct {
	// Seed makes generated values reproducible. Zero picks a random seed.
	Seed uint64 `yaml:"seed" mapstructure:"seed" envconfig:"FAKER_SEED"`
}
