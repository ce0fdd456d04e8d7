package vector

import (
	"errors"
	"fmt"
	"math"

	"github.com/kelseyhightower/envconfig"
)

// Allocator names accepted by Config.
const (
	AllocatorHeap = "heap"
	AllocatorMmap = "mmap"
)

// Config validation errors
var (
	ErrInvalidAllocator   = errors.New("allocator must be 'heap' or 'mmap'")
	ErrInvalidMemoryLimit = errors.New("memory_limit_bytes must not be negative")
	ErrInvalidMaxAlloc    = errors.New("max_alloc_bytes must not be negative")
	ErrInvalidMmapAdvice  = errors.New("mmap_advice must be 'normal', 'sequential', 'random' or 'willneed'")
)

var mmapAdviceNames = map[string]MmapAdvice{
	"normal":     AdviceNormal,
	"sequential": AdviceSequential,
	"random":     AdviceRandom,
	"willneed":   AdviceWillNeed,
}

// Config holds vector settings that can be supplied through the environment.
type Config struct {
	ZeroFill         bool   `envconfig:"ZERO_FILL" default:"true"`
	Allocator        string `envconfig:"ALLOCATOR" default:"heap"`
	MmapAdvice       string `envconfig:"MMAP_ADVICE" default:"normal"`
	MaxAllocBytes    int64  `envconfig:"MAX_ALLOC_BYTES" default:"0"`    // 0 means the default heap limit
	MemoryLimitBytes int64  `envconfig:"MEMORY_LIMIT_BYTES" default:"0"` // 0 means unlimited
}

// LoadConfig reads the configuration from environment variables named
// <prefix>_ZERO_FILL, <prefix>_ALLOCATOR, <prefix>_MMAP_ADVICE,
// <prefix>_MAX_ALLOC_BYTES and <prefix>_MEMORY_LIMIT_BYTES, applying
// defaults for unset variables, and validates it.
func LoadConfig(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("vector: load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c Config) Validate() error {
	if c.Allocator != AllocatorHeap && c.Allocator != AllocatorMmap {
		return ErrInvalidAllocator
	}
	if c.MemoryLimitBytes < 0 {
		return ErrInvalidMemoryLimit
	}
	if c.MaxAllocBytes < 0 {
		return ErrInvalidMaxAlloc
	}
	if _, ok := mmapAdviceNames[c.MmapAdvice]; !ok {
		return ErrInvalidMmapAdvice
	}
	return nil
}

// Options converts the configuration to constructor options.
func (c Config) Options() []Option {
	opts := []Option{WithZeroFill(c.ZeroFill)}
	if c.Allocator == AllocatorMmap {
		opts = append(opts, WithMmapAdvice(mmapAdviceNames[c.MmapAdvice]))
	}
	if c.MaxAllocBytes > 0 {
		opts = append(opts, WithMaxAllocBytes(int(min(c.MaxAllocBytes, math.MaxInt))))
	}
	if c.MemoryLimitBytes > 0 {
		opts = append(opts, WithMemoryLimit(c.MemoryLimitBytes))
	}
	return opts
}
