package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("RALIBTEST")
	require.NoError(t, err)

	assert.True(t, cfg.ZeroFill)
	assert.Equal(t, AllocatorHeap, cfg.Allocator)
	assert.Equal(t, "normal", cfg.MmapAdvice)
	assert.Zero(t, cfg.MaxAllocBytes)
	assert.Zero(t, cfg.MemoryLimitBytes)
	assert.Len(t, cfg.Options(), 1)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("RALIBTEST_ZERO_FILL", "false")
	t.Setenv("RALIBTEST_ALLOCATOR", "heap")
	t.Setenv("RALIBTEST_MEMORY_LIMIT_BYTES", "64")

	cfg, err := LoadConfig("RALIBTEST")
	require.NoError(t, err)
	assert.False(t, cfg.ZeroFill)
	assert.Equal(t, int64(64), cfg.MemoryLimitBytes)

	v, err := New(8, 0, cfg.Options()...)
	require.NoError(t, err)
	assert.False(t, v.ZeroFill())

	require.NoError(t, v.Resize(8))
	assert.ErrorIs(t, v.Resize(9), ErrMemoryLimitExceeded)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		err  error
	}{
		{
			name: "unknown allocator",
			env:  map[string]string{"RALIBTEST_ALLOCATOR": "arena"},
			err:  ErrInvalidAllocator,
		},
		{
			name: "negative limit",
			env:  map[string]string{"RALIBTEST_MEMORY_LIMIT_BYTES": "-1"},
			err:  ErrInvalidMemoryLimit,
		},
		{
			name: "negative max alloc",
			env:  map[string]string{"RALIBTEST_MAX_ALLOC_BYTES": "-1"},
			err:  ErrInvalidMaxAlloc,
		},
		{
			name: "unknown advice",
			env:  map[string]string{"RALIBTEST_MMAP_ADVICE": "dontneed"},
			err:  ErrInvalidMmapAdvice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("RALIBTEST")
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("unparsable", func(t *testing.T) {
		t.Setenv("RALIBTEST_ZERO_FILL", "maybe")
		_, err := LoadConfig("RALIBTEST")
		assert.ErrorContains(t, err, "vector: load config")
	})
}

func TestConfig_Options(t *testing.T) {
	cfg := Config{ZeroFill: true, Allocator: AllocatorMmap, MmapAdvice: "sequential", MemoryLimitBytes: 1 << 20}
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Options(), 3)

	cfg = Config{Allocator: AllocatorHeap, MmapAdvice: "normal", MaxAllocBytes: 64}
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Options(), 2)

	v, err := New(8, 0, cfg.Options()...)
	require.NoError(t, err)
	require.NoError(t, v.Resize(8))
	assert.ErrorIs(t, v.Resize(9), ErrAllocationFailed)
	assert.Equal(t, 8, v.Len())
}
