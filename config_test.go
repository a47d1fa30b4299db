package interp

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRuntimeConfig(t *testing.T) {
	cache := NewCompilationCache()
	logger := zap.NewExample()

	tests := []struct {
		name     string
		with     func(*RuntimeConfig) *RuntimeConfig
		expected *RuntimeConfig
	}{
		{
			name: "WithMaxCallDepth",
			with: func(c *RuntimeConfig) *RuntimeConfig {
				return c.WithMaxCallDepth(8)
			},
			expected: &RuntimeConfig{maxCallDepth: 8, maxStackValues: DefaultMaxStackValues, memoryMaxPages: 65536},
		},
		{
			name: "WithMaxStackValues",
			with: func(c *RuntimeConfig) *RuntimeConfig {
				return c.WithMaxStackValues(64)
			},
			expected: &RuntimeConfig{maxCallDepth: DefaultMaxCallDepth, maxStackValues: 64, memoryMaxPages: 65536},
		},
		{
			name: "WithMemoryMaxPages",
			with: func(c *RuntimeConfig) *RuntimeConfig {
				return c.WithMemoryMaxPages(1)
			},
			expected: &RuntimeConfig{maxCallDepth: DefaultMaxCallDepth, maxStackValues: DefaultMaxStackValues, memoryMaxPages: 1},
		},
		{
			name: "WithMaxCallDepth below one",
			with: func(c *RuntimeConfig) *RuntimeConfig {
				return c.WithMaxCallDepth(0)
			},
			expected: &RuntimeConfig{maxCallDepth: 1, maxStackValues: DefaultMaxStackValues, memoryMaxPages: 65536},
		},
		{
			name: "WithMaxStackValues below one",
			with: func(c *RuntimeConfig) *RuntimeConfig {
				return c.WithMaxStackValues(-1)
			},
			expected: &RuntimeConfig{maxCallDepth: DefaultMaxCallDepth, maxStackValues: 1, memoryMaxPages: 65536},
		},
		{
			name: "WithMemoryMaxPages over the limit",
			with: func(c *RuntimeConfig) *RuntimeConfig {
				return c.WithMemoryMaxPages(65537)
			},
			expected: &RuntimeConfig{maxCallDepth: DefaultMaxCallDepth, maxStackValues: DefaultMaxStackValues, memoryMaxPages: 65536},
		},
		{
			name: "WithLogger",
			with: func(c *RuntimeConfig) *RuntimeConfig {
				return c.WithLogger(logger)
			},
			expected: &RuntimeConfig{
				maxCallDepth:   DefaultMaxCallDepth,
				maxStackValues: DefaultMaxStackValues,
				memoryMaxPages: 65536,
				logger:         logger,
			},
		},
		{
			name: "WithCompilationCache",
			with: func(c *RuntimeConfig) *RuntimeConfig {
				return c.WithCompilationCache(cache)
			},
			expected: &RuntimeConfig{
				maxCallDepth:   DefaultMaxCallDepth,
				maxStackValues: DefaultMaxStackValues,
				memoryMaxPages: 65536,
				cache:          cache,
			},
		},
	}
	for _, tt := range tests {
		tc := tt

		t.Run(tc.name, func(t *testing.T) {
			input := NewRuntimeConfig()
			rc := tc.with(input)
			require.Equal(t, tc.expected, rc)
			// The source wasn't modified
			require.Equal(t, NewRuntimeConfig(), input)
		})
	}
}

func TestRuntimeConfig_Logger(t *testing.T) {
	require.NotNil(t, NewRuntimeConfig().Logger())
	require.NotNil(t, NewRuntimeConfig().WithLogger(nil).Logger())

	logger := zap.NewExample()
	require.Same(t, logger, NewRuntimeConfig().WithLogger(logger).Logger())
}

func TestDecodeRuntimeConfig(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *RuntimeConfig
	}{
		{
			name:     "empty",
			input:    "",
			expected: NewRuntimeConfig(),
		},
		{
			name: "all keys",
			input: `
max_call_depth = 64
max_stack_values = 4096
memory_max_pages = 1
`,
			expected: &RuntimeConfig{maxCallDepth: 64, maxStackValues: 4096, memoryMaxPages: 1},
		},
		{
			name:     "some keys",
			input:    "memory_max_pages = 0",
			expected: NewRuntimeConfig().WithMemoryMaxPages(0),
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			rc, err := DecodeRuntimeConfig([]byte(tc.input))
			require.NoError(t, err)
			require.Equal(t, tc.expected, rc)
		})
	}
}

func TestDecodeRuntimeConfig_Errors(t *testing.T) {
	tests := []struct {
		name, input, expectedErr string
	}{
		{
			name:        "syntax",
			input:       "max_call_depth =",
			expectedErr: "parse runtime config",
		},
		{
			name:        "wrong type",
			input:       `max_call_depth = "deep"`,
			expectedErr: "parse runtime config",
		},
		{
			name:        "unknown key",
			input:       "max_frames = 1",
			expectedErr: `unknown runtime config key "max_frames"`,
		},
		{
			name:        "zero depth",
			input:       "max_call_depth = 0",
			expectedErr: "max_call_depth must be positive: 0",
		},
		{
			name:        "negative stack",
			input:       "max_stack_values = -1",
			expectedErr: "max_stack_values must be positive: -1",
		},
		{
			name:        "too many pages",
			input:       "memory_max_pages = 65537",
			expectedErr: "memory_max_pages must be at most 65536: 65537",
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeRuntimeConfig([]byte(tc.input))
			require.ErrorIs(t, err, ErrInvalid)
			require.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}
