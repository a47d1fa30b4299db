package interp

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/embedwasm/interp/internal/wasm"
)

// RuntimeConfig controls the limits and ambient behavior of a Store, with the default implementation as
// NewRuntimeConfig.
//
// Note: RuntimeConfig is immutable. Each With function returns a new instance including the corresponding change.
type RuntimeConfig struct {
	maxCallDepth   int
	maxStackValues int
	memoryMaxPages uint32
	logger         *zap.Logger
	cache          CompilationCache
}

const (
	// DefaultMaxCallDepth is the default of RuntimeConfig.WithMaxCallDepth.
	DefaultMaxCallDepth = 256
	// DefaultMaxStackValues is the default of RuntimeConfig.WithMaxStackValues.
	DefaultMaxStackValues = 1 << 14
)

// defaultConfig helps avoid copy/pasting the wrong defaults.
var defaultConfig = &RuntimeConfig{
	maxCallDepth:   DefaultMaxCallDepth,
	maxStackValues: DefaultMaxStackValues,
	memoryMaxPages: wasm.MemoryLimitPages,
}

// clone ensures all fields are copied even if nil.
func (c *RuntimeConfig) clone() *RuntimeConfig {
	return &RuntimeConfig{
		maxCallDepth:   c.maxCallDepth,
		maxStackValues: c.maxStackValues,
		memoryMaxPages: c.memoryMaxPages,
		logger:         c.logger,
		cache:          c.cache,
	}
}

// NewRuntimeConfig returns a RuntimeConfig with the default limits, a no-op logger and no compilation cache.
func NewRuntimeConfig() *RuntimeConfig {
	return defaultConfig.clone()
}

// WithMaxCallDepth sets the maximum count of nested function calls. Calling deeper traps with
// ErrTrapCallStackExhausted. Values below 1 are raised to 1. Defaults to DefaultMaxCallDepth.
func (c *RuntimeConfig) WithMaxCallDepth(depth int) *RuntimeConfig {
	ret := c.clone()
	ret.maxCallDepth = max(depth, 1)
	return ret
}

// WithMaxStackValues sets the capacity of the value stack of each instance, in 64-bit values. The stack holds the
// locals and operands of every active frame, and is allocated once per instance. Entering a function that doesn't
// fit traps with ErrTrapStackExhausted. Values below 1 are raised to 1. Defaults to DefaultMaxStackValues.
func (c *RuntimeConfig) WithMaxStackValues(n int) *RuntimeConfig {
	ret := c.clone()
	ret.maxStackValues = max(n, 1)
	return ret
}

// WithMemoryMaxPages reduces the maximum number of pages memory.grow can reach from 65536 pages (4GiB) to a lower
// value. A module declaring a lower maximum keeps it. Values above 65536 are lowered to it.
//
// Note: Memory is backed by the buffer given to Store.Instantiate, so pages past the buffer are never accessible.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#grow-mem
func (c *RuntimeConfig) WithMemoryMaxPages(memoryMaxPages uint32) *RuntimeConfig {
	ret := c.clone()
	ret.memoryMaxPages = min(memoryMaxPages, wasm.MemoryLimitPages)
	return ret
}

// WithLogger sets the logger of the Store. Defaults to zap.NewNop if nil.
//
// The Store logs links, compilation cache hits, instantiation and invocation at debug level, and traps at warn
// level. Nothing is logged while instructions execute.
func (c *RuntimeConfig) WithLogger(logger *zap.Logger) *RuntimeConfig {
	ret := c.clone()
	ret.logger = logger
	return ret
}

// WithCompilationCache shares validated modules across calls to CompileModule with the same source. Defaults to no
// caching if nil.
func (c *RuntimeConfig) WithCompilationCache(cache CompilationCache) *RuntimeConfig {
	ret := c.clone()
	ret.cache = cache
	return ret
}

// Logger returns the configured logger, or a no-op logger.
func (c *RuntimeConfig) Logger() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

// runtimeConfigFile is the TOML form of a RuntimeConfig. Absent keys keep the defaults.
type runtimeConfigFile struct {
	MaxCallDepth   *int    `toml:"max_call_depth"`
	MaxStackValues *int    `toml:"max_stack_values"`
	MemoryMaxPages *uint32 `toml:"memory_max_pages"`
}

// DecodeRuntimeConfig returns NewRuntimeConfig with the limits set in a TOML document. For example:
//
//	max_call_depth = 64
//	max_stack_values = 4096
//	memory_max_pages = 1
//
// Errors wrap ErrInvalid when the document doesn't parse or a limit is out of range.
func DecodeRuntimeConfig(data []byte) (*RuntimeConfig, error) {
	var f runtimeConfigFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("parse runtime config: %v: %w", err, ErrInvalid)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown runtime config key %q: %w", undecoded[0].String(), ErrInvalid)
	}

	ret := NewRuntimeConfig()
	if f.MaxCallDepth != nil {
		if *f.MaxCallDepth <= 0 {
			return nil, fmt.Errorf("max_call_depth must be positive: %d: %w", *f.MaxCallDepth, ErrInvalid)
		}
		ret.maxCallDepth = *f.MaxCallDepth
	}
	if f.MaxStackValues != nil {
		if *f.MaxStackValues <= 0 {
			return nil, fmt.Errorf("max_stack_values must be positive: %d: %w", *f.MaxStackValues, ErrInvalid)
		}
		ret.maxStackValues = *f.MaxStackValues
	}
	if f.MemoryMaxPages != nil {
		if *f.MemoryMaxPages > wasm.MemoryLimitPages {
			return nil, fmt.Errorf("memory_max_pages must be at most %d: %d: %w",
				wasm.MemoryLimitPages, *f.MemoryMaxPages, ErrInvalid)
		}
		ret.memoryMaxPages = *f.MemoryMaxPages
	}
	return ret, nil
}
