package interp

import (
	"fmt"
	"sync"

	"github.com/mr-tron/base58"
	"github.com/zeebo/blake3"
)

// ModuleID is the blake3 digest of the source of a module.
type ModuleID [32]byte

// moduleIDOf returns the ModuleID of source.
func moduleIDOf(source []byte) ModuleID {
	return blake3.Sum256(source)
}

// String implements fmt.Stringer, returning the base58 form of the digest.
func (id ModuleID) String() string {
	return base58.Encode(id[:])
}

// ModuleIDFromBase58 parses the String form of a ModuleID.
func ModuleIDFromBase58(s string) (ModuleID, error) {
	var id ModuleID
	b, err := base58.Decode(s)
	if err != nil {
		return id, fmt.Errorf("decode module id %q: %v: %w", s, err, ErrInvalid)
	}
	if len(b) != len(id) {
		return id, fmt.Errorf("module id %q: %d bytes != %d: %w", s, len(b), len(id), ErrInvalid)
	}
	copy(id[:], b)
	return id, nil
}

// CompilationCache holds validated modules by ModuleID, so that compiling the same source again skips decoding
// and validation. See RuntimeConfig.WithCompilationCache
//
// Note: Implementations must be goroutine-safe.
type CompilationCache interface {
	// Get returns the module compiled from the source with the given id, or false if absent.
	Get(id ModuleID) (*CompiledModule, bool)
	// Add stores a validated module.
	Add(id ModuleID, m *CompiledModule)
	// Delete evicts the module with the given id, if present.
	Delete(id ModuleID)
}

// NewCompilationCache returns an in-memory CompilationCache with no eviction.
func NewCompilationCache() CompilationCache {
	return &memoryCache{modules: map[ModuleID]*CompiledModule{}}
}

// memoryCache implements CompilationCache.
type memoryCache struct {
	mux     sync.RWMutex
	modules map[ModuleID]*CompiledModule
}

// Get implements the same method as documented on CompilationCache.
func (c *memoryCache) Get(id ModuleID) (*CompiledModule, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	m, ok := c.modules[id]
	return m, ok
}

// Add implements the same method as documented on CompilationCache.
func (c *memoryCache) Add(id ModuleID, m *CompiledModule) {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.modules[id] = m
}

// Delete implements the same method as documented on CompilationCache.
func (c *memoryCache) Delete(id ModuleID) {
	c.mux.Lock()
	defer c.mux.Unlock()
	delete(c.modules, id)
}
