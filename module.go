package interp

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/wasm"
	"github.com/embedwasm/interp/internal/wasm/binary"
)

// CompiledModule is a WebAssembly module that was decoded and validated, ready to be instantiated with
// Store.Instantiate any number of times.
//
// Function bodies are executed in place: the source given to CompileModule must not be modified while the
// CompiledModule or its instances are in use.
//
// Note: In WebAssembly language, this is a decoded and validated module. The side table of each function, which
// resolves its control transfers, is built during validation.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#semantic-phases%E2%91%A0
type CompiledModule struct {
	id     ModuleID
	module *wasm.Module
}

// ID returns the blake3 digest of the source.
func (m *CompiledModule) ID() ModuleID {
	return m.id
}

// Name returns the module name of the name section, or empty if undefined.
func (m *CompiledModule) Name() string {
	return m.module.ModuleName()
}

// ExportedFunctions returns the names of the exported functions, in export order.
func (m *CompiledModule) ExportedFunctions() []string {
	var names []string
	for i := range m.module.ExportSection {
		if e := &m.module.ExportSection[i]; e.Type == api.ExternTypeFunc {
			names = append(names, e.Name)
		}
	}
	return names
}

// CompileModule decodes and validates the WebAssembly binary source.
//
// Errors wrap ErrInvalid for a malformed or ill-typed module, and ErrUnsupported (with an *UnsupportedError) for a
// module that uses an unimplemented feature. When config has a CompilationCache, a module with the same ModuleID is
// returned without decoding source again.
func CompileModule(config *RuntimeConfig, source []byte) (*CompiledModule, error) {
	if config == nil {
		config = defaultConfig
	}
	logger := config.Logger()

	id := moduleIDOf(source)
	if config.cache != nil {
		if m, ok := config.cache.Get(id); ok {
			logger.Debug("compilation cache hit", zap.Stringer("module_id", id))
			return m, nil
		}
	}

	internal, err := binary.DecodeModule(source)
	if err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}
	if err = internal.Validate(); err != nil {
		return nil, fmt.Errorf("validate module: %w", err)
	}

	m := &CompiledModule{id: id, module: internal}
	if config.cache != nil {
		config.cache.Add(id, m)
	}
	logger.Debug("compiled module",
		zap.Stringer("module_id", id),
		zap.String("name", m.Name()),
		zap.Int("functions", len(internal.FunctionSection)))
	return m, nil
}
