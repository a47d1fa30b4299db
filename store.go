package interp

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/engine/interpreter"
	"github.com/embedwasm/interp/internal/wasm"
)

// Store holds the host functions modules can import, the instances created from them, and the interrupt flag
// checked while they run.
//
// Ex.
//
//	store := interp.NewStore(interp.NewRuntimeConfig())
//	println, _ := store.LinkFunc("env", "println", 2, 0)
//	inst, _ := store.Instantiate(module, make([]byte, 65536))
//	res, err := store.Invoke(inst, "main")
//	for err == nil && res.Kind != interp.ResultDone {
//		// handle res.Call, then continue.
//		res, err = res.Call.Resume()
//	}
//
// Note: Store is not goroutine-safe. Exactly one goroutine drives the instances of a Store, except the interrupt
// flag, which can be set from any goroutine.
type Store struct {
	store     *wasm.Store
	config    *RuntimeConfig
	logger    *zap.Logger
	interrupt *atomic.Bool
	instances []*Instance
}

// NewStore returns an empty Store using config, or NewRuntimeConfig if nil.
func NewStore(config *RuntimeConfig) *Store {
	if config == nil {
		config = defaultConfig
	}
	return &Store{
		store:  wasm.NewStore(config.memoryMaxPages),
		config: config,
		logger: config.Logger(),
	}
}

// LinkFunc registers a host function whose params and results are all i32, returning its index. The index is
// reported by Call.Index when a module calls the function.
//
// Errors wrap ErrInvalid when namespace and name are already linked.
func (s *Store) LinkFunc(namespace, name string, params, results int) (int, error) {
	return s.LinkFuncTyped(namespace, name, i32s(params), i32s(results))
}

// LinkFuncTyped is like LinkFunc, but with any value types.
func (s *Store) LinkFuncTyped(namespace, name string, params, results []api.ValueType) (int, error) {
	ft := wasm.FunctionType{Params: params, Results: results}
	idx, err := s.store.Link(namespace, name, ft)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("linked host function",
		zap.String("namespace", namespace),
		zap.String("name", name),
		zap.Stringer("type", &ft),
		zap.Int("index", idx))
	return idx, nil
}

func i32s(n int) []api.ValueType {
	if n <= 0 {
		return nil
	}
	ret := make([]api.ValueType, n)
	for i := range ret {
		ret[i] = api.ValueTypeI32
	}
	return ret
}

// SetInterrupt installs the flag checked at loop back edges by every instance of the Store. When a running call
// observes it set, the flag is cleared and the call suspends with ResultInterrupt. nil disables interrupts.
//
// The flag takes effect on the next Invoke or Call.Resume.
func (s *Store) SetInterrupt(flag *atomic.Bool) {
	s.interrupt = flag
}

// Instantiate resolves the imports of module against the linked host functions and creates an instance using memory
// as its linear memory, which it owns from now on.
//
// A memory declared larger than the buffer is accepted: accesses past the buffer trap when executed.
//
// Errors wrap ErrNotFound when an import is not linked with the same signature, and ErrTrap when a data or element
// segment doesn't fit.
func (s *Store) Instantiate(module *CompiledModule, memory []byte) (*Instance, error) {
	name := module.Name()
	internal, err := s.store.Instantiate(module.module, name, memory)
	if err != nil {
		return nil, fmt.Errorf("instantiate module %q: %w", name, err)
	}
	inst := &Instance{
		store:  s,
		module: module,
		inst:   internal,
		engine: interpreter.NewCallEngine(internal, interpreter.Config{
			MaxStackValues: s.config.maxStackValues,
			MaxCallDepth:   s.config.maxCallDepth,
		}),
	}
	s.instances = append(s.instances, inst)
	s.logger.Debug("instantiated module",
		zap.String("name", name),
		zap.Stringer("module_id", module.ID()),
		zap.Int("memory_bytes", len(memory)))
	return inst, nil
}

// Instances returns a copy of the instances created by this Store, in creation order.
func (s *Store) Instances() []*Instance {
	return append([]*Instance(nil), s.instances...)
}

// Invoke calls the function inst exports as name with args, returning when it completes or suspends.
//
// Errors wrap ErrNotFound when there is no such exported function, ErrInvalid when args don't match its parameter
// types, ErrInstanceBusy when inst has a suspended call and ErrTrap when the call traps or inst already trapped.
func (s *Store) Invoke(inst *Instance, name string, args ...api.Val) (RunResult, error) {
	if inst.store != s {
		return RunResult{}, fmt.Errorf("instance %q belongs to another store: %w", inst.Name(), ErrInvalid)
	}
	switch inst.state {
	case instanceSuspended:
		return RunResult{}, fmt.Errorf("invoke %q: %w", name, ErrInstanceBusy)
	case instanceTrapped:
		return RunResult{}, fmt.Errorf("invoke %q: instance %q terminated: %w", name, inst.Name(), inst.trap)
	}

	idx, ok := inst.inst.Source.ExportedFunction(name)
	if !ok {
		return RunResult{}, fmt.Errorf("exported function %q: %w", name, ErrNotFound)
	}
	f := &inst.inst.Functions[idx]
	params, err := encodeVals(f.Type.Params, args)
	if err != nil {
		return RunResult{}, fmt.Errorf("invoke %q: %w", name, err)
	}

	s.logger.Debug("invoke",
		zap.String("instance", inst.Name()),
		zap.String("export", name),
		zap.Stringer("type", f.Type))
	inst.engine.SetInterrupt(s.interrupt)
	c := &Call{inst: inst, export: name, f: f}
	res, err := inst.engine.Call(f, params)
	return c.step(res, err)
}

// encodeVals checks vals against types and returns their bits.
func encodeVals(types []api.ValueType, vals []api.Val) ([]uint64, error) {
	if len(vals) != len(types) {
		return nil, fmt.Errorf("expected %d values, but got %d: %w", len(types), len(vals), ErrInvalid)
	}
	ret := make([]uint64, len(vals))
	for i, v := range vals {
		if v.Type != types[i] {
			return nil, fmt.Errorf("value[%d]: expected %s, but got %s: %w",
				i, api.ValueTypeName(types[i]), api.ValueTypeName(v.Type), ErrInvalid)
		}
		ret[i] = v.Bits
	}
	return ret, nil
}

// decodeVals returns bits as values of types.
func decodeVals(types []api.ValueType, bits []uint64) []api.Val {
	if len(types) == 0 {
		return nil
	}
	ret := make([]api.Val, len(types))
	for i, t := range types {
		ret[i] = api.Val{Type: t, Bits: bits[i]}
	}
	return ret
}
