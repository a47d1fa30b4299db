package interp

import (
	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/engine/interpreter"
	"github.com/embedwasm/interp/internal/wasm"
)

type instanceState byte

const (
	instanceIdle instanceState = iota
	// instanceSuspended means a call waits for Call.Resume.
	instanceSuspended
	// instanceTrapped is final.
	instanceTrapped
)

// Instance is a CompiledModule bound to a memory buffer and the host functions of a Store. Its functions are called
// with Store.Invoke.
//
// An instance runs at most one call at a time. After a trap, it is terminated: Store.Invoke returns the trap again.
type Instance struct {
	store  *Store
	module *CompiledModule
	inst   *wasm.ModuleInstance
	engine *interpreter.CallEngine
	state  instanceState
	// trap is the error that terminated the instance.
	trap error
}

// Name is the module name of the name section, or empty if undefined.
func (i *Instance) Name() string {
	return i.inst.Name
}

// Module returns the module i was instantiated from.
func (i *Instance) Module() *CompiledModule {
	return i.module
}

// Memory returns the linear memory, or nil if the module has none.
//
// Note: Size is the accessible size, which is the smaller of the current page count and the buffer.
func (i *Instance) Memory() api.Memory {
	if i.inst.Memory == nil {
		return nil
	}
	return i.inst.Memory
}

// Trap returns the error that terminated the instance, or nil.
func (i *Instance) Trap() error {
	return i.trap
}

// Busy returns true when a call is suspended, waiting for Call.Resume.
func (i *Instance) Busy() bool {
	return i.state == instanceSuspended
}
