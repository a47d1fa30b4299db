package interp

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/engine/interpreter"
	"github.com/embedwasm/interp/internal/wasm"
)

// ResultKind is how a step of execution ended.
type ResultKind byte

const (
	// ResultDone means the invoked function returned. RunResult.Values are its results.
	ResultDone ResultKind = iota
	// ResultHost means the module called a linked host function. RunResult.Call has its index and arguments.
	ResultHost
	// ResultInterrupt means the module observed the interrupt flag set. RunResult.Call continues it.
	ResultInterrupt
)

// String implements fmt.Stringer
func (k ResultKind) String() string {
	switch k {
	case ResultDone:
		return "done"
	case ResultHost:
		return "host"
	case ResultInterrupt:
		return "interrupt"
	}
	return fmt.Sprintf("ResultKind(%d)", k)
}

// RunResult is the outcome of Store.Invoke or Call.Resume.
type RunResult struct {
	Kind ResultKind
	// Values are the results of the invoked function when Kind is ResultDone.
	Values []api.Val
	// Call continues the execution when Kind is ResultHost or ResultInterrupt, otherwise it is nil.
	Call *Call
}

// Call is a suspended execution. It is valid until Resume is called on it: dropping a Call abandons the instance,
// which stays busy.
type Call struct {
	inst   *Instance
	export string
	// f is the invoked function.
	f *wasm.FunctionInstance
	// host is the called host function, or nil for an interrupt.
	host *wasm.FunctionInstance
	args []api.Val
	// finished is set once Resume continued the execution, or the execution ended.
	finished bool
}

// Index returns the index LinkFunc returned for the called host function, or -1 for an interrupt.
func (c *Call) Index() int {
	if c.host == nil {
		return -1
	}
	return c.host.Host.Index
}

// Import returns the namespace and name of the called host function, or empty for an interrupt.
func (c *Call) Import() (namespace, name string) {
	if c.host == nil {
		return "", ""
	}
	return c.host.Host.Module, c.host.Host.Name
}

// Args returns the arguments of the host function call, or nil for an interrupt.
func (c *Call) Args() []api.Val {
	return c.args
}

// IsInterrupt returns true when the execution suspended on the interrupt flag rather than a host function call.
func (c *Call) IsInterrupt() bool {
	return c.host == nil
}

// Memory returns the linear memory of the instance, or nil if it has none. Host functions typically read their
// arguments from it, for example a pointer and length of a string.
func (c *Call) Memory() api.Memory {
	return c.inst.Memory()
}

// Resume continues the execution with the results of the host function, or no values for an interrupt.
//
// Errors wrap ErrCallFinished if Resume was already called or the execution ended, ErrInvalid when results don't
// match the result types of the host function, and ErrTrap when the execution traps. Only ErrInvalid leaves the Call
// resumable.
func (c *Call) Resume(results ...api.Val) (RunResult, error) {
	if c.finished {
		return RunResult{}, fmt.Errorf("resume %q: %w", c.export, ErrCallFinished)
	}
	var types []api.ValueType
	if c.host != nil {
		types = c.host.Type.Results
	}
	bits, err := encodeVals(types, results)
	if err != nil {
		return RunResult{}, fmt.Errorf("resume %q: %w", c.export, err)
	}
	c.finished = true
	c.inst.engine.SetInterrupt(c.inst.store.interrupt)
	res, err := c.inst.engine.Resume(bits)
	next := &Call{inst: c.inst, export: c.export, f: c.f}
	return next.step(res, err)
}

// step returns the RunResult of res, updating the state of the instance.
func (c *Call) step(res interpreter.Result, err error) (RunResult, error) {
	inst := c.inst
	if err != nil {
		c.finished = true
		inst.state, inst.trap = instanceTrapped, err
		inst.store.logger.Warn("trap",
			zap.String("instance", inst.Name()),
			zap.String("export", c.export),
			zap.Uint32("function", c.f.Idx),
			zap.Error(err))
		return RunResult{}, err
	}

	switch res.Kind {
	case interpreter.ResultHost:
		inst.state = instanceSuspended
		c.host = res.Host
		c.args = decodeVals(res.Host.Type.Params, res.Values)
		return RunResult{Kind: ResultHost, Call: c}, nil
	case interpreter.ResultInterrupt:
		inst.state = instanceSuspended
		return RunResult{Kind: ResultInterrupt, Call: c}, nil
	default:
		c.finished = true
		inst.state = instanceIdle
		return RunResult{Kind: ResultDone, Values: decodeVals(c.f.Type.Results, res.Values)}, nil
	}
}
