package wasm

import (
	"fmt"

	"github.com/embedwasm/interp/internal/wasmruntime"
)

// TableInstance represents the funcref table of an instance. Elements are positions in the function index space
// of the owning instance.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#table-instances%E2%91%A0
type TableInstance struct {
	// Elements are nil until initialized by an element segment.
	Elements []*FunctionInstance
}

// Lookup returns the function at offset for call_indirect, or a runtime error when the element is out of range or
// uninitialized.
func (t *TableInstance) Lookup(offset uint32) (*FunctionInstance, error) {
	if t == nil || uint64(offset) >= uint64(len(t.Elements)) {
		return nil, wasmruntime.ErrRuntimeInvalidTableAccess
	}
	f := t.Elements[offset]
	if f == nil {
		return nil, wasmruntime.ErrRuntimeInvalidTableAccess
	}
	return f, nil
}

// initialize applies the active element segments in order.
func (t *TableInstance) initialize(segments []ElementSegment, functions []FunctionInstance) error {
	for i := range segments {
		seg := &segments[i]
		offset := uint64(uint32(EvalConst(&seg.OffsetExpr)))
		if offset+uint64(len(seg.Init)) > uint64(len(t.Elements)) {
			return fmt.Errorf("element[%d]: %w", i, wasmruntime.ErrRuntimeInvalidTableAccess)
		}
		for j, funcIdx := range seg.Init {
			t.Elements[offset+uint64(j)] = &functions[funcIdx]
		}
	}
	return nil
}
