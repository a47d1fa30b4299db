package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/wasm"
	"github.com/embedwasm/interp/internal/wasm/binary"
)

const blockTypeEmpty = 0x40

var (
	i32  = api.ValueTypeI32
	one  = uint32(1)
	zero = &wasm.ConstantExpression{Opcode: wasm.OpcodeI32Const, Data: leb128.EncodeInt32(0)}
)

// compile encodes m and compiles it with the default config.
func compile(t *testing.T, m *wasm.Module) *CompiledModule {
	compiled, err := CompileModule(nil, binary.EncodeModule(m))
	require.NoError(t, err)
	return compiled
}

// printlnModule imports env.println(ptr, len) and exports main, which prints "hello" from address zero.
func printlnModule() *wasm.Module {
	return &wasm.Module{
		TypeSection: []wasm.FunctionType{
			{Params: []api.ValueType{i32, i32}},
			{},
		},
		ImportSection: []wasm.Import{
			{Type: api.ExternTypeFunc, Module: "env", Name: "println", DescFunc: 0},
		},
		FunctionSection: []wasm.Index{1},
		MemorySection:   []wasm.Memory{{Min: 1, Max: &one}},
		ExportSection: []wasm.Export{
			{Type: api.ExternTypeFunc, Name: "main", Index: 1},
			{Type: api.ExternTypeMemory, Name: "memory", Index: 0},
		},
		CodeSection: []wasm.Code{{Body: []byte{
			wasm.OpcodeI32Const, 0x00,
			wasm.OpcodeI32Const, 0x05,
			wasm.OpcodeCall, 0x00,
			wasm.OpcodeEnd,
		}}},
		DataSection: []wasm.DataSegment{{OffsetExpression: zero, Init: []byte("hello")}},
	}
}

// countModule imports env.count(i32) and exports run, which loops forever calling count with the iteration.
func countModule() *wasm.Module {
	return &wasm.Module{
		TypeSection: []wasm.FunctionType{
			{Params: []api.ValueType{i32}},
			{},
		},
		ImportSection: []wasm.Import{
			{Type: api.ExternTypeFunc, Module: "env", Name: "count", DescFunc: 0},
		},
		FunctionSection: []wasm.Index{1},
		ExportSection:   []wasm.Export{{Type: api.ExternTypeFunc, Name: "run", Index: 1}},
		CodeSection: []wasm.Code{{LocalTypes: []api.ValueType{i32}, Body: []byte{
			wasm.OpcodeLoop, blockTypeEmpty,
			wasm.OpcodeLocalGet, 0x00,
			wasm.OpcodeCall, 0x00,
			wasm.OpcodeLocalGet, 0x00,
			wasm.OpcodeI32Const, 0x01,
			wasm.OpcodeI32Add,
			wasm.OpcodeLocalSet, 0x00,
			wasm.OpcodeBr, 0x00,
			wasm.OpcodeEnd,
			wasm.OpcodeEnd,
		}}},
	}
}

// storeModule declares two pages of memory and exports store(addr), which writes 1 at addr.
func storeModule() *wasm.Module {
	return &wasm.Module{
		TypeSection:     []wasm.FunctionType{{Params: []api.ValueType{i32}}},
		FunctionSection: []wasm.Index{0},
		MemorySection:   []wasm.Memory{{Min: 2}},
		ExportSection:   []wasm.Export{{Type: api.ExternTypeFunc, Name: "store", Index: 0}},
		CodeSection: []wasm.Code{{Body: []byte{
			wasm.OpcodeLocalGet, 0x00,
			wasm.OpcodeI32Const, 0x01,
			wasm.OpcodeI32Store8, 0x00, 0x00,
			wasm.OpcodeEnd,
		}}},
	}
}
