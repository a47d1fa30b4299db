package interpreter

import (
	"math"
	"testing"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/wasm"
	"github.com/embedwasm/interp/internal/wasmruntime"
)

type invocation struct {
	args     []uint64
	expected []uint64
	// expectedErr is the trap, when not nil.
	expectedErr error
}

type program struct {
	name   string
	module *wasm.Module
	calls  []invocation
	// noOracle is set when the result depends on the memory buffer, which the oracle doesn't model.
	noOracle bool
}

func programNamed(t *testing.T, name string) program {
	for _, p := range programs {
		if p.name == name {
			return p
		}
	}
	t.Fatalf("no program %s", name)
	return program{}
}

func u32(v int32) uint64 { return api.EncodeI32(v) }

func u64(v int64) uint64 { return api.EncodeI64(v) }

func fu32(v float32) uint64 { return api.EncodeF32(v) }

func fu64(v float64) uint64 { return api.EncodeF64(v) }

func ok(args []uint64, expected ...uint64) invocation {
	return invocation{args: args, expected: expected}
}

func trap(args []uint64, err error) invocation {
	return invocation{args: args, expectedErr: err}
}

func args(v ...uint64) []uint64 { return v }

// programs are run by the interpreter and the oracle, which must agree.
var programs = []program{
	{
		name:   "i32.add",
		module: singleFunc([]api.ValueType{i32, i32}, []api.ValueType{i32}, nil, wasm.OpcodeLocalGet, 0, wasm.OpcodeLocalGet, 1, wasm.OpcodeI32Add, wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(1, 2), 3),
			ok(args(u32(math.MaxInt32), 1), u32(math.MinInt32)),
			ok(args(u32(-1), u32(-1)), u32(-2)),
		},
	},
	{
		name:   "i32.div_s",
		module: singleFunc([]api.ValueType{i32, i32}, []api.ValueType{i32}, nil, wasm.OpcodeLocalGet, 0, wasm.OpcodeLocalGet, 1, wasm.OpcodeI32DivS, wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(u32(-7), 2), u32(-3)),
			trap(args(1, 0), wasmruntime.ErrRuntimeIntegerDivideByZero),
			trap(args(u32(math.MinInt32), u32(-1)), wasmruntime.ErrRuntimeIntegerOverflow),
		},
	},
	{
		name:   "i32.rem_s",
		module: singleFunc([]api.ValueType{i32, i32}, []api.ValueType{i32}, nil, wasm.OpcodeLocalGet, 0, wasm.OpcodeLocalGet, 1, wasm.OpcodeI32RemS, wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(u32(-7), 2), u32(-1)),
			ok(args(u32(math.MinInt32), u32(-1)), 0),
			trap(args(1, 0), wasmruntime.ErrRuntimeIntegerDivideByZero),
		},
	},
	{
		name:   "i64.div_u",
		module: singleFunc([]api.ValueType{i64, i64}, []api.ValueType{i64}, nil, wasm.OpcodeLocalGet, 0, wasm.OpcodeLocalGet, 1, wasm.OpcodeI64DivU, wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(u64(-1), 2), math.MaxInt64),
			trap(args(1, 0), wasmruntime.ErrRuntimeIntegerDivideByZero),
		},
	},
	{
		name: "bits",
		module: singleFunc([]api.ValueType{i32}, []api.ValueType{i32, i32, i32, i32}, nil,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeI32Clz,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeI32Ctz,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeI32Popcnt,
			wasm.OpcodeLocalGet, 0, i32Const(4), wasm.OpcodeI32Rotl,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(0x00f0_0000), 8, 20, 4, 0x0f00_0000),
			ok(args(0), 32, 32, 0, 0),
			ok(args(0xf000_0001), 0, 0, 5, 0x0000_001f),
		},
	},
	{
		name: "shifts mask the count",
		module: singleFunc([]api.ValueType{i64}, []api.ValueType{i64, i32}, nil,
			wasm.OpcodeLocalGet, 0, i64Const(65), wasm.OpcodeI64ShrS,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeI32WrapI64, i32Const(33), wasm.OpcodeI32Shl,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(u64(-8)), u64(-4), u32(-16)),
		},
	},
	{
		name: "sign extension",
		module: singleFunc([]api.ValueType{i32, i64}, []api.ValueType{i32, i32, i64, i64}, nil,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeI32Extend8S,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeI32Extend16S,
			wasm.OpcodeLocalGet, 1, wasm.OpcodeI64Extend32S,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeI64ExtendI32U,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(0x80, 0x8000_0000), u32(-128), 0x80, u64(math.MinInt32), 0x80),
			ok(args(0x7f7f, 0x7fff_ffff), 0x7f, 0x7f7f, math.MaxInt32, 0x7f7f),
			ok(args(0xffff_8000, 0x1_0000_0001), 0, u32(-32768), 1, 0xffff_8000),
		},
	},
	{
		name: "trunc_sat",
		module: singleFunc([]api.ValueType{f32, f64}, []api.ValueType{i32, i32, i64, i64}, nil,
			wasm.OpcodeLocalGet, 0, misc(wasm.OpcodeMiscI32TruncSatF32S),
			wasm.OpcodeLocalGet, 1, misc(wasm.OpcodeMiscI32TruncSatF64U),
			wasm.OpcodeLocalGet, 0, misc(wasm.OpcodeMiscI64TruncSatF32S),
			wasm.OpcodeLocalGet, 1, misc(wasm.OpcodeMiscI64TruncSatF64U),
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(fu32(float32(math.NaN())), fu64(math.NaN())), 0, 0, 0, 0),
			ok(args(fu32(3e10), fu64(1e20)), math.MaxInt32, math.MaxUint32, 30000001024, math.MaxUint64),
			ok(args(fu32(-3e10), fu64(-1)), u32(math.MinInt32), 0, u64(-30000001024), 0),
			ok(args(fu32(-1.9), fu64(4294967295.9)), u32(-1), math.MaxUint32, u64(-1), 4294967295),
		},
	},
	{
		name:   "i32.trunc_f32_s",
		module: singleFunc([]api.ValueType{f32}, []api.ValueType{i32}, nil, wasm.OpcodeLocalGet, 0, wasm.OpcodeI32TruncF32S, wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(fu32(-2.5)), u32(-2)),
			trap(args(fu32(float32(math.NaN()))), wasmruntime.ErrRuntimeInvalidConversionToInteger),
			trap(args(fu32(3e10)), wasmruntime.ErrRuntimeIntegerOverflow),
			trap(args(fu32(2147483648)), wasmruntime.ErrRuntimeIntegerOverflow),
		},
	},
	{
		name:   "i64.trunc_f64_u",
		module: singleFunc([]api.ValueType{f64}, []api.ValueType{i64}, nil, wasm.OpcodeLocalGet, 0, wasm.OpcodeI64TruncF64U, wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(fu64(-0.9)), 0),
			ok(args(fu64(1.8446744073709549e19)), 18446744073709549568),
			trap(args(fu64(-1)), wasmruntime.ErrRuntimeIntegerOverflow),
			trap(args(fu64(1.8446744073709552e19)), wasmruntime.ErrRuntimeIntegerOverflow),
		},
	},
	{
		name: "floats",
		module: singleFunc([]api.ValueType{f64}, []api.ValueType{f64, f64, f32, f64}, nil,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeF64Nearest,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeF64Sqrt,
			f32Const(0), wasm.OpcodeF32Neg, f32Const(0), wasm.OpcodeF32Min,
			wasm.OpcodeLocalGet, 0, f64Const(-1), wasm.OpcodeF64Copysign,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(fu64(2.5)), fu64(2), fu64(math.Sqrt(2.5)), fu32(float32(math.Copysign(0, -1))), fu64(-2.5)),
			ok(args(fu64(3.5)), fu64(4), fu64(math.Sqrt(3.5)), fu32(float32(math.Copysign(0, -1))), fu64(-3.5)),
		},
	},
	{
		name: "conversions",
		module: singleFunc([]api.ValueType{i32}, []api.ValueType{f32, f64, i32, f64}, nil,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeF32ConvertI32U,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeF64ConvertI32S,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeF32ReinterpretI32, wasm.OpcodeI32ReinterpretF32,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeF32ConvertI32S, wasm.OpcodeF64PromoteF32,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(u32(-1)), fu32(4294967296), fu64(-1), u32(-1), fu64(-1)),
			ok(args(16777217), fu32(16777216), fu64(16777217), 16777217, fu64(16777216)),
		},
	},
	{
		name: "factorial loop",
		module: singleFunc([]api.ValueType{i64}, []api.ValueType{i64}, []api.ValueType{i64},
			i64Const(1), wasm.OpcodeLocalSet, 1,
			wasm.OpcodeBlock, blockTypeEmpty,
			wasm.OpcodeLoop, blockTypeEmpty,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeI64Eqz, wasm.OpcodeBrIf, 1,
			wasm.OpcodeLocalGet, 1, wasm.OpcodeLocalGet, 0, wasm.OpcodeI64Mul, wasm.OpcodeLocalSet, 1,
			wasm.OpcodeLocalGet, 0, i64Const(1), wasm.OpcodeI64Sub, wasm.OpcodeLocalSet, 0,
			wasm.OpcodeBr, 0,
			wasm.OpcodeEnd,
			wasm.OpcodeEnd,
			wasm.OpcodeLocalGet, 1,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(0), 1),
			ok(args(5), 120),
			ok(args(20), 2432902008176640000),
		},
	},
	{
		name: "if else",
		module: singleFunc([]api.ValueType{i32}, []api.ValueType{i32}, nil,
			wasm.OpcodeLocalGet, 0,
			wasm.OpcodeIf, i32, i32Const(10), wasm.OpcodeElse, i32Const(20), wasm.OpcodeEnd,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(0), 20),
			ok(args(1), 10),
			ok(args(u32(-1)), 10),
		},
	},
	{
		name: "if without else",
		module: singleFunc([]api.ValueType{i32}, []api.ValueType{i32}, nil,
			wasm.OpcodeLocalGet, 0,
			wasm.OpcodeIf, blockTypeEmpty, i32Const(7), wasm.OpcodeLocalSet, 0, wasm.OpcodeEnd,
			wasm.OpcodeLocalGet, 0,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(0), 0),
			ok(args(3), 7),
		},
	},
	{
		name: "nested if in loop",
		// Counts the odd numbers below the param.
		module: singleFunc([]api.ValueType{i32}, []api.ValueType{i32}, []api.ValueType{i32},
			wasm.OpcodeBlock, blockTypeEmpty,
			wasm.OpcodeLoop, blockTypeEmpty,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeI32Eqz, wasm.OpcodeBrIf, 1,
			wasm.OpcodeLocalGet, 0, i32Const(1), wasm.OpcodeI32Sub, wasm.OpcodeLocalTee, 0,
			i32Const(1), wasm.OpcodeI32And,
			wasm.OpcodeIf, blockTypeEmpty,
			wasm.OpcodeLocalGet, 1, i32Const(1), wasm.OpcodeI32Add, wasm.OpcodeLocalSet, 1,
			wasm.OpcodeElse,
			wasm.OpcodeBr, 1, // continue
			wasm.OpcodeEnd,
			wasm.OpcodeBr, 0,
			wasm.OpcodeEnd,
			wasm.OpcodeEnd,
			wasm.OpcodeLocalGet, 1,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(0), 0),
			ok(args(10), 5),
			ok(args(11), 5),
		},
	},
	{
		name: "br_table",
		module: singleFunc([]api.ValueType{i32}, []api.ValueType{i32}, nil,
			wasm.OpcodeBlock, blockTypeEmpty,
			wasm.OpcodeBlock, blockTypeEmpty,
			wasm.OpcodeBlock, blockTypeEmpty,
			wasm.OpcodeLocalGet, 0,
			wasm.OpcodeBrTable, 2, 0, 1, 2,
			wasm.OpcodeEnd,
			i32Const(100), wasm.OpcodeReturn,
			wasm.OpcodeEnd,
			i32Const(200), wasm.OpcodeReturn,
			wasm.OpcodeEnd,
			i32Const(300),
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(0), 100),
			ok(args(1), 200),
			ok(args(2), 300),
			ok(args(u32(-1)), 300),
		},
	},
	{
		name: "br_table with values",
		module: singleFunc([]api.ValueType{i32}, []api.ValueType{i32}, nil,
			i32Const(1000),
			wasm.OpcodeBlock, i32,
			wasm.OpcodeBlock, i32,
			i32Const(5), i32Const(6),
			wasm.OpcodeLocalGet, 0,
			wasm.OpcodeBrTable, 1, 1, 0,
			wasm.OpcodeEnd,
			i32Const(10), wasm.OpcodeI32Add,
			wasm.OpcodeEnd,
			wasm.OpcodeI32Add,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(0), 1006),
			ok(args(1), 1016),
		},
	},
	{
		name: "br discards values",
		module: singleFunc(nil, []api.ValueType{i32}, nil,
			i32Const(9),
			wasm.OpcodeBlock, i32,
			i32Const(1), i32Const(2), wasm.OpcodeBr, 0,
			wasm.OpcodeEnd,
			wasm.OpcodeI32Add,
			wasm.OpcodeEnd),
		calls: []invocation{ok(nil, 11)},
	},
	{
		name: "br to the function",
		module: singleFunc([]api.ValueType{i32}, []api.ValueType{i32}, nil,
			i32Const(1), i32Const(2),
			wasm.OpcodeLocalGet, 0, wasm.OpcodeBrIf, 0,
			wasm.OpcodeDrop,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(0), 1),
			ok(args(1), 2),
		},
	},
	{
		name: "select",
		module: singleFunc([]api.ValueType{i32}, []api.ValueType{i64}, nil,
			i64Const(10), i64Const(20), wasm.OpcodeLocalGet, 0, wasm.OpcodeSelect,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(0), 20),
			ok(args(1), 10),
		},
	},
	{
		name: "unreachable",
		module: singleFunc([]api.ValueType{i32}, []api.ValueType{i32}, nil,
			wasm.OpcodeLocalGet, 0,
			wasm.OpcodeIf, blockTypeEmpty, wasm.OpcodeUnreachable, wasm.OpcodeEnd,
			i32Const(1),
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(0), 1),
			trap(args(1), wasmruntime.ErrRuntimeUnreachable),
		},
	},
	{
		name: "recursive fibonacci",
		module: singleFunc([]api.ValueType{i32}, []api.ValueType{i32}, nil,
			wasm.OpcodeLocalGet, 0, i32Const(2), wasm.OpcodeI32LtS,
			wasm.OpcodeIf, i32,
			wasm.OpcodeLocalGet, 0,
			wasm.OpcodeElse,
			wasm.OpcodeLocalGet, 0, i32Const(1), wasm.OpcodeI32Sub, wasm.OpcodeCall, 0,
			wasm.OpcodeLocalGet, 0, i32Const(2), wasm.OpcodeI32Sub, wasm.OpcodeCall, 0,
			wasm.OpcodeI32Add,
			wasm.OpcodeEnd,
			wasm.OpcodeEnd),
		calls: []invocation{
			ok(args(0), 0),
			ok(args(1), 1),
			ok(args(20), 6765),
		},
	},
	{
		name:   "multi-value block",
		module: multiValueModule(),
		calls: []invocation{
			ok(args(3, 4), u32(-1), 7),
		},
	},
	{
		name:   "mutable global",
		module: globalModule(),
		calls: []invocation{
			ok(nil, 6),
			ok(nil, 7),
		},
	},
	{
		name:   "call_indirect",
		module: callIndirectModule(),
		calls: []invocation{
			ok(args(0), 1),
			ok(args(1), 2),
			trap(args(2), wasmruntime.ErrRuntimeIndirectCallTypeMismatch),
			trap(args(3), wasmruntime.ErrRuntimeInvalidTableAccess),
			trap(args(10), wasmruntime.ErrRuntimeInvalidTableAccess),
		},
	},
	{
		name: "memory load and store",
		module: withMemory(singleFunc([]api.ValueType{i32}, []api.ValueType{i32, i32, i32, i64}, nil,
			i32Const(8), wasm.OpcodeLocalGet, 0, wasm.OpcodeI32Store, 2, 4,
			i32Const(12), wasm.OpcodeI32Load, 2, 0,
			i32Const(12), wasm.OpcodeI32Load8S, 0, 0,
			i32Const(13), wasm.OpcodeI32Load16U, 1, 0,
			i32Const(12), wasm.OpcodeI64Load32S, 2, 0,
			wasm.OpcodeEnd)),
		calls: []invocation{
			ok(args(0x1234_5680), 0x1234_5680, u32(-128), 0x3456, 0x1234_5680),
			ok(args(0xffff_ffff), u32(-1), u32(-1), 0xffff, u64(-1)),
		},
	},
	{
		name: "memory out of bounds",
		module: withMemory(singleFunc([]api.ValueType{i32}, []api.ValueType{i64}, nil,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeI64Load, 3, 0,
			wasm.OpcodeEnd)),
		calls: []invocation{
			ok(args(65528), 0),
			trap(args(65529), wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess),
			trap(args(u32(-1)), wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess),
		},
	},
	{
		name: "effective address overflow",
		module: withMemory(singleFunc([]api.ValueType{i32}, []api.ValueType{i32}, nil,
			wasm.OpcodeLocalGet, 0, wasm.OpcodeI32Load8U, 0, leb128.EncodeUint32(math.MaxUint32),
			wasm.OpcodeEnd)),
		calls: []invocation{
			trap(args(1), wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess),
		},
	},
	{
		name: "memory.fill and memory.copy",
		module: withMemory(singleFunc([]api.ValueType{i32}, []api.ValueType{i32, i32}, nil,
			i32Const(0), i32Const(0xab), i32Const(4), misc(wasm.OpcodeMiscMemoryFill), 0,
			i32Const(100), i32Const(0), wasm.OpcodeLocalGet, 0, misc(wasm.OpcodeMiscMemoryCopy), 0, 0,
			i32Const(0), wasm.OpcodeI32Load, 2, 0,
			i32Const(100), wasm.OpcodeI32Load, 2, 0,
			wasm.OpcodeEnd)),
		calls: []invocation{
			ok(args(2), 0xabab_abab, 0xabab),
			ok(args(4), 0xabab_abab, 0xabab_abab),
			trap(args(65437), wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess),
		},
	},
	{
		name: "memory.size",
		module: withMemory(singleFunc(nil, []api.ValueType{i32}, nil,
			wasm.OpcodeMemorySize, 0,
			wasm.OpcodeEnd)),
		calls: []invocation{ok(nil, 1)},
	},
	{
		name: "memory.grow past the buffer",
		module: withUnboundedMemory(singleFunc(nil, []api.ValueType{i32, i32}, nil,
			i32Const(0), wasm.OpcodeMemoryGrow, 0,
			i32Const(1), wasm.OpcodeMemoryGrow, 0,
			wasm.OpcodeEnd)),
		calls:    []invocation{ok(nil, 1, u32(-1))},
		noOracle: true,
	},
}

// multiValueModule exports f(a, b) returning (a-b, a+b) from a block typed by index.
func multiValueModule() *wasm.Module {
	return &wasm.Module{
		TypeSection: []wasm.FunctionType{
			{Params: []api.ValueType{i32, i32}, Results: []api.ValueType{i32, i32}},
			{Params: []api.ValueType{i32, i32}, Results: []api.ValueType{i32, i32, i32}},
		},
		FunctionSection: []wasm.Index{0},
		ExportSection:   []wasm.Export{{Type: api.ExternTypeFunc, Name: "f", Index: 0}},
		CodeSection: []wasm.Code{{Body: expr(
			wasm.OpcodeLocalGet, 0, wasm.OpcodeLocalGet, 1,
			wasm.OpcodeBlock, 1, // (type 1)
			wasm.OpcodeLocalGet, 0, wasm.OpcodeLocalGet, 1, wasm.OpcodeI32Add,
			wasm.OpcodeEnd,
			wasm.OpcodeLocalSet, 0,
			wasm.OpcodeI32Sub,
			wasm.OpcodeLocalGet, 0,
			wasm.OpcodeEnd,
		)}},
	}
}

// globalModule exports f, which increments a global initialized to 5 and returns it.
func globalModule() *wasm.Module {
	m := singleFunc(nil, []api.ValueType{i32}, nil,
		wasm.OpcodeGlobalGet, 0, i32Const(1), wasm.OpcodeI32Add, wasm.OpcodeGlobalSet, 0,
		wasm.OpcodeGlobalGet, 0,
		wasm.OpcodeEnd)
	m.GlobalSection = []wasm.Global{{
		Type: wasm.GlobalType{ValType: i32, Mutable: true},
		Init: wasm.ConstantExpression{Opcode: wasm.OpcodeI32Const, Data: leb128.EncodeInt32(5)},
	}}
	return m
}

// callIndirectModule exports f(i), which calls the function at i of a table [one, two, wrongType, nil].
func callIndirectModule() *wasm.Module {
	return &wasm.Module{
		TypeSection: []wasm.FunctionType{
			{Results: []api.ValueType{i32}},
			{Params: []api.ValueType{i32}, Results: []api.ValueType{i32}},
			{Results: []api.ValueType{i32}}, // same as type 0
		},
		FunctionSection: []wasm.Index{0, 2, 1, 1},
		TableSection:    []wasm.Table{{Min: 4, Type: wasm.RefTypeFuncref}},
		ExportSection:   []wasm.Export{{Type: api.ExternTypeFunc, Name: "f", Index: 2}},
		ElementSection: []wasm.ElementSegment{{
			OffsetExpr: wasm.ConstantExpression{Opcode: wasm.OpcodeI32Const, Data: leb128.EncodeInt32(0)},
			Init:       []wasm.Index{0, 1, 3},
		}},
		CodeSection: []wasm.Code{
			{Body: expr(i32Const(1), wasm.OpcodeEnd)},
			{Body: expr(i32Const(2), wasm.OpcodeEnd)},
			{Body: expr(wasm.OpcodeLocalGet, 0, wasm.OpcodeCallIndirect, 0, 0, wasm.OpcodeEnd)},
			{Body: expr(wasm.OpcodeLocalGet, 0, wasm.OpcodeEnd)},
		},
	}
}
