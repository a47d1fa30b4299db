package interpreter

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/wasm"
	wasmbinary "github.com/embedwasm/interp/internal/wasm/binary"
)

const blockTypeEmpty = 0x40

var (
	i32, i64, f32, f64 = api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64

	testConfig = Config{MaxStackValues: 1 << 12, MaxCallDepth: 256}
)

// expr flattens bytes, opcodes and byte slices into a function body.
func expr(parts ...interface{}) []byte {
	var ret []byte
	for _, part := range parts {
		switch v := part.(type) {
		case byte:
			ret = append(ret, v)
		case int:
			ret = append(ret, byte(v))
		case []byte:
			ret = append(ret, v...)
		default:
			panic(fmt.Sprintf("unexpected %T", part))
		}
	}
	return ret
}

func i32Const(v int32) []byte { return append([]byte{wasm.OpcodeI32Const}, leb128.EncodeInt32(v)...) }

func i64Const(v int64) []byte { return append([]byte{wasm.OpcodeI64Const}, leb128.EncodeInt64(v)...) }

func f32Const(v float32) []byte {
	return binary.LittleEndian.AppendUint32([]byte{wasm.OpcodeF32Const}, math.Float32bits(v))
}

func f64Const(v float64) []byte {
	return binary.LittleEndian.AppendUint64([]byte{wasm.OpcodeF64Const}, math.Float64bits(v))
}

func misc(op wasm.OpcodeMisc) []byte { return []byte{wasm.OpcodeMiscPrefix, op} }

// singleFunc returns a module exporting one function as "f".
func singleFunc(params, results, locals []api.ValueType, body ...interface{}) *wasm.Module {
	return &wasm.Module{
		TypeSection:     []wasm.FunctionType{{Params: params, Results: results}},
		FunctionSection: []wasm.Index{0},
		ExportSection:   []wasm.Export{{Type: api.ExternTypeFunc, Name: "f", Index: 0}},
		CodeSection:     []wasm.Code{{LocalTypes: locals, Body: expr(body...)}},
	}
}

// withMemory adds a memory of one page to m.
func withMemory(m *wasm.Module) *wasm.Module {
	one := uint32(1)
	m.MemorySection = []wasm.Memory{{Min: 1, Max: &one}}
	return m
}

// withUnboundedMemory adds a memory of one page and no maximum to m.
func withUnboundedMemory(m *wasm.Module) *wasm.Module {
	m.MemorySection = []wasm.Memory{{Min: 1}}
	return m
}

// instantiate encodes m, so that bodies are read from a module binary, and instantiates it in s.
func instantiate(t *testing.T, s *wasm.Store, m *wasm.Module, buf []byte) *wasm.ModuleInstance {
	decoded, err := wasmbinary.DecodeModule(wasmbinary.EncodeModule(m))
	require.NoError(t, err)
	require.NoError(t, decoded.Validate())
	inst, err := s.Instantiate(decoded, "test", buf)
	require.NoError(t, err)
	return inst
}

// exported returns the function exported as name.
func exported(t *testing.T, inst *wasm.ModuleInstance, name string) *wasm.FunctionInstance {
	idx, ok := inst.Source.ExportedFunction(name)
	require.True(t, ok)
	return &inst.Functions[idx]
}

// normalize drops the bits i32 and f32 results don't use.
func normalize(types []api.ValueType, values []uint64) []uint64 {
	ret := make([]uint64, len(values))
	for i, v := range values {
		if i < len(types) && (types[i] == i32 || types[i] == f32) {
			v = uint64(uint32(v))
		}
		ret[i] = v
	}
	return ret
}
