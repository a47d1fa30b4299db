package binary

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/mode"
	"github.com/embedwasm/interp/internal/wasm"
)

// TestDecodeModule relies on EncodeModule, specifically that the encoding is both known and correct.
func TestDecodeModule(t *testing.T) {
	i32, f32 := api.ValueTypeI32, api.ValueTypeF32
	zero, one := uint32(0), uint32(1)

	tests := []struct {
		name  string
		input *wasm.Module // round trip test!
	}{
		{
			name:  "empty",
			input: &wasm.Module{},
		},
		{
			name:  "only name section",
			input: &wasm.Module{NameSection: &wasm.NameSection{ModuleName: "simple"}},
		},
		{
			name: "type section",
			input: &wasm.Module{
				TypeSection: []wasm.FunctionType{
					{},
					{Params: []wasm.ValueType{i32, i32}, Results: []wasm.ValueType{i32}},
					{Params: []wasm.ValueType{i32, i32, i32, i32}, Results: []wasm.ValueType{i32}},
				},
			},
		},
		{
			name: "type and import section",
			input: &wasm.Module{
				TypeSection: []wasm.FunctionType{
					{Params: []wasm.ValueType{i32, i32}, Results: []wasm.ValueType{i32}},
					{Params: []wasm.ValueType{f32, f32}, Results: []wasm.ValueType{f32}},
				},
				ImportSection: []wasm.Import{
					{Module: "Math", Name: "Mul", Type: api.ExternTypeFunc, DescFunc: 1},
					{Module: "Math", Name: "Add", Type: api.ExternTypeFunc, DescFunc: 0},
					{Module: "env", Name: "memory", Type: api.ExternTypeMemory, DescMem: wasm.Memory{Min: 1, Max: &one}},
				},
			},
		},
		{
			name: "table, memory, global, element, data",
			input: &wasm.Module{
				TypeSection:     []wasm.FunctionType{{}},
				FunctionSection: []wasm.Index{0},
				CodeSection:     []wasm.Code{{Body: []byte{wasm.OpcodeEnd}}},
				TableSection:    []wasm.Table{{Min: 2, Type: wasm.RefTypeFuncref}},
				MemorySection:   []wasm.Memory{{Min: 1}},
				GlobalSection: []wasm.Global{{
					Type: wasm.GlobalType{ValType: i32, Mutable: true},
					Init: wasm.ConstantExpression{Opcode: wasm.OpcodeI32Const, Data: []byte{0x2a}},
				}},
				ElementSection: []wasm.ElementSegment{{
					OffsetExpr: wasm.ConstantExpression{Opcode: wasm.OpcodeI32Const, Data: []byte{0x01}},
					Init:       []wasm.Index{0},
				}},
				DataCountSection: &one,
				DataSection: []wasm.DataSegment{{
					OffsetExpression: &wasm.ConstantExpression{Opcode: wasm.OpcodeI32Const, Data: []byte{0x00}},
					Init:             []byte("hello"),
				}},
			},
		},
		{
			name: "passive data",
			input: &wasm.Module{
				MemorySection:    []wasm.Memory{{Min: 1}},
				DataCountSection: &one,
				DataSection:      []wasm.DataSegment{{Init: []byte{1, 2, 3}}},
			},
		},
		{
			name: "exported func with instructions",
			input: &wasm.Module{
				TypeSection:     []wasm.FunctionType{{Params: []wasm.ValueType{i32, i32}, Results: []wasm.ValueType{i32}}},
				FunctionSection: []wasm.Index{0},
				CodeSection: []wasm.Code{{
					LocalTypes: []wasm.ValueType{i32, i32, f32, i32},
					Body:       []byte{wasm.OpcodeLocalGet, 0, wasm.OpcodeLocalGet, 1, wasm.OpcodeI32Add, wasm.OpcodeEnd},
				}},
				ExportSection: []wasm.Export{{Name: "AddInt", Type: api.ExternTypeFunc, Index: 0}},
				NameSection: &wasm.NameSection{
					ModuleName:    "calc",
					FunctionNames: wasm.NameMap{{Index: 0, Name: "add"}},
				},
			},
		},
		{
			name: "start section",
			input: &wasm.Module{
				TypeSection:     []wasm.FunctionType{{}},
				FunctionSection: []wasm.Index{0},
				CodeSection:     []wasm.Code{{Body: []byte{wasm.OpcodeEnd}}},
				StartSection:    &zero,
			},
		},
		{
			name: "custom sections",
			input: &wasm.Module{
				CustomSections: []wasm.CustomSection{{Name: "producers", Data: []byte{1, 2}}, {Name: "x"}},
			},
		},
	}

	for _, tt := range tests {
		tc := tt

		t.Run(tc.name, func(t *testing.T) {
			m, err := DecodeModule(EncodeModule(tc.input))
			require.NoError(t, err)
			requireModuleEqual(t, tc.input, m)
		})
	}
}

// requireModuleEqual ignores the fields filled while decoding that have no binary representation.
func requireModuleEqual(t *testing.T, expected, actual *wasm.Module) {
	for i := range actual.CodeSection {
		actual.CodeSection[i].BodyOffset = 0
	}
	for i := range actual.CustomSections {
		if len(actual.CustomSections[i].Data) == 0 {
			actual.CustomSections[i].Data = nil
		}
	}
	require.Equal(t, expected, actual)
}

func TestDecodeModule_BodyInPlace(t *testing.T) {
	bin := EncodeModule(&wasm.Module{
		TypeSection:     []wasm.FunctionType{{}},
		FunctionSection: []wasm.Index{0},
		CodeSection:     []wasm.Code{{Body: []byte{wasm.OpcodeNop, wasm.OpcodeEnd}}},
	})
	m, err := DecodeModule(bin)
	require.NoError(t, err)

	code := &m.CodeSection[0]
	require.Equal(t, uint64(len(bin)-2), code.BodyOffset)
	// The body is a view of the source.
	bin[len(bin)-2] = wasm.OpcodeUnreachable
	require.Equal(t, wasm.OpcodeUnreachable, code.Body[0])
}

func TestDecodeModule_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       []byte
		expectedErr error
	}{
		{
			name:        "wrong magic",
			input:       []byte("wasm\x01\x00\x00\x00"),
			expectedErr: mode.ErrInvalid,
		},
		{
			name:        "wrong version",
			input:       []byte("\x00asm\x01\x00\x00\x01"),
			expectedErr: mode.ErrInvalid,
		},
		{
			name:        "section size exceeds module",
			input:       append(append(Magic, version...), wasm.SectionIDType, 0x05, 0x00),
			expectedErr: mode.ErrInvalid,
		},
		{
			name:        "unknown section",
			input:       append(append(Magic, version...), 0x0d, 0x00),
			expectedErr: mode.ErrInvalid,
		},
		{
			name: "sections out of order",
			input: append(append(Magic, version...),
				wasm.SectionIDFunction, 0x01, 0x00,
				wasm.SectionIDType, 0x01, 0x00),
			expectedErr: mode.ErrInvalid,
		},
		{
			name: "duplicate section",
			input: append(append(Magic, version...),
				wasm.SectionIDType, 0x01, 0x00,
				wasm.SectionIDType, 0x01, 0x00),
			expectedErr: mode.ErrInvalid,
		},
		{
			name: "trailing bytes in section",
			input: append(append(Magic, version...),
				wasm.SectionIDType, 0x02, 0x00, 0x00),
			expectedErr: mode.ErrInvalid,
		},
		{
			name: "function without code",
			input: append(append(Magic, version...),
				wasm.SectionIDType, 0x04, 0x01, 0x60, 0x00, 0x00,
				wasm.SectionIDFunction, 0x02, 0x01, 0x00),
			expectedErr: mode.ErrInvalid,
		},
		{
			name: "externref param",
			input: append(append(Magic, version...),
				wasm.SectionIDType, 0x05, 0x01, 0x60, 0x01, wasm.RefTypeExternref, 0x00),
			expectedErr: mode.ErrUnsupported,
		},
		{
			name: "v128 result",
			input: append(append(Magic, version...),
				wasm.SectionIDType, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7b),
			expectedErr: mode.ErrUnsupported,
		},
		{
			name: "shared memory",
			input: append(append(Magic, version...),
				wasm.SectionIDMemory, 0x04, 0x01, 0x03, 0x01, 0x01),
			expectedErr: mode.ErrUnsupported,
		},
		{
			name: "passive element segment",
			input: append(append(Magic, version...),
				wasm.SectionIDElement, 0x04, 0x01, 0x01, 0x00, 0x00),
			expectedErr: mode.ErrUnsupported,
		},
		{
			name: "invalid UTF-8 export name",
			input: append(append(Magic, version...),
				wasm.SectionIDExport, 0x05, 0x01, 0x01, 0xff, api.ExternTypeFunc, 0x00),
			expectedErr: mode.ErrInvalid,
		},
		{
			name: "body without end",
			input: append(append(Magic, version...),
				wasm.SectionIDType, 0x04, 0x01, 0x60, 0x00, 0x00,
				wasm.SectionIDFunction, 0x02, 0x01, 0x00,
				wasm.SectionIDCode, 0x04, 0x01, 0x02, 0x00, wasm.OpcodeNop),
			expectedErr: mode.ErrInvalid,
		},
		{
			name: "too many locals",
			input: append(append(Magic, version...),
				wasm.SectionIDType, 0x04, 0x01, 0x60, 0x00, 0x00,
				wasm.SectionIDFunction, 0x02, 0x01, 0x00,
				wasm.SectionIDCode, 0x0a, 0x01, 0x08, 0x01, 0xff, 0xff, 0xff, 0xff, 0x0f, api.ValueTypeI32, wasm.OpcodeEnd),
			expectedErr: mode.ErrUnsupported,
		},
	}

	for _, tt := range tests {
		tc := tt

		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeModule(tc.input)
			require.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestDecodeModule_MalformedNameSectionIgnored(t *testing.T) {
	bin := append(append(Magic, version...), wasm.SectionIDCustom, 0x07, 0x04, 'n', 'a', 'm', 'e', 0x00, 0x05)
	m, err := DecodeModule(bin)
	require.NoError(t, err)
	require.Nil(t, m.NameSection)
}
