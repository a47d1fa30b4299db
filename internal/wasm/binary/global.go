package binary

import (
	"fmt"

	"github.com/embedwasm/interp/internal/wasm"
)

func decodeGlobalSection(p *parser) ([]wasm.Global, error) {
	count, err := decodeVecLen(p, "global")
	if err != nil {
		return nil, err
	}
	ret := make([]wasm.Global, count)
	for i := range ret {
		g := &ret[i]
		if err = decodeGlobalType(p, &g.Type); err != nil {
			return nil, fmt.Errorf("read global[%d] type: %w", i, err)
		}
		if err = decodeConstantExpression(p, &g.Init); err != nil {
			return nil, fmt.Errorf("read global[%d] init: %w", i, err)
		}
	}
	return ret, nil
}

// decodeGlobalType returns the wasm.GlobalType decoded with the WebAssembly 1.0 (20191205) Binary Format.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-globaltype
func decodeGlobalType(p *parser, ret *wasm.GlobalType) (err error) {
	if ret.ValType, err = p.ReadValueType(); err != nil {
		return fmt.Errorf("read value type: %w", err)
	}
	mut, err := p.ReadByte()
	if err != nil {
		return fmt.Errorf("read mutablity: %w", err)
	}
	switch mut {
	case 0x00:
	case 0x01:
		ret.Mutable = true
	default:
		return invalidf("invalid byte for mutability: %#x != 0x00 or 0x01", mut)
	}
	return nil
}

// encodeGlobalType returns the wasm.GlobalType encoded in WebAssembly 1.0 (20191205) Binary Format.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#global-types%E2%91%A0
func encodeGlobalType(t *wasm.GlobalType) []byte {
	if t.Mutable {
		return []byte{t.ValType, 0x01}
	}
	return []byte{t.ValType, 0x00}
}

// encodeGlobal returns the wasm.Global encoded in WebAssembly 1.0 (20191205) Binary Format.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#global-section%E2%91%A0
func encodeGlobal(g *wasm.Global) []byte {
	return append(encodeGlobalType(&g.Type), encodeConstantExpression(&g.Init)...)
}
