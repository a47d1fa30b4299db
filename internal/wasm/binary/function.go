package binary

import (
	"fmt"

	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/wasm"
)

func decodeTypeSection(p *parser) ([]wasm.FunctionType, error) {
	count, err := decodeVecLen(p, "type")
	if err != nil {
		return nil, err
	}
	ret := make([]wasm.FunctionType, count)
	for i := range ret {
		if err = decodeFunctionType(p, &ret[i]); err != nil {
			return nil, fmt.Errorf("read %d-th type: %w", i, err)
		}
	}
	return ret, nil
}

// decodeFunctionType decodes the function type prefixed by 0x60.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-functype
func decodeFunctionType(p *parser, ret *wasm.FunctionType) (err error) {
	b, err := p.ReadByte()
	if err != nil {
		return fmt.Errorf("read leading byte: %w", err)
	}
	if b != 0x60 {
		return invalidf("invalid leading byte: %#x != 0x60", b)
	}
	if ret.Params, err = decodeValueTypes(p, "param"); err != nil {
		return err
	}
	ret.Results, err = decodeValueTypes(p, "result")
	return err
}

func decodeValueTypes(p *parser, what string) ([]wasm.ValueType, error) {
	count, err := decodeVecLen(p, what)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	ret := make([]wasm.ValueType, count)
	for i := range ret {
		if ret[i], err = p.ReadValueType(); err != nil {
			return nil, fmt.Errorf("read %s type: %w", what, err)
		}
	}
	return ret, nil
}

func decodeFunctionSection(p *parser) ([]wasm.Index, error) {
	count, err := decodeVecLen(p, "function")
	if err != nil {
		return nil, err
	}
	ret := make([]wasm.Index, count)
	for i := range ret {
		if ret[i], err = p.ReadU32(); err != nil {
			return nil, fmt.Errorf("get type index: %w", err)
		}
	}
	return ret, nil
}

// encodeFunctionType returns the wasm.FunctionType encoded in WebAssembly 1.0 (20191205) Binary Format.
//
// Note: Function types are encoded by the byte 0x60 followed by the respective vectors of parameter and result types.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#function-types%E2%91%A4
func encodeFunctionType(t *wasm.FunctionType) []byte {
	data := append([]byte{0x60}, leb128.EncodeUint32(uint32(len(t.Params)))...)
	data = append(data, t.Params...)
	data = append(data, leb128.EncodeUint32(uint32(len(t.Results)))...)
	return append(data, t.Results...)
}
