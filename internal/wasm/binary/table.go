package binary

import (
	"fmt"

	"github.com/embedwasm/interp/internal/wasm"
)

func decodeTableSection(p *parser) ([]wasm.Table, error) {
	count, err := decodeVecLen(p, "table")
	if err != nil {
		return nil, err
	}
	ret := make([]wasm.Table, count)
	for i := range ret {
		if err = decodeTable(p, &ret[i]); err != nil {
			return nil, fmt.Errorf("read table[%d]: %w", i, err)
		}
	}
	return ret, nil
}

// decodeTable returns the wasm.Table decoded with the WebAssembly 1.0 (20191205) Binary Format.
//
// Note: externref tables decode, so that validation can report them as unsupported.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-table
func decodeTable(p *parser, ret *wasm.Table) (err error) {
	if ret.Type, err = p.ReadByte(); err != nil {
		return fmt.Errorf("read leading byte: %w", err)
	}
	if ret.Type != wasm.RefTypeFuncref && ret.Type != wasm.RefTypeExternref {
		return invalidf("invalid table type: %#x", ret.Type)
	}
	ret.Min, ret.Max, err = p.ReadLimits()
	return
}

// encodeTable returns the wasm.Table encoded in WebAssembly 1.0 (20191205) Binary Format.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-table
func encodeTable(t *wasm.Table) []byte {
	return append([]byte{t.Type}, encodeLimits(t.Min, t.Max)...)
}
