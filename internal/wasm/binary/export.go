package binary

import (
	"fmt"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/wasm"
)

func decodeExportSection(p *parser) ([]wasm.Export, error) {
	count, err := decodeVecLen(p, "export")
	if err != nil {
		return nil, err
	}
	ret := make([]wasm.Export, count)
	for i := range ret {
		if err = decodeExport(p, &ret[i]); err != nil {
			return nil, fmt.Errorf("read export[%d]: %w", i, err)
		}
	}
	return ret, nil
}

func decodeExport(p *parser, e *wasm.Export) (err error) {
	if e.Name, err = p.ReadName(); err != nil {
		return fmt.Errorf("decode export name: %w", err)
	}
	if e.Type, err = p.ReadByte(); err != nil {
		return fmt.Errorf("error decoding export kind: %w", err)
	}
	switch e.Type {
	case api.ExternTypeFunc, api.ExternTypeTable, api.ExternTypeMemory, api.ExternTypeGlobal:
		if e.Index, err = p.ReadU32(); err != nil {
			return fmt.Errorf("error decoding export index: %w", err)
		}
	default:
		return invalidf("invalid byte for exportdesc: %#x", e.Type)
	}
	return nil
}

// encodeExport returns the wasm.Export encoded in WebAssembly 1.0 (20191205) Binary Format.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#export-section%E2%91%A0
func encodeExport(e *wasm.Export) []byte {
	data := encodeSizePrefixed([]byte(e.Name))
	data = append(data, e.Type)
	return append(data, leb128.EncodeUint32(e.Index)...)
}
