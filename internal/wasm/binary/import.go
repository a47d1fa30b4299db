package binary

import (
	"fmt"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/wasm"
)

func decodeImportSection(p *parser) ([]wasm.Import, error) {
	count, err := decodeVecLen(p, "import")
	if err != nil {
		return nil, err
	}
	ret := make([]wasm.Import, count)
	for i := range ret {
		if err = decodeImport(p, &ret[i]); err != nil {
			return nil, fmt.Errorf("read import[%d]: %w", i, err)
		}
	}
	return ret, nil
}

func decodeImport(p *parser, i *wasm.Import) (err error) {
	if i.Module, err = p.ReadName(); err != nil {
		return fmt.Errorf("decode import module: %w", err)
	}
	if i.Name, err = p.ReadName(); err != nil {
		return fmt.Errorf("decode import name: %w", err)
	}
	if i.Type, err = p.ReadByte(); err != nil {
		return fmt.Errorf("error decoding import kind: %w", err)
	}
	switch i.Type {
	case api.ExternTypeFunc:
		if i.DescFunc, err = p.ReadU32(); err != nil {
			return fmt.Errorf("error decoding import func typeindex: %w", err)
		}
	case api.ExternTypeTable:
		if err = decodeTable(p, &i.DescTable); err != nil {
			return fmt.Errorf("error decoding import table desc: %w", err)
		}
	case api.ExternTypeMemory:
		if err = decodeMemory(p, &i.DescMem); err != nil {
			return fmt.Errorf("error decoding import mem desc: %w", err)
		}
	case api.ExternTypeGlobal:
		if err = decodeGlobalType(p, &i.DescGlobal); err != nil {
			return fmt.Errorf("error decoding import global desc: %w", err)
		}
	default:
		return invalidf("invalid byte for importdesc: %#x", i.Type)
	}
	return nil
}

// encodeImport returns the wasm.Import encoded in WebAssembly 1.0 (20191205) Binary Format.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-import
func encodeImport(i *wasm.Import) []byte {
	data := encodeSizePrefixed([]byte(i.Module))
	data = append(data, encodeSizePrefixed([]byte(i.Name))...)
	data = append(data, i.Type)
	switch i.Type {
	case api.ExternTypeFunc:
		data = append(data, leb128.EncodeUint32(i.DescFunc)...)
	case api.ExternTypeTable:
		data = append(data, encodeTable(&i.DescTable)...)
	case api.ExternTypeMemory:
		data = append(data, encodeLimits(i.DescMem.Min, i.DescMem.Max)...)
	case api.ExternTypeGlobal:
		data = append(data, encodeGlobalType(&i.DescGlobal)...)
	default:
		panic(fmt.Errorf("invalid externtype: %s", api.ExternTypeName(i.Type)))
	}
	return data
}

func encodeSizePrefixed(data []byte) []byte {
	return append(leb128.EncodeUint32(uint32(len(data))), data...)
}
