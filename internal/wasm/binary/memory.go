package binary

import (
	"fmt"

	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/wasm"
)

func decodeMemorySection(p *parser) ([]wasm.Memory, error) {
	count, err := decodeVecLen(p, "memory")
	if err != nil {
		return nil, err
	}
	ret := make([]wasm.Memory, count)
	for i := range ret {
		if err = decodeMemory(p, &ret[i]); err != nil {
			return nil, fmt.Errorf("read memory[%d]: %w", i, err)
		}
	}
	return ret, nil
}

// decodeMemory decodes the limits of a memory. Limits are validated by wasm.Module Validate.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-memory
func decodeMemory(p *parser, ret *wasm.Memory) (err error) {
	ret.Min, ret.Max, err = p.ReadLimits()
	return
}

// encodeLimits returns the limits encoded in WebAssembly 1.0 (20191205) Binary Format.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-limits
func encodeLimits(min uint32, max *uint32) []byte {
	if max == nil {
		return append([]byte{0x00}, leb128.EncodeUint32(min)...)
	}
	data := append([]byte{0x01}, leb128.EncodeUint32(min)...)
	return append(data, leb128.EncodeUint32(*max)...)
}
