package binary

import (
	"fmt"

	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/mode"
	"github.com/embedwasm/interp/internal/wasm"
)

func decodeCodeSection(p *parser) ([]wasm.Code, error) {
	count, err := decodeVecLen(p, "code")
	if err != nil {
		return nil, err
	}
	ret := make([]wasm.Code, count)
	for i := range ret {
		if err = decodeCode(p, &ret[i]); err != nil {
			return nil, fmt.Errorf("read %d-th code segment: %w", i, err)
		}
	}
	return ret, nil
}

// decodeCode decodes the locals of a function and slices its body in place.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-code
func decodeCode(p *parser, ret *wasm.Code) error {
	size, err := p.ReadU32()
	if err != nil {
		return fmt.Errorf("get the size of code: %w", err)
	}
	code, err := p.Split(int(size))
	if err != nil {
		return invalidf("code size %d exceeds the section", size)
	}

	groups, err := decodeVecLen(&code, "local")
	if err != nil {
		return err
	}
	var total uint64
	counts := make([]uint32, groups)
	types := make([]wasm.ValueType, groups)
	for i := range counts {
		if counts[i], err = code.ReadU32(); err != nil {
			return fmt.Errorf("read n of locals: %w", err)
		}
		if total += uint64(counts[i]); total > wasm.MaximumLocals {
			return unsupported(mode.ReasonLimit)
		}
		if types[i], err = code.ReadValueType(); err != nil {
			return fmt.Errorf("read type of local: %w", err)
		}
	}
	if total > 0 {
		ret.LocalTypes = make([]wasm.ValueType, 0, total)
		for i, n := range counts {
			for j := uint32(0); j < n; j++ {
				ret.LocalTypes = append(ret.LocalTypes, types[i])
			}
		}
	}

	ret.BodyOffset = uint64(code.Offset())
	ret.Body, _ = code.ReadBytes(code.Len())
	if len(ret.Body) == 0 || ret.Body[len(ret.Body)-1] != wasm.OpcodeEnd {
		return invalidf("expr not end with OpcodeEnd")
	}
	return nil
}

// encodeCode returns the wasm.Code encoded in WebAssembly 1.0 (20191205) Binary Format. Consecutive locals of the
// same type are grouped.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-code
func encodeCode(c *wasm.Code) []byte {
	var groups [][2]uint32 // count, type
	for _, t := range c.LocalTypes {
		if n := len(groups); n > 0 && groups[n-1][1] == uint32(t) {
			groups[n-1][0]++
			continue
		}
		groups = append(groups, [2]uint32{1, uint32(t)})
	}
	data := leb128.EncodeUint32(uint32(len(groups)))
	for _, g := range groups {
		data = append(data, leb128.EncodeUint32(g[0])...)
		data = append(data, byte(g[1]))
	}
	data = append(data, c.Body...)
	return encodeSizePrefixed(data)
}
