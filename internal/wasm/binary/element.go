package binary

import (
	"fmt"

	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/mode"
	"github.com/embedwasm/interp/internal/wasm"
)

func decodeElementSection(p *parser) ([]wasm.ElementSegment, error) {
	count, err := decodeVecLen(p, "element")
	if err != nil {
		return nil, err
	}
	ret := make([]wasm.ElementSegment, count)
	for i := range ret {
		if err = decodeElementSegment(p, &ret[i]); err != nil {
			return nil, fmt.Errorf("read element[%d]: %w", i, err)
		}
	}
	return ret, nil
}

// decodeElementSegment decodes the active segment of table zero with function indices, which is the only encoding of
// WebAssembly 1.0 (20191205). The other encodings of later versions are unsupported.
// See https://www.w3.org/TR/2022/WD-wasm-core-2-20220419/binary/modules.html#element-section
func decodeElementSegment(p *parser, ret *wasm.ElementSegment) error {
	prefix, err := p.ReadU32()
	if err != nil {
		return fmt.Errorf("read element prefix: %w", err)
	}
	if prefix != 0 {
		if prefix < 8 {
			return unsupported(mode.ReasonElementKind)
		}
		return invalidf("invalid element segment prefix: %#x", prefix)
	}
	if err = decodeConstantExpression(p, &ret.OffsetExpr); err != nil {
		return fmt.Errorf("read offset expression: %w", err)
	}
	count, err := decodeVecLen(p, "init")
	if err != nil {
		return err
	}
	ret.Init = make([]wasm.Index, count)
	for i := range ret.Init {
		if ret.Init[i], err = p.ReadU32(); err != nil {
			return fmt.Errorf("read function index: %w", err)
		}
	}
	return nil
}

func encodeElement(e *wasm.ElementSegment) []byte {
	data := append([]byte{0x00}, encodeConstantExpression(&e.OffsetExpr)...)
	data = append(data, leb128.EncodeUint32(uint32(len(e.Init)))...)
	for _, idx := range e.Init {
		data = append(data, leb128.EncodeUint32(idx)...)
	}
	return data
}
