package binary

import (
	"fmt"

	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/mode"
	"github.com/embedwasm/interp/internal/wasm"
)

func decodeDataSection(p *parser) ([]wasm.DataSegment, error) {
	count, err := decodeVecLen(p, "data")
	if err != nil {
		return nil, err
	}
	ret := make([]wasm.DataSegment, count)
	for i := range ret {
		if err = decodeDataSegment(p, &ret[i]); err != nil {
			return nil, fmt.Errorf("read data segment[%d]: %w", i, err)
		}
	}
	return ret, nil
}

// decodeDataSegment decodes active segments of memory zero and passive segments.
// See https://www.w3.org/TR/2022/WD-wasm-core-2-20220419/binary/modules.html#data-section
func decodeDataSegment(p *parser, ret *wasm.DataSegment) error {
	prefix, err := p.ReadU32()
	if err != nil {
		return fmt.Errorf("read data segment prefix: %w", err)
	}
	switch prefix {
	case 0x0:
	case 0x1:
		// passive
	case 0x2:
		memIdx, err := p.ReadU32()
		if err != nil {
			return fmt.Errorf("read memory index: %w", err)
		}
		if memIdx != 0 {
			return unsupported(mode.ReasonMultipleMemories)
		}
	default:
		return invalidf("invalid data segment prefix: %#x", prefix)
	}
	if prefix != 0x1 {
		ret.OffsetExpression = &wasm.ConstantExpression{}
		if err = decodeConstantExpression(p, ret.OffsetExpression); err != nil {
			return fmt.Errorf("read offset expression: %w", err)
		}
	}
	size, err := p.ReadU32()
	if err != nil {
		return fmt.Errorf("get the size of vector: %w", err)
	}
	if ret.Init, err = p.ReadBytes(int(size)); err != nil {
		return fmt.Errorf("read bytes for init: %w", err)
	}
	return nil
}

func encodeDataSegment(d *wasm.DataSegment) []byte {
	var data []byte
	if d.IsPassive() {
		data = []byte{0x01}
	} else {
		data = append([]byte{0x00}, encodeConstantExpression(d.OffsetExpression)...)
	}
	data = append(data, leb128.EncodeUint32(uint32(len(d.Init)))...)
	return append(data, d.Init...)
}
