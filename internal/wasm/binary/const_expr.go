package binary

import (
	"fmt"

	"github.com/embedwasm/interp/internal/wasm"
)

// decodeConstantExpression reads one instruction and its terminating end. The operand is kept encoded.
func decodeConstantExpression(p *parser, ret *wasm.ConstantExpression) (err error) {
	if ret.Opcode, err = p.ReadByte(); err != nil {
		return fmt.Errorf("read opcode: %w", err)
	}
	start := p.Save()
	before := p.Len()
	switch ret.Opcode {
	case wasm.OpcodeI32Const:
		_, err = p.ReadI32()
	case wasm.OpcodeI64Const:
		_, err = p.ReadI64()
	case wasm.OpcodeF32Const:
		_, err = p.ReadF32Bits()
	case wasm.OpcodeF64Const:
		_, err = p.ReadF64Bits()
	case wasm.OpcodeGlobalGet, wasm.OpcodeRefFunc:
		_, err = p.ReadU32()
	case wasm.OpcodeRefNull:
		_, err = p.ReadByte()
	default:
		return invalidf("invalid opcode for const expression: %#x", ret.Opcode)
	}
	if err != nil {
		return fmt.Errorf("read value: %w", err)
	}
	n := before - p.Len()
	p.Restore(start)
	ret.Data, _ = p.ReadBytes(n)

	end, err := p.ReadByte()
	if err != nil {
		return fmt.Errorf("look for end opcode: %w", err)
	}
	if end != wasm.OpcodeEnd {
		return invalidf("constant expression has not been terminated")
	}
	return nil
}

func encodeConstantExpression(expr *wasm.ConstantExpression) []byte {
	data := append([]byte{expr.Opcode}, expr.Data...)
	return append(data, wasm.OpcodeEnd)
}
