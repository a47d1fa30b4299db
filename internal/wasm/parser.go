package wasm

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/cursor"
	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/mode"
)

// Parser reads the binary format from a byte cursor.
//
// The decoder and the validator use Parser[mode.Check], which reports every malformed read. The interpreter reads
// function bodies in place with Parser[mode.Use], whose reads cannot fail once the body was validated.
type Parser[M mode.Mode] struct {
	c cursor.Cursor[byte]
	m M
}

// NewParser returns a Parser over data.
func NewParser[M mode.Mode](data []byte) Parser[M] {
	return Parser[M]{c: cursor.New(data)}
}

// Mode returns the failure strategy of p.
func (p *Parser[M]) Mode() M { return p.m }

// Len returns the count of unread bytes.
func (p *Parser[M]) Len() int { return p.c.Len() }

// IsEmpty is true when every byte was read.
func (p *Parser[M]) IsEmpty() bool { return p.c.IsEmpty() }

// Offset returns the position of the next byte relative to the data given to NewParser.
func (p *Parser[M]) Offset() int { return p.c.Offset() }

// Window returns the unread bytes without consuming them.
func (p *Parser[M]) Window() []byte { return p.c.Window() }

// Save returns the read position. See Restore
func (p *Parser[M]) Save() cursor.State { return p.c.Save() }

// Restore rewinds p to a position returned by Save.
func (p *Parser[M]) Restore(s cursor.State) { p.c.Restore(s) }

// AdjustStart moves the read position by delta bytes, forwards or backwards.
func (p *Parser[M]) AdjustStart(delta int) error {
	return p.m.Check(p.c.AdjustStart(delta))
}

// Split returns a Parser over the next n bytes and advances past them.
func (p *Parser[M]) Split(n int) (Parser[M], error) {
	prefix, ok := p.c.Split(n)
	if err := p.m.Check(ok); err != nil {
		return Parser[M]{}, err
	}
	return Parser[M]{c: prefix, m: p.m}, nil
}

// ReadByte reads one byte.
func (p *Parser[M]) ReadByte() (byte, error) {
	b, ok := p.c.Get(0)
	if err := p.m.Check(ok); err != nil {
		return 0, err
	}
	p.c.AdjustStart(1)
	return b, nil
}

// ReadBytes reads n bytes. The result aliases the underlying data.
func (p *Parser[M]) ReadBytes(n int) ([]byte, error) {
	prefix, ok := p.c.Split(n)
	if err := p.m.Check(ok); err != nil {
		return nil, err
	}
	return prefix.Window(), nil
}

// ReadU32 reads an unsigned LEB128 32-bit integer.
func (p *Parser[M]) ReadU32() (uint32, error) {
	v, n, err := leb128.LoadUint32(p.c.Window())
	if err != nil {
		return 0, p.m.Invalid()
	}
	p.c.AdjustStart(int(n))
	return v, nil
}

// ReadI32 reads a signed LEB128 32-bit integer.
func (p *Parser[M]) ReadI32() (int32, error) {
	v, n, err := leb128.LoadInt32(p.c.Window())
	if err != nil {
		return 0, p.m.Invalid()
	}
	p.c.AdjustStart(int(n))
	return v, nil
}

// ReadI33 reads a signed LEB128 33-bit integer, the encoding of block type indexes.
func (p *Parser[M]) ReadI33() (int64, error) {
	v, n, err := leb128.LoadInt33AsInt64(p.c.Window())
	if err != nil {
		return 0, p.m.Invalid()
	}
	p.c.AdjustStart(int(n))
	return v, nil
}

// ReadI64 reads a signed LEB128 64-bit integer.
func (p *Parser[M]) ReadI64() (int64, error) {
	v, n, err := leb128.LoadInt64(p.c.Window())
	if err != nil {
		return 0, p.m.Invalid()
	}
	p.c.AdjustStart(int(n))
	return v, nil
}

// ReadF32Bits reads the little-endian IEEE 754 bits of a float32.
func (p *Parser[M]) ReadF32Bits() (uint32, error) {
	b, err := p.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadF64Bits reads the little-endian IEEE 754 bits of a float64.
func (p *Parser[M]) ReadF64Bits() (uint64, error) {
	b, err := p.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadName reads a size-prefixed UTF-8 string.
func (p *Parser[M]) ReadName() (string, error) {
	size, err := p.ReadU32()
	if err != nil {
		return "", err
	}
	b, err := p.ReadBytes(int(size))
	if err != nil {
		return "", err
	}
	if err = p.m.Check(utf8.Valid(b)); err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadValueType reads a numeric value type. Reference and vector types are unsupported.
func (p *Parser[M]) ReadValueType() (api.ValueType, error) {
	b, err := p.ReadByte()
	if err != nil {
		return 0, err
	}
	switch b {
	case api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64:
		return b, nil
	case RefTypeFuncref, RefTypeExternref, valueTypeV128:
		return 0, p.m.Unsupported(mode.ReasonValueType)
	}
	return 0, p.m.Invalid()
}

// ReadBlockType reads the type immediate of block, loop and if.
func (p *Parser[M]) ReadBlockType() (BlockType, error) {
	b, ok := p.c.Get(0)
	if err := p.m.Check(ok); err != nil {
		return BlockType{}, err
	}
	switch b {
	case blockTypeEmpty:
		p.c.AdjustStart(1)
		return BlockType{}, nil
	case api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64:
		p.c.AdjustStart(1)
		return BlockType{Kind: BlockTypeKindValue, Value: b}, nil
	}
	idx, err := p.ReadI33()
	if err != nil {
		return BlockType{}, err
	}
	if idx < 0 {
		// A negative single-byte code other than the ones above is a reference or vector type.
		if err = p.m.Check(idx >= -64); err != nil {
			return BlockType{}, err
		}
		return BlockType{}, p.m.Unsupported(mode.ReasonValueType)
	}
	if err = p.m.Check(idx <= int64(^uint32(0))); err != nil {
		return BlockType{}, err
	}
	return BlockType{Kind: BlockTypeKindIndex, Index: Index(idx)}, nil
}

// ReadLimits reads the limits of a memory or table.
func (p *Parser[M]) ReadLimits() (min uint32, max *uint32, err error) {
	flag, err := p.ReadByte()
	if err != nil {
		return 0, nil, err
	}
	switch flag {
	case 0x00, 0x01:
	case 0x02, 0x03, 0x04, 0x05, 0x06, 0x07:
		// shared or 64-bit
		return 0, nil, p.m.Unsupported(mode.ReasonMemoryKind)
	default:
		return 0, nil, p.m.Invalid()
	}
	if min, err = p.ReadU32(); err != nil {
		return 0, nil, err
	}
	if flag == 0x01 {
		m, err := p.ReadU32()
		if err != nil {
			return 0, nil, err
		}
		max = &m
	}
	return min, max, nil
}

// ReadMemArg reads the alignment exponent and offset of a memory instruction.
func (p *Parser[M]) ReadMemArg() (align, offset uint32, err error) {
	if align, err = p.ReadU32(); err != nil {
		return 0, 0, err
	}
	if offset, err = p.ReadU32(); err != nil {
		return 0, 0, err
	}
	return align, offset, nil
}

// SkipMemArg advances past a memory argument and returns its offset.
func (p *Parser[M]) SkipMemArg() (offset uint32, err error) {
	_, offset, err = p.ReadMemArg()
	return offset, err
}
