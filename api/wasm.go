// Package api holds the value types and the memory view shared by the embedder and the interpreter.
package api

import (
	"fmt"
	"math"
)

// ExternType classifies imports and exports with their respective types.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#external-types%E2%91%A0
type ExternType = byte

const (
	ExternTypeFunc   ExternType = 0x00
	ExternTypeTable  ExternType = 0x01
	ExternTypeMemory ExternType = 0x02
	ExternTypeGlobal ExternType = 0x03
)

// ExternTypeName returns the name of the WebAssembly 1.0 (20191205) Text Format field of the given type.
func ExternTypeName(et ExternType) string {
	switch et {
	case ExternTypeFunc:
		return "func"
	case ExternTypeTable:
		return "table"
	case ExternTypeMemory:
		return "memory"
	case ExternTypeGlobal:
		return "global"
	}
	return fmt.Sprintf("%#x", et)
}

// ValueType is one of the four numeric types a parameter, result, local or global may have. Reference types are
// rejected at compile time.
//
// Values travel as uint64 bits: i32 zero-extended (EncodeI32), i64 as is, and floats as their IEEE 754 bits
// (EncodeF32, EncodeF64). The byte is the binary format encoding.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-valtype
type ValueType = byte

const (
	// ValueTypeI32 is a 32-bit integer.
	ValueTypeI32 ValueType = 0x7f
	// ValueTypeI64 is a 64-bit integer.
	ValueTypeI64 ValueType = 0x7e
	// ValueTypeF32 is a 32-bit floating point number.
	ValueTypeF32 ValueType = 0x7d
	// ValueTypeF64 is a 64-bit floating point number.
	ValueTypeF64 ValueType = 0x7c
)

// ValueTypeName returns the text format name of t, or "unknown".
func ValueTypeName(t ValueType) string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	}
	return "unknown"
}

// Val is a typed value crossing the boundary between a host and an instance.
type Val struct {
	Type ValueType
	// Bits is the value encoded as described on ValueType.
	Bits uint64
}

// ValI32 returns an i32 Val.
func ValI32(v int32) Val { return Val{Type: ValueTypeI32, Bits: EncodeI32(v)} }

// ValU32 returns an i32 Val from its unsigned interpretation.
func ValU32(v uint32) Val { return Val{Type: ValueTypeI32, Bits: uint64(v)} }

// ValI64 returns an i64 Val.
func ValI64(v int64) Val { return Val{Type: ValueTypeI64, Bits: EncodeI64(v)} }

// ValF32 returns an f32 Val.
func ValF32(v float32) Val { return Val{Type: ValueTypeF32, Bits: EncodeF32(v)} }

// ValF64 returns an f64 Val.
func ValF64(v float64) Val { return Val{Type: ValueTypeF64, Bits: EncodeF64(v)} }

// I32 returns the value as int32, ignoring Type.
func (v Val) I32() int32 { return int32(v.Bits) }

// U32 returns the value as uint32, ignoring Type.
func (v Val) U32() uint32 { return uint32(v.Bits) }

// I64 returns the value as int64, ignoring Type.
func (v Val) I64() int64 { return int64(v.Bits) }

// F32 returns the value as float32, ignoring Type.
func (v Val) F32() float32 { return DecodeF32(v.Bits) }

// F64 returns the value as float64, ignoring Type.
func (v Val) F64() float64 { return DecodeF64(v.Bits) }

// String implements fmt.Stringer
func (v Val) String() string {
	switch v.Type {
	case ValueTypeI32:
		return fmt.Sprintf("i32(%d)", v.I32())
	case ValueTypeI64:
		return fmt.Sprintf("i64(%d)", v.I64())
	case ValueTypeF32:
		return fmt.Sprintf("f32(%g)", v.F32())
	case ValueTypeF64:
		return fmt.Sprintf("f64(%g)", v.F64())
	}
	return fmt.Sprintf("%s(%#x)", ValueTypeName(v.Type), v.Bits)
}

// Memory is the bounds-checked view of an instance's linear memory given to the host while a call is suspended.
// It cannot grow memory.
//
// Values are little-endian. Each accessor reports false, and does nothing, when any byte of the access lies at or
// past Size. Size is the smaller of the current page count in bytes and the length of the host buffer.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#storage%E2%91%A0
type Memory interface {
	// Size returns the number of accessible bytes.
	Size() uint32

	ReadByte(offset uint32) (byte, bool)
	ReadUint16Le(offset uint32) (uint16, bool)
	ReadUint32Le(offset uint32) (uint32, bool)
	ReadUint64Le(offset uint32) (uint64, bool)
	// ReadFloat32Le reads IEEE 754 binary32 bits.
	ReadFloat32Le(offset uint32) (float32, bool)
	// ReadFloat64Le reads IEEE 754 binary64 bits.
	ReadFloat64Le(offset uint32) (float64, bool)

	// Read returns byteCount bytes at offset. The slice aliases the host buffer, which is never reallocated, so
	// writes through it are visible to the instance.
	Read(offset, byteCount uint32) ([]byte, bool)

	WriteByte(offset uint32, v byte) bool
	WriteUint16Le(offset uint32, v uint16) bool
	WriteUint32Le(offset, v uint32) bool
	WriteUint64Le(offset uint32, v uint64) bool
	WriteFloat32Le(offset uint32, v float32) bool
	WriteFloat64Le(offset uint32, v float64) bool

	// Write copies v to offset.
	Write(offset uint32, v []byte) bool
}

// EncodeI32 encodes the input as a ValueTypeI32.
func EncodeI32(input int32) uint64 {
	return uint64(uint32(input))
}

// EncodeI64 encodes the input as a ValueTypeI64.
func EncodeI64(input int64) uint64 {
	return uint64(input)
}

// EncodeF32 encodes the input as a ValueTypeF32, keeping NaN payloads.
func EncodeF32(input float32) uint64 {
	return uint64(math.Float32bits(input))
}

// DecodeF32 is the inverse of EncodeF32. Bits above 32 are ignored.
func DecodeF32(input uint64) float32 {
	return math.Float32frombits(uint32(input))
}

// EncodeF64 encodes the input as a ValueTypeF64.
func EncodeF64(input float64) uint64 {
	return math.Float64bits(input)
}

// DecodeF64 is the inverse of EncodeF64.
func DecodeF64(input uint64) float64 {
	return math.Float64frombits(input)
}
