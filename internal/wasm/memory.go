package wasm

import (
	"encoding/binary"
	"math"

	"github.com/embedwasm/interp/api"
)

// MemoryInstance is the linear memory of an instance, and implements api.Memory.
//
// The bytes are a buffer owned by the host. It is never reallocated: growing only raises the page count, and the
// accessible size is the smaller of the page count and the buffer length. A module may declare more pages than the
// buffer holds, in which case any access past the buffer fails.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#memory-instances%E2%91%A0.
type MemoryInstance struct {
	Buffer []byte
	// Pages is the current size in pages, as observed by memory.size.
	Pages uint32
	// Max is the maximum size in pages memory.grow may reach.
	Max uint32
}

var _ api.Memory = &MemoryInstance{}

// NewMemoryInstance binds buffer to a memory of the given type. maxPages caps the declared maximum.
func NewMemoryInstance(mem *Memory, buffer []byte, maxPages uint32) *MemoryInstance {
	max := maxPages
	if mem.Max != nil && *mem.Max < max {
		max = *mem.Max
	}
	return &MemoryInstance{Buffer: buffer, Pages: mem.Min, Max: max}
}

// Size returns the number of accessible bytes.
func (m *MemoryInstance) Size() uint32 {
	size := MemoryPagesToBytesNum(m.Pages)
	if n := uint64(len(m.Buffer)); n < size {
		size = n
	}
	if size > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(size)
}

// window returns the n bytes at addr, or false when any of them is at or past Size. addr is 64-bit so that
// base+offset of a memory instruction cannot wrap.
func (m *MemoryInstance) window(addr, n uint64) ([]byte, bool) {
	if addr+n > uint64(m.Size()) {
		return nil, false
	}
	return m.Buffer[addr : addr+n : addr+n], true
}

// Load returns the byteCount bytes at the effective address base+offset of a memory instruction.
func (m *MemoryInstance) Load(base, offset uint32, byteCount uint32) ([]byte, bool) {
	return m.window(uint64(base)+uint64(offset), uint64(byteCount))
}

func (m *MemoryInstance) ReadByte(offset uint32) (byte, bool) {
	b, ok := m.window(uint64(offset), 1)
	if !ok {
		return 0, false
	}
	return b[0], true
}

func (m *MemoryInstance) ReadUint16Le(offset uint32) (uint16, bool) {
	b, ok := m.window(uint64(offset), 2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

func (m *MemoryInstance) ReadUint32Le(offset uint32) (uint32, bool) {
	b, ok := m.window(uint64(offset), 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (m *MemoryInstance) ReadUint64Le(offset uint32) (uint64, bool) {
	b, ok := m.window(uint64(offset), 8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

func (m *MemoryInstance) ReadFloat32Le(offset uint32) (float32, bool) {
	bits, ok := m.ReadUint32Le(offset)
	return math.Float32frombits(bits), ok
}

func (m *MemoryInstance) ReadFloat64Le(offset uint32) (float64, bool) {
	bits, ok := m.ReadUint64Le(offset)
	return math.Float64frombits(bits), ok
}

// Read returns a view of the buffer, not a copy.
func (m *MemoryInstance) Read(offset, byteCount uint32) ([]byte, bool) {
	return m.window(uint64(offset), uint64(byteCount))
}

func (m *MemoryInstance) WriteByte(offset uint32, v byte) bool {
	b, ok := m.window(uint64(offset), 1)
	if ok {
		b[0] = v
	}
	return ok
}

func (m *MemoryInstance) WriteUint16Le(offset uint32, v uint16) bool {
	b, ok := m.window(uint64(offset), 2)
	if ok {
		binary.LittleEndian.PutUint16(b, v)
	}
	return ok
}

func (m *MemoryInstance) WriteUint32Le(offset, v uint32) bool {
	b, ok := m.window(uint64(offset), 4)
	if ok {
		binary.LittleEndian.PutUint32(b, v)
	}
	return ok
}

func (m *MemoryInstance) WriteUint64Le(offset uint32, v uint64) bool {
	b, ok := m.window(uint64(offset), 8)
	if ok {
		binary.LittleEndian.PutUint64(b, v)
	}
	return ok
}

func (m *MemoryInstance) WriteFloat32Le(offset uint32, v float32) bool {
	return m.WriteUint32Le(offset, math.Float32bits(v))
}

func (m *MemoryInstance) WriteFloat64Le(offset uint32, v float64) bool {
	return m.WriteUint64Le(offset, math.Float64bits(v))
}

func (m *MemoryInstance) Write(offset uint32, val []byte) bool {
	b, ok := m.window(uint64(offset), uint64(len(val)))
	if ok {
		copy(b, val)
	}
	return ok
}

// MemoryPagesToBytesNum returns the byte length of pages.
func MemoryPagesToBytesNum(pages uint32) uint64 {
	return uint64(pages) << MemoryPageSizeInBits
}

// Grow raises the page count by deltaPages, as memory.grow. It fails when the result exceeds Max or the buffer.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#grow-mem.
func (m *MemoryInstance) Grow(deltaPages uint32) (previousPages uint32, ok bool) {
	previousPages = m.Pages
	if deltaPages == 0 {
		return previousPages, true
	}
	newPages := uint64(previousPages) + uint64(deltaPages)
	if newPages > uint64(m.Max) || MemoryPagesToBytesNum(uint32(newPages)) > uint64(len(m.Buffer)) {
		return 0, false
	}
	m.Pages = uint32(newPages)
	return previousPages, true
}
