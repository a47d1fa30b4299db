// Package interpreter executes validated function bodies in place. Instructions are decoded from the module bytes
// with wasm.Parser[mode.Use] as they run, and control transfers are resolved with the side table built by
// validation, so nothing is compiled ahead of time.
package interpreter

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"sync/atomic"

	"github.com/embedwasm/interp/internal/mode"
	"github.com/embedwasm/interp/internal/moremath"
	"github.com/embedwasm/interp/internal/sidetable"
	"github.com/embedwasm/interp/internal/wasm"
	"github.com/embedwasm/interp/internal/wasmdebug"
	"github.com/embedwasm/interp/internal/wasmruntime"
)

// parser reads a validated function body.
type parser = wasm.Parser[mode.Use]

// Config bounds the resources of a CallEngine.
type Config struct {
	// MaxStackValues is the capacity of the value stack shared by the locals and operands of every frame.
	MaxStackValues int
	// MaxCallDepth is the maximum count of nested frames.
	MaxCallDepth int
}

// ResultKind is the reason Call or Resume returned without error.
type ResultKind byte

const (
	// ResultDone means the called function returned. Result.Values are its results.
	ResultDone ResultKind = iota
	// ResultHost means the module called an imported function. Result.Values are its arguments and the call
	// continues with Resume given its results.
	ResultHost
	// ResultInterrupt means the interrupt flag was observed at a loop back edge. The call continues with Resume
	// given no values.
	ResultInterrupt
)

// Result is how a call stopped.
type Result struct {
	Kind   ResultKind
	Values []uint64
	// Host is the imported function called when Kind is ResultHost.
	Host *wasm.FunctionInstance
}

type callFrame struct {
	f *wasm.FunctionInstance
	// pc is the offset of the next instruction in the body.
	pc int
	// stp is the position of the next side-table entry.
	stp int
	// base is the position of the first local in the stack.
	base int
}

// CallEngine executes the functions of one module instance. It keeps the values and frames of a call on explicit
// stacks of fixed size, so the Go stack used doesn't depend on the call depth or nesting of the module.
//
// A call is suspended each time the module calls an imported function or observes the interrupt flag, and
// continued with Resume. After a trap, the CallEngine is ready for the next Call.
//
// Note: CallEngine is not goroutine-safe.
type CallEngine struct {
	inst *wasm.ModuleInstance
	// stack holds the locals and operands of all frames, and frames the active calls. Neither is reallocated.
	stack        []uint64
	frames       []callFrame
	maxCallDepth int
	interrupt    *atomic.Bool
}

// NewCallEngine returns a CallEngine for inst.
func NewCallEngine(inst *wasm.ModuleInstance, cfg Config) *CallEngine {
	return &CallEngine{
		inst:         inst,
		stack:        make([]uint64, 0, cfg.MaxStackValues),
		frames:       make([]callFrame, 0, cfg.MaxCallDepth),
		maxCallDepth: cfg.MaxCallDepth,
	}
}

// SetInterrupt installs the flag checked at loop back edges. The flag is cleared when observed. nil disables
// interrupts.
func (ce *CallEngine) SetInterrupt(flag *atomic.Bool) {
	ce.interrupt = flag
}

// Call starts f with params, which must match its parameter types.
func (ce *CallEngine) Call(f *wasm.FunctionInstance, params []uint64) (res Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = ce.recoverOnCall(v)
		}
	}()

	ce.stack, ce.frames = ce.stack[:0], ce.frames[:0]
	if len(params) > cap(ce.stack) {
		panic(wasmruntime.ErrRuntimeStackExhausted)
	}
	ce.stack = append(ce.stack, params...)
	if f.Host != nil {
		return ce.callHost(f), nil
	}
	ce.enter(f)
	return ce.execute(), nil
}

// Resume continues a call suspended with ResultHost, given the results of the host function, or with
// ResultInterrupt, given no values. The shape of results is checked by the caller.
func (ce *CallEngine) Resume(results []uint64) (res Result, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = ce.recoverOnCall(v)
		}
	}()

	if len(ce.stack)+len(results) > cap(ce.stack) {
		panic(wasmruntime.ErrRuntimeStackExhausted)
	}
	ce.stack = append(ce.stack, results...)
	if len(ce.frames) == 0 {
		return ce.done(), nil
	}
	return ce.execute(), nil
}

// recoverOnCall takes the recovered value and wraps it with the frames of the call. The stacks are reset so that
// the CallEngine can be used for subsequent calls.
func (ce *CallEngine) recoverOnCall(v interface{}) error {
	builder := wasmdebug.NewErrorBuilder()
	for i := len(ce.frames) - 1; i >= 0; i-- {
		f := ce.frames[i].f
		name := wasmdebug.FuncName(ce.inst.Name, ce.inst.Source.FuncName(f.Idx), f.Idx)
		builder.AddFrame(name, f.Type.Params, f.Type.Results)
	}
	ce.stack, ce.frames = ce.stack[:0], ce.frames[:0]
	return builder.FromRecovered(v)
}

// enter pushes the frame of f, whose params are on the top of the stack.
func (ce *CallEngine) enter(f *wasm.FunctionInstance) {
	if len(ce.frames) >= ce.maxCallDepth {
		panic(wasmruntime.ErrRuntimeCallStackExhausted)
	}
	declared := f.NumLocals - len(f.Type.Params)
	if len(ce.stack)+declared+f.Code.MaxStackHeight > cap(ce.stack) {
		panic(wasmruntime.ErrRuntimeStackExhausted)
	}
	base := len(ce.stack) - len(f.Type.Params)
	for i := 0; i < declared; i++ {
		ce.stack = append(ce.stack, 0)
	}
	ce.frames = append(ce.frames, callFrame{f: f, base: base})
}

// ret removes the frame on the top, leaving its results in place of its locals. It returns true when the frame was
// the last one.
func (ce *CallEngine) ret() bool {
	last := len(ce.frames) - 1
	frame := &ce.frames[last]
	n := len(frame.f.Type.Results)
	copy(ce.stack[frame.base:], ce.stack[len(ce.stack)-n:])
	ce.stack = ce.stack[:frame.base+n]
	ce.frames = ce.frames[:last]
	return last == 0
}

// done returns the results left on the stack by the called function.
func (ce *CallEngine) done() Result {
	values := make([]uint64, len(ce.stack))
	copy(values, ce.stack)
	ce.stack = ce.stack[:0]
	return Result{Kind: ResultDone, Values: values}
}

// callHost moves the arguments of f off the stack and suspends the call.
func (ce *CallEngine) callHost(f *wasm.FunctionInstance) Result {
	n := len(f.Type.Params)
	args := make([]uint64, n)
	copy(args, ce.stack[len(ce.stack)-n:])
	ce.stack = ce.stack[:len(ce.stack)-n]
	return Result{Kind: ResultHost, Values: args, Host: f}
}

func (ce *CallEngine) interrupted() bool {
	return ce.interrupt != nil && ce.interrupt.Load() && ce.interrupt.Swap(false)
}

func (ce *CallEngine) push(v uint64) {
	ce.stack = append(ce.stack, v)
}

func (ce *CallEngine) pop() (v uint64) {
	// No need to check stack bound as validation guarantees the operands exist.
	v = ce.stack[len(ce.stack)-1]
	ce.stack = ce.stack[:len(ce.stack)-1]
	return
}

func (ce *CallEngine) popU32() uint32 { return uint32(ce.pop()) }

func (ce *CallEngine) popI32() int32 { return int32(ce.pop()) }

func (ce *CallEngine) popI64() int64 { return int64(ce.pop()) }

func (ce *CallEngine) popF32() float32 { return math.Float32frombits(uint32(ce.pop())) }

func (ce *CallEngine) popF64() float64 { return math.Float64frombits(ce.pop()) }

func (ce *CallEngine) pushU32(v uint32) { ce.push(uint64(v)) }

func (ce *CallEngine) pushI32(v int32) { ce.push(uint64(uint32(v))) }

func (ce *CallEngine) pushI64(v int64) { ce.push(uint64(v)) }

func (ce *CallEngine) pushF32(v float32) { ce.push(uint64(math.Float32bits(v))) }

func (ce *CallEngine) pushF64(v float64) { ce.push(math.Float64bits(v)) }

func (ce *CallEngine) pushBool(b bool) { ce.push(b2u(b)) }

// branch takes the side-table entry at stp for the branching instruction whose opcode ends at ip. It returns the
// next stp, and whether the branch goes backwards.
func (ce *CallEngine) branch(p *parser, st []sidetable.Entry, ip, stp int) (int, bool) {
	e := st[stp].View()
	_ = p.AdjustStart(ip + int(e.DeltaIP) - p.Offset())
	if e.PopCnt > 0 {
		top, keep, drop := len(ce.stack), int(e.ValCnt), int(e.PopCnt)
		copy(ce.stack[top-keep-drop:], ce.stack[top-keep:])
		ce.stack = ce.stack[:top-drop]
	}
	return stp + int(e.DeltaSTP), e.DeltaIP < 0
}

// memory returns the byteCount bytes addressed by the memory argument read from p and the base address popped from
// the stack.
func (ce *CallEngine) memory(p *parser, byteCount uint32) []byte {
	offset, _ := p.SkipMemArg()
	b, ok := ce.inst.Memory.Load(ce.popU32(), offset, byteCount)
	if !ok {
		panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
	}
	return b
}

// execute runs the frame on the top until the call completes or suspends.
func (ce *CallEngine) execute() Result {
	inst := ce.inst
	globals := inst.Globals

frames:
	for {
		frame := &ce.frames[len(ce.frames)-1]
		f := frame.f
		st := f.Code.SideTable
		locals := ce.stack[frame.base : frame.base+f.NumLocals]
		p := wasm.NewParser[mode.Use](f.Code.Body)
		_ = p.AdjustStart(frame.pc)
		stp := frame.stp

		for {
			op, _ := p.ReadByte()
			ip := p.Offset()
			switch op {
			case wasm.OpcodeUnreachable:
				panic(wasmruntime.ErrRuntimeUnreachable)
			case wasm.OpcodeNop:
			case wasm.OpcodeBlock, wasm.OpcodeLoop:
				_, _ = p.ReadBlockType()
			case wasm.OpcodeIf:
				_, _ = p.ReadBlockType()
				if ce.pop() != 0 {
					stp++
				} else {
					stp, _ = ce.branch(&p, st, ip, stp)
				}
			case wasm.OpcodeElse:
				stp, _ = ce.branch(&p, st, ip, stp)
			case wasm.OpcodeEnd:
				if p.IsEmpty() {
					if ce.ret() {
						return ce.done()
					}
					continue frames
				}
			case wasm.OpcodeBr:
				var backward bool
				if stp, backward = ce.branch(&p, st, ip, stp); backward && ce.interrupted() {
					frame.pc, frame.stp = p.Offset(), stp
					return Result{Kind: ResultInterrupt}
				}
			case wasm.OpcodeBrIf:
				if ce.pop() == 0 {
					_, _ = p.ReadU32()
					stp++
					break
				}
				var backward bool
				if stp, backward = ce.branch(&p, st, ip, stp); backward && ce.interrupted() {
					frame.pc, frame.stp = p.Offset(), stp
					return Result{Kind: ResultInterrupt}
				}
			case wasm.OpcodeBrTable:
				count, _ := p.ReadU32()
				i := ce.popU32()
				if i > count {
					i = count
				}
				var backward bool
				if stp, backward = ce.branch(&p, st, ip, stp+int(i)); backward && ce.interrupted() {
					frame.pc, frame.stp = p.Offset(), stp
					return Result{Kind: ResultInterrupt}
				}
			case wasm.OpcodeReturn:
				if ce.ret() {
					return ce.done()
				}
				continue frames
			case wasm.OpcodeCall, wasm.OpcodeCallIndirect:
				var callee *wasm.FunctionInstance
				idx, _ := p.ReadU32()
				if op == wasm.OpcodeCall {
					callee = &inst.Functions[idx]
				} else {
					_, _ = p.ReadU32() // table index
					var err error
					if callee, err = inst.Table.Lookup(ce.popU32()); err != nil {
						panic(err)
					}
					if callee.TypeID != inst.TypeIDs[idx] {
						panic(wasmruntime.ErrRuntimeIndirectCallTypeMismatch)
					}
				}
				frame.pc, frame.stp = p.Offset(), stp
				if callee.Host != nil {
					return ce.callHost(callee)
				}
				ce.enter(callee)
				continue frames
			case wasm.OpcodeDrop:
				ce.pop()
			case wasm.OpcodeSelect:
				c := ce.pop()
				v2 := ce.pop()
				if c == 0 {
					ce.stack[len(ce.stack)-1] = v2
				}
			case wasm.OpcodeLocalGet:
				idx, _ := p.ReadU32()
				ce.push(locals[idx])
			case wasm.OpcodeLocalSet:
				idx, _ := p.ReadU32()
				locals[idx] = ce.pop()
			case wasm.OpcodeLocalTee:
				idx, _ := p.ReadU32()
				locals[idx] = ce.stack[len(ce.stack)-1]
			case wasm.OpcodeGlobalGet:
				idx, _ := p.ReadU32()
				ce.push(globals[idx])
			case wasm.OpcodeGlobalSet:
				idx, _ := p.ReadU32()
				globals[idx] = ce.pop()
			case wasm.OpcodeI32Load, wasm.OpcodeF32Load:
				ce.pushU32(binary.LittleEndian.Uint32(ce.memory(&p, 4)))
			case wasm.OpcodeI64Load, wasm.OpcodeF64Load:
				ce.push(binary.LittleEndian.Uint64(ce.memory(&p, 8)))
			case wasm.OpcodeI32Load8S:
				ce.pushI32(int32(int8(ce.memory(&p, 1)[0])))
			case wasm.OpcodeI32Load8U:
				ce.pushU32(uint32(ce.memory(&p, 1)[0]))
			case wasm.OpcodeI32Load16S:
				ce.pushI32(int32(int16(binary.LittleEndian.Uint16(ce.memory(&p, 2)))))
			case wasm.OpcodeI32Load16U:
				ce.pushU32(uint32(binary.LittleEndian.Uint16(ce.memory(&p, 2))))
			case wasm.OpcodeI64Load8S:
				ce.pushI64(int64(int8(ce.memory(&p, 1)[0])))
			case wasm.OpcodeI64Load8U:
				ce.push(uint64(ce.memory(&p, 1)[0]))
			case wasm.OpcodeI64Load16S:
				ce.pushI64(int64(int16(binary.LittleEndian.Uint16(ce.memory(&p, 2)))))
			case wasm.OpcodeI64Load16U:
				ce.push(uint64(binary.LittleEndian.Uint16(ce.memory(&p, 2))))
			case wasm.OpcodeI64Load32S:
				ce.pushI64(int64(int32(binary.LittleEndian.Uint32(ce.memory(&p, 4)))))
			case wasm.OpcodeI64Load32U:
				ce.push(uint64(binary.LittleEndian.Uint32(ce.memory(&p, 4))))
			case wasm.OpcodeI32Store, wasm.OpcodeF32Store, wasm.OpcodeI64Store32:
				v := ce.popU32()
				binary.LittleEndian.PutUint32(ce.memory(&p, 4), v)
			case wasm.OpcodeI64Store, wasm.OpcodeF64Store:
				v := ce.pop()
				binary.LittleEndian.PutUint64(ce.memory(&p, 8), v)
			case wasm.OpcodeI32Store8, wasm.OpcodeI64Store8:
				v := byte(ce.pop())
				ce.memory(&p, 1)[0] = v
			case wasm.OpcodeI32Store16, wasm.OpcodeI64Store16:
				v := uint16(ce.pop())
				binary.LittleEndian.PutUint16(ce.memory(&p, 2), v)
			case wasm.OpcodeMemorySize:
				_, _ = p.ReadByte()
				ce.pushU32(inst.Memory.Pages)
			case wasm.OpcodeMemoryGrow:
				_, _ = p.ReadByte()
				if prev, ok := inst.Memory.Grow(ce.popU32()); ok {
					ce.pushU32(prev)
				} else {
					ce.pushI32(-1)
				}
			case wasm.OpcodeI32Const:
				v, _ := p.ReadI32()
				ce.pushI32(v)
			case wasm.OpcodeI64Const:
				v, _ := p.ReadI64()
				ce.pushI64(v)
			case wasm.OpcodeF32Const:
				v, _ := p.ReadF32Bits()
				ce.pushU32(v)
			case wasm.OpcodeF64Const:
				v, _ := p.ReadF64Bits()
				ce.push(v)
			case wasm.OpcodeMiscPrefix:
				ce.executeMisc(&p)
			default:
				ce.executeNumeric(op)
			}
		}
	}
}

// executeMisc executes an instruction of the 0xfc prefix.
func (ce *CallEngine) executeMisc(p *parser) {
	sub, _ := p.ReadU32()
	switch wasm.OpcodeMisc(sub) {
	case wasm.OpcodeMiscI32TruncSatF32S:
		ce.push(truncate(float64(ce.popF32()), signedInt32, true))
	case wasm.OpcodeMiscI32TruncSatF32U:
		ce.push(truncate(float64(ce.popF32()), signedUint32, true))
	case wasm.OpcodeMiscI32TruncSatF64S:
		ce.push(truncate(ce.popF64(), signedInt32, true))
	case wasm.OpcodeMiscI32TruncSatF64U:
		ce.push(truncate(ce.popF64(), signedUint32, true))
	case wasm.OpcodeMiscI64TruncSatF32S:
		ce.push(truncate(float64(ce.popF32()), signedInt64, true))
	case wasm.OpcodeMiscI64TruncSatF32U:
		ce.push(truncate(float64(ce.popF32()), signedUint64, true))
	case wasm.OpcodeMiscI64TruncSatF64S:
		ce.push(truncate(ce.popF64(), signedInt64, true))
	case wasm.OpcodeMiscI64TruncSatF64U:
		ce.push(truncate(ce.popF64(), signedUint64, true))
	case wasm.OpcodeMiscMemoryInit:
		idx, _ := p.ReadU32()
		_, _ = p.ReadByte()
		n, src, dst := uint64(ce.popU32()), uint64(ce.popU32()), uint64(ce.popU32())
		data := ce.inst.Data[idx]
		mem := ce.inst.Memory
		if src+n > uint64(len(data)) || dst+n > uint64(mem.Size()) {
			panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
		}
		copy(mem.Buffer[dst:dst+n], data[src:])
	case wasm.OpcodeMiscDataDrop:
		idx, _ := p.ReadU32()
		ce.inst.Data[idx] = nil
	case wasm.OpcodeMiscMemoryCopy:
		_, _ = p.ReadByte()
		_, _ = p.ReadByte()
		n, src, dst := uint64(ce.popU32()), uint64(ce.popU32()), uint64(ce.popU32())
		mem := ce.inst.Memory
		if size := uint64(mem.Size()); src+n > size || dst+n > size {
			panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
		}
		copy(mem.Buffer[dst:dst+n], mem.Buffer[src:src+n])
	case wasm.OpcodeMiscMemoryFill:
		_, _ = p.ReadByte()
		n, v, dst := uint64(ce.popU32()), byte(ce.pop()), uint64(ce.popU32())
		mem := ce.inst.Memory
		if dst+n > uint64(mem.Size()) {
			panic(wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
		}
		buf := mem.Buffer[dst : dst+n]
		for i := range buf {
			buf[i] = v
		}
	}
}

// executeNumeric executes an instruction without immediates and with no effect other than on the operand stack.
func (ce *CallEngine) executeNumeric(op wasm.Opcode) {
	switch op {
	case wasm.OpcodeI32Eqz:
		ce.pushBool(ce.popU32() == 0)
	case wasm.OpcodeI32Eq:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushBool(v1 == v2)
	case wasm.OpcodeI32Ne:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushBool(v1 != v2)
	case wasm.OpcodeI32LtS:
		v2, v1 := ce.popI32(), ce.popI32()
		ce.pushBool(v1 < v2)
	case wasm.OpcodeI32LtU:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushBool(v1 < v2)
	case wasm.OpcodeI32GtS:
		v2, v1 := ce.popI32(), ce.popI32()
		ce.pushBool(v1 > v2)
	case wasm.OpcodeI32GtU:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushBool(v1 > v2)
	case wasm.OpcodeI32LeS:
		v2, v1 := ce.popI32(), ce.popI32()
		ce.pushBool(v1 <= v2)
	case wasm.OpcodeI32LeU:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushBool(v1 <= v2)
	case wasm.OpcodeI32GeS:
		v2, v1 := ce.popI32(), ce.popI32()
		ce.pushBool(v1 >= v2)
	case wasm.OpcodeI32GeU:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushBool(v1 >= v2)
	case wasm.OpcodeI64Eqz:
		ce.pushBool(ce.pop() == 0)
	case wasm.OpcodeI64Eq:
		v2, v1 := ce.pop(), ce.pop()
		ce.pushBool(v1 == v2)
	case wasm.OpcodeI64Ne:
		v2, v1 := ce.pop(), ce.pop()
		ce.pushBool(v1 != v2)
	case wasm.OpcodeI64LtS:
		v2, v1 := ce.popI64(), ce.popI64()
		ce.pushBool(v1 < v2)
	case wasm.OpcodeI64LtU:
		v2, v1 := ce.pop(), ce.pop()
		ce.pushBool(v1 < v2)
	case wasm.OpcodeI64GtS:
		v2, v1 := ce.popI64(), ce.popI64()
		ce.pushBool(v1 > v2)
	case wasm.OpcodeI64GtU:
		v2, v1 := ce.pop(), ce.pop()
		ce.pushBool(v1 > v2)
	case wasm.OpcodeI64LeS:
		v2, v1 := ce.popI64(), ce.popI64()
		ce.pushBool(v1 <= v2)
	case wasm.OpcodeI64LeU:
		v2, v1 := ce.pop(), ce.pop()
		ce.pushBool(v1 <= v2)
	case wasm.OpcodeI64GeS:
		v2, v1 := ce.popI64(), ce.popI64()
		ce.pushBool(v1 >= v2)
	case wasm.OpcodeI64GeU:
		v2, v1 := ce.pop(), ce.pop()
		ce.pushBool(v1 >= v2)
	case wasm.OpcodeF32Eq:
		v2, v1 := ce.popF32(), ce.popF32()
		ce.pushBool(v1 == v2)
	case wasm.OpcodeF32Ne:
		v2, v1 := ce.popF32(), ce.popF32()
		ce.pushBool(v1 != v2)
	case wasm.OpcodeF32Lt:
		v2, v1 := ce.popF32(), ce.popF32()
		ce.pushBool(v1 < v2)
	case wasm.OpcodeF32Gt:
		v2, v1 := ce.popF32(), ce.popF32()
		ce.pushBool(v1 > v2)
	case wasm.OpcodeF32Le:
		v2, v1 := ce.popF32(), ce.popF32()
		ce.pushBool(v1 <= v2)
	case wasm.OpcodeF32Ge:
		v2, v1 := ce.popF32(), ce.popF32()
		ce.pushBool(v1 >= v2)
	case wasm.OpcodeF64Eq:
		v2, v1 := ce.popF64(), ce.popF64()
		ce.pushBool(v1 == v2)
	case wasm.OpcodeF64Ne:
		v2, v1 := ce.popF64(), ce.popF64()
		ce.pushBool(v1 != v2)
	case wasm.OpcodeF64Lt:
		v2, v1 := ce.popF64(), ce.popF64()
		ce.pushBool(v1 < v2)
	case wasm.OpcodeF64Gt:
		v2, v1 := ce.popF64(), ce.popF64()
		ce.pushBool(v1 > v2)
	case wasm.OpcodeF64Le:
		v2, v1 := ce.popF64(), ce.popF64()
		ce.pushBool(v1 <= v2)
	case wasm.OpcodeF64Ge:
		v2, v1 := ce.popF64(), ce.popF64()
		ce.pushBool(v1 >= v2)

	case wasm.OpcodeI32Clz:
		ce.pushU32(uint32(bits.LeadingZeros32(ce.popU32())))
	case wasm.OpcodeI32Ctz:
		ce.pushU32(uint32(bits.TrailingZeros32(ce.popU32())))
	case wasm.OpcodeI32Popcnt:
		ce.pushU32(uint32(bits.OnesCount32(ce.popU32())))
	case wasm.OpcodeI32Add:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushU32(v1 + v2)
	case wasm.OpcodeI32Sub:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushU32(v1 - v2)
	case wasm.OpcodeI32Mul:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushU32(v1 * v2)
	case wasm.OpcodeI32DivS:
		v2, v1 := ce.popI32(), ce.popI32()
		ce.pushI32(i32DivS(v1, v2))
	case wasm.OpcodeI32DivU:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushU32(i32DivU(v1, v2))
	case wasm.OpcodeI32RemS:
		v2, v1 := ce.popI32(), ce.popI32()
		ce.pushI32(i32RemS(v1, v2))
	case wasm.OpcodeI32RemU:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushU32(i32RemU(v1, v2))
	case wasm.OpcodeI32And:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushU32(v1 & v2)
	case wasm.OpcodeI32Or:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushU32(v1 | v2)
	case wasm.OpcodeI32Xor:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushU32(v1 ^ v2)
	case wasm.OpcodeI32Shl:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushU32(v1 << (v2 % 32))
	case wasm.OpcodeI32ShrS:
		v2, v1 := ce.popU32(), ce.popI32()
		ce.pushI32(v1 >> (v2 % 32))
	case wasm.OpcodeI32ShrU:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushU32(v1 >> (v2 % 32))
	case wasm.OpcodeI32Rotl:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushU32(bits.RotateLeft32(v1, int(v2%32)))
	case wasm.OpcodeI32Rotr:
		v2, v1 := ce.popU32(), ce.popU32()
		ce.pushU32(bits.RotateLeft32(v1, -int(v2%32)))

	case wasm.OpcodeI64Clz:
		ce.push(uint64(bits.LeadingZeros64(ce.pop())))
	case wasm.OpcodeI64Ctz:
		ce.push(uint64(bits.TrailingZeros64(ce.pop())))
	case wasm.OpcodeI64Popcnt:
		ce.push(uint64(bits.OnesCount64(ce.pop())))
	case wasm.OpcodeI64Add:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(v1 + v2)
	case wasm.OpcodeI64Sub:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(v1 - v2)
	case wasm.OpcodeI64Mul:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(v1 * v2)
	case wasm.OpcodeI64DivS:
		v2, v1 := ce.popI64(), ce.popI64()
		ce.pushI64(i64DivS(v1, v2))
	case wasm.OpcodeI64DivU:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(i64DivU(v1, v2))
	case wasm.OpcodeI64RemS:
		v2, v1 := ce.popI64(), ce.popI64()
		ce.pushI64(i64RemS(v1, v2))
	case wasm.OpcodeI64RemU:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(i64RemU(v1, v2))
	case wasm.OpcodeI64And:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(v1 & v2)
	case wasm.OpcodeI64Or:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(v1 | v2)
	case wasm.OpcodeI64Xor:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(v1 ^ v2)
	case wasm.OpcodeI64Shl:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(v1 << (v2 % 64))
	case wasm.OpcodeI64ShrS:
		v2, v1 := ce.pop(), ce.popI64()
		ce.pushI64(v1 >> (v2 % 64))
	case wasm.OpcodeI64ShrU:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(v1 >> (v2 % 64))
	case wasm.OpcodeI64Rotl:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(bits.RotateLeft64(v1, int(v2%64)))
	case wasm.OpcodeI64Rotr:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(bits.RotateLeft64(v1, -int(v2%64)))

	case wasm.OpcodeF32Abs:
		ce.push(ce.pop() &^ f32SignBit)
	case wasm.OpcodeF32Neg:
		ce.push(ce.pop() ^ f32SignBit)
	case wasm.OpcodeF32Ceil:
		ce.pushF32(float32(math.Ceil(float64(ce.popF32()))))
	case wasm.OpcodeF32Floor:
		ce.pushF32(float32(math.Floor(float64(ce.popF32()))))
	case wasm.OpcodeF32Trunc:
		ce.pushF32(float32(math.Trunc(float64(ce.popF32()))))
	case wasm.OpcodeF32Nearest:
		ce.pushF32(moremath.WasmCompatNearestF32(ce.popF32()))
	case wasm.OpcodeF32Sqrt:
		ce.pushF32(float32(math.Sqrt(float64(ce.popF32()))))
	case wasm.OpcodeF32Add:
		v2, v1 := ce.popF32(), ce.popF32()
		ce.pushF32(v1 + v2)
	case wasm.OpcodeF32Sub:
		v2, v1 := ce.popF32(), ce.popF32()
		ce.pushF32(v1 - v2)
	case wasm.OpcodeF32Mul:
		v2, v1 := ce.popF32(), ce.popF32()
		ce.pushF32(v1 * v2)
	case wasm.OpcodeF32Div:
		v2, v1 := ce.popF32(), ce.popF32()
		ce.pushF32(v1 / v2)
	case wasm.OpcodeF32Min:
		v2, v1 := ce.popF32(), ce.popF32()
		ce.pushF32(moremath.WasmCompatMinF32(v1, v2))
	case wasm.OpcodeF32Max:
		v2, v1 := ce.popF32(), ce.popF32()
		ce.pushF32(moremath.WasmCompatMaxF32(v1, v2))
	case wasm.OpcodeF32Copysign:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(v1&^f32SignBit | v2&f32SignBit)

	case wasm.OpcodeF64Abs:
		ce.push(ce.pop() &^ f64SignBit)
	case wasm.OpcodeF64Neg:
		ce.push(ce.pop() ^ f64SignBit)
	case wasm.OpcodeF64Ceil:
		ce.pushF64(math.Ceil(ce.popF64()))
	case wasm.OpcodeF64Floor:
		ce.pushF64(math.Floor(ce.popF64()))
	case wasm.OpcodeF64Trunc:
		ce.pushF64(math.Trunc(ce.popF64()))
	case wasm.OpcodeF64Nearest:
		ce.pushF64(moremath.WasmCompatNearestF64(ce.popF64()))
	case wasm.OpcodeF64Sqrt:
		ce.pushF64(math.Sqrt(ce.popF64()))
	case wasm.OpcodeF64Add:
		v2, v1 := ce.popF64(), ce.popF64()
		ce.pushF64(v1 + v2)
	case wasm.OpcodeF64Sub:
		v2, v1 := ce.popF64(), ce.popF64()
		ce.pushF64(v1 - v2)
	case wasm.OpcodeF64Mul:
		v2, v1 := ce.popF64(), ce.popF64()
		ce.pushF64(v1 * v2)
	case wasm.OpcodeF64Div:
		v2, v1 := ce.popF64(), ce.popF64()
		ce.pushF64(v1 / v2)
	case wasm.OpcodeF64Min:
		v2, v1 := ce.popF64(), ce.popF64()
		ce.pushF64(moremath.WasmCompatMin(v1, v2))
	case wasm.OpcodeF64Max:
		v2, v1 := ce.popF64(), ce.popF64()
		ce.pushF64(moremath.WasmCompatMax(v1, v2))
	case wasm.OpcodeF64Copysign:
		v2, v1 := ce.pop(), ce.pop()
		ce.push(v1&^f64SignBit | v2&f64SignBit)

	case wasm.OpcodeI32WrapI64:
		ce.pushU32(ce.popU32())
	case wasm.OpcodeI32TruncF32S:
		ce.push(truncate(float64(ce.popF32()), signedInt32, false))
	case wasm.OpcodeI32TruncF32U:
		ce.push(truncate(float64(ce.popF32()), signedUint32, false))
	case wasm.OpcodeI32TruncF64S:
		ce.push(truncate(ce.popF64(), signedInt32, false))
	case wasm.OpcodeI32TruncF64U:
		ce.push(truncate(ce.popF64(), signedUint32, false))
	case wasm.OpcodeI64ExtendI32S:
		ce.pushI64(int64(ce.popI32()))
	case wasm.OpcodeI64ExtendI32U:
		ce.push(uint64(ce.popU32()))
	case wasm.OpcodeI64TruncF32S:
		ce.push(truncate(float64(ce.popF32()), signedInt64, false))
	case wasm.OpcodeI64TruncF32U:
		ce.push(truncate(float64(ce.popF32()), signedUint64, false))
	case wasm.OpcodeI64TruncF64S:
		ce.push(truncate(ce.popF64(), signedInt64, false))
	case wasm.OpcodeI64TruncF64U:
		ce.push(truncate(ce.popF64(), signedUint64, false))
	case wasm.OpcodeF32ConvertI32S:
		ce.pushF32(float32(ce.popI32()))
	case wasm.OpcodeF32ConvertI32U:
		ce.pushF32(float32(ce.popU32()))
	case wasm.OpcodeF32ConvertI64S:
		ce.pushF32(float32(ce.popI64()))
	case wasm.OpcodeF32ConvertI64U:
		ce.pushF32(float32(ce.pop()))
	case wasm.OpcodeF32DemoteF64:
		ce.pushF32(float32(ce.popF64()))
	case wasm.OpcodeF64ConvertI32S:
		ce.pushF64(float64(ce.popI32()))
	case wasm.OpcodeF64ConvertI32U:
		ce.pushF64(float64(ce.popU32()))
	case wasm.OpcodeF64ConvertI64S:
		ce.pushF64(float64(ce.popI64()))
	case wasm.OpcodeF64ConvertI64U:
		ce.pushF64(float64(ce.pop()))
	case wasm.OpcodeF64PromoteF32:
		ce.pushF64(float64(ce.popF32()))
	case wasm.OpcodeI32ReinterpretF32, wasm.OpcodeI64ReinterpretF64,
		wasm.OpcodeF32ReinterpretI32, wasm.OpcodeF64ReinterpretI64:
		// Values are kept as their bits.
	case wasm.OpcodeI32Extend8S:
		ce.pushI32(int32(int8(ce.pop())))
	case wasm.OpcodeI32Extend16S:
		ce.pushI32(int32(int16(ce.pop())))
	case wasm.OpcodeI64Extend8S:
		ce.pushI64(int64(int8(ce.pop())))
	case wasm.OpcodeI64Extend16S:
		ce.pushI64(int64(int16(ce.pop())))
	case wasm.OpcodeI64Extend32S:
		ce.pushI64(int64(int32(ce.pop())))
	default:
		panic(fmt.Errorf("BUG: unexpected opcode %#x", op))
	}
}
