package wasm

import (
	"fmt"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/mode"
	"github.com/embedwasm/interp/internal/sidetable"
)

// valueTypeUnknown is popped from the polymorphic stack of unreachable code.
const valueTypeUnknown ValueType = 0

// MaximumLocals is the limit of params and locals in one function.
const MaximumLocals = 1 << 16

// controlFrame is a structured instruction being validated, or the function body itself when op is 0.
type controlFrame struct {
	op              Opcode
	params, results []ValueType
	// height is the operand stack height below params.
	height      int
	unreachable bool
	// start is the target of a branch to a loop.
	start sidetable.Target
	// pending are the forward branches resolved at end.
	pending []pendingBranch
	// ifEntry is the entry of an if taken on false, or -1.
	ifEntry int
}

type pendingBranch struct {
	entry  int
	source sidetable.Branch
}

// labelTypes are the operand types a branch to f transfers.
func (f *controlFrame) labelTypes() []ValueType {
	if f.op == OpcodeLoop {
		return f.params
	}
	return f.results
}

// funcValidator validates one function body and builds its side table in the same pass.
type funcValidator struct {
	m         *Module
	p         Parser[mode.Check]
	funcCount uint32
	locals    []ValueType
	stack     []ValueType
	ctrls     []controlFrame
	table     []sidetable.Entry
	maxHeight int
	// opEnd is the offset right after the opcode being validated.
	opEnd int
}

// validateFunction validates the body of the function at funcIdx, filling code.SideTable and code.MaxStackHeight.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#valid-algorithm%E2%91%A0
func (m *Module) validateFunction(funcIdx Index, ft *FunctionType, code *Code, funcCount uint32) error {
	if len(ft.Params)+len(code.LocalTypes) > MaximumLocals {
		return unsupported(mode.ReasonLimit)
	}
	v := &funcValidator{
		m:         m,
		p:         NewParser[mode.Check](code.Body),
		funcCount: funcCount,
		locals:    append(append(make([]ValueType, 0, len(ft.Params)+len(code.LocalTypes)), ft.Params...), code.LocalTypes...),
	}
	v.ctrls = append(v.ctrls, controlFrame{results: ft.Results, ifEntry: -1})
	if err := v.validate(ft); err != nil {
		return fmt.Errorf("function[%d] at offset %#x: %w", funcIdx, code.BodyOffset+uint64(v.opEnd), err)
	}
	code.SideTable = v.table
	code.MaxStackHeight = v.maxHeight
	return nil
}

func (v *funcValidator) validate(ft *FunctionType) error {
	for len(v.ctrls) > 0 {
		if v.p.IsEmpty() {
			return invalidf("function body must end with end")
		}
		op, _ := v.p.ReadByte()
		v.opEnd = v.p.Offset()
		if err := v.validateInstruction(op); err != nil {
			if name := InstructionName(op); name != "" {
				return fmt.Errorf("%s: %w", name, err)
			}
			return err
		}
	}
	if !v.p.IsEmpty() {
		return invalidf("instructions after the end of the function body")
	}
	return nil
}

func (v *funcValidator) push(t ValueType) {
	v.stack = append(v.stack, t)
	if len(v.stack) > v.maxHeight {
		v.maxHeight = len(v.stack)
	}
}

func (v *funcValidator) pushAll(types []ValueType) {
	for _, t := range types {
		v.push(t)
	}
}

func (v *funcValidator) pop() (ValueType, error) {
	f := &v.ctrls[len(v.ctrls)-1]
	if len(v.stack) == f.height {
		if f.unreachable {
			return valueTypeUnknown, nil
		}
		return 0, invalidf("cannot pop an operand from an empty stack")
	}
	t := v.stack[len(v.stack)-1]
	v.stack = v.stack[:len(v.stack)-1]
	return t, nil
}

func (v *funcValidator) popExpect(expected ValueType) (ValueType, error) {
	actual, err := v.pop()
	if err != nil {
		return 0, err
	}
	if actual != expected && actual != valueTypeUnknown && expected != valueTypeUnknown {
		return 0, invalidf("type mismatch: expected %s, but was %s", api.ValueTypeName(expected), api.ValueTypeName(actual))
	}
	return actual, nil
}

func (v *funcValidator) popAll(types []ValueType) error {
	for i := len(types) - 1; i >= 0; i-- {
		if _, err := v.popExpect(types[i]); err != nil {
			return err
		}
	}
	return nil
}

func (v *funcValidator) pushControl(op Opcode, params, results []ValueType) {
	f := controlFrame{op: op, params: params, results: results, height: len(v.stack), ifEntry: -1}
	v.ctrls = append(v.ctrls, f)
	v.pushAll(params)
}

// popControl checks the results of the innermost frame and removes it.
func (v *funcValidator) popControl() (controlFrame, error) {
	f := &v.ctrls[len(v.ctrls)-1]
	if err := v.popAll(f.results); err != nil {
		return controlFrame{}, err
	}
	if len(v.stack) != f.height {
		return controlFrame{}, invalidf("values remaining on the stack at end of block")
	}
	ret := *f
	v.ctrls = v.ctrls[:len(v.ctrls)-1]
	return ret, nil
}

func (v *funcValidator) setUnreachable() {
	f := &v.ctrls[len(v.ctrls)-1]
	v.stack = v.stack[:f.height]
	f.unreachable = true
}

// reserveEntry appends a placeholder to the side table and returns its position.
func (v *funcValidator) reserveEntry() int {
	v.table = append(v.table, 0)
	return len(v.table) - 1
}

func (v *funcValidator) here() sidetable.Target {
	return sidetable.Target{IP: v.p.Offset(), STP: len(v.table)}
}

// branch records a branch to the label at depth, at the entry reserved at stp. The operands of the label must have
// been popped already.
func (v *funcValidator) branch(depth uint32, stp int) error {
	f := &v.ctrls[len(v.ctrls)-1-int(depth)]
	source := sidetable.Branch{IP: v.opEnd, STP: stp, Height: len(v.stack) + len(f.labelTypes())}
	if f.op == OpcodeLoop {
		target := f.start
		target.Height = f.height
		target.ValCnt = len(f.params)
		return v.setEntry(stp, source, target)
	}
	f.pending = append(f.pending, pendingBranch{entry: stp, source: source})
	return nil
}

func (v *funcValidator) setEntry(stp int, source sidetable.Branch, target sidetable.Target) error {
	e, err := sidetable.Resolve(source, target)
	if err != nil {
		return err
	}
	v.table[stp] = e
	return nil
}

func (v *funcValidator) label(depth uint32) (*controlFrame, error) {
	if depth >= uint32(len(v.ctrls)) {
		return nil, invalidf("invalid label %d", depth)
	}
	return &v.ctrls[len(v.ctrls)-1-int(depth)], nil
}

func (v *funcValidator) readBlockType() (params, results []ValueType, err error) {
	bt, err := v.p.ReadBlockType()
	if err != nil {
		return nil, nil, err
	}
	params, results, ok := bt.Resolve(v.m.TypeSection)
	if !ok {
		return nil, nil, invalidf("block type index %d out of range", bt.Index)
	}
	return params, results, nil
}

func (v *funcValidator) requireMemory() error {
	if v.m.Memory() == nil {
		return invalidf("memory instruction without a memory")
	}
	return nil
}

func (v *funcValidator) requireZeroByte() error {
	b, err := v.p.ReadByte()
	if err != nil {
		return err
	}
	if b != 0 {
		return invalidf("reserved byte must be zero")
	}
	return nil
}

func (v *funcValidator) validateInstruction(op Opcode) error {
	switch op {
	case OpcodeUnreachable:
		v.setUnreachable()
	case OpcodeNop:
	case OpcodeBlock, OpcodeLoop:
		params, results, err := v.readBlockType()
		if err != nil {
			return err
		}
		if err = v.popAll(params); err != nil {
			return err
		}
		v.pushControl(op, params, results)
		if op == OpcodeLoop {
			v.ctrls[len(v.ctrls)-1].start = v.here()
		}
	case OpcodeIf:
		stp := v.reserveEntry()
		params, results, err := v.readBlockType()
		if err != nil {
			return err
		}
		if _, err = v.popExpect(api.ValueTypeI32); err != nil {
			return err
		}
		if err = v.popAll(params); err != nil {
			return err
		}
		v.pushControl(op, params, results)
		f := &v.ctrls[len(v.ctrls)-1]
		f.ifEntry = stp
		f.start = sidetable.Target{IP: v.opEnd, STP: stp} // source of the false branch
	case OpcodeElse:
		f := &v.ctrls[len(v.ctrls)-1]
		if f.op != OpcodeIf {
			return invalidf("else without if")
		}
		stp := v.reserveEntry()
		height := len(v.stack)
		closed, err := v.popControl()
		if err != nil {
			return err
		}
		closed.pending = append(closed.pending, pendingBranch{
			entry:  stp,
			source: sidetable.Branch{IP: v.opEnd, STP: stp, Height: height},
		})
		// The false branch of if continues right after else.
		ifSource := sidetable.Branch{IP: closed.start.IP, STP: closed.start.STP, Height: closed.height + len(closed.params)}
		target := v.here()
		target.Height, target.ValCnt = closed.height, len(closed.params)
		if err = v.setEntry(closed.ifEntry, ifSource, target); err != nil {
			return err
		}
		v.ctrls = append(v.ctrls, controlFrame{
			op:      OpcodeElse,
			params:  closed.params,
			results: closed.results,
			height:  closed.height,
			pending: closed.pending,
			ifEntry: -1,
		})
		v.pushAll(closed.params)
	case OpcodeEnd:
		closed, err := v.popControl()
		if err != nil {
			return err
		}
		target := v.here()
		if closed.op == 0 {
			// Branches to the function label land on its end, which returns.
			target.IP = v.opEnd - 1
		}
		target.Height, target.ValCnt = closed.height, len(closed.results)
		if closed.op == OpcodeIf {
			if !sameTypes(closed.params, closed.results) {
				return invalidf("if without else must not change the stack type")
			}
			ifSource := sidetable.Branch{IP: closed.start.IP, STP: closed.start.STP, Height: closed.height + len(closed.params)}
			if err = v.setEntry(closed.ifEntry, ifSource, target); err != nil {
				return err
			}
		}
		for _, b := range closed.pending {
			if err = v.setEntry(b.entry, b.source, target); err != nil {
				return err
			}
		}
		v.pushAll(closed.results)
	case OpcodeBr:
		depth, err := v.p.ReadU32()
		if err != nil {
			return err
		}
		f, err := v.label(depth)
		if err != nil {
			return err
		}
		if err = v.popAll(f.labelTypes()); err != nil {
			return err
		}
		if err = v.branch(depth, v.reserveEntry()); err != nil {
			return err
		}
		v.setUnreachable()
	case OpcodeBrIf:
		depth, err := v.p.ReadU32()
		if err != nil {
			return err
		}
		f, err := v.label(depth)
		if err != nil {
			return err
		}
		if _, err = v.popExpect(api.ValueTypeI32); err != nil {
			return err
		}
		types := f.labelTypes()
		if err = v.popAll(types); err != nil {
			return err
		}
		if err = v.branch(depth, v.reserveEntry()); err != nil {
			return err
		}
		v.pushAll(types)
	case OpcodeBrTable:
		return v.validateBrTable()
	case OpcodeReturn:
		if err := v.popAll(v.ctrls[0].results); err != nil {
			return err
		}
		v.setUnreachable()
	case OpcodeCall:
		idx, err := v.p.ReadU32()
		if err != nil {
			return err
		}
		if idx >= v.funcCount {
			return invalidf("function index %d out of range", idx)
		}
		ft := v.m.TypeOfFunction(idx)
		if err = v.popAll(ft.Params); err != nil {
			return err
		}
		v.pushAll(ft.Results)
	case OpcodeCallIndirect:
		typeIdx, err := v.p.ReadU32()
		if err != nil {
			return err
		}
		tableIdx, err := v.p.ReadU32()
		if err != nil {
			return err
		}
		if tableIdx != 0 || len(v.m.TableSection) == 0 {
			return invalidf("table index %d out of range", tableIdx)
		}
		if typeIdx >= uint32(len(v.m.TypeSection)) {
			return invalidf("type index %d out of range", typeIdx)
		}
		if _, err = v.popExpect(api.ValueTypeI32); err != nil {
			return err
		}
		ft := &v.m.TypeSection[typeIdx]
		if err = v.popAll(ft.Params); err != nil {
			return err
		}
		v.pushAll(ft.Results)
	case OpcodeDrop:
		if _, err := v.pop(); err != nil {
			return err
		}
	case OpcodeSelect:
		if _, err := v.popExpect(api.ValueTypeI32); err != nil {
			return err
		}
		t1, err := v.pop()
		if err != nil {
			return err
		}
		t2, err := v.popExpect(t1)
		if err != nil {
			return err
		}
		if t1 == valueTypeUnknown {
			t1 = t2
		}
		v.push(t1)
	case OpcodeLocalGet, OpcodeLocalSet, OpcodeLocalTee:
		idx, err := v.p.ReadU32()
		if err != nil {
			return err
		}
		if idx >= uint32(len(v.locals)) {
			return invalidf("local index %d out of range", idx)
		}
		t := v.locals[idx]
		switch op {
		case OpcodeLocalGet:
			v.push(t)
		case OpcodeLocalSet:
			_, err = v.popExpect(t)
		case OpcodeLocalTee:
			if _, err = v.popExpect(t); err == nil {
				v.push(t)
			}
		}
		return err
	case OpcodeGlobalGet, OpcodeGlobalSet:
		idx, err := v.p.ReadU32()
		if err != nil {
			return err
		}
		if idx >= uint32(len(v.m.GlobalSection)) {
			return invalidf("global index %d out of range", idx)
		}
		g := &v.m.GlobalSection[idx].Type
		if op == OpcodeGlobalGet {
			v.push(g.ValType)
			return nil
		}
		if !g.Mutable {
			return invalidf("global %d is immutable", idx)
		}
		_, err = v.popExpect(g.ValType)
		return err
	case OpcodeI32Load, OpcodeI64Load, OpcodeF32Load, OpcodeF64Load,
		OpcodeI32Load8S, OpcodeI32Load8U, OpcodeI32Load16S, OpcodeI32Load16U,
		OpcodeI64Load8S, OpcodeI64Load8U, OpcodeI64Load16S, OpcodeI64Load16U, OpcodeI64Load32S, OpcodeI64Load32U:
		if err := v.validateMemArg(op); err != nil {
			return err
		}
		if _, err := v.popExpect(api.ValueTypeI32); err != nil {
			return err
		}
		v.push(memoryOperandType(op))
	case OpcodeI32Store, OpcodeI64Store, OpcodeF32Store, OpcodeF64Store,
		OpcodeI32Store8, OpcodeI32Store16, OpcodeI64Store8, OpcodeI64Store16, OpcodeI64Store32:
		if err := v.validateMemArg(op); err != nil {
			return err
		}
		if _, err := v.popExpect(memoryOperandType(op)); err != nil {
			return err
		}
		if _, err := v.popExpect(api.ValueTypeI32); err != nil {
			return err
		}
	case OpcodeMemorySize, OpcodeMemoryGrow:
		if err := v.requireMemory(); err != nil {
			return err
		}
		if err := v.requireZeroByte(); err != nil {
			return err
		}
		if op == OpcodeMemoryGrow {
			if _, err := v.popExpect(api.ValueTypeI32); err != nil {
				return err
			}
		}
		v.push(api.ValueTypeI32)
	case OpcodeI32Const:
		if _, err := v.p.ReadI32(); err != nil {
			return err
		}
		v.push(api.ValueTypeI32)
	case OpcodeI64Const:
		if _, err := v.p.ReadI64(); err != nil {
			return err
		}
		v.push(api.ValueTypeI64)
	case OpcodeF32Const:
		if _, err := v.p.ReadF32Bits(); err != nil {
			return err
		}
		v.push(api.ValueTypeF32)
	case OpcodeF64Const:
		if _, err := v.p.ReadF64Bits(); err != nil {
			return err
		}
		v.push(api.ValueTypeF64)
	case OpcodeMiscPrefix:
		return v.validateMisc()
	case OpcodeTry, OpcodeCatch, OpcodeThrow, OpcodeRethrow, OpcodeDelegate, OpcodeCatchAll,
		OpcodeReturnCall, OpcodeReturnCallIndirect, OpcodeTypedSelect, OpcodeTableGet, OpcodeTableSet,
		OpcodeRefNull, OpcodeRefIsNull, OpcodeRefFunc, OpcodeVecPrefix, OpcodeAtomicPrefix:
		return unsupported(mode.ReasonOpcode)
	default:
		sig := numericSignatures[op]
		if sig == nil {
			return invalidf("invalid opcode %#x", op)
		}
		if err := v.popAll(sig.in); err != nil {
			return err
		}
		v.push(sig.out)
	}
	return nil
}

func (v *funcValidator) validateBrTable() error {
	count, err := v.p.ReadU32()
	if err != nil {
		return err
	}
	if int(count) > v.p.Len() {
		return invalidf("too many labels in br_table")
	}
	depths := make([]uint32, count+1)
	for i := range depths {
		if depths[i], err = v.p.ReadU32(); err != nil {
			return err
		}
	}
	if _, err = v.popExpect(api.ValueTypeI32); err != nil {
		return err
	}
	def, err := v.label(depths[count])
	if err != nil {
		return err
	}
	arity := len(def.labelTypes())
	for _, depth := range depths[:count] {
		f, err := v.label(depth)
		if err != nil {
			return err
		}
		types := f.labelTypes()
		if len(types) != arity {
			return invalidf("br_table labels must have the same arity")
		}
		// Each label must accept the operands without consuming them.
		popped := make([]ValueType, len(types))
		for i := len(types) - 1; i >= 0; i-- {
			if popped[i], err = v.popExpect(types[i]); err != nil {
				return err
			}
		}
		v.pushAll(popped)
	}
	if err = v.popAll(def.labelTypes()); err != nil {
		return err
	}
	for _, depth := range depths {
		if err = v.branch(depth, v.reserveEntry()); err != nil {
			return err
		}
	}
	v.setUnreachable()
	return nil
}

func (v *funcValidator) validateMemArg(op Opcode) error {
	if err := v.requireMemory(); err != nil {
		return err
	}
	align, _, err := v.p.ReadMemArg()
	if err != nil {
		return err
	}
	if align > memoryAlignment(op) {
		return invalidf("alignment must not be larger than natural")
	}
	return nil
}

func (v *funcValidator) validateMisc() error {
	sub, err := v.p.ReadU32()
	if err != nil {
		return err
	}
	if sub > 0xff {
		return invalidf("invalid misc opcode %#x", sub)
	}
	i32 := api.ValueTypeI32
	switch OpcodeMisc(sub) {
	case OpcodeMiscI32TruncSatF32S, OpcodeMiscI32TruncSatF32U:
		return v.unary(api.ValueTypeF32, i32)
	case OpcodeMiscI32TruncSatF64S, OpcodeMiscI32TruncSatF64U:
		return v.unary(api.ValueTypeF64, i32)
	case OpcodeMiscI64TruncSatF32S, OpcodeMiscI64TruncSatF32U:
		return v.unary(api.ValueTypeF32, api.ValueTypeI64)
	case OpcodeMiscI64TruncSatF64S, OpcodeMiscI64TruncSatF64U:
		return v.unary(api.ValueTypeF64, api.ValueTypeI64)
	case OpcodeMiscMemoryInit, OpcodeMiscDataDrop:
		idx, err := v.p.ReadU32()
		if err != nil {
			return err
		}
		if v.m.DataCountSection == nil {
			return invalidf("%s requires a data count section", MiscInstructionName(OpcodeMisc(sub)))
		}
		if idx >= *v.m.DataCountSection {
			return invalidf("data index %d out of range", idx)
		}
		if OpcodeMisc(sub) == OpcodeMiscDataDrop {
			return nil
		}
		if err = v.requireMemory(); err != nil {
			return err
		}
		if err = v.requireZeroByte(); err != nil {
			return err
		}
		return v.popAll([]ValueType{i32, i32, i32})
	case OpcodeMiscMemoryCopy, OpcodeMiscMemoryFill:
		if err = v.requireMemory(); err != nil {
			return err
		}
		if err = v.requireZeroByte(); err != nil {
			return err
		}
		if OpcodeMisc(sub) == OpcodeMiscMemoryCopy {
			if err = v.requireZeroByte(); err != nil {
				return err
			}
		}
		return v.popAll([]ValueType{i32, i32, i32})
	case OpcodeMiscTableInit, OpcodeMiscElemDrop, OpcodeMiscTableCopy,
		OpcodeMiscTableGrow, OpcodeMiscTableSize, OpcodeMiscTableFill:
		return unsupported(mode.ReasonOpcode)
	}
	return invalidf("invalid misc opcode %#x", sub)
}

func (v *funcValidator) unary(in, out ValueType) error {
	if _, err := v.popExpect(in); err != nil {
		return err
	}
	v.push(out)
	return nil
}

// memoryOperandType returns the type loaded or stored by op.
func memoryOperandType(op Opcode) ValueType {
	switch op {
	case OpcodeI32Load, OpcodeI32Load8S, OpcodeI32Load8U, OpcodeI32Load16S, OpcodeI32Load16U,
		OpcodeI32Store, OpcodeI32Store8, OpcodeI32Store16:
		return api.ValueTypeI32
	case OpcodeF32Load, OpcodeF32Store:
		return api.ValueTypeF32
	case OpcodeF64Load, OpcodeF64Store:
		return api.ValueTypeF64
	}
	return api.ValueTypeI64
}

// memoryAlignment returns the natural alignment exponent of op.
func memoryAlignment(op Opcode) uint32 {
	switch op {
	case OpcodeI32Load8S, OpcodeI32Load8U, OpcodeI64Load8S, OpcodeI64Load8U, OpcodeI32Store8, OpcodeI64Store8:
		return 0
	case OpcodeI32Load16S, OpcodeI32Load16U, OpcodeI64Load16S, OpcodeI64Load16U, OpcodeI32Store16, OpcodeI64Store16:
		return 1
	case OpcodeI32Load, OpcodeF32Load, OpcodeI64Load32S, OpcodeI64Load32U, OpcodeI32Store, OpcodeF32Store, OpcodeI64Store32:
		return 2
	}
	return 3
}

type signature struct {
	in  []ValueType
	out ValueType
}

// numericSignatures are the operand and result types of the numeric instructions, indexed by opcode.
var numericSignatures = func() (ret [256]*signature) {
	i32, i64, f32, f64 := api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64
	set := func(from, to Opcode, in []ValueType, out ValueType) {
		s := &signature{in: in, out: out}
		for op := int(from); op <= int(to); op++ {
			ret[op] = s
		}
	}
	set(OpcodeI32Eqz, OpcodeI32Eqz, []ValueType{i32}, i32)
	set(OpcodeI32Eq, OpcodeI32GeU, []ValueType{i32, i32}, i32)
	set(OpcodeI64Eqz, OpcodeI64Eqz, []ValueType{i64}, i32)
	set(OpcodeI64Eq, OpcodeI64GeU, []ValueType{i64, i64}, i32)
	set(OpcodeF32Eq, OpcodeF32Ge, []ValueType{f32, f32}, i32)
	set(OpcodeF64Eq, OpcodeF64Ge, []ValueType{f64, f64}, i32)
	set(OpcodeI32Clz, OpcodeI32Popcnt, []ValueType{i32}, i32)
	set(OpcodeI32Add, OpcodeI32Rotr, []ValueType{i32, i32}, i32)
	set(OpcodeI64Clz, OpcodeI64Popcnt, []ValueType{i64}, i64)
	set(OpcodeI64Add, OpcodeI64Rotr, []ValueType{i64, i64}, i64)
	set(OpcodeF32Abs, OpcodeF32Sqrt, []ValueType{f32}, f32)
	set(OpcodeF32Add, OpcodeF32Copysign, []ValueType{f32, f32}, f32)
	set(OpcodeF64Abs, OpcodeF64Sqrt, []ValueType{f64}, f64)
	set(OpcodeF64Add, OpcodeF64Copysign, []ValueType{f64, f64}, f64)
	set(OpcodeI32WrapI64, OpcodeI32WrapI64, []ValueType{i64}, i32)
	set(OpcodeI32TruncF32S, OpcodeI32TruncF32U, []ValueType{f32}, i32)
	set(OpcodeI32TruncF64S, OpcodeI32TruncF64U, []ValueType{f64}, i32)
	set(OpcodeI64ExtendI32S, OpcodeI64ExtendI32U, []ValueType{i32}, i64)
	set(OpcodeI64TruncF32S, OpcodeI64TruncF32U, []ValueType{f32}, i64)
	set(OpcodeI64TruncF64S, OpcodeI64TruncF64U, []ValueType{f64}, i64)
	set(OpcodeF32ConvertI32S, OpcodeF32ConvertI32U, []ValueType{i32}, f32)
	set(OpcodeF32ConvertI64S, OpcodeF32ConvertI64U, []ValueType{i64}, f32)
	set(OpcodeF32DemoteF64, OpcodeF32DemoteF64, []ValueType{f64}, f32)
	set(OpcodeF64ConvertI32S, OpcodeF64ConvertI32U, []ValueType{i32}, f64)
	set(OpcodeF64ConvertI64S, OpcodeF64ConvertI64U, []ValueType{i64}, f64)
	set(OpcodeF64PromoteF32, OpcodeF64PromoteF32, []ValueType{f32}, f64)
	set(OpcodeI32ReinterpretF32, OpcodeI32ReinterpretF32, []ValueType{f32}, i32)
	set(OpcodeI64ReinterpretF64, OpcodeI64ReinterpretF64, []ValueType{f64}, i64)
	set(OpcodeF32ReinterpretI32, OpcodeF32ReinterpretI32, []ValueType{i32}, f32)
	set(OpcodeF64ReinterpretI64, OpcodeF64ReinterpretI64, []ValueType{i64}, f64)
	set(OpcodeI32Extend8S, OpcodeI32Extend16S, []ValueType{i32}, i32)
	set(OpcodeI64Extend8S, OpcodeI64Extend32S, []ValueType{i64}, i64)
	return
}()
