package wasm

import (
	"fmt"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/mode"
)

// Validate checks the module and compiles the side table of every function.
//
// Errors wrap mode.ErrInvalid, mode.ErrUnsupported or mode.ErrNotFound.
func (m *Module) Validate() error {
	if m.StartSection != nil {
		return unsupported(mode.ReasonStartSection)
	}
	if err := m.validateImports(); err != nil {
		return err
	}
	if err := m.validateMemoryAndTable(); err != nil {
		return err
	}
	if err := m.validateFunctionSection(); err != nil {
		return err
	}
	funcCount := m.ImportFuncCount() + uint32(len(m.FunctionSection))
	if err := m.validateGlobals(); err != nil {
		return err
	}
	if err := m.validateExports(funcCount); err != nil {
		return err
	}
	if err := m.validateElements(funcCount); err != nil {
		return err
	}
	if err := m.validateData(); err != nil {
		return err
	}
	importFuncCount := m.ImportFuncCount()
	for i := range m.CodeSection {
		funcIdx := importFuncCount + Index(i)
		ft := &m.TypeSection[m.FunctionSection[i]]
		if err := m.validateFunction(funcIdx, ft, &m.CodeSection[i], funcCount); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) validateImports() error {
	for i := range m.ImportSection {
		im := &m.ImportSection[i]
		switch im.Type {
		case api.ExternTypeFunc:
			if im.DescFunc >= uint32(len(m.TypeSection)) {
				return invalidf("import[%d] %s.%s: type index %d out of range", i, im.Module, im.Name, im.DescFunc)
			}
		case api.ExternTypeMemory:
			if err := validateMemory(&im.DescMem); err != nil {
				return fmt.Errorf("import[%d] %s.%s: %w", i, im.Module, im.Name, err)
			}
		case api.ExternTypeTable, api.ExternTypeGlobal:
			return fmt.Errorf("import[%d] %s.%s: %w", i, im.Module, im.Name, unsupported(mode.ReasonImportKind))
		default:
			return invalidf("import[%d] has invalid type %#x", i, im.Type)
		}
	}
	return nil
}

func (m *Module) validateMemoryAndTable() error {
	memoryCount := len(m.MemorySection)
	if m.ImportedMemory() != nil {
		memoryCount++
	}
	if memoryCount > 1 {
		return unsupported(mode.ReasonMultipleMemories)
	}
	for i := range m.MemorySection {
		if err := validateMemory(&m.MemorySection[i]); err != nil {
			return fmt.Errorf("memory[%d]: %w", i, err)
		}
	}
	if len(m.TableSection) > 1 {
		return unsupported(mode.ReasonMultipleTables)
	}
	for i := range m.TableSection {
		t := &m.TableSection[i]
		if t.Type != RefTypeFuncref {
			return fmt.Errorf("table[%d]: %w", i, unsupported(mode.ReasonValueType))
		}
		if t.Max != nil && *t.Max < t.Min {
			return invalidf("table[%d]: size minimum must not be greater than maximum", i)
		}
		if t.Min > TableLimitElements {
			return fmt.Errorf("table[%d]: size %d exceeds %d: %w", i, t.Min, TableLimitElements, unsupported(mode.ReasonLimit))
		}
	}
	return nil
}

func validateMemory(mem *Memory) error {
	if mem.Min > MemoryLimitPages {
		return invalidf("memory size must be at most %d pages (4GiB)", MemoryLimitPages)
	}
	if mem.Max != nil {
		if *mem.Max > MemoryLimitPages {
			return invalidf("memory size must be at most %d pages (4GiB)", MemoryLimitPages)
		}
		if *mem.Max < mem.Min {
			return invalidf("memory size minimum must not be greater than maximum")
		}
	}
	return nil
}

func (m *Module) validateFunctionSection() error {
	if len(m.FunctionSection) != len(m.CodeSection) {
		return invalidf("function and code section have inconsistent lengths: %d != %d",
			len(m.FunctionSection), len(m.CodeSection))
	}
	for i, typeIdx := range m.FunctionSection {
		if typeIdx >= uint32(len(m.TypeSection)) {
			return invalidf("function[%d]: type index %d out of range", i, typeIdx)
		}
	}
	return nil
}

func (m *Module) validateGlobals() error {
	for i := range m.GlobalSection {
		g := &m.GlobalSection[i]
		if err := validateConstExpression(&g.Init, g.Type.ValType); err != nil {
			return fmt.Errorf("global[%d]: %w", i, err)
		}
	}
	return nil
}

func (m *Module) validateExports(funcCount uint32) error {
	names := make(map[string]struct{}, len(m.ExportSection))
	for i := range m.ExportSection {
		e := &m.ExportSection[i]
		if _, ok := names[e.Name]; ok {
			return invalidf("export[%d] duplicates name %q", i, e.Name)
		}
		names[e.Name] = struct{}{}
		var count uint32
		switch e.Type {
		case api.ExternTypeFunc:
			count = funcCount
		case api.ExternTypeTable:
			count = uint32(len(m.TableSection))
		case api.ExternTypeMemory:
			if m.Memory() != nil {
				count = 1
			}
		case api.ExternTypeGlobal:
			count = uint32(len(m.GlobalSection))
		default:
			return invalidf("export[%d] has invalid type %#x", i, e.Type)
		}
		if e.Index >= count {
			return invalidf("export[%d] %q: %s index %d out of range", i, e.Name, api.ExternTypeName(e.Type), e.Index)
		}
	}
	return nil
}

func (m *Module) validateElements(funcCount uint32) error {
	for i := range m.ElementSection {
		seg := &m.ElementSection[i]
		if len(m.TableSection) == 0 {
			return invalidf("element[%d]: table index 0 out of range", i)
		}
		if err := validateConstExpression(&seg.OffsetExpr, api.ValueTypeI32); err != nil {
			return fmt.Errorf("element[%d]: %w", i, err)
		}
		for _, funcIdx := range seg.Init {
			if funcIdx >= funcCount {
				return invalidf("element[%d]: function index %d out of range", i, funcIdx)
			}
		}
	}
	return nil
}

func (m *Module) validateData() error {
	if m.DataCountSection != nil && *m.DataCountSection != uint32(len(m.DataSection)) {
		return invalidf("data count section (%d) doesn't match the length of data section (%d)",
			*m.DataCountSection, len(m.DataSection))
	}
	for i := range m.DataSection {
		d := &m.DataSection[i]
		if d.IsPassive() {
			continue
		}
		if m.Memory() == nil {
			return invalidf("data[%d]: memory index 0 out of range", i)
		}
		if err := validateConstExpression(d.OffsetExpression, api.ValueTypeI32); err != nil {
			return fmt.Errorf("data[%d]: %w", i, err)
		}
	}
	return nil
}

// validateConstExpression checks expr produces expected. global.get is rejected because only imported globals are
// allowed in constant expressions, and global imports are unsupported.
func validateConstExpression(expr *ConstantExpression, expected ValueType) error {
	var actual ValueType
	p := NewParser[mode.Check](expr.Data)
	var err error
	switch expr.Opcode {
	case OpcodeI32Const:
		actual = api.ValueTypeI32
		_, err = p.ReadI32()
	case OpcodeI64Const:
		actual = api.ValueTypeI64
		_, err = p.ReadI64()
	case OpcodeF32Const:
		actual = api.ValueTypeF32
		_, err = p.ReadF32Bits()
	case OpcodeF64Const:
		actual = api.ValueTypeF64
		_, err = p.ReadF64Bits()
	case OpcodeGlobalGet:
		return invalidf("constant expression global.get has no imported global to refer to")
	case OpcodeRefNull, OpcodeRefFunc:
		return unsupported(mode.ReasonOpcode)
	default:
		return invalidf("invalid opcode for const expression: %#x", expr.Opcode)
	}
	if err != nil {
		return fmt.Errorf("constant expression: %w", err)
	}
	if !p.IsEmpty() {
		return invalidf("constant expression has trailing bytes")
	}
	if actual != expected {
		return invalidf("constant expression type mismatch: expected %s, but was %s",
			api.ValueTypeName(expected), api.ValueTypeName(actual))
	}
	return nil
}

// EvalConst returns the encoded value of a validated constant expression. See api.ValueType
func EvalConst(expr *ConstantExpression) uint64 {
	p := NewParser[mode.Use](expr.Data)
	switch expr.Opcode {
	case OpcodeI32Const:
		v, _ := p.ReadI32()
		return api.EncodeI32(v)
	case OpcodeI64Const:
		v, _ := p.ReadI64()
		return api.EncodeI64(v)
	case OpcodeF32Const:
		v, _ := p.ReadF32Bits()
		return uint64(v)
	default: // OpcodeF64Const
		v, _ := p.ReadF64Bits()
		return v
	}
}
