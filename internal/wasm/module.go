package wasm

import (
	"fmt"
	"strings"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/sidetable"
)

// Module is a decoded WebAssembly binary. It is immutable once Validate succeeded, and may back any number of
// instances.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#modules%E2%91%A8
//
// Differences from the specification:
//   - The NameSection is decoded, so not present as a key "name" in CustomSections.
//   - Validate fills Code.SideTable and Code.MaxStackHeight, which have no binary representation.
type Module struct {
	// TypeSection contains the unique FunctionType of functions imported or defined in this module.
	//
	// Note: In the Binary Format, this is SectionIDType.
	TypeSection []FunctionType

	// ImportSection contains imported functions or memories required for instantiation.
	//
	// Note: Table and global imports decode, but fail validation as unsupported.
	// Note: In the Binary Format, this is SectionIDImport.
	ImportSection []Import

	// FunctionSection contains the index in TypeSection of each function defined in this module.
	//
	// Note: The function Index namespace begins with imported functions and ends with those defined in this module.
	// For example, if there are two imported functions and one defined in this module, the function Index 3 is defined
	// in this module at FunctionSection[0].
	//
	// Note: FunctionSection is index correlated with the CodeSection.
	FunctionSection []Index

	// TableSection contains each table defined in this module. At most one is supported.
	TableSection []Table

	// MemorySection contains each memory defined in this module. At most one is supported, counting an import.
	MemorySection []Memory

	// GlobalSection contains each global defined in this module.
	GlobalSection []Global

	// ExportSection contains each export defined in this module, in order of the binary format.
	ExportSection []Export

	// StartSection is the index of a function to call before returning from Store.Instantiate.
	//
	// Note: Decoded for diagnostics. Validate rejects it as unsupported.
	StartSection *Index

	// ElementSection contains the active segments initializing the table.
	ElementSection []ElementSegment

	// DataCountSection is the declared count of DataSection, required when code uses memory.init or data.drop.
	DataCountSection *uint32

	// CodeSection is index-correlated with FunctionSection and contains each function's locals and body.
	CodeSection []Code

	// DataSection contains the segments initializing memory.
	DataSection []DataSegment

	// NameSection is set when the custom section "name" was present and well formed.
	NameSection *NameSection

	// CustomSections are the custom sections other than "name", in order.
	CustomSections []CustomSection
}

// Index is the offset in an index space, not necessarily an absolute position in a Module section. This is because
// index spaces are often preceded by a corresponding type in the ImportSection.
//
// For example, the function index space starts with any ExternTypeFunc in the Module.ImportSection followed by
// the Module.FunctionSection
type Index = uint32

// ValueType is an alias of api.ValueType defined to simplify imports.
type ValueType = api.ValueType

// ExternType is an alias of api.ExternType defined to simplify imports.
type ExternType = api.ExternType

const (
	// RefTypeFuncref is the element type of tables. It is not a supported value type.
	RefTypeFuncref byte = 0x70
	// RefTypeExternref is recognized only to report it as unsupported.
	RefTypeExternref byte = 0x6f

	valueTypeV128  byte = 0x7b
	blockTypeEmpty byte = 0x40
)

const (
	// MemoryPageSize is the unit of memory length in WebAssembly, and is defined as 2^16 = 65536.
	MemoryPageSize = uint32(65536)
	// MemoryLimitPages is maximum number of pages defined (2^16).
	MemoryLimitPages = uint32(65536)
	// MemoryPageSizeInBits satisfies the relation: "1 << MemoryPageSizeInBits == MemoryPageSize".
	MemoryPageSizeInBits = 16
)

// TableLimitElements is the largest table size a module may declare. Tables cannot grow, so this bounds the one
// allocation Instantiate makes from a module-declared size.
const TableLimitElements = uint32(1 << 16)

// FunctionType is a possibly empty function signature.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#function-types%E2%91%A0
type FunctionType struct {
	// Params are the possibly empty sequence of value types accepted by a function with this signature.
	Params []ValueType

	// Results are the possibly empty sequence of value types returned by a function with this signature.
	Results []ValueType
}

// EqualsSignature returns true if the function type has the same parameters and results.
func (f *FunctionType) EqualsSignature(params []ValueType, results []ValueType) bool {
	return sameTypes(f.Params, params) && sameTypes(f.Results, results)
}

func sameTypes(a, b []ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String returns the signature in the text format, ex. "(i32,i32) -> i32".
func (f *FunctionType) String() string {
	var ret strings.Builder
	writeTypes(&ret, f.Params)
	ret.WriteString(" -> ")
	if len(f.Results) == 1 {
		ret.WriteString(api.ValueTypeName(f.Results[0]))
	} else {
		writeTypes(&ret, f.Results)
	}
	return ret.String()
}

func writeTypes(b *strings.Builder, types []ValueType) {
	b.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(api.ValueTypeName(t))
	}
	b.WriteByte(')')
}

// Import is the binary representation of an import indicated by Type
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-import
type Import struct {
	Type ExternType
	// Module is the possibly empty primary namespace of this import
	Module string
	// Name is the possibly empty secondary namespace of this import
	Name string
	// DescFunc is the index in Module.TypeSection when Type equals ExternTypeFunc
	DescFunc Index
	// DescTable is the inlined Table when Type equals ExternTypeTable
	DescTable Table
	// DescMem is the inlined Memory when Type equals ExternTypeMemory
	DescMem Memory
	// DescGlobal is the inlined GlobalType when Type equals ExternTypeGlobal
	DescGlobal GlobalType
}

// Memory describes the limits of pages (64KB) in a memory.
type Memory struct {
	Min uint32
	// Max is nil when the module did not declare a maximum.
	Max *uint32
}

// Table describes the limits of elements and its type in a table.
type Table struct {
	Min uint32
	Max *uint32
	// Type is RefTypeFuncref. Other reference types fail validation.
	Type byte
}

// GlobalType is the type of a Global.
type GlobalType struct {
	ValType ValueType
	Mutable bool
}

// Global is a global defined in this module, with its initial value.
type Global struct {
	Type GlobalType
	Init ConstantExpression
}

// ConstantExpression is a single instruction followed by OpcodeEnd, evaluated at instantiation.
type ConstantExpression struct {
	Opcode Opcode
	// Data is the immediate of Opcode, still encoded.
	Data []byte
}

// Export is the binary representation of an export indicated by Type
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-export
type Export struct {
	Type ExternType

	// Name is what the host refers to this definition as.
	Name string

	// Index is the index of the definition to export, the index namespace is by Type
	// Ex. If ExternTypeFunc, this is a position in the function index namespace.
	Index Index
}

// ElementSegment is an active segment of the only table.
type ElementSegment struct {
	// OffsetExpr returns the table element offset to start the initialization at.
	OffsetExpr ConstantExpression
	// Init indices are the function indices to store in the table, starting at the offset.
	Init []Index
}

// Code is an entry in the Module.CodeSection containing the locals and body of the function.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-code
type Code struct {
	// LocalTypes are any function-scoped variables in insertion order, not including the parameters.
	LocalTypes []ValueType

	// Body is a sequence of expressions ending in OpcodeEnd
	Body []byte

	// BodyOffset is the position of Body in the module source, used in error messages.
	BodyOffset uint64

	// SideTable contains the control transfers of Body in program order. See package sidetable.
	SideTable []sidetable.Entry

	// MaxStackHeight is the maximum count of operands on the stack at any point of Body, not counting locals.
	MaxStackHeight int
}

// DataSegment initializes memory with bytes.
type DataSegment struct {
	// OffsetExpression is nil for passive segments, which are only copied by memory.init.
	OffsetExpression *ConstantExpression
	Init             []byte
}

// IsPassive is true when the segment is not copied at instantiation.
func (d *DataSegment) IsPassive() bool {
	return d.OffsetExpression == nil
}

// CustomSection is a custom section other than "name".
type CustomSection struct {
	Name string
	Data []byte
}

// NameSection represent the known custom name subsections defined in the WebAssembly Binary Format
//
// Note: This can be nil if no names were decoded for any reason including configuration.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#name-section%E2%91%A0
type NameSection struct {
	// ModuleName is the symbolic identifier for a module. Ex. math
	ModuleName string

	// FunctionNames is an association of a function index to its symbolic identifier. Ex. add
	FunctionNames NameMap
}

// NameMap associates an index with any associated names.
//
// Note: Often the index namespace bridges multiple sections. For example, the function index namespace starts with any
// ExternTypeFunc in the Module.ImportSection followed by the Module.FunctionSection
type NameMap []NameAssoc

// NameAssoc is an index and its name.
type NameAssoc struct {
	Index Index
	Name  string
}

// SectionID identifies the sections of a Module in the WebAssembly 1.0 (20191205) Binary Format.
//
// Note: these are defined in the wasm package, instead of the binary package, as a key per section is needed regardless
// of format, and deferring to the binary type avoids confusion.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#sections%E2%91%A0
type SectionID = byte

const (
	// SectionIDCustom includes the standard defined NameSection and possibly others not defined in the standard.
	SectionIDCustom SectionID = iota // don't add anything not in https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#sections%E2%91%A0
	SectionIDType
	SectionIDImport
	SectionIDFunction
	SectionIDTable
	SectionIDMemory
	SectionIDGlobal
	SectionIDExport
	SectionIDStart
	SectionIDElement
	SectionIDCode
	SectionIDData
	// SectionIDDataCount is ordered between SectionIDElement and SectionIDCode in the binary format.
	SectionIDDataCount
)

// SectionIDName returns the canonical name of a module section.
// https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#sections%E2%91%A0
func SectionIDName(sectionID SectionID) string {
	switch sectionID {
	case SectionIDCustom:
		return "custom"
	case SectionIDType:
		return "type"
	case SectionIDImport:
		return "import"
	case SectionIDFunction:
		return "function"
	case SectionIDTable:
		return "table"
	case SectionIDMemory:
		return "memory"
	case SectionIDGlobal:
		return "global"
	case SectionIDExport:
		return "export"
	case SectionIDStart:
		return "start"
	case SectionIDElement:
		return "element"
	case SectionIDCode:
		return "code"
	case SectionIDData:
		return "data"
	case SectionIDDataCount:
		return "data_count"
	}
	return "unknown"
}

// ImportFuncCount returns the count of function imports, which begin the function index space.
func (m *Module) ImportFuncCount() (count uint32) {
	for i := range m.ImportSection {
		if m.ImportSection[i].Type == api.ExternTypeFunc {
			count++
		}
	}
	return
}

// ImportedMemory returns the memory import, if any.
func (m *Module) ImportedMemory() *Import {
	for i := range m.ImportSection {
		if m.ImportSection[i].Type == api.ExternTypeMemory {
			return &m.ImportSection[i]
		}
	}
	return nil
}

// Memory returns the memory of the module whether it is defined or imported, or nil.
func (m *Module) Memory() *Memory {
	if im := m.ImportedMemory(); im != nil {
		return &im.DescMem
	}
	if len(m.MemorySection) > 0 {
		return &m.MemorySection[0]
	}
	return nil
}

// TypeOfFunction returns the FunctionType of the function at funcIdx in the function index space, or nil.
func (m *Module) TypeOfFunction(funcIdx Index) *FunctionType {
	typeIdx, ok := m.typeIndexOfFunction(funcIdx)
	if !ok || typeIdx >= uint32(len(m.TypeSection)) {
		return nil
	}
	return &m.TypeSection[typeIdx]
}

func (m *Module) typeIndexOfFunction(funcIdx Index) (Index, bool) {
	var funcImportCount Index
	for i := range m.ImportSection {
		im := &m.ImportSection[i]
		if im.Type != api.ExternTypeFunc {
			continue
		}
		if funcIdx == funcImportCount {
			return im.DescFunc, true
		}
		funcImportCount++
	}
	funcSectionIdx := funcIdx - funcImportCount
	if funcSectionIdx >= uint32(len(m.FunctionSection)) {
		return 0, false
	}
	return m.FunctionSection[funcSectionIdx], true
}

// ExportedFunction returns the function index of the export name.
func (m *Module) ExportedFunction(name string) (Index, bool) {
	for i := range m.ExportSection {
		if e := &m.ExportSection[i]; e.Type == api.ExternTypeFunc && e.Name == name {
			return e.Index, true
		}
	}
	return 0, false
}

// ExportedMemory is true when the module exports its memory, regardless of name.
func (m *Module) ExportedMemory() bool {
	for i := range m.ExportSection {
		if m.ExportSection[i].Type == api.ExternTypeMemory {
			return true
		}
	}
	return false
}

// FuncName returns the name of the function at funcIdx, or "$<index>" when the name section does not declare it.
func (m *Module) FuncName(funcIdx Index) string {
	if m.NameSection != nil {
		for _, n := range m.NameSection.FunctionNames {
			if n.Index == funcIdx {
				return n.Name
			}
		}
	}
	return fmt.Sprintf("$%d", funcIdx)
}

// ModuleName returns the name declared in the name section, if any.
func (m *Module) ModuleName() string {
	if m.NameSection != nil {
		return m.NameSection.ModuleName
	}
	return ""
}

// BlockTypeKind distinguishes the encodings of BlockType.
type BlockTypeKind byte

const (
	// BlockTypeKindEmpty has no params and no results.
	BlockTypeKindEmpty BlockTypeKind = iota
	// BlockTypeKindValue has no params and one result.
	BlockTypeKindValue
	// BlockTypeKindIndex refers to a FunctionType, which allows params and multiple results.
	BlockTypeKindIndex
)

// BlockType is the immediate of OpcodeBlock, OpcodeLoop and OpcodeIf.
type BlockType struct {
	Kind  BlockTypeKind
	Value ValueType
	Index Index
}

// Resolve returns the params and results of b, or false if the type index is out of range.
func (b BlockType) Resolve(types []FunctionType) (params, results []ValueType, ok bool) {
	switch b.Kind {
	case BlockTypeKindValue:
		return nil, []ValueType{b.Value}, true
	case BlockTypeKindIndex:
		if b.Index >= uint32(len(types)) {
			return nil, nil, false
		}
		t := &types[b.Index]
		return t.Params, t.Results, true
	}
	return nil, nil, true
}
