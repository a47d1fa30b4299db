package wasm

import (
	"fmt"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/mode"
	"github.com/embedwasm/interp/internal/wasmruntime"
)

// HostFunc is an import slot registered with Store.Link. The embedder implements it when the interpreter suspends
// with its Index.
type HostFunc struct {
	Module, Name string
	Type         FunctionType
	// Index is the position of the link in registration order.
	Index int
}

type hostKey struct {
	module, name string
}

// Store holds the host function links shared by the instances created from it.
//
// Note: Store is not goroutine-safe. Links are registered before instantiating the modules that import them.
type Store struct {
	hostFuncs []*HostFunc
	byName    map[hostKey]int
	// MaxMemoryPages caps the maximum of every memory.
	MaxMemoryPages uint32
}

// NewStore returns an empty store.
func NewStore(maxMemoryPages uint32) *Store {
	return &Store{byName: map[hostKey]int{}, MaxMemoryPages: maxMemoryPages}
}

// Link registers a host function and returns its index.
func (s *Store) Link(module, name string, ft FunctionType) (int, error) {
	key := hostKey{module, name}
	if _, ok := s.byName[key]; ok {
		return 0, invalidf("host function %s.%s already linked", module, name)
	}
	idx := len(s.hostFuncs)
	s.hostFuncs = append(s.hostFuncs, &HostFunc{Module: module, Name: name, Type: ft, Index: idx})
	s.byName[key] = idx
	return idx, nil
}

// HostFunc returns the link at index idx.
func (s *Store) HostFunc(idx int) *HostFunc {
	return s.hostFuncs[idx]
}

// FunctionInstance is a function of an instance, either defined in its module or imported from the host.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#function-instances%E2%91%A0
type FunctionInstance struct {
	Type *FunctionType
	// TypeID identifies Type within the instance for call_indirect.
	TypeID uint32
	// Idx is the position in the function index space.
	Idx Index
	// Host is nil for functions defined in the module.
	Host *HostFunc
	// Code is nil for host functions.
	Code *Code
	// NumLocals is len(Type.Params) plus the locals declared in Code.
	NumLocals int
}

// ModuleInstance is a Module bound to a memory buffer and the host functions of a Store.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#module-instances%E2%91%A0
type ModuleInstance struct {
	Name      string
	Source    *Module
	Functions []FunctionInstance
	// TypeIDs are the canonical FunctionInstance.TypeID of each type in Source.TypeSection.
	TypeIDs []uint32
	Globals []uint64
	// Memory is nil when the module has no memory.
	Memory *MemoryInstance
	// Table is nil when the module has no table.
	Table *TableInstance
	// Data are the bytes of passive data segments, nil once dropped. Active segments are dropped at instantiation.
	Data [][]byte
}

// Instantiate resolves the imports of m and initializes an instance using buffer as its linear memory. m must have
// passed Validate.
//
// Errors wrap mode.ErrNotFound for unresolved imports, and wasmruntime.ErrTrap when a segment doesn't fit.
func (s *Store) Instantiate(m *Module, name string, buffer []byte) (*ModuleInstance, error) {
	typeIDs := canonicalTypeIDs(m.TypeSection)
	inst := &ModuleInstance{Name: name, Source: m, TypeIDs: typeIDs}

	importFuncCount := m.ImportFuncCount()
	inst.Functions = make([]FunctionInstance, 0, int(importFuncCount)+len(m.FunctionSection))
	for i := range m.ImportSection {
		im := &m.ImportSection[i]
		if im.Type != api.ExternTypeFunc {
			continue
		}
		ft := &m.TypeSection[im.DescFunc]
		idx, ok := s.byName[hostKey{im.Module, im.Name}]
		if !ok {
			return nil, fmt.Errorf("import[%d] %s.%s: %w", i, im.Module, im.Name, mode.ErrNotFound)
		}
		host := s.hostFuncs[idx]
		if !host.Type.EqualsSignature(ft.Params, ft.Results) {
			return nil, fmt.Errorf("import[%d] %s.%s: signature mismatch: %s != %s: %w",
				i, im.Module, im.Name, ft, &host.Type, mode.ErrNotFound)
		}
		inst.Functions = append(inst.Functions, FunctionInstance{
			Type:   ft,
			TypeID: typeIDs[im.DescFunc],
			Idx:    Index(len(inst.Functions)),
			Host:   host,
		})
	}
	for i, typeIdx := range m.FunctionSection {
		ft := &m.TypeSection[typeIdx]
		code := &m.CodeSection[i]
		inst.Functions = append(inst.Functions, FunctionInstance{
			Type:      ft,
			TypeID:    typeIDs[typeIdx],
			Idx:       Index(len(inst.Functions)),
			Code:      code,
			NumLocals: len(ft.Params) + len(code.LocalTypes),
		})
	}

	inst.Globals = make([]uint64, len(m.GlobalSection))
	for i := range m.GlobalSection {
		inst.Globals[i] = EvalConst(&m.GlobalSection[i].Init)
	}

	if mem := m.Memory(); mem != nil {
		inst.Memory = NewMemoryInstance(mem, buffer, s.MaxMemoryPages)
	}

	if len(m.TableSection) > 0 {
		inst.Table = &TableInstance{Elements: make([]*FunctionInstance, m.TableSection[0].Min)}
		if err := inst.Table.initialize(m.ElementSection, inst.Functions); err != nil {
			return nil, err
		}
	}

	inst.Data = make([][]byte, len(m.DataSection))
	for i := range m.DataSection {
		d := &m.DataSection[i]
		if d.IsPassive() {
			inst.Data[i] = d.Init
			continue
		}
		offset := EvalConst(d.OffsetExpression)
		if !inst.Memory.Write(uint32(offset), d.Init) {
			return nil, fmt.Errorf("data[%d]: %w", i, wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess)
		}
	}
	return inst, nil
}

// canonicalTypeIDs maps each type to the position of the first structurally equal type.
func canonicalTypeIDs(types []FunctionType) []uint32 {
	ids := make([]uint32, len(types))
	seen := make(map[string]uint32, len(types))
	for i := range types {
		key := types[i].String()
		id, ok := seen[key]
		if !ok {
			id = uint32(i)
			seen[key] = id
		}
		ids[i] = id
	}
	return ids
}
