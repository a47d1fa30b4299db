package binary

import (
	"bytes"
	"fmt"

	"github.com/embedwasm/interp/internal/mode"
	"github.com/embedwasm/interp/internal/wasm"
)

// sectionOrder is the position each known section must respect in the binary format. SectionIDDataCount comes
// between the element and code sections.
var sectionOrder = [...]int{
	wasm.SectionIDType:      1,
	wasm.SectionIDImport:    2,
	wasm.SectionIDFunction:  3,
	wasm.SectionIDTable:     4,
	wasm.SectionIDMemory:    5,
	wasm.SectionIDGlobal:    6,
	wasm.SectionIDExport:    7,
	wasm.SectionIDStart:     8,
	wasm.SectionIDElement:   9,
	wasm.SectionIDDataCount: 10,
	wasm.SectionIDCode:      11,
	wasm.SectionIDData:      12,
}

// DecodeModule implements wasm.DecodeModule for the WebAssembly 1.0 (20191205) Binary Format, with the data count
// section of later versions. The result is not validated. See wasm.Module Validate
//
// Function bodies alias binary, which must not be modified afterward.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-format%E2%91%A0
func DecodeModule(binary []byte) (*wasm.Module, error) {
	p := wasm.NewParser[mode.Check](binary)
	if b, err := p.ReadBytes(4); err != nil || !bytes.Equal(b, Magic) {
		return nil, invalidf("invalid magic number")
	}
	if b, err := p.ReadBytes(4); err != nil || !bytes.Equal(b, version) {
		return nil, invalidf("invalid version header")
	}

	m := &wasm.Module{}
	lastOrder := 0
	for !p.IsEmpty() {
		sectionID, _ := p.ReadByte()
		sectionSize, err := p.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("get size of section %s: %w", wasm.SectionIDName(sectionID), err)
		}
		section, err := p.Split(int(sectionSize))
		if err != nil {
			return nil, invalidf("section %s size %d exceeds the module", wasm.SectionIDName(sectionID), sectionSize)
		}

		if sectionID != wasm.SectionIDCustom {
			if int(sectionID) >= len(sectionOrder) {
				return nil, invalidf("invalid section id: %#x", sectionID)
			}
			order := sectionOrder[sectionID]
			if order <= lastOrder {
				return nil, invalidf("section %s out of order", wasm.SectionIDName(sectionID))
			}
			lastOrder = order
		}

		if err = decodeSection(&section, sectionID, m); err != nil {
			return nil, fmt.Errorf("section %s: %w", wasm.SectionIDName(sectionID), err)
		}
		if !section.IsEmpty() {
			return nil, invalidf("section %s: %d bytes remaining", wasm.SectionIDName(sectionID), section.Len())
		}
	}

	if len(m.FunctionSection) != len(m.CodeSection) {
		return nil, invalidf("function and code section have inconsistent lengths: %d != %d",
			len(m.FunctionSection), len(m.CodeSection))
	}
	return m, nil
}

func decodeSection(p *parser, sectionID wasm.SectionID, m *wasm.Module) (err error) {
	switch sectionID {
	case wasm.SectionIDCustom:
		err = decodeCustomSection(p, m)
	case wasm.SectionIDType:
		m.TypeSection, err = decodeTypeSection(p)
	case wasm.SectionIDImport:
		m.ImportSection, err = decodeImportSection(p)
	case wasm.SectionIDFunction:
		m.FunctionSection, err = decodeFunctionSection(p)
	case wasm.SectionIDTable:
		m.TableSection, err = decodeTableSection(p)
	case wasm.SectionIDMemory:
		m.MemorySection, err = decodeMemorySection(p)
	case wasm.SectionIDGlobal:
		m.GlobalSection, err = decodeGlobalSection(p)
	case wasm.SectionIDExport:
		m.ExportSection, err = decodeExportSection(p)
	case wasm.SectionIDStart:
		var idx wasm.Index
		if idx, err = p.ReadU32(); err == nil {
			m.StartSection = &idx
		}
	case wasm.SectionIDElement:
		m.ElementSection, err = decodeElementSection(p)
	case wasm.SectionIDDataCount:
		var count uint32
		if count, err = p.ReadU32(); err == nil {
			m.DataCountSection = &count
		}
	case wasm.SectionIDCode:
		m.CodeSection, err = decodeCodeSection(p)
	case wasm.SectionIDData:
		m.DataSection, err = decodeDataSection(p)
	}
	return
}

func decodeCustomSection(p *parser, m *wasm.Module) error {
	name, err := p.ReadName()
	if err != nil {
		return fmt.Errorf("read custom section name: %w", err)
	}
	data, _ := p.ReadBytes(p.Len())
	if name == "name" {
		// A malformed name section is ignored, as it has no effect on execution.
		if ns, err := decodeNameSection(data); err == nil {
			m.NameSection = ns
		}
		return nil
	}
	m.CustomSections = append(m.CustomSections, wasm.CustomSection{Name: name, Data: data})
	return nil
}
