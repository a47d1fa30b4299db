package binary

import (
	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/wasm"
)

var sizePrefixedName = []byte{4, 'n', 'a', 'm', 'e'}

// EncodeModule implements wasm.EncodeModule for the WebAssembly 1.0 (20191205) Binary Format.
// Note: If saving to a file, the conventional extension is wasm
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-format%E2%91%A0
func EncodeModule(m *wasm.Module) (bytes []byte) {
	bytes = append(append([]byte{}, Magic...), version...)
	if len(m.TypeSection) > 0 {
		bytes = append(bytes, encodeVector(wasm.SectionIDType, len(m.TypeSection), func(i int) []byte {
			return encodeFunctionType(&m.TypeSection[i])
		})...)
	}
	if len(m.ImportSection) > 0 {
		bytes = append(bytes, encodeVector(wasm.SectionIDImport, len(m.ImportSection), func(i int) []byte {
			return encodeImport(&m.ImportSection[i])
		})...)
	}
	if len(m.FunctionSection) > 0 {
		bytes = append(bytes, encodeVector(wasm.SectionIDFunction, len(m.FunctionSection), func(i int) []byte {
			return leb128.EncodeUint32(m.FunctionSection[i])
		})...)
	}
	if len(m.TableSection) > 0 {
		bytes = append(bytes, encodeVector(wasm.SectionIDTable, len(m.TableSection), func(i int) []byte {
			return encodeTable(&m.TableSection[i])
		})...)
	}
	if len(m.MemorySection) > 0 {
		bytes = append(bytes, encodeVector(wasm.SectionIDMemory, len(m.MemorySection), func(i int) []byte {
			return encodeLimits(m.MemorySection[i].Min, m.MemorySection[i].Max)
		})...)
	}
	if len(m.GlobalSection) > 0 {
		bytes = append(bytes, encodeVector(wasm.SectionIDGlobal, len(m.GlobalSection), func(i int) []byte {
			return encodeGlobal(&m.GlobalSection[i])
		})...)
	}
	if len(m.ExportSection) > 0 {
		bytes = append(bytes, encodeVector(wasm.SectionIDExport, len(m.ExportSection), func(i int) []byte {
			return encodeExport(&m.ExportSection[i])
		})...)
	}
	if m.StartSection != nil {
		bytes = append(bytes, encodeSection(wasm.SectionIDStart, leb128.EncodeUint32(*m.StartSection))...)
	}
	if len(m.ElementSection) > 0 {
		bytes = append(bytes, encodeVector(wasm.SectionIDElement, len(m.ElementSection), func(i int) []byte {
			return encodeElement(&m.ElementSection[i])
		})...)
	}
	if m.DataCountSection != nil {
		bytes = append(bytes, encodeSection(wasm.SectionIDDataCount, leb128.EncodeUint32(*m.DataCountSection))...)
	}
	if len(m.CodeSection) > 0 {
		bytes = append(bytes, encodeVector(wasm.SectionIDCode, len(m.CodeSection), func(i int) []byte {
			return encodeCode(&m.CodeSection[i])
		})...)
	}
	if len(m.DataSection) > 0 {
		bytes = append(bytes, encodeVector(wasm.SectionIDData, len(m.DataSection), func(i int) []byte {
			return encodeDataSegment(&m.DataSection[i])
		})...)
	}
	if m.NameSection != nil {
		nameSection := append(append([]byte{}, sizePrefixedName...), encodeNameSectionData(m.NameSection)...)
		bytes = append(bytes, encodeSection(wasm.SectionIDCustom, nameSection)...)
	}
	for i := range m.CustomSections {
		c := &m.CustomSections[i]
		data := append(encodeSizePrefixed([]byte(c.Name)), c.Data...)
		bytes = append(bytes, encodeSection(wasm.SectionIDCustom, data)...)
	}
	return
}

// encodeSection encodes the sectionID, the size of its contents in bytes, followed by the contents.
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#sections%E2%91%A0
func encodeSection(sectionID wasm.SectionID, contents []byte) []byte {
	return append([]byte{sectionID}, encodeSizePrefixed(contents)...)
}

func encodeVector(sectionID wasm.SectionID, n int, encode func(i int) []byte) []byte {
	contents := leb128.EncodeUint32(uint32(n))
	for i := 0; i < n; i++ {
		contents = append(contents, encode(i)...)
	}
	return encodeSection(sectionID, contents)
}
