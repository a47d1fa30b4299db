package binary

import (
	"fmt"

	"github.com/embedwasm/interp/internal/leb128"
	"github.com/embedwasm/interp/internal/mode"
	"github.com/embedwasm/interp/internal/wasm"
)

const (
	// subsectionIDModuleName contains only the module name.
	subsectionIDModuleName = uint8(0)
	// subsectionIDFunctionNames is a map of indices to function names, in ascending order by function index
	subsectionIDFunctionNames = uint8(1)
)

// decodeNameSection decodes the module and function names. Other subsections, such as local names, are skipped.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#name-section%E2%91%A0
func decodeNameSection(data []byte) (*wasm.NameSection, error) {
	p := wasm.NewParser[mode.Check](data)
	result := &wasm.NameSection{}
	for !p.IsEmpty() {
		id, _ := p.ReadByte()
		size, err := p.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("failed to read the size of subsection[%d]: %w", id, err)
		}
		sub, err := p.Split(int(size))
		if err != nil {
			return nil, invalidf("subsection[%d] size %d exceeds the name section", id, size)
		}
		switch id {
		case subsectionIDModuleName:
			if result.ModuleName, err = sub.ReadName(); err != nil {
				return nil, fmt.Errorf("failed to read module name: %w", err)
			}
		case subsectionIDFunctionNames:
			if result.FunctionNames, err = decodeNameMap(&sub); err != nil {
				return nil, fmt.Errorf("failed to read function names: %w", err)
			}
		}
	}
	return result, nil
}

func decodeNameMap(p *parser) (wasm.NameMap, error) {
	count, err := decodeVecLen(p, "name map")
	if err != nil {
		return nil, err
	}
	ret := make(wasm.NameMap, count)
	for i := range ret {
		if ret[i].Index, err = p.ReadU32(); err != nil {
			return nil, fmt.Errorf("failed to read index: %w", err)
		}
		if ret[i].Name, err = p.ReadName(); err != nil {
			return nil, fmt.Errorf("failed to read name: %w", err)
		}
	}
	return ret, nil
}

// encodeNameSectionData serializes the data for the "name" key in wasm.SectionIDCustom.
func encodeNameSectionData(n *wasm.NameSection) (data []byte) {
	if n.ModuleName != "" {
		data = append(data, subsectionIDModuleName)
		data = append(data, encodeSizePrefixed(encodeSizePrefixed([]byte(n.ModuleName)))...)
	}
	if len(n.FunctionNames) > 0 {
		sub := leb128.EncodeUint32(uint32(len(n.FunctionNames)))
		for _, na := range n.FunctionNames {
			sub = append(sub, leb128.EncodeUint32(na.Index)...)
			sub = append(sub, encodeSizePrefixed([]byte(na.Name))...)
		}
		data = append(data, subsectionIDFunctionNames)
		data = append(data, encodeSizePrefixed(sub)...)
	}
	return
}
