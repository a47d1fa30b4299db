package binary

import (
	"fmt"

	"github.com/embedwasm/interp/internal/mode"
	"github.com/embedwasm/interp/internal/wasm"
)

// parser reads untrusted module bytes.
type parser = wasm.Parser[mode.Check]

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{mode.ErrInvalid}, args...)...)
}

func unsupported(reason mode.Reason) error {
	return mode.Check{}.Unsupported(reason)
}

// decodeVecLen reads the length of a vector whose elements are at least one byte each.
func decodeVecLen(p *parser, what string) (uint32, error) {
	n, err := p.ReadU32()
	if err != nil {
		return 0, fmt.Errorf("get size of %s vector: %w", what, err)
	}
	if uint64(n) > uint64(p.Len()) {
		return 0, invalidf("%s vector size %d exceeds the section", what, n)
	}
	return n, nil
}
