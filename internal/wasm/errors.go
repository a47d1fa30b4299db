package wasm

import (
	"fmt"

	"github.com/embedwasm/interp/internal/mode"
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{mode.ErrInvalid}, args...)...)
}

func unsupported(reason mode.Reason) error {
	return mode.Check{}.Unsupported(reason)
}
