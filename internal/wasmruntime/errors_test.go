package wasmruntime

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	for _, err := range []*Error{
		ErrRuntimeStackExhausted,
		ErrRuntimeCallStackExhausted,
		ErrRuntimeInvalidConversionToInteger,
		ErrRuntimeIntegerOverflow,
		ErrRuntimeIntegerDivideByZero,
		ErrRuntimeUnreachable,
		ErrRuntimeOutOfBoundsMemoryAccess,
		ErrRuntimeInvalidTableAccess,
		ErrRuntimeIndirectCallTypeMismatch,
	} {
		wrapped := fmt.Errorf("f: %w", err)
		require.ErrorIs(t, wrapped, ErrTrap, err.Error())
		require.ErrorIs(t, wrapped, err)
		require.Equal(t, "wasm error: "+err.s, err.Error())
	}
	require.False(t, errors.Is(ErrRuntimeUnreachable, ErrRuntimeIntegerOverflow))
}
