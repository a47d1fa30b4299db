// Package wasmruntime contains the errors raised while executing a WebAssembly function.
package wasmruntime

import "errors"

// ErrTrap is matched by every Error via errors.Is.
var ErrTrap = errors.New("trap")

var (
	// ErrRuntimeStackExhausted indicates the operand stack cannot hold the locals and operands of the next frame.
	ErrRuntimeStackExhausted = New("stack exhausted")
	// ErrRuntimeCallStackExhausted indicates there are too many nested function calls.
	ErrRuntimeCallStackExhausted = New("call stack exhausted")
	// ErrRuntimeInvalidConversionToInteger indicates a trunc instruction was given NaN.
	ErrRuntimeInvalidConversionToInteger = New("invalid conversion to integer")
	// ErrRuntimeIntegerOverflow indicates an integer arithmetic resulted in an overflow value. For example, when
	// the program tried to truncate a float value which doesn't fit in the range of target integer.
	ErrRuntimeIntegerOverflow = New("integer overflow")
	// ErrRuntimeIntegerDivideByZero indicates that an integer div or rem instruction was executed with 0 as the divisor.
	ErrRuntimeIntegerDivideByZero = New("integer divide by zero")
	// ErrRuntimeUnreachable means "unreachable" instruction was executed by the program.
	ErrRuntimeUnreachable = New("unreachable")
	// ErrRuntimeOutOfBoundsMemoryAccess indicates that the program tried to access the
	// region beyond the linear memory, or beyond the host buffer backing it.
	ErrRuntimeOutOfBoundsMemoryAccess = New("out of bounds memory access")
	// ErrRuntimeInvalidTableAccess means either offset to the table was out of bounds of table, or
	// the target element in the table was uninitialized during call_indirect instruction.
	ErrRuntimeInvalidTableAccess = New("invalid table access")
	// ErrRuntimeIndirectCallTypeMismatch indicates that the type check failed during call_indirect.
	ErrRuntimeIndirectCallTypeMismatch = New("indirect call type mismatch")
)

// Error is returned by a function that trapped. The instance that raised it cannot be used afterwards.
type Error struct {
	s string
}

// New returns a new Error with the given message.
func New(text string) *Error {
	return &Error{s: text}
}

// Error implements error.
func (e *Error) Error() string {
	return "wasm error: " + e.s
}

// Is returns true for ErrTrap.
func (e *Error) Is(target error) bool {
	return target == ErrTrap
}
