package interp

import (
	"errors"

	"github.com/embedwasm/interp/internal/mode"
	"github.com/embedwasm/interp/internal/wasmruntime"
)

// Errors returned by CompileModule and Store.Instantiate. Use errors.Is to classify an error.
var (
	// ErrInvalid means the module is malformed, or an argument doesn't match the expected shape.
	ErrInvalid = mode.ErrInvalid
	// ErrNotFound means an import or an export could not be resolved.
	ErrNotFound = mode.ErrNotFound
	// ErrUnsupported means the module uses a feature this interpreter does not implement. Use errors.As with
	// *UnsupportedError to learn why.
	ErrUnsupported = mode.ErrUnsupported
)

// ErrTrap is wrapped by the error of a call that trapped. The trap itself is one of the errors below.
var ErrTrap = wasmruntime.ErrTrap

// Traps. A trap ends the call and terminates the instance.
var (
	ErrTrapUnreachable             = wasmruntime.ErrRuntimeUnreachable
	ErrTrapIntegerDivideByZero     = wasmruntime.ErrRuntimeIntegerDivideByZero
	ErrTrapIntegerOverflow         = wasmruntime.ErrRuntimeIntegerOverflow
	ErrTrapInvalidConversion       = wasmruntime.ErrRuntimeInvalidConversionToInteger
	ErrTrapOutOfBoundsMemoryAccess = wasmruntime.ErrRuntimeOutOfBoundsMemoryAccess
	ErrTrapInvalidTableAccess      = wasmruntime.ErrRuntimeInvalidTableAccess
	ErrTrapIndirectCallMismatch    = wasmruntime.ErrRuntimeIndirectCallTypeMismatch
	ErrTrapStackExhausted          = wasmruntime.ErrRuntimeStackExhausted
	ErrTrapCallStackExhausted      = wasmruntime.ErrRuntimeCallStackExhausted
)

var (
	// ErrInstanceBusy is returned by Store.Invoke when the instance has a suspended call.
	ErrInstanceBusy = errors.New("instance busy")
	// ErrCallFinished is returned by Call.Resume when the call already completed or trapped.
	ErrCallFinished = errors.New("call finished")
)

// UnsupportedError is the error wrapped when a module uses an unimplemented feature.
type UnsupportedError = mode.UnsupportedError

// Reason classifies an UnsupportedError.
type Reason = mode.Reason

// Reasons of an UnsupportedError. Builds with the interp_strip_reasons tag report ReasonUnknown only.
const (
	ReasonUnknown          = mode.ReasonUnknown
	ReasonOpcode           = mode.ReasonOpcode
	ReasonValueType        = mode.ReasonValueType
	ReasonImportKind       = mode.ReasonImportKind
	ReasonElementKind      = mode.ReasonElementKind
	ReasonStartSection     = mode.ReasonStartSection
	ReasonMultipleMemories = mode.ReasonMultipleMemories
	ReasonMultipleTables   = mode.ReasonMultipleTables
	ReasonSideTable        = mode.ReasonSideTable
	ReasonLimit            = mode.ReasonLimit
	ReasonMemoryKind       = mode.ReasonMemoryKind
)
