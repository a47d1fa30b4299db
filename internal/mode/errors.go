package mode

import (
	"errors"
)

// These errors can only be returned while validating a module.
var (
	// ErrInvalid means the module encoding is malformed or an index or value is out of range.
	ErrInvalid = errors.New("invalid module")
	// ErrNotFound means an import or an export could not be resolved.
	ErrNotFound = errors.New("not found")
	// ErrUnsupported means the module uses a legal feature this interpreter does not implement. Use errors.As with
	// *UnsupportedError to learn the Reason.
	ErrUnsupported = errors.New("unsupported")
)

// errUnreachable is raised when Use observes a condition that validation should have ruled out.
var errUnreachable = errors.New("BUG: trusted input failed a validated condition")

// UnsupportedError is the error returned by Check.Unsupported.
type UnsupportedError struct {
	// Reason is ReasonUnknown when built with the "interp_strip_reasons" tag.
	Reason Reason
}

func newUnsupported(reason Reason) error {
	if stripReasons {
		reason = ReasonUnknown
	}
	return &UnsupportedError{Reason: reason}
}

// Error implements error.
func (e *UnsupportedError) Error() string {
	if e.Reason == ReasonUnknown {
		return ErrUnsupported.Error()
	}
	return ErrUnsupported.Error() + ": " + e.Reason.String()
}

// Is allows errors.Is(err, ErrUnsupported).
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// Reason classifies an UnsupportedError.
type Reason byte

const (
	ReasonUnknown Reason = iota
	// ReasonOpcode is an instruction outside the implemented set, such as exceptions, tail calls or SIMD.
	ReasonOpcode
	// ReasonValueType is a reference or vector value type outside a table declaration.
	ReasonValueType
	// ReasonImportKind is a table or global import.
	ReasonImportKind
	// ReasonElementKind is an element segment encoding other than the active function index form.
	ReasonElementKind
	// ReasonStartSection is a module declaring a start function.
	ReasonStartSection
	// ReasonMultipleMemories is more than one memory, counting an imported one.
	ReasonMultipleMemories
	// ReasonMultipleTables is more than one table.
	ReasonMultipleTables
	// ReasonSideTable is a branch whose metadata does not fit in a side table entry.
	ReasonSideTable
	// ReasonLimit is a count beyond what this interpreter can represent, such as the number of locals or a table
	// size.
	ReasonLimit
	// ReasonMemoryKind is a shared or 64-bit memory.
	ReasonMemoryKind
)

// String implements fmt.Stringer
func (r Reason) String() string {
	switch r {
	case ReasonOpcode:
		return "opcode"
	case ReasonValueType:
		return "value type"
	case ReasonImportKind:
		return "import kind"
	case ReasonElementKind:
		return "element segment kind"
	case ReasonStartSection:
		return "start section"
	case ReasonMultipleMemories:
		return "multiple memories"
	case ReasonMultipleTables:
		return "multiple tables"
	case ReasonSideTable:
		return "side table entry overflow"
	case ReasonLimit:
		return "implementation limit"
	case ReasonMemoryKind:
		return "memory kind"
	}
	return "unknown"
}
