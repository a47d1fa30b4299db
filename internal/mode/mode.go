// Package mode parameterizes the algorithms shared by module validation and execution.
//
// Every routine that can fail on malformed input is written once, generic over a Mode:
//   - Check is used while validating a module. Failures are returned as errors.
//   - Use is used while executing a module that Check already accepted. Conditions are not evaluated and no
//     error is ever returned.
//
// Check and Use are distinct types given as type parameters, so the execution path never branches on whether it
// should verify its input. Building with the "interp_verify" tag makes Use evaluate conditions anyway and panic when
// one does not hold, which catches validator defects without changing any other behavior.
package mode

// Mode is implemented by Check and Use only.
type Mode interface {
	// Check returns nil when cond holds.
	Check(cond bool) error
	// Invalid reports malformed input.
	Invalid() error
	// Unsupported reports a legal but unimplemented feature.
	Unsupported(reason Reason) error
	// NotFound reports an unresolved reference.
	NotFound() error
}

// Check validates untrusted input.
type Check struct{}

// Use trusts input that Check accepted.
type Use struct{}

var (
	_ Mode = Check{}
	_ Mode = Use{}
)

// Check implements Mode.Check
func (Check) Check(cond bool) error {
	if !cond {
		return ErrInvalid
	}
	return nil
}

// Invalid implements Mode.Invalid
func (Check) Invalid() error { return ErrInvalid }

// Unsupported implements Mode.Unsupported
func (Check) Unsupported(reason Reason) error { return newUnsupported(reason) }

// NotFound implements Mode.NotFound
func (Check) NotFound() error { return ErrNotFound }

// Check implements Mode.Check
func (Use) Check(cond bool) error {
	if verify && !cond {
		panic(errUnreachable)
	}
	return nil
}

// Invalid implements Mode.Invalid
func (Use) Invalid() error { panic(errUnreachable) }

// Unsupported implements Mode.Unsupported
func (Use) Unsupported(Reason) error { panic(errUnreachable) }

// NotFound implements Mode.NotFound
func (Use) NotFound() error { panic(errUnreachable) }
