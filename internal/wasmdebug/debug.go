// Package wasmdebug contains utilities used to give consistent search keys between stack traces and error messages.
package wasmdebug

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/wasmruntime"
)

// FuncName returns "moduleName.funcName", or "moduleName.$funcIdx" when funcName is empty, as commonly seen in
// stack traces. moduleName is the possibly empty name the module was instantiated with.
func FuncName(moduleName, funcName string, funcIdx uint32) string {
	if funcName == "" {
		funcName = "$" + strconv.FormatUint(uint64(funcIdx), 10)
	}
	return moduleName + "." + funcName
}

// signature formats funcName with its types the way Go prints a func, ex. "x.y(i32,i64) (f32,f64)".
func signature(funcName string, paramTypes []api.ValueType, resultTypes []api.ValueType) string {
	var ret strings.Builder
	ret.WriteString(funcName)
	ret.WriteByte('(')
	writeTypes(&ret, paramTypes)
	ret.WriteByte(')')

	switch len(resultTypes) {
	case 0:
	case 1:
		ret.WriteByte(' ')
		ret.WriteString(api.ValueTypeName(resultTypes[0]))
	default:
		ret.WriteString(" (")
		writeTypes(&ret, resultTypes)
		ret.WriteByte(')')
	}
	return ret.String()
}

func writeTypes(b *strings.Builder, types []api.ValueType) {
	for i, vt := range types {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(api.ValueTypeName(vt))
	}
}

// ErrorBuilder helps build consistent errors, particularly adding a WASM stack trace.
//
// AddFrame should be called beginning at the frame that panicked until no more frames exist. Once done, call Format.
type ErrorBuilder interface {
	// AddFrame adds the next frame.
	//
	// * funcName should be from FuncName
	// * paramTypes should be from wasm.FunctionType
	// * resultTypes should be from wasm.FunctionType
	//
	// Note: paramTypes and resultTypes are present because signature misunderstanding, mismatch or overflow are common.
	AddFrame(funcName string, paramTypes, resultTypes []api.ValueType)

	// FromRecovered returns an error with the wasm stack trace appended to it.
	FromRecovered(recovered interface{}) error
}

func NewErrorBuilder() ErrorBuilder {
	return &stackTrace{}
}

type stackTrace struct {
	// frameCount is the number of stack frame currently pushed into lines.
	frameCount int
	// lines contains the stack trace and possibly the inlined source code information.
	lines []string
}

// GoRuntimeErrorTracePrefix is the prefix coming before the Go runtime stack trace included in the face of runtime.Error.
// This is exported for testing purpose.
const GoRuntimeErrorTracePrefix = "Go runtime stack trace:"

func (s *stackTrace) FromRecovered(recovered interface{}) error {
	stack := strings.Join(s.lines, "\n\t")

	// If the error was internal, don't mention it was recovered.
	if wasmErr, ok := recovered.(*wasmruntime.Error); ok {
		return &traceError{err: wasmErr, msg: fmt.Sprintf("%s\nwasm stack trace:\n\t%s", wasmErr, stack)}
	}

	// If we have a runtime.Error, something severe happened which should include the stack trace. This could be
	// a nil pointer from wasm or a host function.
	if runtimeErr, ok := recovered.(runtime.Error); ok {
		return &traceError{err: runtimeErr, msg: fmt.Sprintf("%v (recovered by interp)\nwasm stack trace:\n\t%s\n\n%s\n%s",
			runtimeErr, stack, GoRuntimeErrorTracePrefix, debug.Stack())}
	}

	// At this point we expect the error was from a function.
	if runtimeErr, ok := recovered.(error); ok {
		return &traceError{err: runtimeErr, msg: fmt.Sprintf("%v (recovered by interp)\nwasm stack trace:\n\t%s", runtimeErr, stack)}
	}
	return fmt.Errorf("%v (recovered by interp)\nwasm stack trace:\n\t%s", recovered, stack)
}

// MaxFrames is the maximum number of frames to include in the stack trace.
const MaxFrames = 30

// AddFrame implements ErrorBuilder.AddFrame
func (s *stackTrace) AddFrame(funcName string, paramTypes, resultTypes []api.ValueType) {
	if s.frameCount == MaxFrames {
		return
	}
	s.frameCount++
	s.lines = append(s.lines, signature(funcName, paramTypes, resultTypes))
	if s.frameCount == MaxFrames {
		s.lines = append(s.lines, "... maybe followed by omitted frames")
	}
}

// traceError keeps the recovered error reachable through errors.Unwrap.
type traceError struct {
	err error
	msg string
}

func (e *traceError) Error() string { return e.msg }

func (e *traceError) Unwrap() error { return e.err }

var _ interface{ Unwrap() error } = (*traceError)(nil)
