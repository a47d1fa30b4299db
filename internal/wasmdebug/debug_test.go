package wasmdebug

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embedwasm/interp/api"
	"github.com/embedwasm/interp/internal/wasmruntime"
)

var (
	i32, i64, f32, f64 = api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64

	errHost = errors.New("host failed")
)

func TestFuncName(t *testing.T) {
	tests := []struct {
		moduleName, funcName string
		funcIdx              uint32
		expected             string
	}{
		{expected: ".$0"},
		{moduleName: "m", funcIdx: 42, expected: "m.$42"},
		{moduleName: "m", funcName: "add", funcIdx: 42, expected: "m.add"},
		{moduleName: "a.b", funcName: "c.d", expected: "a.b.c.d"},
		{funcName: "$1", funcIdx: 7, expected: ".$1"},
	}

	for _, tc := range tests {
		require.Equal(t, tc.expected, FuncName(tc.moduleName, tc.funcName, tc.funcIdx))
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		params, results []api.ValueType
		expected        string
	}{
		{expected: "f()"},
		{params: []api.ValueType{i32}, expected: "f(i32)"},
		{params: []api.ValueType{i32, i64, f32}, expected: "f(i32,i64,f32)"},
		{results: []api.ValueType{f64}, expected: "f() f64"},
		{results: []api.ValueType{f64, i32}, expected: "f() (f64,i32)"},
		{params: []api.ValueType{i64, i64}, results: []api.ValueType{i64}, expected: "f(i64,i64) i64"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			require.Equal(t, tc.expected, signature("f", tc.params, tc.results))
		})
	}
}

// goRuntimeError implements runtime.Error.
type goRuntimeError string

var _ runtime.Error = goRuntimeError("")

func (e goRuntimeError) RuntimeError() {}

func (e goRuntimeError) Error() string { return string(e) }

func TestErrorBuilder_FromRecovered(t *testing.T) {
	frames := func() ErrorBuilder {
		b := NewErrorBuilder()
		b.AddFrame("test.div", []api.ValueType{i32, i32}, []api.ValueType{i32})
		b.AddFrame("test.main", nil, nil)
		return b
	}

	t.Run("trap", func(t *testing.T) {
		err := frames().FromRecovered(wasmruntime.ErrRuntimeIntegerDivideByZero)
		require.EqualError(t, err, "wasm error: integer divide by zero\nwasm stack trace:\n\ttest.div(i32,i32) i32\n\ttest.main()")
		require.ErrorIs(t, err, wasmruntime.ErrRuntimeIntegerDivideByZero)
		require.ErrorIs(t, err, wasmruntime.ErrTrap)
	})
	t.Run("error", func(t *testing.T) {
		err := frames().FromRecovered(errHost)
		require.EqualError(t, err, "host failed (recovered by interp)\nwasm stack trace:\n\ttest.div(i32,i32) i32\n\ttest.main()")
		require.Equal(t, errHost, errors.Unwrap(err))
		require.NotErrorIs(t, err, wasmruntime.ErrTrap)
	})
	t.Run("go runtime error", func(t *testing.T) {
		rte := goRuntimeError("index out of range")
		err := frames().FromRecovered(rte)
		require.Equal(t, rte, errors.Unwrap(err))
		msg := err.Error()
		require.Contains(t, msg, "index out of range (recovered by interp)\nwasm stack trace:\n\ttest.div(i32,i32) i32\n\ttest.main()")
		require.Contains(t, msg, GoRuntimeErrorTracePrefix)
		require.Contains(t, msg, "debug_test.go")
	})
	t.Run("other value", func(t *testing.T) {
		err := frames().FromRecovered(42)
		require.EqualError(t, err, "42 (recovered by interp)\nwasm stack trace:\n\ttest.div(i32,i32) i32\n\ttest.main()")
	})
}

func TestErrorBuilder_MaxFrames(t *testing.T) {
	b := NewErrorBuilder().(*stackTrace)
	for i := 0; i < MaxFrames*2; i++ {
		b.AddFrame(FuncName("test", "", uint32(i)), nil, nil)
	}
	require.Equal(t, MaxFrames, b.frameCount)
	require.Len(t, b.lines, MaxFrames+1)
	require.Equal(t, "test.$29()", b.lines[MaxFrames-1])
	require.Equal(t, "... maybe followed by omitted frames", b.lines[MaxFrames])
}
