package interpreter

import (
	"math"

	"github.com/embedwasm/interp/internal/wasmruntime"
)

// signedInt is the destination of a float to integer truncation.
type signedInt byte

const (
	signedInt32 signedInt = iota
	signedUint32
	signedInt64
	signedUint64
)

// truncate converts v, already widened to float64, to the integer kind. A NaN or out-of-range v traps unless
// saturate is set, in which case NaN becomes zero and out-of-range values clamp to the nearest bound.
func truncate(v float64, kind signedInt, saturate bool) uint64 {
	v = math.Trunc(v)
	if math.IsNaN(v) { // NaN cannot be compared with themselves, so we have to use IsNaN
		if !saturate {
			panic(wasmruntime.ErrRuntimeInvalidConversionToInteger)
		}
		return 0
	}
	switch kind {
	case signedInt32:
		if v < math.MinInt32 || v > math.MaxInt32 {
			if !saturate {
				panic(wasmruntime.ErrRuntimeIntegerOverflow)
			}
			if v < 0 {
				return 0x8000_0000
			}
			return math.MaxInt32
		}
		return uint64(uint32(int32(v)))
	case signedUint32:
		if v < 0 || v > math.MaxUint32 {
			if !saturate {
				panic(wasmruntime.ErrRuntimeIntegerOverflow)
			}
			if v < 0 {
				return 0
			}
			return math.MaxUint32
		}
		return uint64(uint32(v))
	case signedInt64:
		// Note: math.MaxInt64 is rounded up to math.MaxInt64+1 in 64-bit float representation,
		// and that's why we use '>=' not '>' to check overflow.
		if v < math.MinInt64 || v >= math.MaxInt64 {
			if !saturate {
				panic(wasmruntime.ErrRuntimeIntegerOverflow)
			}
			if v < 0 {
				return 1 << 63
			}
			return math.MaxInt64
		}
		return uint64(int64(v))
	default: // signedUint64
		if v < 0 || v >= math.MaxUint64 {
			if !saturate {
				panic(wasmruntime.ErrRuntimeIntegerOverflow)
			}
			if v < 0 {
				return 0
			}
			return math.MaxUint64
		}
		return uint64(v)
	}
}

func i32DivS(x, y int32) int32 {
	if y == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	if x == math.MinInt32 && y == -1 {
		panic(wasmruntime.ErrRuntimeIntegerOverflow)
	}
	return x / y
}

func i32DivU(x, y uint32) uint32 {
	if y == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	return x / y
}

func i32RemS(x, y int32) int32 {
	if y == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	if y == -1 {
		return 0
	}
	return x % y
}

func i32RemU(x, y uint32) uint32 {
	if y == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	return x % y
}

func i64DivS(x, y int64) int64 {
	if y == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	if x == math.MinInt64 && y == -1 {
		panic(wasmruntime.ErrRuntimeIntegerOverflow)
	}
	return x / y
}

func i64DivU(x, y uint64) uint64 {
	if y == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	return x / y
}

func i64RemS(x, y int64) int64 {
	if y == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	if y == -1 {
		return 0
	}
	return x % y
}

func i64RemU(x, y uint64) uint64 {
	if y == 0 {
		panic(wasmruntime.ErrRuntimeIntegerDivideByZero)
	}
	return x % y
}

const (
	f32SignBit = uint64(1) << 31
	f64SignBit = uint64(1) << 63
)

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
