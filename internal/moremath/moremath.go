// Package moremath holds the float operators whose Wasm semantics are not
// those of the math package.
package moremath

import "math"

// WasmCompatMin returns the lesser of x and y. A NaN operand wins over every
// other value, including -Inf, and -0 is less than +0.
func WasmCompatMin(x, y float64) float64 {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN()
	}
	if x == y {
		// Only the zeros compare equal with different bits.
		if math.Signbit(x) {
			return x
		}
		return y
	}
	if x < y {
		return x
	}
	return y
}

// WasmCompatMax returns the greater of x and y. A NaN operand wins over every
// other value, including +Inf, and +0 is greater than -0.
func WasmCompatMax(x, y float64) float64 {
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.NaN()
	}
	if x == y {
		if math.Signbit(x) {
			return y
		}
		return x
	}
	if x > y {
		return x
	}
	return y
}

// WasmCompatMinF32 is WasmCompatMin for f32.min. Widening to float64 is exact.
func WasmCompatMinF32(x, y float32) float32 {
	return float32(WasmCompatMin(float64(x), float64(y)))
}

// WasmCompatMaxF32 is WasmCompatMax for f32.max.
func WasmCompatMaxF32(x, y float32) float32 {
	return float32(WasmCompatMax(float64(x), float64(y)))
}

// WasmCompatNearestF32 rounds half to even and keeps the sign of zero.
func WasmCompatNearestF32(f float32) float32 {
	return float32(math.RoundToEven(float64(f)))
}

// WasmCompatNearestF64 rounds half to even and keeps the sign of zero.
func WasmCompatNearestF64(f float64) float64 {
	return math.RoundToEven(f)
}
