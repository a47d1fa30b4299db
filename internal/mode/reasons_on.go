//go:build !interp_strip_reasons

package mode

const stripReasons = false
