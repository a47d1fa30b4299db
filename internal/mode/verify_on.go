//go:build interp_verify

package mode

// verify makes Use evaluate its conditions.
const verify = true
