package sim

import "math"

// clampFloat is the timer-file clamp: GD float items saturate at
// 9999999 and never go negative-infinite or NaN in practice, so only
// the upper bound is enforced, matching the reference interpreter.
func clampFloat(v float64) float64 {
	if v > 9999999.0 {
		return 9999999.0
	}
	return v
}

// clampInt is the counter-file clamp: values saturate to the i32 range
// and then wrap to i32::MIN if the saturated value would exceed
// i32::MAX, simulating the host's signed-overflow quirk exactly as
// the reference interpreter's clamp() does.
func clampInt(v float64) int32 {
	clamped := math.Max(-2147483648.0, math.Min(v, 2147483648.0))
	if clamped > math.MaxInt32 {
		return math.MinInt32
	}
	return int32(clamped)
}
