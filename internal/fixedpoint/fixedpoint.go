// Package fixedpoint provides the integer trigonometry and scaling
// primitives for the constrained solver, which must not call transcendental
// math functions. Angles are integer fractions of a full turn, sine/cosine
// come from a precomputed quarter-wave table, and values that could overflow
// 32 bits are widened to 64-bit intermediates and clamped on the way back.
package fixedpoint

//go:generate go run gen/main.go

const (
	// TrigMaxAngle is one full turn in lookup angle units.
	TrigMaxAngle = 0x10000
	// TrigMaxRatio is the scale factor of SinLookup/CosLookup outputs.
	TrigMaxRatio = 0x10000

	quarterTurn = TrigMaxAngle / 4
	// tableStep is the angle covered by one table interval.
	tableStep = quarterTurn / 256
)

// SinLookup returns sin(angle) scaled by TrigMaxRatio, where angle is in
// turn units (TrigMaxAngle == 360 degrees). Values between table entries are
// linearly interpolated.
func SinLookup(angle int32) int32 {
	a := int64(angle) % TrigMaxAngle
	if a < 0 {
		a += TrigMaxAngle
	}

	neg := false
	if a >= TrigMaxAngle/2 {
		neg = true
		a -= TrigMaxAngle / 2
	}
	if a > quarterTurn {
		a = TrigMaxAngle/2 - a
	}

	idx := a / tableStep
	frac := a % tableStep
	v := int64(sinQuarter[idx])
	if frac != 0 {
		v += (int64(sinQuarter[idx+1]) - v) * frac / tableStep
	}

	if neg {
		v = -v
	}
	return int32(v)
}

// CosLookup returns cos(angle) scaled by TrigMaxRatio.
func CosLookup(angle int32) int32 {
	return SinLookup(angle + quarterTurn)
}

// DegE6ToTrig converts degrees scaled by 1e6 to turn units.
func DegE6ToTrig(degE6 int32) int32 {
	return int32(int64(TrigMaxAngle) * int64(degE6) / (360 * 1_000_000))
}

// RadE6ToTrig converts radians scaled by 1e6 to turn units.
// 2*pi radians == TrigMaxAngle; 2*pi*1e6 ~= 6283185.
func RadE6ToTrig(radE6 int32) int32 {
	return int32(int64(TrigMaxAngle) * int64(radE6) / 6283185)
}

// MulRatio multiplies two TrigMaxRatio-scaled values, widening to 64 bits
// before rescaling so the intermediate cannot overflow.
func MulRatio(a, b int32) int32 {
	return ClampI32(int64(a) * int64(b) / TrigMaxRatio)
}

// ClampI32 saturates a 64-bit intermediate to the int32 range. Wrapping
// silently is never acceptable here.
func ClampI32(v int64) int32 {
	const (
		maxI32 = 1<<31 - 1
		minI32 = -1 << 31
	)
	if v > maxI32 {
		return maxI32
	}
	if v < minI32 {
		return minI32
	}
	return int32(v)
}
