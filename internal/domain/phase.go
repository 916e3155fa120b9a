package domain

import "math"

// MoonPhase is the phase cycle fraction in [0,1): 0 new moon, 0.5 full,
// wrapping at 1 back to 0. Derived from the ecliptic elongation of the moon
// from the sun, independent of rise/set.
type MoonPhase float64

// SynodicMonth is the average length of the lunar phase cycle in days.
const SynodicMonth = 29.530588853

// Normalize wraps the fraction into [0,1).
func (p MoonPhase) Normalize() MoonPhase {
	f := math.Mod(float64(p), 1)
	if f < 0 {
		f++
	}
	return MoonPhase(f)
}

// E6 returns the fraction scaled by 1e6 for the wire record.
func (p MoonPhase) E6() int32 {
	return int32(float64(p.Normalize())*1e6 + 0.5)
}

// Illumination returns the illuminated disc fraction [0,1] implied by the
// phase fraction: 0 at new, 1 at full.
func (p MoonPhase) Illumination() float64 {
	return (1 - math.Cos(2*math.Pi*float64(p.Normalize()))) / 2
}

// Waxing reports whether the moon is growing fuller (first half of the cycle).
func (p MoonPhase) Waxing() bool {
	return float64(p.Normalize()) < 0.5
}

// AgeDays returns days elapsed since new moon.
func (p MoonPhase) AgeDays() float64 {
	return float64(p.Normalize()) * SynodicMonth
}
