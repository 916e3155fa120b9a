// Package solver implements horizon-crossing detection shared by the
// precision and fixed-point solvers: coarse sampling across the local day
// followed by bisection refinement of each above/below flip.
package solver

// AltitudeModel reports whether a body is above its horizon threshold at a
// given second of the local day (0-86399). Each solver folds its own
// threshold comparison into the implementation: the precision solver compares
// altitude against the threshold angle, the fixed-point solver compares
// scaled sin(altitude) against scaled sin(threshold) so it never needs
// inverse trig.
type AltitudeModel interface {
	AboveHorizon(secondOfDay int) bool
}

const secondsPerDay = 24 * 60 * 60

// Events is the outcome of one day's horizon-crossing search. RiseMin and
// SetMin are minutes since local midnight, rounded to the nearest minute of
// the bisected crossing, and are meaningful only when neither Always flag is
// set.
type Events struct {
	RiseMin     int
	SetMin      int
	AlwaysAbove bool
	AlwaysBelow bool
}

// FindEvents samples the model at stepMin intervals across the 24-hour
// window and bisects each flip for bisectIters iterations. The bisection
// runs at one-second resolution so the reported minute is the nearest one to
// the crossing instant rather than the first sample past it. The first rise
// and first set found are recorded independently.
//
// When no flip occurs at all, the day is classified always-above if more
// than half the samples were above threshold, else always-below. The
// majority test divides by 1440/stepMin even though one extra sample is
// taken at second 0; this off-by-one is part of the reproducible policy and
// must not be corrected.
func FindEvents(m AltitudeModel, stepMin, bisectIters int) Events {
	stepSec := stepMin * 60
	rise, set := -1, -1
	aboveCount := 0

	prevAbove := m.AboveHorizon(0)
	if prevAbove {
		aboveCount++
	}

	for sec := stepSec; sec <= secondsPerDay; sec += stepSec {
		sample := sec
		if sample == secondsPerDay {
			sample = secondsPerDay - 1
		}
		above := m.AboveHorizon(sample)
		if above {
			aboveCount++
		}

		if above != prevAbove {
			crossing := Bisect(m, sec-stepSec, sec, prevAbove, bisectIters)
			minute := nearestMinute(crossing)
			if !prevAbove && above {
				if rise < 0 {
					rise = minute
				}
			} else if set < 0 {
				set = minute
			}
		}

		prevAbove = above
	}

	if rise < 0 && set < 0 {
		samples := 1440 / stepMin
		out := Events{RiseMin: -1, SetMin: -1}
		if aboveCount > samples/2 {
			out.AlwaysAbove = true
		} else {
			out.AlwaysBelow = true
		}
		return out
	}

	if rise < 0 {
		rise = 0
	}
	if set < 0 {
		set = 0
	}
	return Events{RiseMin: rise, SetMin: set}
}

// Bisect localizes a crossing inside (lo, hi] seconds where the model
// classification at lo is loAbove and flips somewhere before hi. It halves
// the interval for a fixed iteration count and returns the first second
// classified opposite to loAbove. Ten iterations shrink a 10-minute bracket
// to a single second. Re-running on an already-localized interval returns
// the same second: the loop is deterministic in lo, hi, and the model.
func Bisect(m AltitudeModel, lo, hi int, loAbove bool, iters int) int {
	for i := 0; i < iters; i++ {
		mid := (lo + hi) / 2
		if m.AboveHorizon(mid) == loAbove {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}

// nearestMinute rounds a second of day to the closest minute, clamped to the
// 0-1439 range.
func nearestMinute(sec int) int {
	minute := (sec + 30) / 60
	if minute < 0 {
		return 0
	}
	if minute > 1439 {
		return 1439
	}
	return minute
}
