// Package fallback implements the constrained sun-only solver. It is the
// local approximation used when the precision source is unavailable, and it
// mirrors the numeric regime of the watch-class device it stands in for:
// every intermediate is an integer scaled by 1e6, every trigonometric
// evaluation goes through the fixed-point lookup, and no transcendental
// function is ever called. Rise/set detection compares sin(altitude) against
// sin(horizon) directly, which is monotonic over the relevant domain and
// avoids inverse trig entirely.
package fallback

import (
	"github.com/skyglow/horizon-events/internal/domain"
	"github.com/skyglow/horizon-events/internal/fixedpoint"
	"github.com/skyglow/horizon-events/internal/solver"
)

const (
	// Sampling cadence and bisection depth for the horizon search.
	stepMinutes      = 10
	bisectIterations = 10

	// Sunrise/sunset convention: sun center at -0.833 degrees altitude
	// (atmospheric refraction plus solar semidiameter).
	horizonDegE6 = -833_000
)

var daysBeforeMonth = [13]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

func dayOfYear(d domain.Date) int {
	doy := daysBeforeMonth[int(d.Month)] + d.Day
	leap := (d.Year%4 == 0 && d.Year%100 != 0) || d.Year%400 == 0
	if leap && int(d.Month) > 2 {
		doy++
	}
	return doy
}

// sunModel evaluates the NOAA equation-of-time/declination approximation in
// e6 fixed point and classifies each minute against sin(horizon).
type sunModel struct {
	dayOfYear   int
	latE6       int32
	lonE6       int32
	tzOffsetMin int32
	sinHorizon  int32
}

func (m sunModel) AboveHorizon(second int) bool {
	return m.sinAltScaled(second) > m.sinHorizon
}

// sinAltScaled returns sin(altitude) of the sun at the given local second of
// day, scaled by TrigMaxRatio. Products that could overflow 32 bits are
// widened to int64 before rescaling.
func (m sunModel) sinAltScaled(second int) int32 {
	// gamma = 2*pi/365 * (N-1 + (second-43200)/86400), in turn units.
	a := int64(fixedpoint.TrigMaxAngle) * int64(m.dayOfYear-1) / 365
	b := int64(fixedpoint.TrigMaxAngle) * int64(second-43200) / (365 * 86400)
	gamma := int32(a + b)

	sin1 := fixedpoint.SinLookup(gamma)
	cos1 := fixedpoint.CosLookup(gamma)
	sin2 := fixedpoint.SinLookup(gamma * 2)
	cos2 := fixedpoint.CosLookup(gamma * 2)
	sin3 := fixedpoint.SinLookup(gamma * 3)
	cos3 := fixedpoint.CosLookup(gamma * 3)

	// Equation of time (seconds):
	// 13750.8 * (0.000075 + 0.001868 cosg - 0.032077 sing - 0.014615 cos2g - 0.040849 sin2g)
	// where 13750.8 = 229.18 min * 60. The bracket is evaluated in 1e6 scale,
	// so the combined rescale divisor is 1e9; dividing by 1e6 would leave the
	// result 1000x too large and wrap true solar time arbitrarily.
	sumE6 := int64(75)
	sumE6 += int64(1868) * int64(cos1) / fixedpoint.TrigMaxRatio
	sumE6 += int64(-32077) * int64(sin1) / fixedpoint.TrigMaxRatio
	sumE6 += int64(-14615) * int64(cos2) / fixedpoint.TrigMaxRatio
	sumE6 += int64(-40849) * int64(sin2) / fixedpoint.TrigMaxRatio
	eqtimeSec := int64(13750800) * sumE6 / 1_000_000_000

	// Solar declination (radians, 1e6 scale):
	// 0.006918 - 0.399912 cosg + 0.070257 sing - 0.006758 cos2g
	//   + 0.000907 sin2g - 0.002697 cos3g + 0.00148 sin3g
	declE6 := int64(6918)
	declE6 += int64(-399912) * int64(cos1) / fixedpoint.TrigMaxRatio
	declE6 += int64(70257) * int64(sin1) / fixedpoint.TrigMaxRatio
	declE6 += int64(-6758) * int64(cos2) / fixedpoint.TrigMaxRatio
	declE6 += int64(907) * int64(sin2) / fixedpoint.TrigMaxRatio
	declE6 += int64(-2697) * int64(cos3) / fixedpoint.TrigMaxRatio
	declE6 += int64(1480) * int64(sin3) / fixedpoint.TrigMaxRatio
	declTrig := fixedpoint.RadE6ToTrig(int32(declE6))

	// True solar time in seconds:
	// tst = second + eqtimeSec + 240*lonDeg - tzOffsetMin*60
	lonTermSec := int64(240) * int64(m.lonE6) / 1_000_000
	tstSec := int64(second) + eqtimeSec + lonTermSec - int64(m.tzOffsetMin)*60
	tstSec %= 86400
	if tstSec < 0 {
		tstSec += 86400
	}

	// Hour angle: ha_deg = tst/240 - 180, expressed directly in turn units.
	haTrig := int32(int64(fixedpoint.TrigMaxAngle) * (tstSec - 43200) / 86400)

	latTrig := fixedpoint.DegE6ToTrig(m.latE6)
	sinLat := fixedpoint.SinLookup(latTrig)
	cosLat := fixedpoint.CosLookup(latTrig)
	sinDec := fixedpoint.SinLookup(declTrig)
	cosDec := fixedpoint.CosLookup(declTrig)
	cosHA := fixedpoint.CosLookup(haTrig)

	// sin(alt) = sin(lat) sin(dec) + cos(lat) cos(dec) cos(H)
	term1 := int64(sinLat) * int64(sinDec) / fixedpoint.TrigMaxRatio
	term2 := int64(cosLat) * int64(cosDec) / fixedpoint.TrigMaxRatio
	term2 = term2 * int64(cosHA) / fixedpoint.TrigMaxRatio
	return fixedpoint.ClampI32(term1 + term2)
}

// SunEvents computes sunrise/sunset for the location's local calendar date.
// It refuses out-of-range input so the caller's previous record survives.
func SunEvents(loc domain.GeoLocation, date domain.Date) (domain.SunEvents, error) {
	if err := loc.Validate(); err != nil {
		return domain.SunEvents{}, err
	}

	model := sunModel{
		dayOfYear:   dayOfYear(date),
		latE6:       loc.LatE6,
		lonE6:       loc.LonE6,
		tzOffsetMin: loc.UTCOffsetMin,
		sinHorizon:  fixedpoint.SinLookup(fixedpoint.DegE6ToTrig(horizonDegE6)),
	}

	found := solver.FindEvents(model, stepMinutes, bisectIterations)
	out := domain.SunEvents{Valid: true}
	if found.AlwaysAbove {
		out.AlwaysDay = true
		return out, nil
	}
	if found.AlwaysBelow {
		out.AlwaysNight = true
		return out, nil
	}
	out.SunriseMin = found.RiseMin
	out.SunsetMin = found.SetMin
	return out, nil
}
