package astro

import (
	"math"

	"github.com/soniakeys/unit"
)

// sunEclipticLongitude returns the sun's apparent ecliptic longitude for the
// given Julian centuries since J2000: mean longitude plus the equation of
// center evaluated from the mean anomaly (NOAA-style truncated series).
func sunEclipticLongitude(T float64) unit.Angle {
	l0 := 280.46646 + 36000.76983*T + 0.0003032*T*T

	m := 357.52911 + 35999.05029*T - 0.0001537*T*T
	mRad := unit.AngleFromDeg(normalizeDeg(m)).Rad()

	c := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(mRad) +
		(0.019993-0.000101*T)*math.Sin(2*mRad) +
		0.000289*math.Sin(3*mRad)

	return unit.AngleFromDeg(normalizeDeg(l0 + c))
}

// sunEquatorial returns the sun's geocentric right ascension and declination.
// The sun's ecliptic latitude is taken as zero.
func sunEquatorial(T float64) Equatorial {
	lon := sunEclipticLongitude(T)
	return eclipticToEquatorial(lon, 0, obliquity(T))
}
