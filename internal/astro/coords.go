package astro

import (
	"math"

	"github.com/soniakeys/unit"
)

// Equatorial holds geocentric or topocentric equatorial coordinates.
type Equatorial struct {
	RA  unit.Angle
	Dec unit.Angle
}

// Earth constants used for diurnal parallax.
const (
	earthEquatorialRadiusKm = 6378.14
	// Ratio of polar to equatorial radius, for geodetic flattening.
	earthOblateness = 0.99664719
)

// obliquity returns the mean obliquity of the ecliptic (first order in T is
// what dominates over the supported date range).
func obliquity(T float64) unit.Angle {
	eps := 23.439291111 - 0.013004167*T - 0.00000164*T*T + 0.000000504*T*T*T
	return unit.AngleFromDeg(eps)
}

// eclipticToEquatorial rotates ecliptic longitude/latitude to right
// ascension/declination using the given obliquity.
func eclipticToEquatorial(lon, lat, eps unit.Angle) Equatorial {
	sinLon, cosLon := math.Sincos(lon.Rad())
	sinLat, cosLat := math.Sincos(lat.Rad())
	sinEps, cosEps := math.Sincos(eps.Rad())

	dec := math.Asin(sinLat*cosEps + cosLat*sinEps*sinLon)

	ra := math.Atan2(sinLon*cosEps-math.Tan(lat.Rad())*sinEps, cosLon)
	if ra < 0 {
		ra += 2 * math.Pi
	}

	return Equatorial{RA: unit.Angle(ra), Dec: unit.Angle(dec)}
}

// topocentric corrects geocentric equatorial coordinates for diurnal
// parallax at an observer of geodetic latitude lat, given the body's hour
// angle and its distance in km. It returns the corrected coordinates and the
// shift in right ascension (so the caller can correct the hour angle too).
// This materially changes moonrise/moonset timing and must be applied before
// altitude evaluation.
func topocentric(eq Equatorial, lat unit.Angle, hourAngle unit.Angle, distKm float64) (Equatorial, unit.Angle) {
	// Geodetic observer terms with Earth's oblateness.
	u := math.Atan(earthOblateness * math.Tan(lat.Rad()))
	rhoSinPhi := earthOblateness * math.Sin(u)
	rhoCosPhi := math.Cos(u)

	// Horizontal parallax: sin(pi) = equatorial radius / distance.
	sinPi := earthEquatorialRadiusKm / distKm

	sinH, cosH := math.Sincos(hourAngle.Rad())
	sinDec, cosDec := math.Sincos(eq.Dec.Rad())

	dRA := math.Atan2(-rhoCosPhi*sinPi*sinH, cosDec-rhoCosPhi*sinPi*cosH)
	dec := math.Atan2((sinDec-rhoSinPhi*sinPi)*math.Cos(dRA), cosDec-rhoCosPhi*sinPi*cosH)

	return Equatorial{RA: eq.RA + unit.Angle(dRA), Dec: unit.Angle(dec)}, unit.Angle(dRA)
}

// altitude returns the body's altitude above the horizon for an observer at
// latitude lat given equatorial coordinates and the local hour angle.
func altitude(eq Equatorial, lat unit.Angle, hourAngle unit.Angle) unit.Angle {
	sinLat, cosLat := math.Sincos(lat.Rad())
	sinDec, cosDec := math.Sincos(eq.Dec.Rad())
	return unit.Angle(math.Asin(sinLat*sinDec + cosLat*cosDec*math.Cos(hourAngle.Rad())))
}
