package astro

import (
	"math"
	"time"

	"github.com/mooncaker816/learnmeeus/v3/julian"

	"github.com/skyglow/horizon-events/internal/domain"
)

// jdAt returns the Julian day for a UTC instant.
func jdAt(t time.Time) float64 {
	t = t.UTC()
	day := float64(t.Day()) +
		(float64(t.Hour())+float64(t.Minute())/60+float64(t.Second())/3600)/24
	return julian.CalendarGregorianToJD(t.Year(), int(t.Month()), day)
}

// jdAtLocalMinute returns the Julian day for a minute of the local civil day
// at the location. The local day is UTC midnight shifted by the fixed offset.
func jdAtLocalMinute(loc domain.GeoLocation, date domain.Date, minute int) float64 {
	jd0 := julian.CalendarGregorianToJD(date.Year, int(date.Month), float64(date.Day))
	utcMinute := float64(minute) - float64(loc.UTCOffsetMin)
	return jd0 + utcMinute/1440
}

// jdAtLocalSecond is jdAtLocalMinute at one-second resolution, for the
// bisection refinement of horizon crossings.
func jdAtLocalSecond(loc domain.GeoLocation, date domain.Date, second int) float64 {
	jd0 := julian.CalendarGregorianToJD(date.Year, int(date.Month), float64(date.Day))
	utcSecond := float64(second) - float64(loc.UTCOffsetMin)*60
	return jd0 + utcSecond/86400
}

// centuries returns Julian centuries since J2000.0.
func centuries(jd float64) float64 {
	return (jd - 2451545.0) / 36525.0
}

// gmst returns Greenwich mean sidereal time in degrees (IAU 1982 model).
func gmst(jd float64) float64 {
	jd0 := math.Floor(jd-0.5) + 0.5
	t := (jd0 - 2451545.0) / 36525.0

	// GMST at the preceding midnight, in hours.
	h := 6.697374558 + 2400.0513369*t + 0.0000258622*t*t - 1.7222e-9*t*t*t
	h += 1.00273790935 * (jd - jd0) * 24

	h = math.Mod(h, 24)
	if h < 0 {
		h += 24
	}
	return h * 15
}

// normalizeDeg wraps an angle to [0, 360).
func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
