package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidLocation is returned when coordinates or the UTC offset are out
// of range. Callers must keep their previous valid record rather than
// overwrite it.
var ErrInvalidLocation = errors.New("invalid location")

// Coordinate and offset bounds. The offset bound matches the widest real
// UTC offsets (UTC-12 to UTC+14) with headroom.
const (
	maxLatE6        = 90_000_000
	maxLonE6        = 180_000_000
	maxUTCOffsetMin = 18 * 60
)

// Date is a civil calendar date in the proleptic Gregorian calendar.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Stamp returns the date as a yyyymmdd integer, useful for rollover
// comparisons and cache keys.
func (d Date) Stamp() int {
	return d.Year*10000 + int(d.Month)*100 + d.Day
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// GeoLocation is an observer position: latitude and longitude in millionths
// of a degree, plus a fixed UTC offset in minutes (no DST rules). A location
// is immutable once constructed; updates replace the whole value.
type GeoLocation struct {
	LatE6        int32
	LonE6        int32
	UTCOffsetMin int32
	Valid        bool
}

// NewGeoLocation builds a location from degrees, rounding half away from
// zero to match the e6 encoding used on the wire.
func NewGeoLocation(latDeg, lonDeg float64, utcOffsetMin int32) GeoLocation {
	return GeoLocation{
		LatE6:        roundE6(latDeg),
		LonE6:        roundE6(lonDeg),
		UTCOffsetMin: utcOffsetMin,
		Valid:        true,
	}
}

func roundE6(deg float64) int32 {
	if deg >= 0 {
		return int32(deg*1e6 + 0.5)
	}
	return int32(deg*1e6 - 0.5)
}

// Lat returns latitude in degrees.
func (l GeoLocation) Lat() float64 { return float64(l.LatE6) / 1e6 }

// Lon returns longitude in degrees.
func (l GeoLocation) Lon() float64 { return float64(l.LonE6) / 1e6 }

// Validate checks the location against representable ranges.
func (l GeoLocation) Validate() error {
	if !l.Valid {
		return fmt.Errorf("%w: not set", ErrInvalidLocation)
	}
	if l.LatE6 < -maxLatE6 || l.LatE6 > maxLatE6 {
		return fmt.Errorf("%w: latitude %d out of range", ErrInvalidLocation, l.LatE6)
	}
	if l.LonE6 < -maxLonE6 || l.LonE6 > maxLonE6 {
		return fmt.Errorf("%w: longitude %d out of range", ErrInvalidLocation, l.LonE6)
	}
	if l.UTCOffsetMin < -maxUTCOffsetMin || l.UTCOffsetMin > maxUTCOffsetMin {
		return fmt.Errorf("%w: utc offset %d out of range", ErrInvalidLocation, l.UTCOffsetMin)
	}
	return nil
}

// SunState classifies a day's sun events.
type SunState int

const (
	SunNormal SunState = iota
	SunAlwaysDay
	SunAlwaysNight
	SunInvalid
)

func (s SunState) String() string {
	switch s {
	case SunNormal:
		return "normal"
	case SunAlwaysDay:
		return "always_day"
	case SunAlwaysNight:
		return "always_night"
	default:
		return "invalid"
	}
}

// MoonState classifies a day's moon events.
type MoonState int

const (
	MoonNormal MoonState = iota
	MoonAlwaysUp
	MoonAlwaysDown
	MoonInvalid
)

func (s MoonState) String() string {
	switch s {
	case MoonNormal:
		return "normal"
	case MoonAlwaysUp:
		return "always_up"
	case MoonAlwaysDown:
		return "always_down"
	default:
		return "invalid"
	}
}

// SunEvents holds one local day's sunrise/sunset in minutes since local
// midnight. Exactly one of {normal, AlwaysDay, AlwaysNight} holds when Valid:
// the minute fields are meaningful only in the normal case.
type SunEvents struct {
	Valid       bool
	AlwaysDay   bool
	AlwaysNight bool
	SunriseMin  int
	SunsetMin   int
}

// State reduces the flag set to a tagged classification.
func (e SunEvents) State() SunState {
	switch {
	case !e.Valid:
		return SunInvalid
	case e.AlwaysDay:
		return SunAlwaysDay
	case e.AlwaysNight:
		return SunAlwaysNight
	default:
		return SunNormal
	}
}

// MoonEvents mirrors SunEvents for moonrise/moonset. Produced only by the
// precision solver; the fixed-point fallback does not attempt lunar position.
type MoonEvents struct {
	Valid       bool
	AlwaysUp    bool
	AlwaysDown  bool
	MoonriseMin int
	MoonsetMin  int
}

// State reduces the flag set to a tagged classification.
func (e MoonEvents) State() MoonState {
	switch {
	case !e.Valid:
		return MoonInvalid
	case e.AlwaysUp:
		return MoonAlwaysUp
	case e.AlwaysDown:
		return MoonAlwaysDown
	default:
		return MoonNormal
	}
}
