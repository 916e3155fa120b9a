package domain

import "time"

// LocalDate returns the calendar date at the location for the given UTC
// instant. Local time is UTC shifted by the fixed offset; no DST rules are
// applied beyond the offset itself.
func LocalDate(loc GeoLocation, now time.Time) Date {
	shifted := now.UTC().Add(time.Duration(loc.UTCOffsetMin) * time.Minute)
	y, m, d := shifted.Date()
	return Date{Year: y, Month: m, Day: d}
}

// LocalMinuteOfDay returns minutes since local midnight (0-1439) at the
// location for the given UTC instant.
func LocalMinuteOfDay(loc GeoLocation, now time.Time) int {
	shifted := now.UTC().Add(time.Duration(loc.UTCOffsetMin) * time.Minute)
	return shifted.Hour()*60 + shifted.Minute()
}
