package fallback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyglow/horizon-events/internal/astro"
	"github.com/skyglow/horizon-events/internal/domain"
)

func TestDayOfYear(t *testing.T) {
	cases := []struct {
		date domain.Date
		want int
	}{
		{domain.Date{Year: 2023, Month: time.January, Day: 1}, 1},
		{domain.Date{Year: 2023, Month: time.February, Day: 28}, 59},
		{domain.Date{Year: 2023, Month: time.March, Day: 1}, 60},
		{domain.Date{Year: 2023, Month: time.December, Day: 31}, 365},
		{domain.Date{Year: 2024, Month: time.February, Day: 29}, 60},
		{domain.Date{Year: 2024, Month: time.March, Day: 1}, 61},
		{domain.Date{Year: 2024, Month: time.December, Day: 31}, 366},
		{domain.Date{Year: 2000, Month: time.March, Day: 1}, 61}, // div by 400: leap
		{domain.Date{Year: 2100, Month: time.March, Day: 1}, 60}, // div by 100: common
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, dayOfYear(tc.date), tc.date.String())
	}
}

func TestSunEvents_EquinoxAtOrigin(t *testing.T) {
	loc := domain.NewGeoLocation(0, 0, 0)
	ev, err := SunEvents(loc, domain.Date{Year: 2024, Month: time.March, Day: 20})
	require.NoError(t, err)

	require.Equal(t, domain.SunNormal, ev.State())
	assert.InDelta(t, 360, ev.SunriseMin, 10)
	assert.InDelta(t, 1080, ev.SunsetMin, 10)
}

func TestSunEvents_PolarDayAndNight(t *testing.T) {
	loc := domain.NewGeoLocation(78.22, 15.65, 120)

	day, err := SunEvents(loc, domain.Date{Year: 2024, Month: time.June, Day: 20})
	require.NoError(t, err)
	assert.Equal(t, domain.SunAlwaysDay, day.State())

	night, err := SunEvents(loc, domain.Date{Year: 2024, Month: time.December, Day: 21})
	require.NoError(t, err)
	assert.Equal(t, domain.SunAlwaysNight, night.State())
}

func TestSunEvents_LongitudeShiftsLocalTime(t *testing.T) {
	// Same latitude and date, same UTC offset: moving 15 degrees west delays
	// local sunrise by about an hour.
	date := domain.Date{Year: 2024, Month: time.May, Day: 1}

	east, err := SunEvents(domain.NewGeoLocation(40, 0, 0), date)
	require.NoError(t, err)
	west, err := SunEvents(domain.NewGeoLocation(40, -15, 0), date)
	require.NoError(t, err)

	require.Equal(t, domain.SunNormal, east.State())
	require.Equal(t, domain.SunNormal, west.State())
	assert.InDelta(t, 60, west.SunriseMin-east.SunriseMin, 12)
	assert.InDelta(t, 60, west.SunsetMin-east.SunsetMin, 12)
}

// Solar noon (the rise/set midpoint at the equator on the prime meridian)
// equals 12:00 minus the equation of time, so it pins the eqtime scale and
// sign: a misscaled eqtime moves the whole day by hours, not minutes.
func TestSunEvents_SolarNoonTracksEquationOfTime(t *testing.T) {
	loc := domain.NewGeoLocation(0, 0, 0)
	cases := []struct {
		name     string
		date     domain.Date
		wantNoon float64 // minutes since midnight, 720 - eqtime
	}{
		{"early november, eqtime +16 min", domain.Date{Year: 2024, Month: time.November, Day: 3}, 704},
		{"mid february, eqtime -14 min", domain.Date{Year: 2024, Month: time.February, Day: 11}, 734},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := SunEvents(loc, tc.date)
			require.NoError(t, err)
			require.Equal(t, domain.SunNormal, ev.State())
			noon := float64(ev.SunriseMin+ev.SunsetMin) / 2
			assert.InDelta(t, tc.wantNoon, noon, 5)
		})
	}
}

// Both solvers must independently classify a polar day/night the same way;
// disagreement would let a fallback run flip a degenerate state.
func TestSunEvents_PolarDegenerationMatchesPrecisionSolver(t *testing.T) {
	loc := domain.NewGeoLocation(78.22, 15.65, 120)
	precise := astro.NewSolver()

	june := domain.Date{Year: 2024, Month: time.June, Day: 20}
	approx, err := SunEvents(loc, june)
	require.NoError(t, err)
	exact, err := precise.SunEvents(loc, june)
	require.NoError(t, err)
	assert.Equal(t, domain.SunAlwaysDay, approx.State())
	assert.Equal(t, exact.State(), approx.State())

	december := domain.Date{Year: 2024, Month: time.December, Day: 21}
	approx, err = SunEvents(loc, december)
	require.NoError(t, err)
	exact, err = precise.SunEvents(loc, december)
	require.NoError(t, err)
	assert.Equal(t, domain.SunAlwaysNight, approx.State())
	assert.Equal(t, exact.State(), approx.State())
}

func TestSunEvents_RefusesInvalidLocation(t *testing.T) {
	date := domain.Date{Year: 2024, Month: time.June, Day: 1}

	bad := domain.GeoLocation{LatE6: 95_000_000, Valid: true}
	_, err := SunEvents(bad, date)
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)

	var unset domain.GeoLocation
	_, err = SunEvents(unset, date)
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)
}

func TestSunEvents_Deterministic(t *testing.T) {
	loc := domain.NewGeoLocation(35.4676, -97.5164, -360)
	date := domain.Date{Year: 2024, Month: time.September, Day: 3}

	first, err := SunEvents(loc, date)
	require.NoError(t, err)
	second, err := SunEvents(loc, date)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// The approximation must land within 15 minutes of the precision solver for
// ordinary mid-latitude days. That bound covers the coarser 10-minute
// sampling, the lookup-table trig, and the truncated series.
func TestSunEvents_AgreesWithPrecisionSolver(t *testing.T) {
	cases := []struct {
		name string
		loc  domain.GeoLocation
		date domain.Date
	}{
		{"oklahoma summer", domain.NewGeoLocation(35.4676, -97.5164, -300), domain.Date{Year: 2024, Month: time.July, Day: 4}},
		{"london spring", domain.NewGeoLocation(51.5074, -0.1278, 60), domain.Date{Year: 2024, Month: time.April, Day: 15}},
		{"sydney winter", domain.NewGeoLocation(-33.8688, 151.2093, 600), domain.Date{Year: 2024, Month: time.June, Day: 21}},
		{"nairobi equinox", domain.NewGeoLocation(-1.2921, 36.8219, 180), domain.Date{Year: 2024, Month: time.September, Day: 22}},
		{"anchorage autumn", domain.NewGeoLocation(61.2181, -149.9003, -480), domain.Date{Year: 2024, Month: time.October, Day: 10}},
	}

	precise := astro.NewSolver()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			approx, err := SunEvents(tc.loc, tc.date)
			require.NoError(t, err)
			exact, err := precise.SunEvents(tc.loc, tc.date)
			require.NoError(t, err)

			require.Equal(t, domain.SunNormal, approx.State())
			require.Equal(t, domain.SunNormal, exact.State())
			assert.InDelta(t, exact.SunriseMin, approx.SunriseMin, 15, "sunrise")
			assert.InDelta(t, exact.SunsetMin, approx.SunsetMin, 15, "sunset")
		})
	}
}
