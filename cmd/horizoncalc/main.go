// Command horizoncalc computes one day of sun/moon horizon events at a
// location with both solvers and prints them side by side, including the
// cross-solver divergence in minutes.
//
// Usage:
//
//	go run ./cmd/horizoncalc -lat 35.4676 -lon -97.5164 -tz -360 -date 2024-09-03
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/skyglow/horizon-events/internal/astro"
	"github.com/skyglow/horizon-events/internal/domain"
	"github.com/skyglow/horizon-events/internal/fallback"
)

func main() {
	lat := flag.Float64("lat", 0, "latitude in degrees")
	lon := flag.Float64("lon", 0, "longitude in degrees")
	tz := flag.Int("tz", 0, "UTC offset in minutes")
	dateStr := flag.String("date", "", "local calendar date (YYYY-MM-DD, default today)")
	moonHorizon := flag.Float64("moon-horizon", astro.DefaultMoonHorizonDeg, "moon horizon threshold in degrees")
	flag.Parse()

	loc := domain.NewGeoLocation(*lat, *lon, int32(*tz))
	if err := loc.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid location: %v\n", err)
		os.Exit(1)
	}

	date, err := parseDate(*dateStr, loc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid date: %v\n", err)
		os.Exit(1)
	}

	if code := run(loc, date, *moonHorizon); code != 0 {
		os.Exit(code)
	}
}

func run(loc domain.GeoLocation, date domain.Date, moonHorizonDeg float64) int {
	solver := astro.NewSolver()
	solver.MoonHorizonDeg = moonHorizonDeg

	precise, err := solver.Compute(loc, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "precision solver: %v\n", err)
		return 1
	}
	approx, err := fallback.SunEvents(loc, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fallback solver: %v\n", err)
		return 1
	}

	fmt.Printf("location: %.4f, %.4f (UTC%+d min)\n", loc.Lat(), loc.Lon(), loc.UTCOffsetMin)
	fmt.Printf("date:     %s\n", date)
	fmt.Println()

	fmt.Println("sun                precision   fallback    divergence")
	printSunRow("sunrise", precise.Sun, approx, sunriseOf)
	printSunRow("sunset", precise.Sun, approx, sunsetOf)
	fmt.Println()

	fmt.Printf("moon               state=%s\n", precise.Moon.State())
	if precise.Moon.State() == domain.MoonNormal {
		fmt.Printf("  moonrise         %s\n", clockTime(precise.Moon.MoonriseMin))
		fmt.Printf("  moonset          %s\n", clockTime(precise.Moon.MoonsetMin))
	}
	fmt.Println()

	fmt.Printf("phase              %.4f (%s, %.0f%% illuminated, %.1f days old)\n",
		float64(precise.Phase), phaseName(precise.Phase),
		precise.Phase.Illumination()*100, precise.Phase.AgeDays())
	return 0
}

func printSunRow(name string, precise domain.SunEvents, approx domain.SunEvents, minuteOf func(domain.SunEvents) (int, bool)) {
	p, pOK := minuteOf(precise)
	a, aOK := minuteOf(approx)

	pStr, aStr, div := "--", "--", "--"
	if pOK {
		pStr = clockTime(p)
	}
	if aOK {
		aStr = clockTime(a)
	}
	if pOK && aOK {
		d := p - a
		if d < 0 {
			d = -d
		}
		div = fmt.Sprintf("%d min", d)
	}
	if !pOK {
		pStr = precise.State().String()
	}
	if !aOK {
		aStr = approx.State().String()
	}
	fmt.Printf("  %-16s %-11s %-11s %s\n", name, pStr, aStr, div)
}

func sunriseOf(e domain.SunEvents) (int, bool) {
	return e.SunriseMin, e.State() == domain.SunNormal
}

func sunsetOf(e domain.SunEvents) (int, bool) {
	return e.SunsetMin, e.State() == domain.SunNormal
}

func clockTime(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func phaseName(p domain.MoonPhase) string {
	switch f := float64(p.Normalize()); {
	case f < 0.03 || f > 0.97:
		return "new moon"
	case f < 0.22:
		return "waxing crescent"
	case f < 0.28:
		return "first quarter"
	case f < 0.47:
		return "waxing gibbous"
	case f < 0.53:
		return "full moon"
	case f < 0.72:
		return "waning gibbous"
	case f < 0.78:
		return "last quarter"
	default:
		return "waning crescent"
	}
}

// parseDate defaults to today in the location's local time.
func parseDate(s string, loc domain.GeoLocation) (domain.Date, error) {
	if s == "" {
		return domain.Today(loc), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return domain.Date{}, err
	}
	return domain.Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}
