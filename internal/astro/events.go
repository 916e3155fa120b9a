package astro

import (
	"time"

	"github.com/soniakeys/unit"

	"github.com/skyglow/horizon-events/internal/domain"
	"github.com/skyglow/horizon-events/internal/solver"
)

const (
	// Sun horizon: refraction plus solar semidiameter.
	sunHorizonDeg = -0.833

	// DefaultMoonHorizonDeg is an empirically tuned display constant, not a
	// physically derived refraction/semidiameter value like the sun's. It is
	// kept configurable and must not be "corrected" to match the sun.
	DefaultMoonHorizonDeg = -0.3

	stepMinutes      = 5
	bisectIterations = 10
)

// Solver computes sun/moon horizon events and moon phase in double
// precision. The zero value is not ready; use NewSolver.
type Solver struct {
	MoonHorizonDeg float64
}

// NewSolver returns a Solver with the default moon horizon threshold.
func NewSolver() *Solver {
	return &Solver{MoonHorizonDeg: DefaultMoonHorizonDeg}
}

// Result bundles one day's computation for a location.
type Result struct {
	Sun   domain.SunEvents
	Moon  domain.MoonEvents
	Phase domain.MoonPhase
}

// bodyModel adapts an altitude function to the shared crossing search.
type bodyModel struct {
	altitudeDeg func(second int) float64
	horizonDeg  float64
}

func (m bodyModel) AboveHorizon(second int) bool {
	return m.altitudeDeg(second) > m.horizonDeg
}

// sunAltitude returns the sun's altitude in degrees at a local second of day.
func sunAltitude(loc domain.GeoLocation, date domain.Date, second int) float64 {
	jd := jdAtLocalSecond(loc, date, second)
	eq := sunEquatorial(centuries(jd))

	lat := unit.AngleFromDeg(loc.Lat())
	lst := gmst(jd) + loc.Lon()
	hourAngle := unit.AngleFromDeg(lst) - eq.RA

	return altitude(eq, lat, hourAngle).Deg()
}

// moonAltitude returns the moon's topocentric altitude in degrees at a local
// second of day. Parallax shifts the moon by up to a degree for a surface
// observer, which moves rise/set by several minutes, so the correction is
// applied before the altitude evaluation.
func moonAltitude(loc domain.GeoLocation, date domain.Date, second int) float64 {
	jd := jdAtLocalSecond(loc, date, second)
	T := centuries(jd)

	pos := moonPosition(T)
	eq := eclipticToEquatorial(pos.Lon, pos.Lat, obliquity(T))

	lat := unit.AngleFromDeg(loc.Lat())
	lst := gmst(jd) + loc.Lon()
	hourAngle := unit.AngleFromDeg(lst) - eq.RA

	topo, dRA := topocentric(eq, lat, hourAngle, pos.DistKm)
	return altitude(topo, lat, hourAngle-dRA).Deg()
}

// SunEvents computes sunrise/sunset for the local calendar date.
func (s *Solver) SunEvents(loc domain.GeoLocation, date domain.Date) (domain.SunEvents, error) {
	if err := loc.Validate(); err != nil {
		return domain.SunEvents{}, err
	}

	model := bodyModel{
		altitudeDeg: func(second int) float64 { return sunAltitude(loc, date, second) },
		horizonDeg:  sunHorizonDeg,
	}
	found := solver.FindEvents(model, stepMinutes, bisectIterations)

	out := domain.SunEvents{Valid: true}
	switch {
	case found.AlwaysAbove:
		out.AlwaysDay = true
	case found.AlwaysBelow:
		out.AlwaysNight = true
	default:
		out.SunriseMin = found.RiseMin
		out.SunsetMin = found.SetMin
	}
	return out, nil
}

// MoonEvents computes moonrise/moonset for the local calendar date.
func (s *Solver) MoonEvents(loc domain.GeoLocation, date domain.Date) (domain.MoonEvents, error) {
	if err := loc.Validate(); err != nil {
		return domain.MoonEvents{}, err
	}

	model := bodyModel{
		altitudeDeg: func(second int) float64 { return moonAltitude(loc, date, second) },
		horizonDeg:  s.MoonHorizonDeg,
	}
	found := solver.FindEvents(model, stepMinutes, bisectIterations)

	out := domain.MoonEvents{Valid: true}
	switch {
	case found.AlwaysAbove:
		out.AlwaysUp = true
	case found.AlwaysBelow:
		out.AlwaysDown = true
	default:
		out.MoonriseMin = found.RiseMin
		out.MoonsetMin = found.SetMin
	}
	return out, nil
}

// phaseAt returns the phase fraction at a Julian day: the moon-sun ecliptic
// elongation mapped to [0,1).
func phaseAt(jd float64) domain.MoonPhase {
	T := centuries(jd)
	elong := normalizeDeg(moonPosition(T).Lon.Deg() - sunEclipticLongitude(T).Deg())
	return domain.MoonPhase(elong / 360)
}

// Phase returns the phase fraction at local noon of the date, the reference
// instant used for a whole-day display.
func (s *Solver) Phase(loc domain.GeoLocation, date domain.Date) (domain.MoonPhase, error) {
	if err := loc.Validate(); err != nil {
		return 0, err
	}
	return phaseAt(jdAtLocalMinute(loc, date, 720)), nil
}

// PhaseAtTime returns the phase fraction at an arbitrary UTC instant.
func PhaseAtTime(t time.Time) domain.MoonPhase {
	return phaseAt(jdAt(t))
}

// Compute runs all three categories for one location and date.
func (s *Solver) Compute(loc domain.GeoLocation, date domain.Date) (Result, error) {
	sun, err := s.SunEvents(loc, date)
	if err != nil {
		return Result{}, err
	}
	moon, err := s.MoonEvents(loc, date)
	if err != nil {
		return Result{}, err
	}
	phase, err := s.Phase(loc, date)
	if err != nil {
		return Result{}, err
	}
	return Result{Sun: sun, Moon: moon, Phase: phase}, nil
}
