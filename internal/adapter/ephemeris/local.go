package ephemeris

import (
	"context"

	"github.com/skyglow/horizon-events/internal/astro"
	"github.com/skyglow/horizon-events/internal/domain"
	"github.com/skyglow/horizon-events/internal/scheduler"
)

// Local runs the precision solver in-process. Used when no remote ephemeris
// service is configured; the scheduler treats it like any other source.
type Local struct {
	solver *astro.Solver
}

// NewLocal creates an in-process precision source.
func NewLocal(moonHorizonDeg float64) *Local {
	s := astro.NewSolver()
	s.MoonHorizonDeg = moonHorizonDeg
	return &Local{solver: s}
}

// Events computes the day's events synchronously. The context is accepted for
// interface symmetry; the computation does no I/O.
func (l *Local) Events(_ context.Context, loc domain.GeoLocation, date domain.Date) (scheduler.Result, error) {
	res, err := l.solver.Compute(loc, date)
	if err != nil {
		return scheduler.Result{}, err
	}
	return scheduler.Result{Sun: res.Sun, Moon: res.Moon, Phase: res.Phase}, nil
}
