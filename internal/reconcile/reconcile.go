// Package reconcile owns the authoritative record per category (sun, moon,
// phase) and decides when a recompute is warranted. Thresholds exist because
// rise/set times are insensitive to sub-threshold movement; recomputing on
// every small location update wastes the downstream compute and radio budget.
package reconcile

import (
	"math"
	"sync"

	"github.com/skyglow/horizon-events/internal/domain"
)

// Source identifies which solver produced a record. Higher values carry more
// authority: a fallback result never overwrites a still-current precision one.
type Source int

const (
	SourceNone Source = iota
	SourceLocalFallback
	SourcePrecisionRemote
)

func (s Source) String() string {
	switch s {
	case SourceLocalFallback:
		return "local_fallback"
	case SourcePrecisionRemote:
		return "precision_remote"
	default:
		return "none"
	}
}

// State is the per-category lifecycle. Stale is entered only via a trigger
// and left only via a successful result, never on elapsed time alone.
type State int

const (
	Uninitialized State = iota
	AwaitingFirstResult
	Current
	Stale
)

func (s State) String() string {
	switch s {
	case AwaitingFirstResult:
		return "awaiting_first_result"
	case Current:
		return "current"
	case Stale:
		return "stale"
	default:
		return "uninitialized"
	}
}

// Category of record the tracker reconciles.
type Category int

const (
	CategorySun Category = iota
	CategoryMoon
	CategoryPhase
)

func (c Category) String() string {
	switch c {
	case CategoryMoon:
		return "moon"
	case CategoryPhase:
		return "phase"
	default:
		return "sun"
	}
}

// Trigger names the condition that marked records stale. The values double as
// metric label values.
type Trigger string

const (
	TriggerInitialLocation Trigger = "initial_location"
	TriggerDateRollover    Trigger = "date_rollover"
	TriggerDistance        Trigger = "distance"
	TriggerUTCOffset       Trigger = "utc_offset"
	TriggerSolarShift      Trigger = "solar_shift"
)

// Config holds the staleness thresholds.
type Config struct {
	// DistanceKm is the great-circle displacement beyond which rise/set
	// times visibly move.
	DistanceKm float64
	// UTCOffsetMin is the tolerated change in fixed UTC offset.
	UTCOffsetMin int32
	// SolarShiftMin is the floor on the estimated solar-time shift,
	// 4*|dLon| + 1*|dLat| minutes.
	SolarShiftMin float64
}

// DefaultConfig returns the tuned thresholds.
func DefaultConfig() Config {
	return Config{DistanceKm: 50, UTCOffsetMin: 30, SolarShiftMin: 2}
}

type catRecord struct {
	state  State
	source Source
}

// Tracker is the reconciler. The scheduler drives it from a single goroutine;
// the mutex exists because HTTP handlers read snapshots concurrently.
//
// Contract: the scheduler calls Tick with the current local date before each
// compute decision, so applied results are always checked against a known
// target date.
type Tracker struct {
	mu  sync.Mutex
	cfg Config

	loc      domain.GeoLocation
	haveLoc  bool
	date     domain.Date
	haveDate bool

	cats [3]catRecord

	sun   domain.SunEvents
	moon  domain.MoonEvents
	phase domain.MoonPhase
}

// New returns a Tracker in the Uninitialized state.
func New(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

// Snapshot is a consistent read of everything the tracker holds. Values for a
// Stale category are the last known good ones, never fabricated.
type Snapshot struct {
	Location domain.GeoLocation
	Date     domain.Date

	Sun       domain.SunEvents
	SunState  State
	SunSource Source

	Moon       domain.MoonEvents
	MoonState  State
	MoonSource Source

	Phase       domain.MoonPhase
	PhaseState  State
	PhaseSource Source
}

// SetLocation installs a new observer location. Invalid input is refused and
// the previous location and records are retained. The reference location only
// advances when a threshold fires, so slow drift accumulates against the
// location records were actually computed for.
func (t *Tracker) SetLocation(loc domain.GeoLocation) ([]Trigger, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.haveLoc {
		t.loc = loc
		t.haveLoc = true
		for i := range t.cats {
			t.cats[i].state = AwaitingFirstResult
		}
		return []Trigger{TriggerInitialLocation}, nil
	}

	triggers := t.locationTriggers(loc)
	if len(triggers) == 0 {
		return nil, nil
	}

	t.loc = loc
	t.markStale()
	return triggers, nil
}

func (t *Tracker) locationTriggers(loc domain.GeoLocation) []Trigger {
	var triggers []Trigger

	if haversineKm(t.loc, loc) > t.cfg.DistanceKm {
		triggers = append(triggers, TriggerDistance)
	}

	dOffset := loc.UTCOffsetMin - t.loc.UTCOffsetMin
	if dOffset < 0 {
		dOffset = -dOffset
	}
	if dOffset > t.cfg.UTCOffsetMin {
		triggers = append(triggers, TriggerUTCOffset)
	}

	// Estimated solar-time shift: 4 minutes per degree of longitude, 1 per
	// degree of latitude.
	shift := 4*math.Abs(loc.Lon()-t.loc.Lon()) + math.Abs(loc.Lat()-t.loc.Lat())
	if shift > t.cfg.SolarShiftMin {
		triggers = append(triggers, TriggerSolarShift)
	}

	return triggers
}

// Tick observes the current local calendar date. The first call fixes the
// target date without triggering (the initial compute comes from
// SetLocation); later calls fire the rollover trigger exactly once per
// boundary because the stamp advances when the trigger fires.
func (t *Tracker) Tick(today domain.Date) []Trigger {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.haveLoc {
		return nil
	}
	if !t.haveDate {
		t.date = today
		t.haveDate = true
		return nil
	}
	if today.Stamp() == t.date.Stamp() {
		return nil
	}

	t.date = today
	t.markStale()
	return []Trigger{TriggerDateRollover}
}

// markStale demotes every Current category. Categories still awaiting their
// first result stay where they are.
func (t *Tracker) markStale() {
	for i := range t.cats {
		if t.cats[i].state == Current {
			t.cats[i].state = Stale
		}
	}
}

// applicable reports whether a result computed for (loc, date) may overwrite
// the category's record. Results for a superseded target are ignored on
// arrival; that is the implicit cancellation of in-flight computations. A
// lower-authority source never overwrites a still-current higher one.
func (t *Tracker) applicable(cat Category, src Source, loc domain.GeoLocation, date domain.Date) bool {
	if src == SourceNone || !t.haveLoc || !t.haveDate {
		return false
	}
	if loc != t.loc || date.Stamp() != t.date.Stamp() {
		return false
	}
	rec := t.cats[cat]
	if rec.state == Current && src < rec.source {
		return false
	}
	return true
}

// ApplySun installs a sun result computed for (loc, date). It reports whether
// the record was accepted.
func (t *Tracker) ApplySun(ev domain.SunEvents, src Source, loc domain.GeoLocation, date domain.Date) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !ev.Valid || !t.applicable(CategorySun, src, loc, date) {
		return false
	}
	t.sun = ev
	t.cats[CategorySun] = catRecord{state: Current, source: src}
	return true
}

// ApplyMoon installs a moon result. Only the precision source produces moon
// events; on precision staleness the last known values stay, flagged Stale.
func (t *Tracker) ApplyMoon(ev domain.MoonEvents, src Source, loc domain.GeoLocation, date domain.Date) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !ev.Valid || src == SourceLocalFallback || !t.applicable(CategoryMoon, src, loc, date) {
		return false
	}
	t.moon = ev
	t.cats[CategoryMoon] = catRecord{state: Current, source: src}
	return true
}

// ApplyPhase installs a phase result. Like the moon, phase has no local
// fallback.
func (t *Tracker) ApplyPhase(p domain.MoonPhase, src Source, loc domain.GeoLocation, date domain.Date) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if src == SourceLocalFallback || !t.applicable(CategoryPhase, src, loc, date) {
		return false
	}
	t.phase = p.Normalize()
	t.cats[CategoryPhase] = catRecord{state: Current, source: src}
	return true
}

// Location returns the current reference location. ok is false before the
// first valid SetLocation.
func (t *Tracker) Location() (domain.GeoLocation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loc, t.haveLoc
}

// Target returns the location and local date results should be computed for.
// ok is false until both are known.
func (t *Tracker) Target() (loc domain.GeoLocation, date domain.Date, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loc, t.date, t.haveLoc && t.haveDate
}

// NeedsCompute reports whether any category is missing a current record.
func (t *Tracker) NeedsCompute() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.cats {
		if s := t.cats[i].state; s == AwaitingFirstResult || s == Stale {
			return true
		}
	}
	return false
}

// Ready reports whether any category holds a Current record.
func (t *Tracker) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.cats {
		if t.cats[i].state == Current {
			return true
		}
	}
	return false
}

// CategoryState returns the lifecycle state of one category.
func (t *Tracker) CategoryState(cat Category) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cats[cat].state
}

// Snapshot returns a consistent copy of all records.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Snapshot{
		Location:    t.loc,
		Date:        t.date,
		Sun:         t.sun,
		SunState:    t.cats[CategorySun].state,
		SunSource:   t.cats[CategorySun].source,
		Moon:        t.moon,
		MoonState:   t.cats[CategoryMoon].state,
		MoonSource:  t.cats[CategoryMoon].source,
		Phase:       t.phase,
		PhaseState:  t.cats[CategoryPhase].state,
		PhaseSource: t.cats[CategoryPhase].source,
	}
}

const earthRadiusKm = 6371.0

// haversineKm is the great-circle distance between two locations.
func haversineKm(a, b domain.GeoLocation) float64 {
	lat1 := a.Lat() * math.Pi / 180
	lat2 := b.Lat() * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon() - a.Lon()) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
