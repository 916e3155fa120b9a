// Package wire defines the record exchanged with downstream consumers. Enum
// states travel as small integers; the mapping to and from the typed domain
// enums lives here and nowhere else, so an unknown integer can only ever
// surface as the explicit Invalid state.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/skyglow/horizon-events/internal/domain"
)

// Wire values for the sun/moon state enums.
const (
	stateNormal  = 0
	stateAlways1 = 1 // ALWAYS_DAY / ALWAYS_UP
	stateAlways2 = 2 // ALWAYS_NIGHT / ALWAYS_DOWN
	stateInvalid = 3
)

// Record is one complete day of horizon events for a location. Records are
// never split across messages; a record carries its own completeness.
type Record struct {
	LatE6        int32 `json:"latE6"`
	LonE6        int32 `json:"lonE6"`
	UTCOffsetMin int32 `json:"utcOffsetMin"`

	SunState      int `json:"sunState"`
	SunriseMinute int `json:"sunriseMinute"`
	SunsetMinute  int `json:"sunsetMinute"`

	MoonState      int `json:"moonState"`
	MoonriseMinute int `json:"moonriseMinute"`
	MoonsetMinute  int `json:"moonsetMinute"`

	MoonPhaseE6 int32 `json:"moonPhaseE6"`
}

func sunStateToWire(s domain.SunState) int {
	switch s {
	case domain.SunNormal:
		return stateNormal
	case domain.SunAlwaysDay:
		return stateAlways1
	case domain.SunAlwaysNight:
		return stateAlways2
	default:
		return stateInvalid
	}
}

func moonStateToWire(s domain.MoonState) int {
	switch s {
	case domain.MoonNormal:
		return stateNormal
	case domain.MoonAlwaysUp:
		return stateAlways1
	case domain.MoonAlwaysDown:
		return stateAlways2
	default:
		return stateInvalid
	}
}

// SunStateFromWire maps a wire integer back to the typed enum. Unknown values
// decode as invalid rather than being guessed at.
func SunStateFromWire(v int) domain.SunState {
	switch v {
	case stateNormal:
		return domain.SunNormal
	case stateAlways1:
		return domain.SunAlwaysDay
	case stateAlways2:
		return domain.SunAlwaysNight
	default:
		return domain.SunInvalid
	}
}

// MoonStateFromWire maps a wire integer back to the typed enum.
func MoonStateFromWire(v int) domain.MoonState {
	switch v {
	case stateNormal:
		return domain.MoonNormal
	case stateAlways1:
		return domain.MoonAlwaysUp
	case stateAlways2:
		return domain.MoonAlwaysDown
	default:
		return domain.MoonInvalid
	}
}

// FromDomain assembles a Record from a location and the three category
// values. Rise/set minutes are carried only for the NORMAL state; degenerate
// states zero them, matching the consumer contract.
func FromDomain(loc domain.GeoLocation, sun domain.SunEvents, moon domain.MoonEvents, phase domain.MoonPhase) Record {
	r := Record{
		LatE6:        loc.LatE6,
		LonE6:        loc.LonE6,
		UTCOffsetMin: loc.UTCOffsetMin,
		SunState:     sunStateToWire(sun.State()),
		MoonState:    moonStateToWire(moon.State()),
		MoonPhaseE6:  phase.E6(),
	}
	if sun.State() == domain.SunNormal {
		r.SunriseMinute = sun.SunriseMin
		r.SunsetMinute = sun.SunsetMin
	}
	if moon.State() == domain.MoonNormal {
		r.MoonriseMinute = moon.MoonriseMin
		r.MoonsetMinute = moon.MoonsetMin
	}
	return r
}

// SunEvents converts the record's sun fields back to the domain type.
func (r Record) SunEvents() domain.SunEvents {
	switch SunStateFromWire(r.SunState) {
	case domain.SunNormal:
		return domain.SunEvents{Valid: true, SunriseMin: r.SunriseMinute, SunsetMin: r.SunsetMinute}
	case domain.SunAlwaysDay:
		return domain.SunEvents{Valid: true, AlwaysDay: true}
	case domain.SunAlwaysNight:
		return domain.SunEvents{Valid: true, AlwaysNight: true}
	default:
		return domain.SunEvents{}
	}
}

// MoonEvents converts the record's moon fields back to the domain type.
func (r Record) MoonEvents() domain.MoonEvents {
	switch MoonStateFromWire(r.MoonState) {
	case domain.MoonNormal:
		return domain.MoonEvents{Valid: true, MoonriseMin: r.MoonriseMinute, MoonsetMin: r.MoonsetMinute}
	case domain.MoonAlwaysUp:
		return domain.MoonEvents{Valid: true, AlwaysUp: true}
	case domain.MoonAlwaysDown:
		return domain.MoonEvents{Valid: true, AlwaysDown: true}
	default:
		return domain.MoonEvents{}
	}
}

// Phase converts the e6 phase field back to a fraction.
func (r Record) Phase() domain.MoonPhase {
	return domain.MoonPhase(float64(r.MoonPhaseE6) / 1e6).Normalize()
}

// Marshal encodes the record as JSON.
func (r Record) Marshal() ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshaling record: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a JSON record.
func Unmarshal(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("unmarshaling record: %w", err)
	}
	return r, nil
}
