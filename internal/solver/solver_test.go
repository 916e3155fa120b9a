package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// windowModel is above the horizon on [riseAt, setAt) seconds of day.
type windowModel struct {
	riseAt, setAt int
}

func (w windowModel) AboveHorizon(sec int) bool {
	return sec >= w.riseAt && sec < w.setAt
}

// constModel is always above or always below.
type constModel bool

func (c constModel) AboveHorizon(int) bool { return bool(c) }

func TestFindEvents_SingleRiseAndSet(t *testing.T) {
	// Rise at 06:07:10, set at 18:02:50.
	m := windowModel{riseAt: 6*3600 + 7*60 + 10, setAt: 18*3600 + 2*60 + 50}

	ev := FindEvents(m, 10, 10)

	assert.False(t, ev.AlwaysAbove)
	assert.False(t, ev.AlwaysBelow)
	// Crossings report the nearest minute: 06:07:10 -> 367, 18:02:50 -> 1083.
	assert.Equal(t, 367, ev.RiseMin)
	assert.Equal(t, 1083, ev.SetMin)
}

func TestFindEvents_FiveMinuteStep(t *testing.T) {
	m := windowModel{riseAt: 361 * 60, setAt: 1079 * 60}

	ev := FindEvents(m, 5, 10)

	assert.Equal(t, 361, ev.RiseMin)
	assert.Equal(t, 1079, ev.SetMin)
}

func TestFindEvents_RoundsCrossingToNearestMinute(t *testing.T) {
	// A crossing at 10:15:10 belongs to minute 615, not 616: reporting the
	// first whole minute past the crossing would bias every event late.
	early := FindEvents(windowModel{riseAt: 10*3600 + 15*60 + 10, setAt: secondsPerDay}, 10, 10)
	assert.Equal(t, 615, early.RiseMin)

	// Past the half-minute mark it rounds up: 10:15:50 -> 616.
	late := FindEvents(windowModel{riseAt: 10*3600 + 15*60 + 50, setAt: secondsPerDay}, 10, 10)
	assert.Equal(t, 616, late.RiseMin)
}

func TestFindEvents_AlwaysAbove(t *testing.T) {
	ev := FindEvents(constModel(true), 10, 10)
	assert.True(t, ev.AlwaysAbove)
	assert.False(t, ev.AlwaysBelow)
	assert.Equal(t, -1, ev.RiseMin)
	assert.Equal(t, -1, ev.SetMin)
}

func TestFindEvents_AlwaysBelow(t *testing.T) {
	ev := FindEvents(constModel(false), 10, 10)
	assert.True(t, ev.AlwaysBelow)
	assert.False(t, ev.AlwaysAbove)
}

func TestFindEvents_SetOnly_RiseClampedToZero(t *testing.T) {
	// Above at midnight, sets mid-morning, never rises again.
	m := windowModel{riseAt: 0, setAt: 520 * 60}

	ev := FindEvents(m, 10, 10)

	assert.Equal(t, 0, ev.RiseMin) // no rise found, clamped per policy
	assert.Equal(t, 520, ev.SetMin)
}

func TestFindEvents_AtMostOneRiseAndSet(t *testing.T) {
	// Even with several flips (e.g. a noisy model), only the first rise and
	// first set are recorded.
	multi := multiWindow{
		windowModel{riseAt: 300 * 60, setAt: 400 * 60},
		windowModel{riseAt: 600 * 60, setAt: 700 * 60},
	}

	ev := FindEvents(multi, 10, 10)

	assert.Equal(t, 300, ev.RiseMin)
	assert.Equal(t, 400, ev.SetMin)
}

type multiWindow []windowModel

func (m multiWindow) AboveHorizon(sec int) bool {
	for _, w := range m {
		if w.AboveHorizon(sec) {
			return true
		}
	}
	return false
}

func TestBisect_Idempotent(t *testing.T) {
	crossing := 6*3600 + 7*60 + 10
	m := windowModel{riseAt: crossing, setAt: 1082 * 60}

	first := Bisect(m, 6*3600, 6*3600+600, false, 10)
	again := Bisect(m, 6*3600, 6*3600+600, false, 10)

	assert.Equal(t, first, again)
	assert.Equal(t, crossing, first)

	// Re-running on the already-localized interval does not move the result.
	refined := Bisect(m, first-1, first, false, 10)
	assert.Equal(t, first, refined)
}

func TestFindEvents_FlippingModelIsNeverDegenerate(t *testing.T) {
	// The degenerate classification applies only when no flip is observed;
	// any observed crossing wins over the sample majority.
	ev := FindEvents(alternating{}, 10, 10)
	assert.False(t, ev.AlwaysAbove)
	assert.False(t, ev.AlwaysBelow)
	assert.GreaterOrEqual(t, ev.RiseMin, 0)
	assert.GreaterOrEqual(t, ev.SetMin, 0)
}

type alternating struct{}

func (alternating) AboveHorizon(sec int) bool { return (sec/600)%2 == 0 }
