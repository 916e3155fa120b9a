package ephemeris

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyglow/horizon-events/internal/domain"
	"github.com/skyglow/horizon-events/internal/scheduler"
)

// countingSource fails when err is set and counts calls.
type countingSource struct {
	calls int
	res   scheduler.Result
	err   error
}

func (s *countingSource) Events(context.Context, domain.GeoLocation, domain.Date) (scheduler.Result, error) {
	s.calls++
	return s.res, s.err
}

func okResult() scheduler.Result {
	return scheduler.Result{
		Sun:   domain.SunEvents{Valid: true, SunriseMin: 420, SunsetMin: 1190},
		Moon:  domain.MoonEvents{Valid: true, MoonriseMin: 100, MoonsetMin: 900},
		Phase: 0.25,
	}
}

func TestCachedSource_HitSkipsInner(t *testing.T) {
	inner := &countingSource{res: okResult()}
	c := NewCachedSource(inner, 10, testMetrics())

	first, err := c.Events(context.Background(), testLoc, testDate)
	require.NoError(t, err)
	second, err := c.Events(context.Background(), testLoc, testDate)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestCachedSource_KeyIncludesDateAndLocation(t *testing.T) {
	inner := &countingSource{res: okResult()}
	c := NewCachedSource(inner, 10, testMetrics())

	_, err := c.Events(context.Background(), testLoc, testDate)
	require.NoError(t, err)

	nextDay := domain.Date{Year: 2024, Month: time.September, Day: 4}
	_, err = c.Events(context.Background(), testLoc, nextDay)
	require.NoError(t, err)

	elsewhere := domain.NewGeoLocation(51.5, -0.12, 60)
	_, err = c.Events(context.Background(), elsewhere, testDate)
	require.NoError(t, err)

	assert.Equal(t, 3, inner.calls)
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	inner := &countingSource{err: errors.New("down")}
	c := NewCachedSource(inner, 10, testMetrics())

	_, err := c.Events(context.Background(), testLoc, testDate)
	require.Error(t, err)

	inner.err = nil
	inner.res = okResult()
	res, err := c.Events(context.Background(), testLoc, testDate)
	require.NoError(t, err)
	assert.Equal(t, 420, res.Sun.SunriseMin)
	assert.Equal(t, 2, inner.calls)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRUCache(2)
	a, b, d := okResult(), okResult(), okResult()
	a.Sun.SunriseMin, b.Sun.SunriseMin, d.Sun.SunriseMin = 1, 2, 3

	c.put("a", a)
	c.put("b", b)

	// Touch "a" so "b" is the eviction candidate.
	_, ok := c.get("a")
	require.True(t, ok)

	c.put("d", d)

	_, ok = c.get("b")
	assert.False(t, ok)
	got, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, 1, got.Sun.SunriseMin)
	_, ok = c.get("d")
	assert.True(t, ok)
}

func TestLocal_ComputesInProcess(t *testing.T) {
	l := NewLocal(-0.3)

	res, err := l.Events(context.Background(), domain.NewGeoLocation(0, 0, 0), domain.Date{Year: 2024, Month: time.March, Day: 20})
	require.NoError(t, err)

	require.Equal(t, domain.SunNormal, res.Sun.State())
	assert.InDelta(t, 360, res.Sun.SunriseMin, 10)
	assert.InDelta(t, 1080, res.Sun.SunsetMin, 10)

	_, err = l.Events(context.Background(), domain.GeoLocation{}, testDate)
	assert.ErrorIs(t, err, domain.ErrInvalidLocation)
}
