package windsock

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptySockIsZeroWind(t *testing.T) {
	s := New(nil)
	v := s.VectorForRange(1000)
	assert.Equal(t, 0.0, v.X)
	assert.True(t, math.IsInf(s.NextRange(), 1))
}

func TestCursorAdvancesMonotonically(t *testing.T) {
	assert := assert.New(t)
	s := New([]Segment{
		{VelocityFps: 10, DirectionRad: 0, UntilRangeFt: 100},
		{VelocityFps: 20, DirectionRad: math.Pi / 2, UntilRangeFt: 200},
	})

	v0 := s.VectorForRange(0)
	assert.True(math.Abs(v0.X-(-10)) < 1e-9)

	v1 := s.VectorForRange(150)
	assert.True(math.Abs(v1.Z-(-20)) < 1e-9)

	// Beyond the last segment's stated range, it persists (infinite
	// sentinel on the last segment per spec.md section 3).
	v2 := s.VectorForRange(10000)
	assert.True(math.Abs(v2.Z-(-20)) < 1e-9)
	assert.True(math.IsInf(s.NextRange(), 1))
}

func TestCursorNeverRewinds(t *testing.T) {
	assert := assert.New(t)
	s := New([]Segment{
		{VelocityFps: 5, DirectionRad: 0, UntilRangeFt: 50},
		{VelocityFps: 15, DirectionRad: 0, UntilRangeFt: 150},
	})
	_ = s.VectorForRange(200)
	before := s.cursor
	_ = s.VectorForRange(10) // attempting to query a smaller range
	assert.Equal(before, s.cursor)
}
