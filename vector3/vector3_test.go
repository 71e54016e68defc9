package vector3

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddSub(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, -1, 0.5)
	assert := assert.New(t)

	sum := Add(a, b)
	assert.True(math.Abs(sum.X-5) < 1e-12)
	assert.True(math.Abs(sum.Y-1) < 1e-12)
	assert.True(math.Abs(sum.Z-3.5) < 1e-12)

	diff := Sub(a, b)
	assert.True(math.Abs(diff.X-(-3)) < 1e-12)
}

func TestMagnitudeAndUnit(t *testing.T) {
	assert := assert.New(t)
	v := New(3, 4, 0)
	assert.True(math.Abs(Magnitude(v)-5) < 1e-12)

	u := Unit(v)
	assert.True(math.Abs(Magnitude(u)-1) < 1e-9)

	assert.Equal(Zero, Unit(Zero))
}

func TestDotCross(t *testing.T) {
	assert := assert.New(t)
	x := New(1, 0, 0)
	y := New(0, 1, 0)
	assert.True(math.Abs(Dot(x, y)) < 1e-12)
	z := Cross(x, y)
	assert.True(math.Abs(z.Z-1) < 1e-12)
}
