package coriolis

import (
	"math"
	"testing"

	"github.com/cprevallet/goballistics/vector3"
	"github.com/stretchr/testify/assert"
)

func TestAccelerationZeroAtEquatorFiringNorth(t *testing.T) {
	assert := assert.New(t)
	c := New(0, 0, 2700, false)
	v := vector3.New(2600, 0, 0)
	a := c.Acceleration(v)
	// At the equator Earth's rotation axis points due north, parallel to
	// a northward velocity, so omega x v vanishes: the acceleration is
	// zero, and so also within the general bound 2*omega*|v|.
	bound := 2 * earthRateRadPerSec * vector3.Magnitude(v)
	assert.True(vector3.Magnitude(a) <= bound+1e-9)
	assert.True(vector3.Magnitude(a) < 1e-12)
}

func TestAccelerationScalesWithVelocity(t *testing.T) {
	assert := assert.New(t)
	c := New(45*math.Pi/180, 90*math.Pi/180, 2700, false)
	v1 := vector3.New(1000, 0, 0)
	v2 := vector3.New(2000, 0, 0)
	a1 := c.Acceleration(v1)
	a2 := c.Acceleration(v2)
	assert.True(math.Abs(vector3.Magnitude(a2)-2*vector3.Magnitude(a1)) < 1e-9)
}

func TestFlatFireOnlyFlagPreserved(t *testing.T) {
	c := New(0.5, 0.1, 2700, true)
	assert.True(t, c.FlatFireOnly)
}
