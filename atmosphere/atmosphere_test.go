package atmosphere

import (
	"math"
	"testing"

	"github.com/cprevallet/goballistics/ballerr"
	"github.com/stretchr/testify/assert"
)

func TestStandardAtSeaLevel(t *testing.T) {
	assert := assert.New(t)
	a := Standard()
	dr, mach1 := a.Update(0)
	assert.True(math.Abs(dr-1.0) < 1e-6)
	assert.True(math.Abs(mach1-1116.45) < 1.0)
}

func TestDensityDecreasesWithAltitude(t *testing.T) {
	assert := assert.New(t)
	a := Standard()
	dr0, _ := a.Update(0)
	dr1, _ := a.Update(5000)
	assert.True(dr1 < dr0)
}

func TestNewRejectsBadInputs(t *testing.T) {
	assert := assert.New(t)
	_, err := New(59, 0, -1)
	assert.ErrorIs(err, ballerr.ErrInput)

	_, err = New(-500, 0, 29.92)
	assert.ErrorIs(err, ballerr.ErrInput)
}

func TestTemperatureFloorClamps(t *testing.T) {
	assert := assert.New(t)
	a := Standard()
	// An absurd altitude should clamp to the floor rather than go
	// negative absolute.
	_, mach1 := a.Update(1e7)
	assert.True(mach1 > 0)
}
