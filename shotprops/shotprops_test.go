package shotprops

import (
	"math"
	"testing"

	"github.com/cprevallet/goballistics/atmosphere"
	"github.com/cprevallet/goballistics/ballerr"
	"github.com/cprevallet/goballistics/dragcurve"
	"github.com/cprevallet/goballistics/windsock"
	"github.com/stretchr/testify/assert"
)

func validShot(t *testing.T) *ShotProps {
	t.Helper()
	curve, err := dragcurve.New([]dragcurve.Knot{
		{Mach: 0.5, Cd: 0.3}, {Mach: 1.0, Cd: 0.45}, {Mach: 2.0, Cd: 0.25},
	})
	assert.NoError(t, err)
	return &ShotProps{
		BC:                0.22,
		LengthIn:          1.2,
		DiameterIn:        0.308,
		WeightGrains:      168,
		TwistInches:       10,
		MuzzleVelocityFps: 2600,
		CalcStep:          0.5,
		Drag:              curve,
		Atmo:              atmosphere.Standard(),
		Wind:              windsock.New(nil),
	}
}

func TestValidateCatchesDegenerateShot(t *testing.T) {
	assert := assert.New(t)
	s := validShot(t)
	assert.NoError(s.Validate())

	bad := *s
	bad.BC = 0
	assert.ErrorIs(bad.Validate(), ballerr.ErrInput)

	bad2 := *s
	bad2.Drag = nil
	assert.ErrorIs(bad2.Validate(), ballerr.ErrInput)
}

func TestStabilityCoefficientIsCachedAndPositive(t *testing.T) {
	assert := assert.New(t)
	s := validShot(t)
	sg1 := s.StabilityCoefficient()
	assert.True(sg1 > 0)
	sg2 := s.StabilityCoefficient()
	assert.Equal(sg1, sg2)
}

func TestStabilityCoefficientZeroWithoutTwist(t *testing.T) {
	assert := assert.New(t)
	s := validShot(t)
	s.TwistInches = 0
	assert.Equal(0.0, s.StabilityCoefficient())
}

func TestSpinDriftSignFollowsTwist(t *testing.T) {
	assert := assert.New(t)
	s := validShot(t)
	s.TwistInches = 10
	right := s.SpinDriftFt(1.0)
	assert.True(right > 0)

	s2 := validShot(t)
	s2.TwistInches = -10
	left := s2.SpinDriftFt(1.0)
	assert.True(left < 0)
	assert.True(math.Abs(left+right) < 1e-12)
}
