package trajectory

import (
	"math"
	"testing"

	"github.com/cprevallet/goballistics/atmosphere"
	"github.com/cprevallet/goballistics/densebuf"
	"github.com/cprevallet/goballistics/dragcurve"
	"github.com/cprevallet/goballistics/shotprops"
	"github.com/cprevallet/goballistics/windsock"
	"github.com/stretchr/testify/assert"
)

func testShot(t *testing.T) *shotprops.ShotProps {
	t.Helper()
	curve, err := dragcurve.New([]dragcurve.Knot{
		{Mach: 0.5, Cd: 0.3}, {Mach: 1.0, Cd: 0.45}, {Mach: 2.0, Cd: 0.25},
	})
	assert.NoError(t, err)
	return &shotprops.ShotProps{
		BC:                0.22,
		WeightGrains:      168,
		DiameterIn:        0.308,
		LengthIn:          1.2,
		MuzzleVelocityFps: 2600,
		CalcStep:          0.5,
		Drag:              curve,
		Atmo:              atmosphere.Standard(),
		Wind:              windsock.New(nil),
	}
}

func TestDeriveMuzzleRow(t *testing.T) {
	assert := assert.New(t)
	s := testShot(t)
	base := densebuf.BaseTrajData{Time: 0, PX: 0, PY: 0, PZ: 0, VX: 2600, VY: 0, VZ: 0, Mach: 2.3}
	row := Derive(s, base, FlagNone)
	assert.True(math.Abs(row.VelocityFps-2600) < 1e-9)
	assert.True(row.EnergyFtLb > 0)
	assert.True(row.OgwLb > 0)
	assert.Equal(FlagNone, row.Flag)
}

func TestEventsFilter(t *testing.T) {
	assert := assert.New(t)
	h := HitResult{Rows: []TrajectoryData{
		{Time: 0, Flag: FlagNone},
		{Time: 1, Flag: FlagMach},
		{Time: 2, Flag: FlagZeroDown | FlagRange},
	}}
	mach := h.Events(FlagMach)
	assert.Len(mach, 1)
	zeros := h.Events(FlagZero)
	assert.Len(zeros, 1)
}

func TestRowAtRange(t *testing.T) {
	assert := assert.New(t)
	h := HitResult{Rows: []TrajectoryData{
		{PX: 0}, {PX: 100.0000001}, {PX: 200},
	}}
	row, ok := h.RowAtRange(100)
	assert.True(ok)
	assert.True(math.Abs(row.PX-100) < 1e-6)

	_, ok = h.RowAtRange(150)
	assert.False(ok)
}

func TestFlagZeroIsUnionOfUpDown(t *testing.T) {
	assert.Equal(t, FlagZeroUp|FlagZeroDown, FlagZero)
}
