package trajfilter

import (
	"math"
	"testing"

	"github.com/cprevallet/goballistics/atmosphere"
	"github.com/cprevallet/goballistics/densebuf"
	"github.com/cprevallet/goballistics/dragcurve"
	"github.com/cprevallet/goballistics/shotprops"
	"github.com/cprevallet/goballistics/trajectory"
	"github.com/cprevallet/goballistics/windsock"
	"github.com/stretchr/testify/assert"
)

func testShot(t *testing.T, barrelElevation float64) *shotprops.ShotProps {
	t.Helper()
	curve, err := dragcurve.New([]dragcurve.Knot{
		{Mach: 0.5, Cd: 0.3}, {Mach: 1.0, Cd: 0.45}, {Mach: 2.0, Cd: 0.25},
	})
	assert.NoError(t, err)
	return &shotprops.ShotProps{
		BC: 0.22, WeightGrains: 168, DiameterIn: 0.308, LengthIn: 1.2,
		MuzzleVelocityFps: 2600, CalcStep: 0.5,
		BarrelElevationRad: barrelElevation,
		Drag:               curve,
		Atmo:               atmosphere.Standard(),
		Wind:               windsock.New(nil),
	}
}

// simulate a simple parabolic trajectory: y = v0*sin(theta)*t -
// 0.5*g*t^2, x = v0*cos(theta)*t.
func simulate(f *Filter, v0, theta, g, dt float64, n int) {
	for i := 0; i <= n; i++ {
		t := float64(i) * dt
		vy := v0*math.Sin(theta) - g*t
		px := v0 * math.Cos(theta) * t
		py := v0*math.Sin(theta)*t - 0.5*g*t*t
		vmag := math.Sqrt((v0*math.Cos(theta))*(v0*math.Cos(theta)) + vy*vy)
		f.Push(densebuf.BaseTrajData{
			Time: t, PX: px, PY: py, PZ: 0,
			VX: v0 * math.Cos(theta), VY: vy, VZ: 0,
			Mach: vmag / 1116.0,
		})
	}
	f.Finalize()
}

func TestRangeSampling(t *testing.T) {
	assert := assert.New(t)
	shot := testShot(t, 0.02)
	f := New(shot, 10000, 100, 0, trajectory.FlagRange, 1e-5)
	simulate(f, 2600, 0.02, 32.17, 0.01, 500)

	rangeRows := f.Rows()
	assert.True(len(rangeRows) > 0)
	for _, r := range rangeRows {
		if r.Flag&trajectory.FlagRange != 0 {
			k := math.Round(r.PX / 100)
			assert.True(math.Abs(r.PX-k*100) <= 1e-3)
		}
	}
}

func TestApexDetection(t *testing.T) {
	assert := assert.New(t)
	shot := testShot(t, 0.785398) // 45 degrees
	f := New(shot, 100000, 0, 0, trajectory.FlagApex, 1e-5)
	simulate(f, 300, 0.785398, 32.17, 0.01, 2000)

	apexRows := f.Rows()
	assert.True(len(apexRows) >= 1)
	found := false
	for _, r := range apexRows {
		if r.Flag&trajectory.FlagApex != 0 {
			found = true
			assert.True(math.Abs(r.VY) < 1.0)
		}
	}
	assert.True(found)
}

func TestZeroDownCrossing(t *testing.T) {
	assert := assert.New(t)
	shot := testShot(t, 0.02)
	f := New(shot, 10000, 0, 0, trajectory.FlagZeroDown, 1e-5)
	simulate(f, 2600, 0.02, 32.17, 0.005, 2000)

	rows := f.Rows()
	found := false
	for _, r := range rows {
		if r.Flag&trajectory.FlagZeroDown != 0 {
			found = true
			assert.True(math.Abs(r.SlantHeightFt) < 1.0)
		}
	}
	assert.True(found)
}

func TestEventUnioning(t *testing.T) {
	assert := assert.New(t)
	shot := testShot(t, 0.02)
	f := New(shot, 10000, 0, 0, trajectory.FlagZeroDown, 1e-5)
	// Manually emit two events at nearly identical times and confirm
	// they union into one row (spec.md section 8 scenario S6).
	f.emit(trajectory.TrajectoryData{Time: 1.0000000, Flag: trajectory.FlagZeroDown})
	f.emit(trajectory.TrajectoryData{Time: 1.0000001, Flag: trajectory.FlagRange})
	rows := f.Rows()
	assert.Len(rows, 1)
	assert.Equal(trajectory.FlagZeroDown|trajectory.FlagRange, rows[0].Flag)
}

func TestRowsStaySortedByTime(t *testing.T) {
	assert := assert.New(t)
	shot := testShot(t, 0.02)
	f := New(shot, 10000, 0, 0, trajectory.FlagNone, 1e-5)
	f.emit(trajectory.TrajectoryData{Time: 3.0})
	f.emit(trajectory.TrajectoryData{Time: 1.0})
	f.emit(trajectory.TrajectoryData{Time: 2.0})
	rows := f.Rows()
	for i := 1; i < len(rows); i++ {
		assert.True(rows[i-1].Time <= rows[i].Time)
	}
}
