package dragcurve

import (
	"math"
	"testing"

	"github.com/cprevallet/goballistics/ballerr"
	"github.com/stretchr/testify/assert"
)

func sampleKnots() []Knot {
	return []Knot{
		{Mach: 0.5, Cd: 0.20},
		{Mach: 0.8, Cd: 0.18},
		{Mach: 1.0, Cd: 0.35},
		{Mach: 1.2, Cd: 0.30},
		{Mach: 2.0, Cd: 0.20},
		{Mach: 3.0, Cd: 0.15},
	}
}

func TestNewRejectsDegenerateTables(t *testing.T) {
	assert := assert.New(t)

	_, err := New([]Knot{{Mach: 1.0, Cd: 0.2}})
	assert.ErrorIs(err, ballerr.ErrInput)

	_, err = New([]Knot{{Mach: 1.0, Cd: 0.2}, {Mach: 1.0, Cd: 0.3}})
	assert.ErrorIs(err, ballerr.ErrInput)

	_, err = New([]Knot{{Mach: 1.0, Cd: 0.2}, {Mach: 0.5, Cd: 0.3}})
	assert.ErrorIs(err, ballerr.ErrInput)

	_, err = New([]Knot{{Mach: 0.5, Cd: -0.1}, {Mach: 1.0, Cd: 0.3}})
	assert.ErrorIs(err, ballerr.ErrInput)
}

func TestCdExactAtKnots(t *testing.T) {
	curve, err := New(sampleKnots())
	assert := assert.New(t)
	assert.NoError(err)

	for _, k := range sampleKnots() {
		assert.True(math.Abs(curve.Cd(k.Mach)-k.Cd) < 1e-9)
	}
}

func TestCdClampsOutsideRange(t *testing.T) {
	curve, _ := New(sampleKnots())
	assert := assert.New(t)
	assert.True(math.Abs(curve.Cd(0.1)-0.20) < 1e-9)
	assert.True(math.Abs(curve.Cd(10.0)-0.15) < 1e-9)
}

// TestCdMonotonePreserving checks invariant 4 from spec.md section 8:
// between three monotone knots the interpolated value stays within the
// bracket's [min,max].
func TestCdMonotonePreserving(t *testing.T) {
	curve, _ := New(sampleKnots())
	assert := assert.New(t)
	// Knots 1.2->2.0->3.0 are monotone decreasing (0.30, 0.20, 0.15).
	for m := 1.2; m <= 3.0; m += 0.05 {
		cd := curve.Cd(m)
		assert.True(cd <= 0.30+1e-9 && cd >= 0.15-1e-9)
	}
}

func TestDragFactor(t *testing.T) {
	curve, _ := New(sampleKnots())
	assert := assert.New(t)
	bc := 0.22
	got := curve.DragFactor(1.0, bc)
	want := curve.Cd(1.0) * dragFactorConstant / bc
	assert.InDelta(want, got, 1e-15)
}

func TestMachList(t *testing.T) {
	curve, _ := New(sampleKnots())
	ml := curve.MachList()
	assert.Len(t, ml, len(sampleKnots()))
	assert.InDelta(t, 0.5, ml[0], 1e-12)
}
