// Package dragcurve implements the piecewise cubic Cd(Mach) curve
// consumed by the integrator's drag term. Construction mirrors the
// teacher's cdSphere: an ordered, clamped piecewise function of a single
// scalar; here the breakpoints are data (a drag table) rather than five
// hard-coded Reynolds-number branches, and interior segments are
// monotone-preserving Hermite cubics rather than step functions.
package dragcurve

import (
	"math"

	"github.com/cprevallet/goballistics/ballerr"
)

// dragFactorConstant folds imperial units into the drag term consumed by
// the integrator: kmFactor = Cd(M) * dragFactorConstant / BC.
const dragFactorConstant = 2.08551e-4

// Knot is one tabulated (Mach, Cd) point of a drag table.
type Knot struct {
	Mach float64
	Cd   float64
}

// Curve is a prepared drag curve: per-segment Hermite coefficients
// supporting O(log N) evaluation via binary search over Mach values.
type Curve struct {
	mach  []float64 // MachList: knot Mach values for binary search
	cd    []float64
	slope []float64 // Fritsch-Carlson slope at each knot
}

// New constructs a Curve from a sorted knot list. It fails with
// ballerr.ErrInput if fewer than 2 knots are supplied or mach is not
// strictly increasing, or if any Cd is negative.
func New(knots []Knot) (*Curve, error) {
	if len(knots) < 2 {
		return nil, ballerr.Input("drag curve requires at least 2 knots")
	}
	mach := make([]float64, len(knots))
	cd := make([]float64, len(knots))
	for i, k := range knots {
		if k.Cd < 0 {
			return nil, ballerr.Input("drag coefficient must be >= 0")
		}
		if i > 0 && k.Mach <= mach[i-1] {
			return nil, ballerr.Input("drag table mach values must be strictly increasing")
		}
		mach[i] = k.Mach
		cd[i] = k.Cd
	}
	c := &Curve{mach: mach, cd: cd}
	c.slope = pchipSlopes(mach, cd)
	return c, nil
}

// MachList returns the knot Mach values, exposed for callers (e.g. the
// dense buffer and event filter) that need the same bracket the curve
// uses internally.
func (c *Curve) MachList() []float64 {
	out := make([]float64, len(c.mach))
	copy(out, c.mach)
	return out
}

// Cd evaluates the drag coefficient at the given Mach number. Values
// outside the knot range are clamped to the nearest endpoint segment.
func (c *Curve) Cd(mach float64) float64 {
	n := len(c.mach)
	if mach <= c.mach[0] {
		return hermiteEval(c.mach[0], c.mach[1], c.cd[0], c.cd[1], c.slope[0], c.slope[1], clampLow(mach, c.mach[0]))
	}
	if mach >= c.mach[n-1] {
		return hermiteEval(c.mach[n-2], c.mach[n-1], c.cd[n-2], c.cd[n-1], c.slope[n-2], c.slope[n-1], clampHigh(mach, c.mach[n-1]))
	}
	i := upperBound(c.mach, mach) - 1
	if i < 0 {
		i = 0
	}
	if i > n-2 {
		i = n - 2
	}
	return hermiteEval(c.mach[i], c.mach[i+1], c.cd[i], c.cd[i+1], c.slope[i], c.slope[i+1], mach)
}

// DragFactor returns Cd(mach) * dragFactorConstant / bc, the term folded
// directly into the integrator's acceleration computation.
func (c *Curve) DragFactor(mach, bc float64) float64 {
	return c.Cd(mach) * dragFactorConstant / bc
}

func clampLow(mach, lo float64) float64 {
	if mach < lo {
		return lo
	}
	return mach
}

func clampHigh(mach, hi float64) float64 {
	if mach > hi {
		return hi
	}
	return mach
}

// upperBound returns the index of the first element strictly greater
// than v (like C++ std::upper_bound), used to find the bracket segment.
func upperBound(xs []float64, v float64) int {
	lo, hi := 0, len(xs)
	for lo < hi {
		mid := (lo + hi) / 2
		if xs[mid] <= v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// pchipSlopes computes Fritsch-Carlson monotone slopes at interior knots
// and three-point end-slope limiter slopes at the boundaries, so that
// interpolation between knots never introduces a spurious extremum.
func pchipSlopes(x, y []float64) []float64 {
	n := len(x)
	d := make([]float64, n) // secant slopes between knot i and i+1
	for i := 0; i < n-1; i++ {
		d[i] = (y[i+1] - y[i]) / (x[i+1] - x[i])
	}
	m := make([]float64, n)
	if n == 2 {
		m[0] = d[0]
		m[1] = d[0]
		return m
	}
	for i := 1; i < n-1; i++ {
		if d[i-1]*d[i] <= 0 {
			m[i] = 0
			continue
		}
		h0 := x[i] - x[i-1]
		h1 := x[i+1] - x[i]
		w1 := 2*h1 + h0
		w2 := h1 + 2*h0
		m[i] = (w1 + w2) / (w1/d[i-1] + w2/d[i])
	}
	m[0] = endSlope(x[0], x[1], x[2], d[0], d[1])
	m[n-1] = endSlope(x[n-1], x[n-2], x[n-3], d[n-2], d[n-3])
	return m
}

// endSlope implements the three-point, shape-preserving end-slope
// limiter: a one-sided difference clamped so the boundary segment stays
// monotone with its neighbor.
func endSlope(x0, x1, x2, d0, d1 float64) float64 {
	h0 := x1 - x0
	h1 := x2 - x1
	slope := ((2*h0+h1)*d0 - h0*d1) / (h0 + h1)
	if slope*d0 <= 0 {
		return 0
	}
	if d0*d1 <= 0 && math.Abs(slope) > math.Abs(3*d0) {
		return 3 * d0
	}
	return slope
}

// hermiteEval evaluates the cubic Hermite polynomial on [x0,x1] with
// values y0,y1 and slopes m0,m1 at the abscissa t. Cd clamps an
// out-of-range Mach to the end knot before calling it, so t always lies
// within [x0,x1].
func hermiteEval(x0, x1, y0, y1, m0, m1, t float64) float64 {
	h := x1 - x0
	s := (t - x0) / h
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return h00*y0 + h10*h*m0 + h01*y1 + h11*h*m1
}
