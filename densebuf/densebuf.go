// Package densebuf implements the append-only dense sample buffer and
// its PCHIP-based interpolation, generalizing the teacher's
// history []TrajectoryPoint slice (built up step by step in
// trajectory.Trajectory) into a typed buffer supporting arbitrary-key
// interpolation rather than the teacher's single linear
// correctFinalPosition pass.
package densebuf

import (
	"math"

	"github.com/cprevallet/goballistics/ballerr"
	"gonum.org/v1/gonum/floats"
)

// BaseTrajData is one raw integrator-emitted state: eight doubles
// produced at every step (or every Nth step). Appended in order, never
// mutated.
type BaseTrajData struct {
	Time float64
	PX, PY, PZ float64
	VX, VY, VZ float64
	Mach float64
}

// Key identifies which scalar field of BaseTrajData to use as the
// interpolation abscissa.
type Key int

const (
	KeyTime Key = iota
	KeyMach
	KeyPosX
	KeyPosY
	KeyPosZ
	KeyVelX
	KeyVelY
	KeyVelZ
)

// Value extracts the scalar field k identifies from s. Exported so
// callers outside this package (engine.IntegrateAt's crossing test) can
// read the same abscissa GetAt/InterpolateAt use internally.
func (k Key) Value(s BaseTrajData) float64 { return k.value(s) }

func (k Key) value(s BaseTrajData) float64 {
	switch k {
	case KeyTime:
		return s.Time
	case KeyMach:
		return s.Mach
	case KeyPosX:
		return s.PX
	case KeyPosY:
		return s.PY
	case KeyPosZ:
		return s.PZ
	case KeyVelX:
		return s.VX
	case KeyVelY:
		return s.VY
	case KeyVelZ:
		return s.VZ
	default:
		return math.NaN()
	}
}

// exactTolerance is the absolute tolerance for treating a GetAt lookup
// as an exact hit rather than requiring interpolation.
const exactTolerance = 1e-9

// Buffer is the growable, append-only sequence of dense samples.
type Buffer struct {
	data []BaseTrajData
}

// New returns an empty Buffer pre-sized per the geometric growth policy
// (callers typically know an approximate step count up front).
func New(capacityHint int) *Buffer {
	return &Buffer{data: make([]BaseTrajData, 0, capacityHint)}
}

// Append adds a new sample. Callers are responsible for time-ordering;
// Buffer does not re-sort.
func (b *Buffer) Append(s BaseTrajData) {
	b.data = append(b.data, s)
}

// Len returns the number of samples.
func (b *Buffer) Len() int { return len(b.data) }

// Get returns the sample at index i, with negative indices counting from
// the end (-1 = last), matching spec.md section 4.5.
func (b *Buffer) Get(i int) (BaseTrajData, error) {
	n := len(b.data)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return BaseTrajData{}, ballerr.Index("dense buffer index out of range")
	}
	return b.data[i], nil
}

// Monotone reports whether the buffer's Time sequence is strictly
// increasing, copying the sample times into a new slice and scanning it
// with gonum/floats -- this backs invariant 1 from spec.md section 8.
func (b *Buffer) Monotone() bool {
	times := make([]float64, len(b.data))
	for i, s := range b.data {
		times[i] = s.Time
	}
	return floats.IsMonotonicIncreasing(NormalizeTimes(times))
}

// NormalizeTimes returns times unchanged; a indirection point kept so
// callers that need a defensive copy (e.g. before sorting) have a single
// place to add it. Monotone is its only caller in this module.
func NormalizeTimes(times []float64) []float64 { return times }

// GetAt locates the sample where the scalar identified by key equals
// value, searching from the first sample whose Time is >= startFromTime.
// If no exact match is found within exactTolerance, performs 3-point
// PCHIP interpolation using the bracket [c-1, c, c+1] where c is the
// binary-search center.
func (b *Buffer) GetAt(key Key, value, startFromTime float64) (BaseTrajData, error) {
	if len(b.data) < 3 {
		return BaseTrajData{}, ballerr.Index("dense buffer needs at least 3 samples to interpolate")
	}
	start := 0
	for start < len(b.data) && b.data[start].Time < startFromTime {
		start++
	}
	c := binarySearchCenter(b.data[start:], key, value) + start
	if c >= 0 && c < len(b.data) {
		if math.Abs(key.value(b.data[c])-value) <= exactTolerance {
			return b.data[c], nil
		}
	}
	return b.InterpolateAt(c, key, value)
}

// GetAtSlantHeight is GetAt specialized to the slant-height key
// s = y*cos(lookAngle) - x*sin(lookAngle), used by the event filter's
// zero-crossing detection.
func (b *Buffer) GetAtSlantHeight(lookAngleRad, value, startFromTime float64) (BaseTrajData, error) {
	if len(b.data) < 3 {
		return BaseTrajData{}, ballerr.Index("dense buffer needs at least 3 samples to interpolate")
	}
	cosA, sinA := math.Cos(lookAngleRad), math.Sin(lookAngleRad)
	slant := func(s BaseTrajData) float64 { return s.PY*cosA - s.PX*sinA }
	start := 0
	for start < len(b.data) && b.data[start].Time < startFromTime {
		start++
	}
	c := binarySearchCenterFunc(b.data[start:], slant, value) + start
	return b.interpolateAtFunc(c, slant, value)
}

// binarySearchCenter finds the bracket center for key/value using the
// Key accessor.
func binarySearchCenter(data []BaseTrajData, key Key, value float64) int {
	return binarySearchCenterFunc(data, key.value, value)
}

func binarySearchCenterFunc(data []BaseTrajData, f func(BaseTrajData) float64, value float64) int {
	lo, hi := 0, len(data)-1
	if hi < 0 {
		return 0
	}
	ascending := f(data[hi]) >= f(data[0])
	for lo < hi {
		mid := (lo + hi) / 2
		v := f(data[mid])
		less := v < value
		if v == value {
			return mid
		}
		if (ascending && less) || (!ascending && !less) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// InterpolateAt performs 3-point PCHIP interpolation at a
// caller-specified bracket center idx (1 <= idx <= n-2), using key as
// the interpolation abscissa and interpolating every other field
// independently against it. The key field is interpolated like every
// other field rather than assigned; because its samples are the abscissa
// itself, the result equals value up to rounding.
func (b *Buffer) InterpolateAt(idx int, key Key, value float64) (BaseTrajData, error) {
	return b.interpolateAtFunc(idx, key.value, value)
}

func (b *Buffer) interpolateAtFunc(idx int, f func(BaseTrajData) float64, value float64) (BaseTrajData, error) {
	n := len(b.data)
	if n < 3 {
		return BaseTrajData{}, ballerr.Index("dense buffer needs at least 3 samples to interpolate")
	}
	if idx < 1 {
		idx = 1
	}
	if idx > n-2 {
		idx = n - 2
	}
	p0, p1, p2 := b.data[idx-1], b.data[idx], b.data[idx+1]
	x0, x1, x2 := f(p0), f(p1), f(p2)
	if x0 == x1 && x1 == x2 {
		return BaseTrajData{}, ballerr.ZeroDivision("degenerate interpolation bracket: three equal abscissas")
	}

	interp1 := func(a0, a1, a2 float64) float64 {
		return pchip3(x0, x1, x2, a0, a1, a2, value)
	}

	out := BaseTrajData{
		Time: interp1(p0.Time, p1.Time, p2.Time),
		PX:   interp1(p0.PX, p1.PX, p2.PX),
		PY:   interp1(p0.PY, p1.PY, p2.PY),
		PZ:   interp1(p0.PZ, p1.PZ, p2.PZ),
		VX:   interp1(p0.VX, p1.VX, p2.VX),
		VY:   interp1(p0.VY, p1.VY, p2.VY),
		VZ:   interp1(p0.VZ, p1.VZ, p2.VZ),
		Mach: interp1(p0.Mach, p1.Mach, p2.Mach),
	}
	return out, nil
}

// Interpolate3 interpolates a full BaseTrajData row through three known
// samples at abscissa value of key, without requiring a Buffer. engine.
// IntegrateAt uses this on the trailing three-sample window (two prior
// plus the newly-crossed sample) once a target-value crossing is
// detected, the same bracket shape InterpolateAt uses internally.
func Interpolate3(p0, p1, p2 BaseTrajData, key Key, value float64) (BaseTrajData, error) {
	x0, x1, x2 := key.value(p0), key.value(p1), key.value(p2)
	if x0 == x1 && x1 == x2 {
		return BaseTrajData{}, ballerr.ZeroDivision("degenerate interpolation bracket: three equal abscissas")
	}
	interp := func(a0, a1, a2 float64) float64 {
		return pchip3(x0, x1, x2, a0, a1, a2, value)
	}
	return BaseTrajData{
		Time: interp(p0.Time, p1.Time, p2.Time),
		PX:   interp(p0.PX, p1.PX, p2.PX),
		PY:   interp(p0.PY, p1.PY, p2.PY),
		PZ:   interp(p0.PZ, p1.PZ, p2.PZ),
		VX:   interp(p0.VX, p1.VX, p2.VX),
		VY:   interp(p0.VY, p1.VY, p2.VY),
		VZ:   interp(p0.VZ, p1.VZ, p2.VZ),
		Mach: interp(p0.Mach, p1.Mach, p2.Mach),
	}, nil
}

// pchip3 interpolates a single dependent variable through three points
// (x0,y0),(x1,y1),(x2,y2) at abscissa xv, using a Fritsch-Carlson slope
// at x1 and one-sided secant slopes at x0/x2 -- the 3-point case of the
// general monotone PCHIP scheme used by dragcurve.
func pchip3(x0, x1, x2, y0, y1, y2, xv float64) float64 {
	d0 := (y1 - y0) / (x1 - x0)
	d1 := (y2 - y1) / (x2 - x1)
	var m1 float64
	if d0*d1 <= 0 {
		m1 = 0
	} else {
		h0, h1 := x1-x0, x2-x1
		w1, w2 := 2*h1+h0, h1+2*h0
		m1 = (w1 + w2) / (w1/d0 + w2/d1)
	}
	m0 := d0
	m2 := d1

	if xv <= x1 {
		return hermite(x0, x1, y0, y1, m0, m1, xv)
	}
	return hermite(x1, x2, y1, y2, m1, m2, xv)
}

func hermite(x0, x1, y0, y1, m0, m1, t float64) float64 {
	h := x1 - x0
	if h == 0 {
		return y0
	}
	s := (t - x0) / h
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return h00*y0 + h10*h*m0 + h01*y1 + h11*h*m1
}
