// Package trajfilter converts the integrator's dense base samples into
// recorded TrajectoryData rows: range/time sampling plus zero-crossing,
// Mach-crossing, and apex event detection. It is the single source of
// truth for event semantics (spec.md section 9's "dense samples vs
// events separation" design note) -- the integrator itself stays
// ignorant of events, generalizing the teacher's single hard-coded
// "return to initial altitude" bracket-and-interpolate pass in
// correctFinalPosition into the multi-event sliding window below.
package trajfilter

import (
	"math"

	"github.com/cprevallet/goballistics/densebuf"
	"github.com/cprevallet/goballistics/shotprops"
	"github.com/cprevallet/goballistics/trajectory"
)

// Filter streams BaseTrajData in time order and emits TrajectoryData
// rows. Not safe for concurrent use; one Filter per integrate call.
type Filter struct {
	shot        *shotprops.ShotProps
	rangeLimit  float64
	rangeStep   float64
	timeStep    float64
	wantFlags   trajectory.TrajFlag
	unionWindow float64

	buf *densebuf.Buffer // trailing window accumulated so far, for bracket interpolation

	nextRangeK     int
	nextTimeK      int
	zeroArmed      bool
	lastSlant      float64
	haveLastSlant  bool
	lastMachAbove1 bool
	haveLastMach   bool
	lastVY         float64
	haveLastVY     bool

	rows []trajectory.TrajectoryData
}

// New constructs a Filter. wantFlags selects which event classes to
// detect (e.g. trajectory.FlagZeroDown alone, for range_for_angle);
// trajectory.FlagRange is always honored when rangeStepFt > 0 regardless
// of wantFlags, since range sampling is the baseline output every
// integrate call needs.
func New(shot *shotprops.ShotProps, rangeLimitFt, rangeStepFt, timeStep float64, wantFlags trajectory.TrajFlag, unionWindow float64) *Filter {
	f := &Filter{
		shot:        shot,
		rangeLimit:  rangeLimitFt,
		rangeStep:   rangeStepFt,
		timeStep:    timeStep,
		wantFlags:   wantFlags,
		unionWindow: unionWindow,
		buf:         densebuf.New(256),
	}
	return f
}

// Rows returns the recorded rows accumulated so far, sorted by time.
func (f *Filter) Rows() []trajectory.TrajectoryData { return f.rows }

// Push processes one newly-emitted dense sample, appending it to the
// trailing window and emitting any rows it triggers.
func (f *Filter) Push(s densebuf.BaseTrajData) {
	f.buf.Append(s)
	n := f.buf.Len()

	f.detectRangeSamples(s)
	f.detectTimeSamples(s)

	if n >= 2 {
		prev, _ := f.buf.Get(n - 2)
		f.detectZeroCrossing(prev, s)
		f.detectMachCrossing(prev, s)
		f.detectApex(prev, s)
	} else {
		f.primeZeroArming(s)
	}
}

// Finalize appends one last row flagged FlagNone (or FlagRange if the
// final sample lands exactly on a range step) if the final dense sample
// was not already recorded as a row.
func (f *Filter) Finalize() {
	n := f.buf.Len()
	if n == 0 {
		return
	}
	last, _ := f.buf.Get(-1)
	if len(f.rows) > 0 && math.Abs(f.rows[len(f.rows)-1].Time-last.Time) <= f.unionWindow {
		return
	}
	flag := trajectory.FlagNone
	if f.rangeStep > 0 && isNearMultiple(last.PX, f.rangeStep) {
		flag = trajectory.FlagRange
	}
	f.emit(trajectory.Derive(f.shot, last, flag))
}

func isNearMultiple(v, step float64) bool {
	if step <= 0 {
		return false
	}
	k := math.Round(v / step)
	return math.Abs(v-k*step) <= 1e-6
}

func (f *Filter) primeZeroArming(s densebuf.BaseTrajData) {
	cosA, sinA := math.Cos(f.shot.LookAngleRad), math.Sin(f.shot.LookAngleRad)
	slant := s.PY*cosA - s.PX*sinA
	f.lastSlant = slant
	f.haveLastSlant = true
	// Arm detection only if the muzzle starts at/below the line of
	// sight with an elevated barrel, per spec.md section 4.6; otherwise
	// disarm so the muzzle sample itself can't trigger a spurious event.
	f.zeroArmed = slant <= 0 && f.shot.BarrelElevationRad > f.shot.LookAngleRad
}

func (f *Filter) detectRangeSamples(s densebuf.BaseTrajData) {
	if f.rangeStep <= 0 {
		return
	}
	for {
		target := float64(f.nextRangeK) * f.rangeStep
		if target > f.rangeLimit {
			return
		}
		if s.PX < target {
			return
		}
		row, err := f.buf.GetAt(densebuf.KeyPosX, target, 0)
		if err != nil {
			// Not enough samples yet to interpolate a bracket; wait for
			// the next push.
			return
		}
		f.emit(trajectory.Derive(f.shot, row, trajectory.FlagRange))
		f.nextRangeK++
	}
}

func (f *Filter) detectTimeSamples(s densebuf.BaseTrajData) {
	if f.timeStep <= 0 {
		return
	}
	for {
		target := float64(f.nextTimeK) * f.timeStep
		if s.Time < target {
			return
		}
		row, err := f.buf.GetAt(densebuf.KeyTime, target, 0)
		if err != nil {
			return
		}
		f.emit(trajectory.Derive(f.shot, row, trajectory.FlagNone))
		f.nextTimeK++
	}
}

func (f *Filter) detectZeroCrossing(prev, cur densebuf.BaseTrajData) {
	if f.wantFlags&trajectory.FlagZero == 0 {
		return
	}
	cosA, sinA := math.Cos(f.shot.LookAngleRad), math.Sin(f.shot.LookAngleRad)
	slant := cur.PY*cosA - cur.PX*sinA
	if !f.haveLastSlant {
		f.lastSlant = slant
		f.haveLastSlant = true
		return
	}
	prevSlant := f.lastSlant
	f.lastSlant = slant

	if !f.zeroArmed {
		if prevSlant <= 0 && slant > 0 {
			// Crossed upward for the first time without being armed --
			// nothing to do; arm for future down-crossings.
			f.zeroArmed = true
		}
		return
	}

	if prevSlant <= 0 && slant > 0 && f.wantFlags&trajectory.FlagZeroUp != 0 {
		row := f.interpolateSlantRoot(prev, cur)
		f.emit(trajectory.Derive(f.shot, row, trajectory.FlagZeroUp))
	} else if prevSlant > 0 && slant <= 0 && f.wantFlags&trajectory.FlagZeroDown != 0 {
		row := f.interpolateSlantRoot(prev, cur)
		f.emit(trajectory.Derive(f.shot, row, trajectory.FlagZeroDown))
	}
}

func (f *Filter) interpolateSlantRoot(prev, cur densebuf.BaseTrajData) densebuf.BaseTrajData {
	row, err := f.buf.GetAtSlantHeight(f.shot.LookAngleRad, 0, prev.Time)
	if err == nil {
		return row
	}
	// Too few samples for the generic 3-point bracket (e.g. right at
	// the start of the buffer): fall back to a direct linear
	// interpolation between prev and cur.
	cosA, sinA := math.Cos(f.shot.LookAngleRad), math.Sin(f.shot.LookAngleRad)
	s0 := prev.PY*cosA - prev.PX*sinA
	s1 := cur.PY*cosA - cur.PX*sinA
	frac := s0 / (s0 - s1)
	return lerp(prev, cur, frac)
}

func lerp(a, b densebuf.BaseTrajData, frac float64) densebuf.BaseTrajData {
	l := func(x, y float64) float64 { return x + frac*(y-x) }
	return densebuf.BaseTrajData{
		Time: l(a.Time, b.Time),
		PX:   l(a.PX, b.PX), PY: l(a.PY, b.PY), PZ: l(a.PZ, b.PZ),
		VX: l(a.VX, b.VX), VY: l(a.VY, b.VY), VZ: l(a.VZ, b.VZ),
		Mach: l(a.Mach, b.Mach),
	}
}

// detectMachCrossing watches BaseTrajData.Mach, which the integrator
// fills in each step as vmag/mach1 (the projectile's own Mach number,
// not the local speed of sound) -- that is what makes "interpolate by
// MACH to value 1.0" in spec.md section 4.6 meaningful.
func (f *Filter) detectMachCrossing(prev, cur densebuf.BaseTrajData) {
	if f.wantFlags&trajectory.FlagMach == 0 {
		return
	}
	if !f.haveLastMach {
		f.lastMachAbove1 = prev.Mach > 1
		f.haveLastMach = true
	}
	above1 := cur.Mach > 1
	if f.lastMachAbove1 && !above1 {
		row, err := f.buf.GetAt(densebuf.KeyMach, 1.0, 0)
		if err == nil {
			f.emit(trajectory.Derive(f.shot, row, trajectory.FlagMach))
		}
	}
	f.lastMachAbove1 = above1
}

func (f *Filter) detectApex(prev, cur densebuf.BaseTrajData) {
	if f.wantFlags&trajectory.FlagApex == 0 {
		return
	}
	if !f.haveLastVY {
		f.lastVY = prev.VY
		f.haveLastVY = true
	}
	if f.lastVY > 0 && cur.VY <= 0 {
		row, err := f.buf.GetAt(densebuf.KeyVelY, 0, 0)
		if err == nil {
			f.emit(trajectory.Derive(f.shot, row, trajectory.FlagApex))
		}
	}
	f.lastVY = cur.VY
}

// emit inserts row into the sorted rows slice, unioning its flag with an
// existing row if their timestamps fall within unionWindow, per
// spec.md section 3's flag-unioning rule, rather than appending a
// duplicate.
func (f *Filter) emit(row trajectory.TrajectoryData) {
	for i := range f.rows {
		if math.Abs(f.rows[i].Time-row.Time) <= f.unionWindow {
			f.rows[i].Flag |= row.Flag
			return
		}
	}
	// Merge-insertion: find the sorted insertion point by time.
	i := 0
	for i < len(f.rows) && f.rows[i].Time <= row.Time {
		i++
	}
	f.rows = append(f.rows, trajectory.TrajectoryData{})
	copy(f.rows[i+1:], f.rows[i:])
	f.rows[i] = row
}
