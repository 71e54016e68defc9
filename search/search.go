// Package search implements the root-finding and optimization layer
// built on top of repeated engine.Engine integration: find_apex,
// range_for_angle, find_max_range, find_zero_angle, and the fast
// zero_angle path, per spec.md section 4.9. None of the example repos
// carry a numerical root finder or optimizer -- Ridder's method and
// golden-section search here are written directly against Numerical
// Recipes-style descriptions of those algorithms, since no pack library
// covers this concern (see DESIGN.md's stdlib-only justification).
package search

import (
	"math"

	"github.com/cprevallet/goballistics/ballerr"
	"github.com/cprevallet/goballistics/densebuf"
	"github.com/cprevallet/goballistics/engine"
	"github.com/cprevallet/goballistics/trajectory"
	"github.com/sirupsen/logrus"
)

// Logger receives Debug-level per-iteration residuals from the root
// finders below and Warn-level notices when a fast path gives up and
// falls back to a slower, globally-convergent one. Solver's methods
// forward to the package-level functions, so they log here too.
var Logger = logrus.StandardLogger()

// FindApex returns the recorded row at the shot's highest point, found
// by watching velocity-Y cross zero from above.
func FindApex(e *engine.Engine) (trajectory.TrajectoryData, error) {
	_, row, err := e.IntegrateAt(densebuf.KeyVelY, 0)
	if err != nil {
		return trajectory.TrajectoryData{}, ballerr.Wrapf(ballerr.KindInterception, err, "no apex found: shot never reached a peak")
	}
	return row, nil
}

// RangeForAngle sets the shot's barrel elevation to elevationRad and
// returns the recorded row where the trajectory crosses back down
// through the line of sight (the "zero-down" event).
func RangeForAngle(e *engine.Engine, elevationRad float64) (trajectory.TrajectoryData, error) {
	e.SetBarrelElevation(elevationRad)
	hit, err := e.Integrate(e.Config().MaxIntegrationRangeFt, 0, 0, trajectory.FlagZeroDown, false)
	if err != nil {
		return trajectory.TrajectoryData{}, err
	}
	events := hit.Events(trajectory.FlagZeroDown)
	if len(events) == 0 {
		return trajectory.TrajectoryData{}, ballerr.SolverRuntime("shot never returned to the line of sight at this elevation")
	}
	return events[0], nil
}

// ErrorAtDistance sets elevationRad and returns the slant height (feet
// above or below the line of sight) at the point the shot reaches
// targetDistanceFt downrange -- the residual find_zero_angle drives to
// zero.
func ErrorAtDistance(e *engine.Engine, elevationRad, targetDistanceFt float64) (float64, error) {
	e.SetBarrelElevation(elevationRad)
	_, row, err := e.IntegrateAt(densebuf.KeyPosX, targetDistanceFt)
	if err != nil {
		return 0, ballerr.Wrapf(ballerr.KindSolverRuntime, err, "shot did not reach %.1f ft downrange", targetDistanceFt)
	}
	return row.SlantHeightFt, nil
}

const (
	minSearchAngleRad = 1e-4
	maxSearchAngleRad = math.Pi/2 - 1e-3
)

// maxRangeAngle golden-section-searches the elevation angle that
// maximizes RangeForAngle's returned downrange distance, returning both
// the angle and the range it achieves. find_zero_angle's bracket
// endpoints and zero_angle's/find_zero_angle's out-of-range check both
// need this angle, not just the row FindMaxRange returns.
func maxRangeAngle(e *engine.Engine) (angleRad, rangeFt float64, err error) {
	cfg := e.Config()
	objective := func(angle float64) (float64, error) {
		row, err := RangeForAngle(e, angle)
		if err != nil {
			return 0, err
		}
		return row.PX, nil
	}
	return goldenSectionMax(objective, minSearchAngleRad, maxSearchAngleRad, cfg.ZeroFindingAccuracyFt, cfg.MaxIterations)
}

// FindMaxRange golden-section-searches the elevation angle that
// maximizes RangeForAngle's returned downrange distance, and returns
// the zero-down row at that elevation.
func FindMaxRange(e *engine.Engine) (trajectory.TrajectoryData, error) {
	angle, _, err := maxRangeAngle(e)
	if err != nil {
		return trajectory.TrajectoryData{}, err
	}
	return RangeForAngle(e, angle)
}

// goldenSectionMax finds the x in [lo,hi] maximizing f, assuming f is
// unimodal on that interval.
func goldenSectionMax(f func(float64) (float64, error), lo, hi, tol float64, maxIter int) (x, fx float64, err error) {
	const gr = 0.6180339887498949 // (sqrt(5)-1)/2

	c := hi - gr*(hi-lo)
	d := lo + gr*(hi-lo)
	fc, err := f(c)
	if err != nil {
		return 0, 0, err
	}
	fd, err := f(d)
	if err != nil {
		return 0, 0, err
	}

	for i := 0; i < maxIter && hi-lo > tol; i++ {
		if fc > fd {
			hi, d, fd = d, c, fc
			c = hi - gr*(hi-lo)
			fc, err = f(c)
		} else {
			lo, c, fc = c, d, fd
			d = lo + gr*(hi-lo)
			fd, err = f(d)
		}
		if err != nil {
			return 0, 0, err
		}
	}

	mid := (lo + hi) / 2
	fmid, err := f(mid)
	if err != nil {
		return 0, 0, err
	}
	return mid, fmid, nil
}

// FindZeroAngle root-finds, via Ridder's method, the barrel elevation
// that makes the shot cross the line of sight exactly at
// targetDistanceFt. When lofted is false it searches the low-angle
// bracket from minSearchAngleRad up to the angle that maximizes range;
// when lofted is true it searches the high-angle bracket from the
// max-range angle up to maxSearchAngleRad, recovering the second
// (steeper, slower-arriving) solution every sub-max-range target
// distance has. Fails with ballerr.ErrOutOfRange if targetDistanceFt
// exceeds the shot's computed max range. maxIterations <= 0 falls back
// to the engine's configured default.
func FindZeroAngle(e *engine.Engine, targetDistanceFt float64, lofted bool, maxIterations int) (float64, error) {
	cfg := e.Config()
	if maxIterations <= 0 {
		maxIterations = cfg.MaxIterations
	}
	angleAtMax, maxRangeFt, err := maxRangeAngle(e)
	if err != nil {
		return 0, err
	}
	if targetDistanceFt > maxRangeFt {
		return 0, ballerr.OutOfRange(targetDistanceFt, maxRangeFt, e.LookAngleRad())
	}

	f := func(angle float64) (float64, error) { return ErrorAtDistance(e, angle, targetDistanceFt) }

	var lo, hi float64
	if lofted {
		lo, hi, err = bracketRoot(f, angleAtMax, 2e-3, maxSearchAngleRad, maxIterations)
	} else {
		lo, hi, err = bracketRoot(f, minSearchAngleRad, 2e-3, angleAtMax, maxIterations)
	}
	if err != nil {
		return 0, err
	}
	return ridder(f, lo, hi, cfg.AllowedZeroErrorFt, maxIterations)
}

// bracketRoot expands outward from start in growing steps until f
// changes sign, or gives up past maxAngle.
func bracketRoot(f func(float64) (float64, error), start, step, maxAngle float64, maxIter int) (lo, hi float64, err error) {
	lo = start
	flo, err := f(lo)
	if err != nil {
		return 0, 0, err
	}
	hi = lo + step
	for i := 0; i < maxIter && hi < maxAngle; i++ {
		fhi, err := f(hi)
		if err != nil {
			return 0, 0, err
		}
		if flo*fhi <= 0 {
			return lo, hi, nil
		}
		lo, flo = hi, fhi
		hi += step
		step *= 1.6
	}
	return 0, 0, ballerr.ZeroFinding(flo, maxIter, lo)
}

// ridder implements Ridder's root-finding method on f over the bracket
// [lo,hi], where f(lo) and f(hi) must have opposite signs, converging
// once |f(x)| < tolY.
func ridder(f func(float64) (float64, error), lo, hi, tolY float64, maxIter int) (float64, error) {
	flo, err := f(lo)
	if err != nil {
		return 0, err
	}
	fhi, err := f(hi)
	if err != nil {
		return 0, err
	}
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if flo*fhi > 0 {
		return 0, ballerr.ZeroFinding(flo, 0, lo)
	}

	for i := 0; i < maxIter; i++ {
		mid := 0.5 * (lo + hi)
		fmid, err := f(mid)
		if err != nil {
			return 0, err
		}
		Logger.WithFields(logrus.Fields{"iteration": i, "angleRad": mid, "residualFt": fmid}).Debug("ridder iteration")
		if math.Abs(fmid) < tolY {
			return mid, nil
		}
		s := math.Sqrt(fmid*fmid - flo*fhi)
		if s == 0 {
			return 0, ballerr.ZeroFinding(fmid, i, mid)
		}
		dx := (mid - lo) * fmid / s
		if flo < fhi {
			dx = -dx
		}
		next := mid + dx
		fnext, err := f(next)
		if err != nil {
			return 0, err
		}
		if math.Abs(fnext) < tolY {
			return next, nil
		}

		switch {
		case sign(fmid) != sign(fnext):
			lo, flo = mid, fmid
			hi, fhi = next, fnext
		case sign(flo) != sign(fnext):
			hi, fhi = next, fnext
		default:
			lo, flo = next, fnext
		}
		if math.Abs(hi-lo) < 1e-12 {
			return next, nil
		}
	}
	return 0, ballerr.ZeroFinding(flo, maxIter, lo)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// ZeroAngle is the fast path for find_zero_angle's low-angle (non-
// lofted) solution: a secant iteration seeded from two shallow
// elevation guesses, falling back to the slower but globally-convergent
// FindZeroAngle when the secant fails to converge or the target lies
// beyond 90% of the computed max range (where the secant's local linear
// model of range-vs-angle is least reliable). Fails with
// ballerr.ErrOutOfRange if targetDistanceFt exceeds the shot's computed
// max range.
func ZeroAngle(e *engine.Engine, targetDistanceFt float64) (float64, error) {
	cfg := e.Config()
	_, maxRangeFt, err := maxRangeAngle(e)
	if err != nil {
		return 0, err
	}
	if targetDistanceFt > maxRangeFt {
		return 0, ballerr.OutOfRange(targetDistanceFt, maxRangeFt, e.LookAngleRad())
	}
	if targetDistanceFt > 0.9*maxRangeFt {
		return FindZeroAngle(e, targetDistanceFt, false, cfg.MaxIterations)
	}

	a0 := minSearchAngleRad
	a1 := a0 + 0.01
	f0, err := ErrorAtDistance(e, a0, targetDistanceFt)
	if err != nil {
		Logger.WithError(err).Warn("zero_angle secant seed failed, falling back to find_zero_angle")
		return FindZeroAngle(e, targetDistanceFt, false, cfg.MaxIterations)
	}
	f1, err := ErrorAtDistance(e, a1, targetDistanceFt)
	if err != nil {
		Logger.WithError(err).Warn("zero_angle secant seed failed, falling back to find_zero_angle")
		return FindZeroAngle(e, targetDistanceFt, false, cfg.MaxIterations)
	}

	for i := 0; i < cfg.MaxIterations; i++ {
		if f1 == f0 {
			break
		}
		a2 := a1 - f1*(a1-a0)/(f1-f0)
		if a2 <= 0 || a2 >= maxSearchAngleRad {
			break
		}
		f2, err := ErrorAtDistance(e, a2, targetDistanceFt)
		if err != nil {
			break
		}
		Logger.WithFields(logrus.Fields{"iteration": i, "angleRad": a2, "residualFt": f2}).Debug("zero_angle secant iteration")
		if math.Abs(f2) < cfg.ZeroFindingAccuracyFt {
			return a2, nil
		}
		a0, f0 = a1, f1
		a1, f1 = a2, f2
	}
	Logger.Warn("zero_angle secant did not converge, falling back to find_zero_angle")
	return FindZeroAngle(e, targetDistanceFt, false, cfg.MaxIterations)
}

// Solver bundles an Engine with a logger field. Its methods simply
// forward to the package-level functions above, which remain the
// primary API; those functions log through the package-level Logger,
// so Solver.Logger is not consulted by any of them.
type Solver struct {
	Engine *engine.Engine
	Logger *logrus.Logger
}

// NewSolver builds a Solver around e with Logger set to
// logrus.StandardLogger(), the same instance the package-level Logger
// defaults to.
func NewSolver(e *engine.Engine) *Solver {
	return &Solver{Engine: e, Logger: logrus.StandardLogger()}
}

// FindApex delegates to the package-level FindApex using sv.Engine.
func (sv *Solver) FindApex() (trajectory.TrajectoryData, error) { return FindApex(sv.Engine) }

// RangeForAngle delegates to the package-level RangeForAngle using sv.Engine.
func (sv *Solver) RangeForAngle(elevationRad float64) (trajectory.TrajectoryData, error) {
	return RangeForAngle(sv.Engine, elevationRad)
}

// FindMaxRange delegates to the package-level FindMaxRange using sv.Engine.
func (sv *Solver) FindMaxRange() (trajectory.TrajectoryData, error) { return FindMaxRange(sv.Engine) }

// FindZeroAngle delegates to the package-level FindZeroAngle using sv.Engine.
func (sv *Solver) FindZeroAngle(targetDistanceFt float64, lofted bool, maxIterations int) (float64, error) {
	return FindZeroAngle(sv.Engine, targetDistanceFt, lofted, maxIterations)
}

// ZeroAngle delegates to the package-level ZeroAngle using sv.Engine.
func (sv *Solver) ZeroAngle(targetDistanceFt float64) (float64, error) {
	return ZeroAngle(sv.Engine, targetDistanceFt)
}
