// Package engine is the facade spec.md section 4.8 calls the "point of
// entry": it owns one ShotProps for the lifetime of repeated integrate
// calls, wires the integrator, event filter, and optional dense buffer
// together, and serializes access with a mutex so the search layer's
// repeated temporary mutation of BarrelElevationRad can never race with
// a concurrent caller. It is the generalization of the teacher's
// package-level Trajectory() entry point into an owned, lockable
// struct, grounded on kevin-buckham-MMCd-Go's Simulator
// (mu sync.Mutex guarding mutable tick state in simulator.go).
package engine

import (
	"math"
	"sync"

	"github.com/cprevallet/goballistics/ballerr"
	"github.com/cprevallet/goballistics/config"
	"github.com/cprevallet/goballistics/densebuf"
	"github.com/cprevallet/goballistics/integrator"
	"github.com/cprevallet/goballistics/shotprops"
	"github.com/cprevallet/goballistics/trajectory"
	"github.com/cprevallet/goballistics/trajfilter"
	"github.com/sirupsen/logrus"
)

// flatFireMaxSlantRad bounds how far off axis a FlatFireOnly Coriolis
// correction is trusted, per spec.md section 9's open question: past
// this slant the flat-fire simplification's error is unbounded, so
// New refuses the shot outright rather than silently integrating it.
const flatFireMaxSlantRad = 15.0 * math.Pi / 180.0

// Engine owns one ShotProps and serializes every integration against it.
//
// spec.md section 4.8 calls for a "recursive lock" so nested search
// calls don't deadlock against themselves. Rather than hand-rolling a
// reentrant sync.Mutex (Go's standard Mutex is intentionally not
// reentrant, and a goroutine-id-tracking substitute is a well-known
// anti-pattern), every exported method here locks for exactly the
// duration of one integrate call and returns. The search package never
// holds Engine's lock across its own iterations -- it calls
// SetBarrelElevation and Integrate as separate, independently-locked
// round trips -- so no call path ever re-enters Lock while already
// holding it.
type Engine struct {
	mu     sync.Mutex
	cfg    config.Config
	shot   *shotprops.ShotProps
	kind   integrator.Kind
	Logger *logrus.Logger
}

// New validates shot and constructs an Engine bound to it.
func New(cfg config.Config, shot *shotprops.ShotProps, kind integrator.Kind) (*Engine, error) {
	if err := shot.Validate(); err != nil {
		return nil, err
	}
	if shot.Cor != nil && shot.Cor.FlatFireOnly && math.Abs(shot.LookAngleRad) > flatFireMaxSlantRad {
		return nil, ballerr.Input("flat-fire-only Coriolis correction is not valid past 15 degrees of slant")
	}
	return &Engine{cfg: cfg, shot: shot, kind: kind, Logger: logrus.StandardLogger()}, nil
}

// SetLogger overrides the engine's logger, e.g. to attach a caller's
// own logrus instance instead of the package-level default.
func (e *Engine) SetLogger(l *logrus.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Logger = l
}

// Config returns the engine's configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// LookAngleRad returns the shot's fixed slant angle (the line-of-sight
// angle from level, not the barrel elevation), used by callers that
// need to report it alongside an out-of-range error.
func (e *Engine) LookAngleRad() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shot.LookAngleRad
}

// SetBarrelElevation updates the barrel elevation used by future
// integrate calls. This is the one ShotProps field spec.md section 3
// allows the search layer to vary between iterations.
func (e *Engine) SetBarrelElevation(rad float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shot.BarrelElevationRad = rad
}

// BarrelElevation returns the current barrel elevation.
func (e *Engine) BarrelElevation() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shot.BarrelElevationRad
}

// Integrate runs one full integration per spec.md section 6's
// "integrate" operation: rangeLimitFt bounds the shot, rangeStepFt and
// timeStepS (either may be 0 to disable that sampling axis) select
// range/time-sampled rows, filterFlags selects which event classes to
// detect in addition to range sampling, and wantDense controls whether
// the full dense sample history is retained on the returned HitResult.
func (e *Engine) Integrate(rangeLimitFt, rangeStepFt, timeStepS float64, filterFlags trajectory.TrajFlag, wantDense bool) (trajectory.HitResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.integrateLocked(rangeLimitFt, rangeStepFt, timeStepS, filterFlags, wantDense)
}

func (e *Engine) integrateLocked(rangeLimitFt, rangeStepFt, timeStepS float64, filterFlags trajectory.TrajFlag, wantDense bool) (trajectory.HitResult, error) {
	ig := integrator.New(e.kind, e.shot, e.cfg)
	filt := trajfilter.New(e.shot, rangeLimitFt, rangeStepFt, timeStepS, filterFlags|trajectory.FlagRange, e.cfg.SeparateRowTimeDeltaS)

	var dense []densebuf.BaseTrajData
	ig.Run(rangeLimitFt, func(s densebuf.BaseTrajData) bool {
		if wantDense {
			dense = append(dense, s)
		}
		filt.Push(s)
		return false
	})
	filt.Finalize()

	return trajectory.HitResult{
		Rows:  filt.Rows(),
		Dense: dense,
		Shot:  *e.shot,
	}, nil
}

// IntegrateAt runs spec.md section 6's "integrate_at" operation: it
// integrates out to e.cfg.MaxIntegrationRangeFt watching key for a
// crossing of targetValue, stops as soon as the crossing is bracketed,
// and returns the interpolated three-sample window. It returns
// ballerr.ErrInterception if the shot terminates without ever crossing
// targetValue.
func (e *Engine) IntegrateAt(key densebuf.Key, targetValue float64) (densebuf.BaseTrajData, trajectory.TrajectoryData, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.integrateAtLocked(key, targetValue)
}

func (e *Engine) integrateAtLocked(key densebuf.Key, targetValue float64) (densebuf.BaseTrajData, trajectory.TrajectoryData, error) {
	ig := integrator.New(e.kind, e.shot, e.cfg)

	var have0, have1 bool
	var p0, p1 densebuf.BaseTrajData
	var found densebuf.BaseTrajData
	var crossed bool

	ig.Run(e.cfg.MaxIntegrationRangeFt, func(s densebuf.BaseTrajData) bool {
		if !have1 {
			p1 = s
			have1 = true
			return false
		}
		f0, f1 := key.Value(p1), key.Value(s)
		if (f0-targetValue)*(f1-targetValue) <= 0 && f0 != f1 {
			if have0 {
				row, err := densebuf.Interpolate3(p0, p1, s, key, targetValue)
				if err == nil {
					found = row
					crossed = true
					return true
				}
			} else {
				// Not enough history for a 3-point bracket yet; linearly
				// interpolate between the two points we have.
				frac := (targetValue - f0) / (f1 - f0)
				found = lerpBase(p1, s, frac)
				crossed = true
				return true
			}
		}
		p0, p1 = p1, s
		have0 = true
		return false
	})

	if !crossed {
		e.Logger.WithField("targetValue", targetValue).Warn("integrate_at terminated without crossing target value")
		return densebuf.BaseTrajData{}, trajectory.TrajectoryData{}, ballerr.Interception("target value was never crossed before integration terminated")
	}
	return found, trajectory.Derive(e.shot, found, trajectory.FlagNone), nil
}

func lerpBase(a, b densebuf.BaseTrajData, frac float64) densebuf.BaseTrajData {
	l := func(x, y float64) float64 { return x + frac*(y-x) }
	return densebuf.BaseTrajData{
		Time: l(a.Time, b.Time),
		PX:   l(a.PX, b.PX), PY: l(a.PY, b.PY), PZ: l(a.PZ, b.PZ),
		VX: l(a.VX, b.VX), VY: l(a.VY, b.VY), VZ: l(a.VZ, b.VZ),
		Mach: l(a.Mach, b.Mach),
	}
}
