// Package trajectory holds the recorded-row data model (TrajectoryData,
// TrajFlag, HitResult) and the derivation of ballistic fields from a raw
// dense sample, per spec.md section 4.10. This package is the
// direct descendant of the teacher's TrajectoryPoint/Trajectory: the
// teacher's {Time, Position, Velocity, Acceleration} row becomes the
// richer TrajectoryData row below, and the teacher's Trajectory()
// function's job of producing an ordered history is now split between
// the integrator, the event filter, and engine.Engine.Integrate.
package trajectory

import (
	"math"

	"github.com/cprevallet/goballistics/densebuf"
	"github.com/cprevallet/goballistics/shotprops"
)

// TrajFlag is the bitfield marking what a recorded row represents.
type TrajFlag uint32

const (
	FlagNone    TrajFlag = 0
	FlagZeroUp  TrajFlag = 1 << 0
	FlagZeroDown TrajFlag = 1 << 1
	FlagMach    TrajFlag = 1 << 2
	FlagRange   TrajFlag = 1 << 3
	FlagApex    TrajFlag = 1 << 4
	FlagMRT     TrajFlag = 1 << 5

	FlagZero = FlagZeroUp | FlagZeroDown
)

// SeparateRowTimeDelta is the default event-union window; callers
// ordinarily take this from config.Config.SeparateRowTimeDeltaS instead.
const SeparateRowTimeDelta = 1e-5

// TrajectoryData is one recorded output row: the raw base fields plus
// every derived ballistic quantity named in spec.md section 3.
type TrajectoryData struct {
	Time float64
	PX, PY, PZ float64
	VX, VY, VZ float64
	Mach float64

	VelocityFps      float64
	HeightFt         float64
	SlantHeightFt    float64
	DropAngleRad     float64
	WindageFt        float64
	WindageAngleRad  float64
	SlantDistanceFt  float64
	AngleRad         float64
	DensityRatio     float64
	Drag             float64
	EnergyFtLb       float64
	OgwLb            float64
	Flag             TrajFlag
}

// HitResult is the outcome of one engine.Integrate call: an ordered list
// of recorded rows, an optional dense sample list, and the ShotProps
// snapshot used to produce them.
type HitResult struct {
	Rows  []TrajectoryData
	Dense []densebuf.BaseTrajData
	Shot  shotprops.ShotProps
}

// RowAtRange returns the first recorded row whose PX is within 1e-6 ft of
// rangeFt, and whether one was found. A supplemental convenience over
// the raw Rows slice (see SPEC_FULL.md section C.1).
func (h HitResult) RowAtRange(rangeFt float64) (TrajectoryData, bool) {
	for _, r := range h.Rows {
		if math.Abs(r.PX-rangeFt) <= 1e-6 {
			return r, true
		}
	}
	return TrajectoryData{}, false
}

// Events returns every recorded row whose Flag has any bit of flag set.
func (h HitResult) Events(flag TrajFlag) []TrajectoryData {
	var out []TrajectoryData
	for _, r := range h.Rows {
		if r.Flag&flag != 0 {
			out = append(out, r)
		}
	}
	return out
}

// Derive computes a full TrajectoryData row from a raw dense sample and
// the owning shot, per spec.md section 4.10.
func Derive(s *shotprops.ShotProps, base densebuf.BaseTrajData, flag TrajFlag) TrajectoryData {
	vmag := math.Sqrt(base.VX*base.VX + base.VY*base.VY + base.VZ*base.VZ)
	look := s.LookAngleRad
	cosA, sinA := math.Cos(look), math.Sin(look)

	windageFt := base.PZ + s.SpinDriftFt(base.Time)

	slantHeight := base.PY*cosA - base.PX*sinA
	slantDistance := base.PX*cosA + base.PY*sinA

	dropAngle := math.Atan2(slantHeight, slantDistance)

	var windageAngle float64
	if base.PX != 0 {
		windageAngle = math.Atan2(windageFt, base.PX)
	}

	angle := math.Atan2(base.VY, base.VX)

	weight := s.WeightGrains
	energy := weight * vmag * vmag / 450400.0
	ogw := weight * weight * vmag * vmag * vmag * 1.5e-12

	densityRatio, mach1 := s.Atmo.Update(s.Alt0Ft + base.PY)
	var drag float64
	if mach1 != 0 {
		drag = s.Drag.DragFactor(vmag/mach1, s.BC)
	}

	return TrajectoryData{
		Time: base.Time,
		PX:   base.PX, PY: base.PY, PZ: base.PZ,
		VX: base.VX, VY: base.VY, VZ: base.VZ,
		Mach: base.Mach,

		VelocityFps:     vmag,
		HeightFt:        base.PY,
		SlantHeightFt:   slantHeight,
		DropAngleRad:    dropAngle,
		WindageFt:       windageFt,
		WindageAngleRad: windageAngle,
		SlantDistanceFt: slantDistance,
		AngleRad:        angle,
		DensityRatio:    densityRatio,
		Drag:            drag,
		EnergyFtLb:      energy,
		OgwLb:           ogw,
		Flag:            flag,
	}
}
