// Package shotprops aggregates the immutable input bundle consumed by
// one integration: ballistic coefficient, barrel geometry, atmosphere,
// wind, Coriolis, and the lazily-computed Miller stability coefficient.
// It generalizes the teacher's package-level constant bundle (diam,
// mass, sref in trajectory.go) into an explicit owned struct, per
// spec.md section 3.
package shotprops

import (
	"math"

	"github.com/cprevallet/goballistics/atmosphere"
	"github.com/cprevallet/goballistics/ballerr"
	"github.com/cprevallet/goballistics/coriolis"
	"github.com/cprevallet/goballistics/dragcurve"
	"github.com/cprevallet/goballistics/windsock"
)

// FilterFlag bitfield controls which event classes the engine's filter
// records; see trajectory.TrajFlag for the value set shared with
// recorded rows.
type FilterFlag uint32

// ShotProps is the engine's exclusively-owned input bundle for the
// duration of one integrate call. Only BarrelElevationRad may change
// between search iterations; everything else is immutable.
type ShotProps struct {
	BC                  float64
	LookAngleRad        float64
	TwistInches         float64 // signed: positive = right-hand twist
	LengthIn            float64
	DiameterIn          float64
	WeightGrains        float64
	BarrelElevationRad  float64
	BarrelAzimuthRad    float64
	SightHeightFt       float64
	CantSine            float64
	CantCosine          float64
	Alt0Ft              float64
	CalcStep            float64
	MuzzleVelocityFps   float64
	FilterFlags         FilterFlag

	Drag   *dragcurve.Curve
	Atmo   *atmosphere.Atmosphere
	Cor    *coriolis.Coriolis // optional, may be nil
	Wind   *windsock.Sock

	stability     float64
	stabilityDone bool
}

// Validate checks the invariants spread across spec.md sections 3-4 in
// one place, so a malformed shot is rejected at construction rather than
// surfacing as a confusing mid-integration NaN.
func (s *ShotProps) Validate() error {
	if s.BC <= 0 {
		return ballerr.Input("ballistic coefficient must be > 0")
	}
	if s.Drag == nil {
		return ballerr.Input("shot requires a drag curve")
	}
	if s.Atmo == nil {
		return ballerr.Input("shot requires an atmosphere")
	}
	if s.Wind == nil {
		return ballerr.Input("shot requires a wind sock (use windsock.New(nil) for still air)")
	}
	if s.MuzzleVelocityFps <= 0 {
		return ballerr.Input("muzzle velocity must be > 0")
	}
	if s.CalcStep <= 0 {
		return ballerr.Input("calc step must be > 0")
	}
	if s.WeightGrains <= 0 {
		return ballerr.Input("bullet weight must be > 0")
	}
	return nil
}

// StabilityCoefficient returns the Miller stability coefficient S_g,
// computed once lazily and cached. Returns 0 if TwistInches is 0 (no
// spin, no spin drift correction applies).
func (s *ShotProps) StabilityCoefficient() float64 {
	if s.stabilityDone {
		return s.stability
	}
	s.stabilityDone = true
	if s.TwistInches == 0 || s.DiameterIn == 0 {
		s.stability = 0
		return 0
	}
	twistCalibers := math.Abs(s.TwistInches) / s.DiameterIn
	l := s.LengthIn / s.DiameterIn
	w := s.WeightGrains
	d := s.DiameterIn
	mv := s.MuzzleVelocityFps

	// Miller's formula wants absolute temperature/pressure, not density
	// ratio; reconstruct T,P from the atmosphere at the muzzle.
	t, p := s.atmosphereTP()

	sg := (30 * w) / (twistCalibers * twistCalibers * d * d * d * l * (1 + l*l))
	sg *= math.Cbrt(mv / 2800.0)
	sg *= (t + 460) / 519.0
	sg *= 29.92 / p

	s.stability = sg
	return sg
}

// atmosphereTP recovers an approximate (tempDegF, pressureInHg) pair at
// the muzzle altitude for use by the Miller formula, which is expressed
// in those terms rather than density ratio directly.
func (s *ShotProps) atmosphereTP() (tempDegF, pressureInHg float64) {
	// The Atmosphere type exposes density ratio and Mach-1 speed, not T/P
	// directly; Mach-1 = sqrt(T_abs)*49.0223 lets us back out T_abs.
	densityRatio, mach1 := s.Atmo.Update(s.Alt0Ft)
	tAbs := (mach1 / 49.0223) * (mach1 / 49.0223)
	tempDegF = tAbs - 459.67
	// p/pStd = densityRatio * (T/Tstd); solve for p.
	const pStd = 29.92
	const tStdAbs = 59.0 + 459.67
	pressureInHg = densityRatio * (tAbs / tStdAbs) * pStd
	return tempDegF, pressureInHg
}

// SpinDriftFt returns Litz's spin-drift approximation at time t seconds
// since launch, or 0 if the twist or stability coefficient is zero.
func (s *ShotProps) SpinDriftFt(t float64) float64 {
	if s.TwistInches == 0 {
		return 0
	}
	sg := s.StabilityCoefficient()
	if sg == 0 {
		return 0
	}
	sign := 1.0
	if s.TwistInches < 0 {
		sign = -1.0
	}
	return sign * 1.25 * (sg + 1.2) * math.Pow(t, 1.83) / 12.0
}
