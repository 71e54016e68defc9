// Package atmosphere computes density ratio and speed of sound as a
// function of altitude. It is grounded on the teacher's simpleAtmosphere
// (reduced to a single linear lapse rate with a temperature floor; there
// is no separate stratosphere layer), restated in imperial
// units per spec.md section 4.2, and on mmp-vice's wx/atmos.go for the
// package's doc-comment density and table-driven layout conventions.
package atmosphere

import (
	"math"

	"github.com/cprevallet/goballistics/ballerr"
)

const (
	lapseRateFPerFt  = -0.00356616 // degF per ft
	pressureExponent = -5.2559     // applied to T_base/T, so pressure falls with altitude
	speedOfSoundImp  = 49.0223     // sqrt(degR) -> fps constant
	rankineOffset    = 459.67
)

// Atmosphere holds the base conditions for one shot: base temperature
// (degF), base altitude (ft), base pressure (inHg). Constructed once per
// shot, queried repeatedly; deterministic and side-effect free.
type Atmosphere struct {
	t0Degf float64
	a0Ft   float64
	p0Inhg float64
}

// New constructs an Atmosphere. Fails with ballerr.ErrInput if p0 <= 0 or
// the base temperature is at or below the floor.
func New(t0DegF, a0Ft, p0InHg float64) (*Atmosphere, error) {
	if p0InHg <= 0 {
		return nil, ballerr.Input("atmosphere base pressure must be > 0")
	}
	if t0DegF <= floorDegF {
		return nil, ballerr.Input("atmosphere base temperature is at or below floor")
	}
	return &Atmosphere{t0Degf: t0DegF, a0Ft: a0Ft, p0Inhg: p0InHg}, nil
}

// floorDegF is the lowest temperature the model clamps to: -130 degC
// expressed in Fahrenheit, well above absolute zero so that pressure,
// density ratio and the speed of sound stay finite and positive.
const floorDegF = -202.0

// Standard constructs the ICAO standard atmosphere at sea level:
// 59 degF, 0 ft, 29.92 inHg.
func Standard() *Atmosphere {
	a, _ := New(59.0, 0.0, 29.92)
	return a
}

// temperatureAt returns temperature in degF at the given absolute
// altitude, clamped to the floor.
func (a *Atmosphere) temperatureAt(altFt float64) float64 {
	t := a.t0Degf + lapseRateFPerFt*(altFt-a.a0Ft)
	if t < floorDegF {
		t = floorDegF
	}
	return t
}

// pressureAt returns pressure in inHg at the given absolute altitude.
func (a *Atmosphere) pressureAt(altFt, tDegF float64) float64 {
	tBaseAbs := a.t0Degf + rankineOffset
	tAbs := tDegF + rankineOffset
	return a.p0Inhg * math.Pow(tBaseAbs/tAbs, pressureExponent)
}

// Update returns the density ratio (relative to ICAO sea-level standard
// density) and the local speed of sound in fps at the given absolute
// altitude in feet.
func (a *Atmosphere) Update(altFt float64) (densityRatio, mach1Fps float64) {
	t := a.temperatureAt(altFt)
	p := a.pressureAt(altFt, t)
	tAbs := t + rankineOffset
	// Density ratio falls out of the ideal gas law relative to the
	// reference conditions baked into New/Standard: rho ~ p/T, so
	// rho/rho_std = (p/p_std)*(T_std/T) where p_std,T_std are the
	// standard sea-level reference (29.92 inHg, 518.67 R).
	const pStd = 29.92
	const tStdAbs = 59.0 + rankineOffset
	densityRatio = (p / pStd) * (tStdAbs / tAbs)
	mach1Fps = math.Sqrt(tAbs) * speedOfSoundImp
	return densityRatio, mach1Fps
}
