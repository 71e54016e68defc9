// Package config holds the tunable thresholds shared by the integrator,
// engine, and search layer. It is a plain value struct passed explicitly
// at construction time -- spec.md section 9 is explicit that there is no
// hidden global singleton here, though the style of naming a typed
// config struct with documented defaults is grounded on
// spatialmodel-inmap's Cfg wrapper around viper.Viper
// (inmaputil/cmd.go); unlike that wrapper, this Config carries no I/O
// dependency, so the core engine never imports viper.
package config

// Config bundles every tunable named in spec.md section 6.
type Config struct {
	// StepMultiplier scales the integrator's calc_step. Default 1.0.
	StepMultiplier float64

	// ZeroFindingAccuracyFt is the vertical error threshold for
	// zero_angle. Default 5e-6.
	ZeroFindingAccuracyFt float64

	// MinimumVelocityFps terminates integration when |v| falls below
	// this. Default 50.
	MinimumVelocityFps float64

	// MaximumDropFt terminates integration on excessive drop relative to
	// launch. Default -15000.
	MaximumDropFt float64

	// MinimumAltitudeFt terminates integration at low absolute altitude.
	// Default -1500.
	MinimumAltitudeFt float64

	// GravityFtS2 is signed (negative is down). Default -32.17405.
	GravityFtS2 float64

	// MaxIterations bounds search-loop iteration counts. Default 50.
	MaxIterations int

	// SeparateRowTimeDeltaS is the event-union window. Default 1e-5.
	SeparateRowTimeDeltaS float64

	// MaxIntegrationRangeFt upper-bounds integrate_at's safety net.
	// Default 9e9.
	MaxIntegrationRangeFt float64

	// DefaultTimeStep is RK4's base time-step factor. Default 0.5.
	DefaultTimeStep float64

	// AllowedZeroErrorFt is find_zero_angle's convergence tolerance.
	AllowedZeroErrorFt float64
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		StepMultiplier:        1.0,
		ZeroFindingAccuracyFt: 5e-6,
		MinimumVelocityFps:    50.0,
		MaximumDropFt:         -15000.0,
		MinimumAltitudeFt:     -1500.0,
		GravityFtS2:           -32.17405,
		MaxIterations:         50,
		SeparateRowTimeDeltaS: 1e-5,
		MaxIntegrationRangeFt: 9e9,
		DefaultTimeStep:       0.5,
		AllowedZeroErrorFt:    1e-2,
	}
}
