// Package coriolis computes an optional local-frame Coriolis acceleration
// correction. Rotations are expressed with the same dot/cross vocabulary
// vector3 borrows from gonum's spatial/r3, which spatialmodel-inmap's use
// of gonum across its geometry code grounds as the idiomatic choice here.
package coriolis

import (
	"math"

	"github.com/cprevallet/goballistics/vector3"
)

// earthRateRadPerSec is the sidereal rotation rate of the Earth.
const earthRateRadPerSec = 7.292115e-5

// Coriolis precomputes sin/cos of latitude and azimuth so the per-step
// rotation is cheap.
type Coriolis struct {
	sinLat, cosLat       float64
	sinAz, cosAz         float64
	muzzleVelocityFps    float64
	FlatFireOnly         bool
}

// New constructs a Coriolis corrector. latitudeRad is signed (north
// positive); azimuthRad is the firing azimuth measured clockwise from
// north.
func New(latitudeRad, azimuthRad, muzzleVelocityFps float64, flatFireOnly bool) *Coriolis {
	return &Coriolis{
		sinLat:            math.Sin(latitudeRad),
		cosLat:            math.Cos(latitudeRad),
		sinAz:             math.Sin(azimuthRad),
		cosAz:             math.Cos(azimuthRad),
		muzzleVelocityFps: muzzleVelocityFps,
		FlatFireOnly:      flatFireOnly,
	}
}

// enu rotates a ballistic-frame velocity (downrange, up, crossrange) into
// local East-North-Up using the precomputed azimuth/latitude trig.
func (c *Coriolis) enu(v vector3.Vector3) vector3.Vector3 {
	// Downrange/crossrange rotate by azimuth into North/East; Up is
	// shared between both frames.
	north := v.X*c.cosAz - v.Z*c.sinAz
	east := v.X*c.sinAz + v.Z*c.cosAz
	return vector3.New(east, north, v.Y)
}

// fromENU is the inverse of enu, mapping an ENU vector back to the
// ballistic (downrange, up, crossrange) frame.
func (c *Coriolis) fromENU(v vector3.Vector3) vector3.Vector3 {
	east, north, up := v.X, v.Y, v.Z
	x := north*c.cosAz + east*c.sinAz
	z := -north*c.sinAz + east*c.cosAz
	return vector3.New(x, up, z)
}

// omegaENU is the Earth's angular velocity vector expressed in the local
// ENU frame at this corrector's latitude: zero east component, Omega*cos(lat)
// north, Omega*sin(lat) up.
func (c *Coriolis) omegaENU() vector3.Vector3 {
	return vector3.New(0, earthRateRadPerSec*c.cosLat, earthRateRadPerSec*c.sinLat)
}

// Acceleration returns -2*omega x v_ENU rotated back into the ballistic
// frame, for the integrator to add to the straight-line acceleration. If
// FlatFireOnly is set, the step loop should not call this at all; see
// engine's handling of that switch and spec.md section 9's open question
// about its interaction past 15 degrees of slant.
func (c *Coriolis) Acceleration(groundVelocity vector3.Vector3) vector3.Vector3 {
	vENU := c.enu(groundVelocity)
	omega := c.omegaENU()
	aENU := vector3.Scale(-2, vector3.Cross(omega, vENU))
	return c.fromENU(aENU)
}
