// Package windsock models a piecewise-constant wind profile indexed by
// downrange distance. The cursor idiom (a small mutable struct advancing
// monotonically through a list, never rewinding within one run) is
// grounded on the tick-state pattern used by the simulated-sensor code
// in kevin-buckham-MMCd-Go's internal/protocol package.
package windsock

import (
	"math"

	"github.com/cprevallet/goballistics/vector3"
)

// Segment is one piecewise-constant wind segment.
type Segment struct {
	VelocityFps    float64
	DirectionRad   float64 // direction the wind is blowing FROM
	UntilRangeFt   float64 // this segment applies while current_x < UntilRangeFt
}

// vector returns the wind's velocity vector for this segment: wind blows
// from DirectionRad, so the vector opposes that bearing.
func (s Segment) vector() vector3.Vector3 {
	return vector3.New(
		-s.VelocityFps*math.Cos(s.DirectionRad),
		0,
		-s.VelocityFps*math.Sin(s.DirectionRad),
	)
}

// Sock is the ordered sequence of wind segments plus a cursor and cached
// current vector. The cursor only ever advances within one integration.
type Sock struct {
	segments []Segment
	cursor   int
	cached   vector3.Vector3
	nextEdge float64
}

// New builds a Sock from an ordered list of segments. The last segment's
// UntilRangeFt is treated as +Inf regardless of the supplied value, per
// spec.md section 3 ("infinite sentinel for the last segment"). An empty
// list produces a Sock with zero wind everywhere.
func New(segments []Segment) *Sock {
	s := &Sock{segments: append([]Segment(nil), segments...)}
	if len(s.segments) == 0 {
		s.nextEdge = math.Inf(1)
		return s
	}
	s.segments[len(s.segments)-1].UntilRangeFt = math.Inf(1)
	s.cached = s.segments[0].vector()
	s.nextEdge = s.segments[0].UntilRangeFt
	return s
}

// VectorForRange returns the wind vector applicable at the given
// downrange distance, advancing the cursor (and recomputing the cached
// vector) while currentXFt >= the active segment's UntilRangeFt.
func (s *Sock) VectorForRange(currentXFt float64) vector3.Vector3 {
	if len(s.segments) == 0 {
		return vector3.Zero
	}
	for currentXFt >= s.nextEdge && s.cursor < len(s.segments)-1 {
		s.cursor++
		s.cached = s.segments[s.cursor].vector()
		s.nextEdge = s.segments[s.cursor].UntilRangeFt
	}
	return s.cached
}

// NextRange returns the downrange distance at which the wind vector will
// next change, or +Inf once the cursor has exhausted the list.
func (s *Sock) NextRange() float64 {
	return s.nextEdge
}
