// Package geom provides the small amount of plane geometry the renderers need
// to attach connectors to circular nodes.
package geom

import "math"

// Point is a position in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is a straight connector between two points.
type Segment struct {
	Start Point
	End   Point
}

// Circle is a node outline.
type Circle struct {
	Center Point
	R      float64
}

// Length returns the euclidean length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.End.X-s.Start.X, s.End.Y-s.Start.Y)
}

// At returns the point at parameter t along the segment (t=0 is Start, t=1 is End).
func (s Segment) At(t float64) Point {
	return Point{
		X: s.Start.X + t*(s.End.X-s.Start.X),
		Y: s.Start.Y + t*(s.End.Y-s.Start.Y),
	}
}

// IntersectSegmentCircle returns the point where the segment (x1,y1)-(x2,y2)
// crosses the boundary of the circle centered at (cx,cy) with radius r.
//
// It solves |P(t) - C|² = r² for t in [0,1]. When both roots are in range the
// larger one wins, otherwise the single valid root is used. ok is false when
// the segment never crosses the boundary or has zero length.
func IntersectSegmentCircle(x1, y1, x2, y2, cx, cy, r float64) (p Point, ok bool) {
	s := Segment{Start: Point{x1, y1}, End: Point{x2, y2}}
	return Circle{Center: Point{cx, cy}, R: r}.Intersect(s)
}

// Intersect is the method form of [IntersectSegmentCircle].
func (c Circle) Intersect(s Segment) (Point, bool) {
	dx := s.End.X - s.Start.X
	dy := s.End.Y - s.Start.Y
	fx := s.Start.X - c.Center.X
	fy := s.Start.Y - c.Center.Y

	a := dx*dx + dy*dy
	if a == 0 {
		return Point{}, false
	}
	b := 2 * (dx*fx + dy*fy)
	cc := fx*fx + fy*fy - c.R*c.R

	disc := b*b - 4*a*cc
	if disc < 0 {
		return Point{}, false
	}
	root := math.Sqrt(disc)
	t1 := (-b + root) / (2 * a)
	t2 := (-b - root) / (2 * a)

	switch {
	case inUnit(t1):
		return s.At(t1), true
	case inUnit(t2):
		return s.At(t2), true
	default:
		return Point{}, false
	}
}

// Trim shortens a center-to-center connector so it starts on the boundary of
// from and ends on the boundary of to. The original segment is returned
// unchanged when either circle does not cross it.
func Trim(s Segment, from, to Circle) Segment {
	start, okStart := from.Intersect(s)
	end, okEnd := to.Intersect(s)
	if !okStart || !okEnd {
		return s
	}
	return Segment{Start: start, End: end}
}

func inUnit(t float64) bool {
	return t >= 0 && t <= 1
}
