package math

import "gonum.org/v1/gonum/spatial/r3"

// PolygonNormal returns the unit normal of a (possibly non-planar) polygon
// using Newell's method. Accumulation happens in double precision.
// Degenerate polygons yield the zero vector.
func PolygonNormal(points []Vec3) Vec3 {
	if len(points) < 3 {
		return Vec3{}
	}
	var n r3.Vec
	prev := points[len(points)-1].R3()
	for _, p := range points {
		cur := p.R3()
		n.X += (prev.Y - cur.Y) * (prev.Z + cur.Z)
		n.Y += (prev.Z - cur.Z) * (prev.X + cur.X)
		n.Z += (prev.X - cur.X) * (prev.Y + cur.Y)
		prev = cur
	}
	if r3.Norm(n) == 0 {
		return Vec3{}
	}
	return FromR3(r3.Unit(n))
}

// Centroid returns the average of the given points.
func Centroid(points []Vec3) Vec3 {
	if len(points) == 0 {
		return Vec3{}
	}
	var sum r3.Vec
	for _, p := range points {
		sum = r3.Add(sum, p.R3())
	}
	return FromR3(r3.Scale(1/float64(len(points)), sum))
}
