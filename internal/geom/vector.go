// Package geom provides the pure vector and bounding-box math the SAH
// builder and the two assemblers share: component A of the
// acceleration-structure core. Every operation is a plain function over
// IEEE-754 binary32 values — no allocations, no failure modes.
package geom

// Vec3 is a 3-component binary32 vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v+w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v*s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Min returns the component-wise minimum of v and w.
func Min(v, w Vec3) Vec3 {
	return Vec3{minF(v.X, w.X), minF(v.Y, w.Y), minF(v.Z, w.Z)}
}

// Max returns the component-wise maximum of v and w.
func Max(v, w Vec3) Vec3 {
	return Vec3{maxF(v.X, w.X), maxF(v.Y, w.Y), maxF(v.Z, w.Z)}
}

// Axis returns the component of v along axis a (0=X, 1=Y, 2=Z).
func (v Vec3) Axis(a int) float32 {
	switch a {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
