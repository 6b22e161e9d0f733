package geom

// Mat4 is a row-major 4x4 affine transform, matching the row-major
// Mat4x4 convention the instance transforms arrive in (spec §4.E).
// Row 3 is assumed to be {0,0,0,1} and is not stored.
type Mat4 struct {
	M [3][4]float32
}

// Identity returns the identity transform.
func Identity() Mat4 {
	return Mat4{M: [3][4]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}}
}

// TransformPoint applies m to p as an affine point (implicit w=1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m.M[0][0]*p.X + m.M[0][1]*p.Y + m.M[0][2]*p.Z + m.M[0][3],
		Y: m.M[1][0]*p.X + m.M[1][1]*p.Y + m.M[1][2]*p.Z + m.M[1][3],
		Z: m.M[2][0]*p.X + m.M[2][1]*p.Y + m.M[2][2]*p.Z + m.M[2][3],
	}
}

// Corners transforms all eight corners of box and returns the AABB that
// encloses them. This is the mechanism §4.E's "transform eight corners and
// take their enclosing box" refers to: it is deliberately a looser
// over-approximation than a tight rotated-box recomputation, matching the
// original implementation's acceptance of conservative instance bounds.
func (m Mat4) Corners(box AABB) AABB {
	out := EmptyAABB()
	for _, c := range box.Corners() {
		out = out.ExpandPoint(m.TransformPoint(c))
	}
	return out
}
