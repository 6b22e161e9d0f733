// Package accelstruct builds two-level bounding volume hierarchies for
// ray tracing: a bottom-level acceleration structure (BLAS) per mesh and
// a top-level acceleration structure (TLAS) over affinely transformed
// instances of those meshes, each flattened into a self-describing,
// pointer-free byte blob a device kernel can walk directly.
package accelstruct

import "github.com/rtcore/accelstruct/internal/geom"

// Triangle is three vertex indices into a Mesh's Vertices slice.
type Triangle struct {
	I0, I1, I2 uint32
}

// Mesh is the scene-input shape the BLAS assembler consumes: a vertex
// list and a triangle list referencing it by index. The module performs
// no parsing — callers supply Mesh already extracted from whatever scene
// format they use.
type Mesh struct {
	Vertices  []geom.Vec3
	Triangles []Triangle
}

// Instance places one built Blas into a scene via an affine transform.
type Instance struct {
	Transform geom.Mat4
	SbtOffset uint32
	CustomID  uint32
	Blas      *Blas
}
