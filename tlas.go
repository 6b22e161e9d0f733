package accelstruct

import (
	"github.com/rtcore/accelstruct/internal/blob"
	"github.com/rtcore/accelstruct/internal/bvh"
	"github.com/rtcore/accelstruct/internal/core"
	"github.com/rtcore/accelstruct/internal/fault"
	"github.com/rtcore/accelstruct/internal/geom"
	"github.com/rtcore/accelstruct/internal/utils"
)

// Tlas is a built top-level acceleration structure: a single blob
// containing the outer BVH over instances, the instance records, and
// every unique referenced Blas blob (each emitted exactly once).
type Tlas struct {
	Blob []byte
}

// BuildTlas builds the outer SAH tree over instances' world-space AABBs,
// linearizes it, and assembles
// [TlasHeader | outer-nodes[] | instance-records[] | unique Blas blobs…].
func BuildTlas(instances []Instance, opts bvh.Options) (*Tlas, error) {
	if len(instances) == 0 {
		return nil, fault.Wrap(fault.InvalidInput, "BuildTlas: no instances", nil)
	}
	for _, inst := range instances {
		if inst.Blas == nil {
			return nil, fault.Wrap(fault.InvalidInput, "BuildTlas: instance references no Blas", nil)
		}
		m := inst.Transform.M
		det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
			m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
			m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
		if det == 0 {
			return nil, fault.Wrap(fault.InvalidInput, "BuildTlas: instance transform is degenerate", nil)
		}
	}

	work := make([]bvh.BBoxTmp, len(instances))
	for i, inst := range instances {
		worldBox := inst.Transform.Corners(inst.Blas.Bounds)
		work[i] = bvh.BBoxTmp{
			Bottom:  worldBox.Bottom,
			Top:     worldBox.Top,
			Center:  worldBox.Center(),
			Payload: i,
		}
	}

	root := bvh.Build(work, opts)
	linearNodes, prims, err := bvh.Linearize(root)
	if err != nil {
		return nil, err
	}

	nodesSize, err := utils.SafeMultiply(uint64(len(linearNodes)), core.FlattenedNodeSize)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "BuildTlas: node section size", err)
	}
	instsSize, err := utils.SafeMultiply(uint64(len(instances)), core.FlattenedInstanceSize)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "BuildTlas: instance section size", err)
	}

	alloc := blob.New(core.TlasHeaderSize)
	nodeByteOffset64, err := alloc.Allocate(nodesSize)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "BuildTlas: node section", err)
	}
	instByteOffset64, err := alloc.Allocate(instsSize)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "BuildTlas: instance section", err)
	}

	// blasByteOffset assignment scans instances in INPUT order and
	// de-duplicates by pointer identity — independent of the outer
	// tree's emission order (spec §4.E step 3). Each first-seen BLAS
	// blob gets its own allocation, appended after the instance section.
	blasOffset := make(map[*Blas]uint32)
	var uniqueBlasOrder []*Blas
	for _, inst := range instances {
		if _, seen := blasOffset[inst.Blas]; !seen {
			off, err := alloc.Allocate(uint64(len(inst.Blas.Blob)))
			if err != nil {
				return nil, fault.Wrap(fault.InvalidInput, "BuildTlas: blas section", err)
			}
			if off > uint64(^uint32(0)) {
				return nil, fault.Wrap(fault.InvalidInput, "BuildTlas: blas offset exceeds uint32 range", nil)
			}
			blasOffset[inst.Blas] = uint32(off)
			uniqueBlasOrder = append(uniqueBlasOrder, inst.Blas)
		}
	}
	total64 := alloc.End()
	if err := utils.ValidateBufferSize(total64, utils.MaxBlobSize, "BuildTlas: blob"); err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "BuildTlas", err)
	}

	nodeByteOffset := uint32(nodeByteOffset64)
	instByteOffset := uint32(instByteOffset64)
	total := uint32(total64)

	blobBytes := make([]byte, total)

	core.EncodeTlasHeader(blobBytes[:core.TlasHeaderSize], core.TlasHeader{
		NodeByteOffset:  nodeByteOffset,
		InstByteOffset:  instByteOffset,
		TotalBufferSize: total,
	})

	for i, n := range linearNodes {
		rec := core.FlattenedNode{Bounds: n.Bounds}
		if n.IsLeaf {
			rec.IsLeaf = true
			rec.Count = n.Count
			rec.FirstPrimIdx = n.FirstPrim
			rec.PrimKind = core.PrimKindInstance
		} else {
			rec.LeftIdx = n.Left
			rec.RightIdx = n.Right
		}
		off := nodeByteOffset + uint32(i)*core.FlattenedNodeSize
		core.EncodeNode(blobBytes[off:off+core.FlattenedNodeSize], rec)
	}

	// instanceId = emission order (position in prims), NOT input order.
	for emissionIdx, instIdx := range prims {
		inst := instances[instIdx]
		off := instByteOffset + uint32(emissionIdx)*core.FlattenedInstanceSize
		core.EncodeInstance(blobBytes[off:off+core.FlattenedInstanceSize], core.FlattenedInstance{
			Transform:      transformToArray(inst.Transform),
			SbtOffset:      inst.SbtOffset,
			InstanceID:     uint32(emissionIdx),
			CustomID:       inst.CustomID,
			BlasByteOffset: blasOffset[inst.Blas],
		})
	}

	for _, b := range uniqueBlasOrder {
		off := blasOffset[b]
		copy(blobBytes[off:off+uint32(len(b.Blob))], b.Blob)
	}

	return &Tlas{Blob: blobBytes}, nil
}

// transformToArray expands a Mat4's implicit bottom row into the full
// 4x4, row-major, matching the on-disk instance record's transform field.
func transformToArray(m geom.Mat4) [16]float32 {
	return [16]float32{
		m.M[0][0], m.M[0][1], m.M[0][2], m.M[0][3],
		m.M[1][0], m.M[1][1], m.M[1][2], m.M[1][3],
		m.M[2][0], m.M[2][1], m.M[2][2], m.M[2][3],
		0, 0, 0, 1,
	}
}

// Upload copies Blob into device-owned memory and returns the handle the
// caller now owns.
func (t *Tlas) Upload(dev DeviceMemory) (Handle, error) {
	h, err := dev.Alloc(len(t.Blob))
	if err != nil {
		return nil, fault.Wrap(fault.AllocationFailure, "Tlas.Upload", err)
	}
	if err := dev.Write(h, 0, t.Blob); err != nil {
		return nil, fault.Wrap(fault.AllocationFailure, "Tlas.Upload: write", err)
	}
	return h, nil
}
