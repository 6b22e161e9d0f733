package accelstruct

import (
	"fmt"

	"github.com/rtcore/accelstruct/internal/blob"
)

// Handle identifies one allocation made through a DeviceMemory. Its
// concrete type is owned by the DeviceMemory implementation; the core
// never inspects it.
type Handle any

// DeviceMemory is the abstract GPU-runtime collaborator (spec §6.1): the
// core only ever allocates, writes, and reads through this interface, and
// never learns how the bytes are actually backed.
type DeviceMemory interface {
	Alloc(nBytes int) (Handle, error)
	Write(h Handle, byteOffset int, data []byte) error
	Read(h Handle, byteOffset, nBytes int) ([]byte, error)
}

// hostHandle is the Handle HostMemory hands back: the byte range
// [Offset, Offset+Size) it was allocated within the arena, exactly as
// internal/blob.Allocator reserved it.
type hostHandle struct {
	offset uint64
	size   uint64
}

// HostMemory is an in-process DeviceMemory backed by one growing byte
// arena, for tests and for callers with no real GPU runtime wired up yet.
// It adapts the teacher's allocator+writer pair directly: Alloc reserves
// the next range via internal/blob.Allocator the same way
// FileWriter.Allocate does, and the returned offset is the real address
// Write/Read operate at — not a bookkeeping side channel.
type HostMemory struct {
	arena     []byte
	allocator *blob.Allocator
}

// NewHostMemory returns an empty HostMemory.
func NewHostMemory() *HostMemory {
	return &HostMemory{allocator: blob.New(0)}
}

func (m *HostMemory) Alloc(nBytes int) (Handle, error) {
	if nBytes <= 0 {
		return nil, fmt.Errorf("accelstruct: cannot allocate %d bytes", nBytes)
	}

	offset, err := m.allocator.Allocate(uint64(nBytes))
	if err != nil {
		return nil, err
	}

	if grown := int(offset) + nBytes; grown > len(m.arena) {
		m.arena = append(m.arena, make([]byte, grown-len(m.arena))...)
	}
	return hostHandle{offset: offset, size: uint64(nBytes)}, nil
}

func (m *HostMemory) Write(h Handle, byteOffset int, data []byte) error {
	hh, err := m.bounds(h)
	if err != nil {
		return err
	}
	if byteOffset < 0 || uint64(byteOffset+len(data)) > hh.size {
		return fmt.Errorf("accelstruct: write [%d,%d) out of range for allocation of size %d", byteOffset, byteOffset+len(data), hh.size)
	}
	base := int(hh.offset) + byteOffset
	copy(m.arena[base:], data)
	return nil
}

func (m *HostMemory) Read(h Handle, byteOffset, nBytes int) ([]byte, error) {
	hh, err := m.bounds(h)
	if err != nil {
		return nil, err
	}
	if byteOffset < 0 || uint64(byteOffset+nBytes) > hh.size {
		return nil, fmt.Errorf("accelstruct: read [%d,%d) out of range for allocation of size %d", byteOffset, byteOffset+nBytes, hh.size)
	}

	base := int(hh.offset) + byteOffset
	out := make([]byte, nBytes)
	copy(out, m.arena[base:base+nBytes])
	return out, nil
}

func (m *HostMemory) bounds(h Handle) (hostHandle, error) {
	hh, ok := h.(hostHandle)
	if !ok || !m.allocator.IsAllocated(hh.offset, hh.size) {
		return hostHandle{}, fmt.Errorf("accelstruct: invalid handle %v", h)
	}
	return hh, nil
}
