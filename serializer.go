package accelstruct

import (
	"fmt"
	"io"
	"os"

	"github.com/rtcore/accelstruct/internal/core"
	"github.com/rtcore/accelstruct/internal/fault"
	"github.com/rtcore/accelstruct/internal/utils"
)

// Serialize writes blob to w as raw bytes, looping until every byte is
// written since io.Writer may do short writes (spec §4.F).
func Serialize(blobBytes []byte, w io.Writer) error {
	written := 0
	for written < len(blobBytes) {
		n, err := w.Write(blobBytes[written:])
		written += n
		if err != nil {
			return fault.Wrap(fault.IoFailure, fmt.Sprintf("serialize: wrote %d of %d bytes", written, len(blobBytes)), err)
		}
	}
	return nil
}

// Deserialize reads a TLAS blob from r: the 16-byte header first, to
// learn totalBufferSize, then the remainder, looping until done. A short
// final read is a hard error.
func Deserialize(r io.Reader) ([]byte, error) {
	header := utils.GetBuffer(core.TlasHeaderSize)
	defer utils.ReleaseBuffer(header)
	if err := readFull(r, header); err != nil {
		return nil, fault.Wrap(fault.IoFailure, "deserialize: reading header", err)
	}

	h, err := core.DecodeTlasHeader(header)
	if err != nil {
		return nil, fault.Wrap(fault.InvalidInput, "deserialize: invalid header", err)
	}
	if h.TotalBufferSize < core.TlasHeaderSize {
		return nil, fault.Wrap(fault.InvalidInput, fmt.Sprintf("deserialize: totalBufferSize %d shorter than header", h.TotalBufferSize), nil)
	}

	blobBytes := make([]byte, h.TotalBufferSize)
	copy(blobBytes, header)

	if err := readFull(r, blobBytes[core.TlasHeaderSize:]); err != nil {
		return nil, fault.Wrap(fault.IoFailure, "deserialize: reading body", err)
	}

	return blobBytes, nil
}

// readFull loops Read calls until buf is full or an error/EOF occurs,
// mirroring the teacher's short-write detection on the read side.
func readFull(r io.Reader, buf []byte) error {
	read := 0
	for read < len(buf) {
		n, err := r.Read(buf[read:])
		read += n
		if err != nil {
			if err == io.EOF && read == len(buf) {
				break
			}
			return fmt.Errorf("read %d of %d bytes: %w", read, len(buf), err)
		}
	}
	return nil
}

// SaveToFile truncates (or creates) path and writes blob to it.
func SaveToFile(path string, blobBytes []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fault.Wrap(fault.IoFailure, "SaveToFile: create", err)
	}
	defer f.Close()

	if err := Serialize(blobBytes, f); err != nil {
		return err
	}
	return nil
}

// LoadFromFile opens path and deserializes a TLAS blob from it.
func LoadFromFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fault.Wrap(fault.IoFailure, "LoadFromFile: open", err)
	}
	defer f.Close()

	return Deserialize(f)
}
