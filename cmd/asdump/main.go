// Package main provides a command-line utility to inspect serialized
// TLAS blobs: header fields, outer node/instance counts, and the byte
// offsets of every nested BLAS.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/rtcore/accelstruct"
	"github.com/rtcore/accelstruct/internal/core"
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: asdump <file.tlas>")
		return
	}

	blobBytes, err := accelstruct.LoadFromFile(args[0])
	if err != nil {
		log.Fatalf("failed to load %s: %v", args[0], err)
	}

	header, err := core.DecodeTlasHeader(blobBytes[:core.TlasHeaderSize])
	if err != nil {
		log.Fatalf("invalid TLAS header: %v", err)
	}

	fmt.Printf("file: %s\n", args[0])
	fmt.Printf("totalBufferSize: %d bytes\n", header.TotalBufferSize)
	fmt.Printf("nodeByteOffset:  0x%x\n", header.NodeByteOffset)
	fmt.Printf("instByteOffset:  0x%x\n", header.InstByteOffset)

	nodeCount := (header.InstByteOffset - header.NodeByteOffset) / core.FlattenedNodeSize
	fmt.Printf("outer node count: %d\n", nodeCount)

	// The instance array ends exactly where the first (by offset) BLAS
	// blob begins; every instance's blasByteOffset is an upper bound on
	// that boundary, so tightening it as records are decoded finds the
	// true instance count without a separate length field.
	instCount := 0
	blasOffsets := make(map[uint32]bool)
	instRegionEnd := header.TotalBufferSize
	for off := header.InstByteOffset; off+core.FlattenedInstanceSize <= instRegionEnd; off += core.FlattenedInstanceSize {
		rec, err := core.DecodeInstance(blobBytes[off : off+core.FlattenedInstanceSize])
		if err != nil {
			break
		}
		blasOffsets[rec.BlasByteOffset] = true
		if rec.BlasByteOffset < instRegionEnd {
			instRegionEnd = rec.BlasByteOffset
		}
		instCount++
	}

	fmt.Printf("instance records: %d\n", instCount)
	fmt.Printf("unique BLAS blobs: %d\n", len(blasOffsets))
	for off := range blasOffsets {
		fmt.Printf("  blas at 0x%x\n", off)
	}
}
