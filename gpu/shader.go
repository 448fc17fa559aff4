package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/naga"

	"github.com/gogpu/fractal/kernel"
)

// EscapeShaderWGSL is the compute kernel that advances one orbit per pixel.
//
//go:embed shaders/escape.wgsl
var EscapeShaderWGSL string

// WorkgroupSize is the edge of the square workgroup declared by the kernel.
const WorkgroupSize = 8

// StepsPerPass is the number of iterations one dispatch advances each
// orbit by. It must match the number of advance calls in the kernel.
const StepsPerPass = 8

// paramsSize is the byte size of EscapeParams, padded to 16-byte alignment.
const paramsSize = 32

// orbitStateSize is the byte size of one OrbitState element.
const orbitStateSize = 16

// EscapeParams is the uniform block of the escape kernel.
// Field order and padding must match the WGSL struct.
type EscapeParams struct {
	CenterX float32
	CenterY float32
	Scale   float32
	MaxIter uint32
	Width   uint32
	Height  uint32
}

// NewEscapeParams builds the uniform block for a w×h render of view.
// The complex plane is narrowed to float32 on the device.
func NewEscapeParams(view kernel.View, w, h, maxIter int) EscapeParams {
	return EscapeParams{
		CenterX: float32(view.CenterX),
		CenterY: float32(view.CenterY),
		Scale:   float32(view.Scale),
		MaxIter: uint32(max(maxIter, 0)), //nolint:gosec // clamped non-negative
		Width:   uint32(max(w, 0)),       //nolint:gosec // clamped non-negative
		Height:  uint32(max(h, 0)),       //nolint:gosec // clamped non-negative
	}
}

// Bytes serializes the params in the little-endian layout the kernel reads.
func (p EscapeParams) Bytes() []byte {
	buf := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(p.CenterX))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(p.CenterY))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(p.Scale))
	binary.LittleEndian.PutUint32(buf[12:], p.MaxIter)
	binary.LittleEndian.PutUint32(buf[16:], p.Width)
	binary.LittleEndian.PutUint32(buf[20:], p.Height)
	return buf
}

// Workgroups returns the dispatch size covering a w×h grid.
func Workgroups(w, h int) (x, y uint32) {
	return uint32((w + WorkgroupSize - 1) / WorkgroupSize), //nolint:gosec // dimensions are small
		uint32((h + WorkgroupSize - 1) / WorkgroupSize) //nolint:gosec // dimensions are small
}

// Passes returns the number of dispatches needed to run maxIter iterations.
func Passes(maxIter int) int {
	if maxIter <= 0 {
		return 0
	}
	return (maxIter + StepsPerPass - 1) / StepsPerPass
}

// unpackCounts copies the iteration field of each OrbitState into dst.
func unpackCounts(dst []uint32, orbits []byte) {
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint32(orbits[i*orbitStateSize+8:])
	}
}

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}
