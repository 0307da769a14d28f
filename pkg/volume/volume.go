// Package volume provides the dense array containers shared across the ODF
// pipeline: orientation vector fields, coefficient volumes and scalar or
// byte-valued image volumes. All containers store their data as flat
// row-major (C-order) slices with explicit integer shapes.
package volume

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// VectorField is a dense 3D field of 3-component orientation vectors with
// logical shape (Z, Y, X, 3). The three components of each voxel are stored
// in (z, y, x) physical order, matching the memory layout produced by the
// upstream orientation analysis.
type VectorField struct {
	// Data holds Z*Y*X*3 values in row-major order
	Data []float32

	// Z, Y, X are the spatial dimensions in voxels
	Z, Y, X int
}

// NewVectorField wraps a flat component slice as a vector field after
// validating that the slice length matches the requested shape.
func NewVectorField(data []float32, z, y, x int) (*VectorField, error) {
	if z <= 0 || y <= 0 || x <= 0 {
		return nil, fmt.Errorf("invalid vector field shape (%d, %d, %d): dimensions must be positive", z, y, x)
	}
	if len(data) != z*y*x*3 {
		return nil, fmt.Errorf("vector field data length %d does not match shape (%d, %d, %d, 3)", len(data), z, y, x)
	}
	return &VectorField{Data: data, Z: z, Y: y, X: x}, nil
}

// VecAt returns the orientation vector stored at voxel (z, y, x). The stored
// (z, y, x) component triplet is mapped onto the geometric vector so that the
// first stored component becomes the polar (Z) axis.
func (f *VectorField) VecAt(z, y, x int) r3.Vector {
	i := ((z*f.Y+y)*f.X + x) * 3
	return r3.Vector{
		X: float64(f.Data[i+2]),
		Y: float64(f.Data[i+1]),
		Z: float64(f.Data[i]),
	}
}

// SetVecAt stores an orientation vector at voxel (z, y, x) using the same
// component mapping as VecAt.
func (f *VectorField) SetVecAt(z, y, x int, v r3.Vector) {
	i := ((z*f.Y+y)*f.X + x) * 3
	f.Data[i] = float32(v.Z)
	f.Data[i+1] = float32(v.Y)
	f.Data[i+2] = float32(v.X)
}

// Block appends the vectors of the axis-aligned block with origin voxel
// (z0, y0, x0) and edge length side to dst and returns the extended slice.
// Blocks are clamped at the far faces of the field, so the number of
// appended vectors is the product of the clamped extents. Vectors are
// visited in (z, y, x) raster order.
func (f *VectorField) Block(z0, y0, x0, side int, dst []r3.Vector) []r3.Vector {
	z1 := min(z0+side, f.Z)
	y1 := min(y0+side, f.Y)
	x1 := min(x0+side, f.X)
	for z := z0; z < z1; z++ {
		for y := y0; y < y1; y++ {
			i := ((z*f.Y+y)*f.X + x0) * 3
			for x := x0; x < x1; x++ {
				dst = append(dst, r3.Vector{
					X: float64(f.Data[i+2]),
					Y: float64(f.Data[i+1]),
					Z: float64(f.Data[i]),
				})
				i += 3
			}
		}
	}
	return dst
}

// BlockGrid returns the number of blocks along each spatial axis when the
// field is partitioned into blocks of the given edge length, rounding up at
// the far faces.
func (f *VectorField) BlockGrid(side int) (bz, by, bx int) {
	return GridDim(f.Z, side), GridDim(f.Y, side), GridDim(f.X, side)
}

// ScalarVolume is a dense 3D scalar volume with shape (Z, Y, X),
// typically an isotropic-channel image accompanying a vector field.
type ScalarVolume struct {
	// Data holds Z*Y*X values in row-major order
	Data []float64

	// Z, Y, X are the spatial dimensions in voxels
	Z, Y, X int
}

// NewScalarVolume wraps a flat value slice as a scalar volume after
// validating its length against the requested shape.
func NewScalarVolume(data []float64, z, y, x int) (*ScalarVolume, error) {
	if z <= 0 || y <= 0 || x <= 0 {
		return nil, fmt.Errorf("invalid scalar volume shape (%d, %d, %d): dimensions must be positive", z, y, x)
	}
	if len(data) != z*y*x {
		return nil, fmt.Errorf("scalar volume data length %d does not match shape (%d, %d, %d)", len(data), z, y, x)
	}
	return &ScalarVolume{Data: data, Z: z, Y: y, X: x}, nil
}

// At returns the value at voxel (z, y, x).
func (v *ScalarVolume) At(z, y, x int) float64 {
	return v.Data[(z*v.Y+y)*v.X+x]
}

// BlockGrid returns the block-grid shape of the volume for the given block
// edge length, rounding up at the far faces.
func (v *ScalarVolume) BlockGrid(side int) (bz, by, bx int) {
	return GridDim(v.Z, side), GridDim(v.Y, side), GridDim(v.X, side)
}

// CoeffVolume is a dense 4D volume of spherical harmonic coefficient
// vectors with shape (Z, Y, X, C), where C is the number of coefficients per
// voxel. Coefficients are stored as float32.
type CoeffVolume struct {
	// Data holds Z*Y*X*C values in row-major order
	Data []float32

	// Z, Y, X are the block-grid dimensions
	Z, Y, X int

	// C is the number of coefficients per grid cell
	C int
}

// NewCoeffVolume allocates a zero-filled coefficient volume.
func NewCoeffVolume(z, y, x, c int) (*CoeffVolume, error) {
	if z <= 0 || y <= 0 || x <= 0 || c <= 0 {
		return nil, fmt.Errorf("invalid coefficient volume shape (%d, %d, %d, %d): dimensions must be positive", z, y, x, c)
	}
	return &CoeffVolume{
		Data: make([]float32, z*y*x*c),
		Z:    z,
		Y:    y,
		X:    x,
		C:    c,
	}, nil
}

// At returns coefficient c of grid cell (z, y, x).
func (v *CoeffVolume) At(z, y, x, c int) float32 {
	return v.Data[((z*v.Y+y)*v.X+x)*v.C+c]
}

// CoeffsAt returns the coefficient vector of grid cell (z, y, x) as a
// subslice of the underlying data.
func (v *CoeffVolume) CoeffsAt(z, y, x int) []float32 {
	i := ((z*v.Y+y)*v.X + x) * v.C
	return v.Data[i : i+v.C]
}

// SetCoeffs stores a coefficient vector at grid cell (z, y, x), rounding
// each value to float32. The slice length must equal C.
func (v *CoeffVolume) SetCoeffs(z, y, x int, coeffs []float64) {
	i := ((z*v.Y+y)*v.X + x) * v.C
	for j, c := range coeffs {
		v.Data[i+j] = float32(c)
	}
}

// ByteVolume is a dense 3D volume of 8-bit intensity values with shape
// (Z, Y, X), used for downsampled background maps.
type ByteVolume struct {
	// Data holds Z*Y*X values in row-major order
	Data []uint8

	// Z, Y, X are the spatial dimensions in voxels
	Z, Y, X int
}

// NewByteVolume allocates a zero-filled byte volume.
func NewByteVolume(z, y, x int) (*ByteVolume, error) {
	if z <= 0 || y <= 0 || x <= 0 {
		return nil, fmt.Errorf("invalid byte volume shape (%d, %d, %d): dimensions must be positive", z, y, x)
	}
	return &ByteVolume{
		Data: make([]uint8, z*y*x),
		Z:    z,
		Y:    y,
		X:    x,
	}, nil
}

// At returns the value at voxel (z, y, x).
func (v *ByteVolume) At(z, y, x int) uint8 {
	return v.Data[(z*v.Y+y)*v.X+x]
}

// Set stores a value at voxel (z, y, x).
func (v *ByteVolume) Set(z, y, x int, val uint8) {
	v.Data[(z*v.Y+y)*v.X+x] = val
}

// GridDim returns the number of blocks covering an axis of length n when
// partitioned into blocks of the given edge length (ceiling division).
func GridDim(n, side int) int {
	return (n + side - 1) / side
}
