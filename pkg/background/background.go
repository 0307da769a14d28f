// Package background renders the low-resolution 8-bit background maps that
// accompany block-wise ODF volumes. A source volume is reduced one depth
// group at a time to a grayscale plane, which is then resampled in-plane to
// the block grid with an anti-aliased kernel.
//
// The two input kinds are reduced differently on purpose, matching the
// established output of the pipeline: scalar volumes average every slice of
// a depth group, while vector fields sample only the first slice of each
// group and encode 255 times the sum of absolute vector components, clipped
// at 255.
package background

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/floats"

	"fiberodf/pkg/volume"
)

// planeSource produces one full-resolution 8-bit plane per depth group of
// a volume.
type planeSource interface {
	// dims returns the full-resolution spatial dimensions (Z, Y, X)
	dims() (z, y, x int)

	// plane renders the plane of the depth group starting at slice z0
	plane(z0 int) *image.Gray
}

// FromScalar builds the background map of a scalar volume: the volume is
// normalized to [0, 255] by its global minimum and maximum, each depth
// group of side slices is averaged into one plane, and the plane is
// resized to the block grid. A constant volume normalizes to all zeros.
func FromScalar(vol *volume.ScalarVolume, side int) (*volume.ByteVolume, error) {
	if vol == nil || len(vol.Data) == 0 {
		return nil, fmt.Errorf("scalar volume is empty")
	}
	if side <= 0 {
		return nil, fmt.Errorf("block side %d: must be positive", side)
	}

	lo := floats.Min(vol.Data)
	hi := floats.Max(vol.Data)
	scale := 0.0
	if hi > lo {
		scale = 255 / (hi - lo)
	}
	return downsample(&scalarPlanes{vol: vol, side: side, lo: lo, scale: scale}, side)
}

// FromField builds the background map of a vector field. Each depth group
// contributes only its first slice; per pixel the plane value is
// 255 * sum(|component|), clipped at 255.
func FromField(field *volume.VectorField, side int) (*volume.ByteVolume, error) {
	if field == nil || len(field.Data) == 0 {
		return nil, fmt.Errorf("vector field is empty")
	}
	if side <= 0 {
		return nil, fmt.Errorf("block side %d: must be positive", side)
	}
	return downsample(&fieldPlanes{field: field}, side)
}

// downsample drives the shared reduction: one plane per depth group,
// resized in-plane to the block grid.
func downsample(src planeSource, side int) (*volume.ByteVolume, error) {
	z, y, x := src.dims()
	gz := volume.GridDim(z, side)
	gy := volume.GridDim(y, side)
	gx := volume.GridDim(x, side)
	out, err := volume.NewByteVolume(gz, gy, gx)
	if err != nil {
		return nil, err
	}

	for bz := 0; bz < gz; bz++ {
		resized := resizePlane(src.plane(bz*side), gx, gy)
		for yy := 0; yy < gy; yy++ {
			row := resized.Pix[yy*resized.Stride : yy*resized.Stride+gx]
			copy(out.Data[(bz*gy+yy)*gx:], row)
		}
	}
	return out, nil
}

// resizePlane scales a grayscale plane to w by h pixels. The bilinear
// kernel integrates over the source pixels when minifying, which keeps the
// result anti-aliased.
func resizePlane(src *image.Gray, w, h int) *image.Gray {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// scalarPlanes reduces a globally normalized scalar volume by averaging
// the slices of each depth group.
type scalarPlanes struct {
	vol   *volume.ScalarVolume
	side  int
	lo    float64
	scale float64
}

func (s *scalarPlanes) dims() (int, int, int) {
	return s.vol.Z, s.vol.Y, s.vol.X
}

func (s *scalarPlanes) plane(z0 int) *image.Gray {
	z1 := min(z0+s.side, s.vol.Z)
	count := float64(z1 - z0)
	img := image.NewGray(image.Rect(0, 0, s.vol.X, s.vol.Y))
	for y := 0; y < s.vol.Y; y++ {
		for x := 0; x < s.vol.X; x++ {
			sum := 0.0
			for z := z0; z < z1; z++ {
				// Quantize per voxel first, as the normalized
				// volume is an 8-bit image before averaging.
				sum += math.Trunc((s.vol.At(z, y, x) - s.lo) * s.scale)
			}
			img.Pix[y*img.Stride+x] = uint8(math.Round(sum / count))
		}
	}
	return img
}

// fieldPlanes reduces a vector field by sampling the first slice of each
// depth group and collapsing the vector components.
type fieldPlanes struct {
	field *volume.VectorField
}

func (f *fieldPlanes) dims() (int, int, int) {
	return f.field.Z, f.field.Y, f.field.X
}

func (f *fieldPlanes) plane(z0 int) *image.Gray {
	fd := f.field
	img := image.NewGray(image.Rect(0, 0, fd.X, fd.Y))
	for y := 0; y < fd.Y; y++ {
		i := ((z0*fd.Y + y) * fd.X) * 3
		for x := 0; x < fd.X; x++ {
			s := 255 * (abs32(fd.Data[i]) + abs32(fd.Data[i+1]) + abs32(fd.Data[i+2]))
			if s > 255 {
				s = 255
			}
			img.Pix[y*img.Stride+x] = uint8(s)
			i += 3
		}
	}
	return img
}

func abs32(v float32) float64 {
	if v < 0 {
		return float64(-v)
	}
	return float64(v)
}
