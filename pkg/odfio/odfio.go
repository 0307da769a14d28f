// Package odfio loads orientation datasets from NumPy .npy files and saves
// the volumes produced by the ODF pipeline as .npy or single-file NIfTI-1
// images. The core estimation packages stay format-agnostic; everything
// that touches files lives here or above.
package odfio

import (
	"fmt"
	"os"

	"github.com/kshedden/gonpy"
	log "github.com/sirupsen/logrus"

	"fiberodf/internal/nifti"
	"fiberodf/pkg/volume"
)

// LoadVectorField reads a 4D fiber orientation dataset from a .npy file.
// The array must have four dimensions with the 3-component axis either
// last or in position 1; components on axis 1 are moved to the last axis.
// float32 and float64 payloads are accepted.
func LoadVectorField(path string) (*volume.VectorField, error) {
	r, err := gonpy.NewFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if r.ColumnMajor {
		return nil, fmt.Errorf("%s: column-major arrays are not supported", path)
	}
	if len(r.Shape) != 4 {
		return nil, fmt.Errorf("%s: invalid fiber orientation dataset: expected 4 dimensions, got %d", path, len(r.Shape))
	}

	data, err := readFloat32(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	log.WithFields(log.Fields{
		"path":  path,
		"shape": r.Shape,
		"dtype": r.Dtype,
	}).Debug("loaded fiber orientation field")

	shape := r.Shape
	switch {
	case shape[3] == 3:
		return volume.NewVectorField(data, shape[0], shape[1], shape[2])
	case shape[1] == 3:
		return volume.NewVectorField(moveChannelLast(data, shape), shape[0], shape[2], shape[3])
	default:
		return nil, fmt.Errorf("%s: no 3-component axis in shape %v", path, shape)
	}
}

// LoadScalarVolume reads a 3D scalar volume from a .npy file, converting
// the payload to float64. uint8, uint16, float32 and float64 arrays are
// accepted.
func LoadScalarVolume(path string) (*volume.ScalarVolume, error) {
	r, err := gonpy.NewFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if r.ColumnMajor {
		return nil, fmt.Errorf("%s: column-major arrays are not supported", path)
	}
	if len(r.Shape) != 3 {
		return nil, fmt.Errorf("%s: expected a 3-dimensional volume, got %d dimensions", path, len(r.Shape))
	}

	var data []float64
	switch r.Dtype {
	case "f8":
		data, err = r.GetFloat64()
	case "f4":
		var f []float32
		if f, err = r.GetFloat32(); err == nil {
			data = make([]float64, len(f))
			for i, v := range f {
				data[i] = float64(v)
			}
		}
	case "u1":
		var b []uint8
		if b, err = r.GetUint8(); err == nil {
			data = make([]float64, len(b))
			for i, v := range b {
				data[i] = float64(v)
			}
		}
	case "u2":
		var u []uint16
		if u, err = r.GetUint16(); err == nil {
			data = make([]float64, len(u))
			for i, v := range u {
				data[i] = float64(v)
			}
		}
	default:
		return nil, fmt.Errorf("%s: unsupported dtype %q (supported: u1, u2, f4, f8)", path, r.Dtype)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	log.WithFields(log.Fields{
		"path":  path,
		"shape": r.Shape,
		"dtype": r.Dtype,
	}).Debug("loaded scalar volume")
	return volume.NewScalarVolume(data, r.Shape[0], r.Shape[1], r.Shape[2])
}

// SaveCoeffVolume writes a coefficient volume as a float32 .npy array with
// shape (Z, Y, X, C).
func SaveCoeffVolume(path string, v *volume.CoeffVolume) error {
	if v == nil {
		return fmt.Errorf("coefficient volume is nil")
	}
	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w.Shape = []int{v.Z, v.Y, v.X, v.C}
	if err := w.WriteFloat32(v.Data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// SaveBackground writes a background map as a uint8 .npy array with shape
// (Z, Y, X).
func SaveBackground(path string, v *volume.ByteVolume) error {
	if v == nil {
		return fmt.Errorf("background volume is nil")
	}
	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w.Shape = []int{v.Z, v.Y, v.X}
	if err := w.WriteUint8(v.Data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// SaveScalarVolume writes a scalar volume as a float64 .npy array with
// shape (Z, Y, X).
func SaveScalarVolume(path string, v *volume.ScalarVolume) error {
	if v == nil {
		return fmt.Errorf("scalar volume is nil")
	}
	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w.Shape = []int{v.Z, v.Y, v.X}
	if err := w.WriteFloat64(v.Data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// SaveCoeffNIfTI writes a coefficient volume as a single-file NIfTI-1
// image with an identity affine. The voxel payload is reordered to the
// Fortran layout the format requires, with the spatial axes first and the
// coefficient axis last.
func SaveCoeffNIfTI(path string, v *volume.CoeffVolume) error {
	if v == nil {
		return fmt.Errorf("coefficient volume is nil")
	}
	payload := make([]float32, len(v.Data))
	i := 0
	for c := 0; c < v.C; c++ {
		for z := 0; z < v.Z; z++ {
			for y := 0; y < v.Y; y++ {
				for x := 0; x < v.X; x++ {
					payload[i] = v.At(z, y, x, c)
					i++
				}
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := nifti.WriteFloat32(f, []int{v.X, v.Y, v.Z, v.C}, payload); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func readFloat32(r *gonpy.NpyReader) ([]float32, error) {
	switch r.Dtype {
	case "f4":
		return r.GetFloat32()
	case "f8":
		d, err := r.GetFloat64()
		if err != nil {
			return nil, err
		}
		out := make([]float32, len(d))
		for i, v := range d {
			out[i] = float32(v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported dtype %q (supported: f4, f8)", r.Dtype)
	}
}

// moveChannelLast transposes a (Z, 3, Y, X) array into (Z, Y, X, 3).
func moveChannelLast(data []float32, shape []int) []float32 {
	z, y, x := shape[0], shape[2], shape[3]
	out := make([]float32, len(data))
	for zi := 0; zi < z; zi++ {
		for c := 0; c < 3; c++ {
			src := ((zi*3 + c) * y) * x
			for yi := 0; yi < y; yi++ {
				dst := ((zi*y+yi)*x)*3 + c
				for xi := 0; xi < x; xi++ {
					out[dst] = data[src]
					src++
					dst += 3
				}
			}
		}
	}
	return out
}
