// Package visualization renders 2D preview images of orientation fields and
// background volumes. Orientation vectors are mapped to directionally encoded
// colors, the convention used throughout fiber imaging: red for the
// horizontal axis, green for the vertical axis and blue for the through-plane
// axis, scaled by nothing but the vector direction itself.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"fiberodf/pkg/volume"
)

// OrientationSlice renders transverse plane z of a vector field as a
// directionally encoded color image. Each voxel's color channels carry the
// absolute components of its unit orientation; voxels without an orientation
// render black.
func OrientationSlice(field *volume.VectorField, z int) (*image.RGBA, error) {
	if field == nil {
		return nil, fmt.Errorf("vector field is nil")
	}
	if z < 0 || z >= field.Z {
		return nil, fmt.Errorf("plane %d exceeds depth %d", z, field.Z)
	}

	img := image.NewRGBA(image.Rect(0, 0, field.X, field.Y))
	for y := 0; y < field.Y; y++ {
		for x := 0; x < field.X; x++ {
			v := field.VecAt(z, y, x)
			n := v.Norm()
			if n == 0 {
				img.SetRGBA(x, y, color.RGBA{A: 255})
				continue
			}
			img.SetRGBA(x, y, color.RGBA{
				R: channelByte(v.X, n),
				G: channelByte(v.Y, n),
				B: channelByte(v.Z, n),
				A: 255,
			})
		}
	}
	return img, nil
}

// BackgroundSlice renders transverse plane z of a byte volume as a grayscale
// image.
func BackgroundSlice(bg *volume.ByteVolume, z int) (*image.Gray, error) {
	if bg == nil {
		return nil, fmt.Errorf("byte volume is nil")
	}
	if z < 0 || z >= bg.Z {
		return nil, fmt.Errorf("plane %d exceeds depth %d", z, bg.Z)
	}

	img := image.NewGray(image.Rect(0, 0, bg.X, bg.Y))
	for y := 0; y < bg.Y; y++ {
		for x := 0; x < bg.X; x++ {
			img.SetGray(x, y, color.Gray{Y: bg.At(z, y, x)})
		}
	}
	return img, nil
}

// SavePNG saves a rendered preview image as a PNG file.
func SavePNG(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveOrientationSequence renders and saves every transverse plane of the
// field as a numbered PNG under outputDir.
func SaveOrientationSequence(field *volume.VectorField, outputDir string) error {
	if field == nil {
		return fmt.Errorf("vector field is nil")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for z := 0; z < field.Z; z++ {
		img, err := OrientationSlice(field, z)
		if err != nil {
			return err
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("orientation_z%03d.png", z))
		if err := SavePNG(img, filename); err != nil {
			return err
		}
	}
	return nil
}

// SaveBackgroundSequence renders and saves every transverse plane of the
// background volume as a numbered PNG under outputDir.
func SaveBackgroundSequence(bg *volume.ByteVolume, outputDir string) error {
	if bg == nil {
		return fmt.Errorf("byte volume is nil")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for z := 0; z < bg.Z; z++ {
		img, err := BackgroundSlice(bg, z)
		if err != nil {
			return err
		}
		filename := filepath.Join(outputDir, fmt.Sprintf("background_z%03d.png", z))
		if err := SavePNG(img, filename); err != nil {
			return err
		}
	}
	return nil
}

// channelByte maps one vector component to its color channel intensity.
func channelByte(comp, norm float64) uint8 {
	return uint8(math.Min(255, math.Abs(comp)/norm*255))
}
