package harmonics

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// SamplingMatrix builds the basis matrix B whose entry (i, j) is the j-th
// real spherical harmonic of the series truncated at maxDegree, evaluated
// at direction i. Columns follow the canonical coefficient order, so
// multiplying B by a coefficient vector reconstructs the ODF amplitudes at
// the given directions.
//
// Directions need not be unit length but must have positive norm.
func SamplingMatrix(dirs []r3.Vector, maxDegree int, t *NormTable) (*mat.Dense, error) {
	if len(dirs) == 0 {
		return nil, fmt.Errorf("sampling matrix: no directions given")
	}
	if err := CheckDegree(maxDegree); err != nil {
		return nil, err
	}
	if maxDegree > t.MaxDegree() {
		return nil, fmt.Errorf("sampling matrix: degree %d exceeds table maximum %d: %w",
			maxDegree, t.MaxDegree(), ErrUnsupportedDegree)
	}

	b := mat.NewDense(len(dirs), NumCoefficients(maxDegree), nil)
	for i, d := range dirs {
		norm := d.Norm()
		if norm <= 0 {
			return nil, fmt.Errorf("sampling matrix: direction %d has zero norm", i)
		}
		phi := math.Atan2(d.Y, d.X)
		theta := math.Acos(clampUnit(d.Z / norm))
		sinT, cosT := math.Sin(theta), math.Cos(theta)

		j := 0
		for n := 0; n <= maxDegree; n += 2 {
			for m := -n; m <= n; m++ {
				v, err := Eval(n, m, phi, sinT, cosT, t)
				if err != nil {
					return nil, err
				}
				b.Set(i, j, v)
				j++
			}
		}
	}
	return b, nil
}

// SphereDirections returns n unit directions spread quasi-uniformly over
// the sphere along the golden-angle spiral. It returns nil for n <= 0.
func SphereDirections(n int) []r3.Vector {
	if n <= 0 {
		return nil
	}
	golden := math.Pi * (3 - math.Sqrt(5))
	dirs := make([]r3.Vector, n)
	for i := range dirs {
		z := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - z*z)
		phi := golden * float64(i)
		dirs[i] = r3.Vector{
			X: r * math.Cos(phi),
			Y: r * math.Sin(phi),
			Z: z,
		}
	}
	return dirs
}

// clampUnit restricts a cosine ratio to [-1, 1] so that rounding noise in
// the norm cannot push math.Acos into NaN territory.
func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
