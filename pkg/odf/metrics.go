package odf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"fiberodf/pkg/harmonics"
	"fiberodf/pkg/volume"
)

// GFA returns the generalized fractional anisotropy of a set of ODF
// amplitudes sampled over the sphere: the ratio of their standard
// deviation to their root mean square. Isotropic distributions give 0,
// sharply peaked ones approach 1.
func GFA(amplitudes []float64) float64 {
	n := len(amplitudes)
	if n < 2 {
		return 0
	}
	ss := floats.Dot(amplitudes, amplitudes)
	if ss == 0 {
		return 0
	}
	return math.Sqrt(float64(n) * stat.Variance(amplitudes, nil) / ss)
}

// AnisotropyMap reconstructs the ODF of every grid cell on a fixed
// quasi-uniform direction set and maps its generalized fractional
// anisotropy, giving a scalar dispersion summary of the coefficient
// volume. The coefficient count of the volume must match maxDegree, and at
// least two directions are required.
func AnisotropyMap(coeff *volume.CoeffVolume, maxDegree, directions int) (*volume.ScalarVolume, error) {
	if coeff == nil {
		return nil, fmt.Errorf("coefficient volume is nil")
	}
	if want := harmonics.NumCoefficients(maxDegree); coeff.C != want {
		return nil, fmt.Errorf("coefficient count %d does not match degree %d (want %d)", coeff.C, maxDegree, want)
	}
	if directions < 2 {
		return nil, fmt.Errorf("anisotropy map needs at least 2 directions, got %d", directions)
	}

	table, err := harmonics.NewNormTable(maxDegree)
	if err != nil {
		return nil, err
	}
	basis, err := harmonics.SamplingMatrix(harmonics.SphereDirections(directions), maxDegree, table)
	if err != nil {
		return nil, err
	}

	out := make([]float64, coeff.Z*coeff.Y*coeff.X)
	cbuf := make([]float64, coeff.C)
	cvec := mat.NewVecDense(coeff.C, cbuf)
	var amp mat.VecDense

	i := 0
	for z := 0; z < coeff.Z; z++ {
		for y := 0; y < coeff.Y; y++ {
			for x := 0; x < coeff.X; x++ {
				for j, c := range coeff.CoeffsAt(z, y, x) {
					cbuf[j] = float64(c)
				}
				amp.MulVec(basis, cvec)
				out[i] = GFA(amp.RawVector().Data)
				i++
			}
		}
	}
	return volume.NewScalarVolume(out, coeff.Z, coeff.Y, coeff.X)
}
