package odf

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"

	"fiberodf/pkg/harmonics"
)

// EstimateBlock computes the real spherical harmonic coefficients of the
// orientation distribution formed by one block of vectors.
//
// Parameters:
//   - vecs: every vector of the block, zero vectors included
//   - maxDegree: even truncation degree of the series, 0 to 10
//   - table: normalization factors covering at least maxDegree
//
// Returns the coefficient vector in canonical order (degree ascending,
// order ascending within each degree), of length
// harmonics.NumCoefficients(maxDegree).
//
// A block whose total vector norm falls below sqrt(len(vecs)) carries too
// little orientation mass to estimate and yields the all-zero vector. For
// the remaining blocks each coefficient is the mean basis value over the
// vectors with positive norm.
func EstimateBlock(vecs []r3.Vector, maxDegree int, table *harmonics.NormTable) ([]float64, error) {
	if err := harmonics.CheckDegree(maxDegree); err != nil {
		return nil, err
	}
	if table == nil || table.MaxDegree() < maxDegree {
		return nil, fmt.Errorf("normalization table does not cover degree %d", maxDegree)
	}

	coeffs := make([]float64, harmonics.NumCoefficients(maxDegree))
	if len(vecs) == 0 {
		return coeffs, nil
	}

	norms := make([]float64, len(vecs))
	for i, v := range vecs {
		norms[i] = v.Norm()
	}
	if floats.Sum(norms) < math.Sqrt(float64(len(vecs))) {
		return coeffs, nil
	}

	phi, theta := ExtractAngles(vecs)
	if len(phi) == 0 {
		return coeffs, nil
	}
	sinT := make([]float64, len(theta))
	cosT := make([]float64, len(theta))
	for i, t := range theta {
		sinT[i] = math.Sin(t)
		cosT[i] = math.Cos(t)
	}

	idx := 0
	for n := 0; n <= maxDegree; n += 2 {
		for m := -n; m <= n; m++ {
			sum := 0.0
			for j := range phi {
				v, err := harmonics.Eval(n, m, phi[j], sinT[j], cosT[j], table)
				if err != nil {
					return nil, err
				}
				sum += v
			}
			coeffs[idx] = sum
			idx++
		}
	}
	// Average over the vectors that carried an orientation, not over the
	// raw block size.
	floats.Scale(1/float64(len(phi)), coeffs)
	return coeffs, nil
}
