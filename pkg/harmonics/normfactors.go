package harmonics

import (
	"fmt"
	"math"
)

// MaxSupportedDegree is the highest spherical harmonic degree with a
// closed-form evaluation.
const MaxSupportedDegree = 10

// NumCoefficients returns the number of real spherical harmonic
// coefficients of a series truncated at the given even maximum degree,
// (2*(d/2)+1) * (d/2+1). The supported degrees 0, 2, 4, 6, 8 and 10 yield
// 1, 6, 15, 28, 45 and 66 coefficients.
func NumCoefficients(maxDegree int) int {
	h := maxDegree / 2
	return (2*h + 1) * (h + 1)
}

// CheckDegree reports whether a maximum degree is usable for the basis:
// even, at least 0 and at most MaxSupportedDegree.
func CheckDegree(degree int) error {
	if degree < 0 || degree > MaxSupportedDegree || degree%2 != 0 {
		return fmt.Errorf("degree %d: %w", degree, ErrUnsupportedDegree)
	}
	return nil
}

// NormTable holds the normalization factors of the real, symmetric
// spherical harmonic basis, precomputed once per maximum degree. Row r
// covers degree 2r; entry m of a row is the factor shared by the orders +m
// and -m of that degree.
type NormTable struct {
	maxDegree int
	rows      [][]float64
}

// NewNormTable precomputes the normalization factors for every even degree
// up to maxDegree. Only even degrees from 0 to MaxSupportedDegree are
// accepted.
//
// The factor for degree n and order m is
//
//	m = 0:  sqrt((2n+1) / (4*pi))
//	m != 0: (-1)^m * sqrt(2) * sqrt((2n+1)/(4*pi) * (n-|m|)! / (n+|m|)!)
func NewNormTable(maxDegree int) (*NormTable, error) {
	if err := CheckDegree(maxDegree); err != nil {
		return nil, err
	}

	rows := make([][]float64, maxDegree/2+1)
	for n := 0; n <= maxDegree; n += 2 {
		row := make([]float64, n+1)
		for m := 0; m <= n; m++ {
			f, err := normFactor(n, m)
			if err != nil {
				return nil, fmt.Errorf("normalization factor (%d, %d): %w", n, m, err)
			}
			row[m] = f
		}
		rows[n/2] = row
	}
	return &NormTable{maxDegree: maxDegree, rows: rows}, nil
}

// MaxDegree returns the maximum degree the table was built for.
func (t *NormTable) MaxDegree() int { return t.maxDegree }

// Row returns the normalization factors of one even degree, indexed by
// absolute order.
func (t *NormTable) Row(degree int) []float64 {
	return t.rows[degree/2]
}

func normFactor(n, m int) (float64, error) {
	base := float64(2*n+1) / (4 * math.Pi)
	if m == 0 {
		return math.Sqrt(base), nil
	}
	num, err := Factorial(n - m)
	if err != nil {
		return 0, err
	}
	den, err := Factorial(n + m)
	if err != nil {
		return 0, err
	}
	f := math.Sqrt2 * math.Sqrt(base*num/den)
	if m%2 != 0 {
		f = -f
	}
	return f, nil
}
