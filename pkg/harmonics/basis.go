// Package harmonics implements the real, symmetric spherical harmonic
// basis used to represent fiber orientation distribution functions,
// following the formulation of Alimi et al. Factorials and per-degree
// normalization factors come from precomputed tables; basis values are
// evaluated from closed-form polynomials in sin(theta) and cos(theta) for
// the even degrees 0 to 10.
//
// Coefficients of a truncated series are enumerated in a fixed canonical
// order: degree ascending over {0, 2, ..., maxDegree} and, within each
// degree n, order ascending from -n to +n.
package harmonics

import (
	"fmt"
	"math"
)

// Eval evaluates the real spherical harmonic of the given degree and order
// at the direction described by its azimuth phi and the sine and cosine of
// its polar angle theta.
//
// Negative orders carry a sin(|order|*phi) azimuthal factor, positive
// orders carry cos(order*phi) and order 0 has none.
//
// Only the even degrees 0, 2, 4, 6, 8 and 10 are supported. Any other
// degree returns ErrUnsupportedDegree, a degree beyond the table's maximum
// returns an error, and |order| > degree returns ErrUnsupportedOrder. The
// evaluator never silently falls back to a wrong value.
func Eval(degree, order int, phi, sinTheta, cosTheta float64, t *NormTable) (float64, error) {
	if err := CheckDegree(degree); err != nil {
		return 0, err
	}
	if degree > t.MaxDegree() {
		return 0, fmt.Errorf("degree %d exceeds table maximum %d: %w", degree, t.MaxDegree(), ErrUnsupportedDegree)
	}
	if order < -degree || order > degree {
		return 0, fmt.Errorf("degree %d order %d: %w", degree, order, ErrUnsupportedOrder)
	}

	nf := t.Row(degree)
	switch degree {
	case 0:
		return nf[0], nil
	case 2:
		return evalDegree2(order, phi, sinTheta, cosTheta, nf), nil
	case 4:
		return evalDegree4(order, phi, sinTheta, cosTheta, nf), nil
	case 6:
		return evalDegree6(order, phi, sinTheta, cosTheta, nf), nil
	case 8:
		return evalDegree8(order, phi, sinTheta, cosTheta, nf), nil
	default:
		return evalDegree10(order, phi, sinTheta, cosTheta, nf), nil
	}
}

// evalDegree2 evaluates the degree-2 closed forms. nf holds the
// normalization factors of degree 2 indexed by absolute order.
func evalDegree2(order int, phi, sinT, cosT float64, nf []float64) float64 {
	s2 := sinT * sinT
	c2 := cosT * cosT

	switch order {
	case -2:
		return nf[2] * 3 * s2 * math.Sin(2*phi)
	case -1:
		return nf[1] * 3 * sinT * cosT * math.Sin(phi)
	case 0:
		return nf[0] * 0.5 * (3*c2 - 1)
	case 1:
		return nf[1] * 3 * sinT * cosT * math.Cos(phi)
	case 2:
		return nf[2] * 3 * s2 * math.Cos(2*phi)
	}
	return 0
}

func evalDegree4(order int, phi, sinT, cosT float64, nf []float64) float64 {
	s2 := sinT * sinT
	s3 := s2 * sinT
	s4 := s2 * s2
	c2 := cosT * cosT
	c3 := c2 * cosT
	c4 := c2 * c2

	switch order {
	case -4:
		return nf[4] * 105 * s4 * math.Sin(4*phi)
	case -3:
		return nf[3] * 105 * s3 * cosT * math.Sin(3*phi)
	case -2:
		return nf[2] * 7.5 * s2 * (7*c2 - 1) * math.Sin(2*phi)
	case -1:
		return nf[1] * 2.5 * sinT * (7*c3 - 3*cosT) * math.Sin(phi)
	case 0:
		return nf[0] * 0.125 * (35*c4 - 30*c2 + 3)
	case 1:
		return nf[1] * 2.5 * sinT * (7*c3 - 3*cosT) * math.Cos(phi)
	case 2:
		return nf[2] * 7.5 * s2 * (7*c2 - 1) * math.Cos(2*phi)
	case 3:
		return nf[3] * 105 * s3 * cosT * math.Cos(3*phi)
	case 4:
		return nf[4] * 105 * s4 * math.Cos(4*phi)
	}
	return 0
}

func evalDegree6(order int, phi, sinT, cosT float64, nf []float64) float64 {
	s2 := sinT * sinT
	s3 := s2 * sinT
	s4 := s2 * s2
	s5 := s4 * sinT
	s6 := s4 * s2
	c2 := cosT * cosT
	c3 := c2 * cosT
	c4 := c2 * c2
	c5 := c4 * cosT
	c6 := c4 * c2

	switch order {
	case -6:
		return nf[6] * 10395 * s6 * math.Sin(6*phi)
	case -5:
		return nf[5] * 10395 * s5 * cosT * math.Sin(5*phi)
	case -4:
		return nf[4] * 472.5 * s4 * (11*c2 - 1) * math.Sin(4*phi)
	case -3:
		return nf[3] * 157.5 * s3 * (11*c3 - 3*cosT) * math.Sin(3*phi)
	case -2:
		return nf[2] * 13.125 * s2 * (33*c4 - 18*c2 + 1) * math.Sin(2*phi)
	case -1:
		return nf[1] * 2.625 * sinT * (33*c5 - 30*c3 + 5*cosT) * math.Sin(phi)
	case 0:
		return nf[0] * 0.0625 * (231*c6 - 315*c4 + 105*c2 - 5)
	case 1:
		return nf[1] * 2.625 * sinT * (33*c5 - 30*c3 + 5*cosT) * math.Cos(phi)
	case 2:
		return nf[2] * 13.125 * s2 * (33*c4 - 18*c2 + 1) * math.Cos(2*phi)
	case 3:
		return nf[3] * 157.5 * s3 * (11*c3 - 3*cosT) * math.Cos(3*phi)
	case 4:
		return nf[4] * 472.5 * s4 * (11*c2 - 1) * math.Cos(4*phi)
	case 5:
		return nf[5] * 10395 * s5 * cosT * math.Cos(5*phi)
	case 6:
		return nf[6] * 10395 * s6 * math.Cos(6*phi)
	}
	return 0
}

func evalDegree8(order int, phi, sinT, cosT float64, nf []float64) float64 {
	s2 := sinT * sinT
	s3 := s2 * sinT
	s4 := s2 * s2
	s5 := s4 * sinT
	s6 := s4 * s2
	s7 := s6 * sinT
	s8 := s4 * s4
	c2 := cosT * cosT
	c3 := c2 * cosT
	c4 := c2 * c2
	c5 := c4 * cosT
	c6 := c4 * c2
	c7 := c6 * cosT
	c8 := c4 * c4

	switch order {
	case -8:
		return nf[8] * 2027025 * s8 * math.Sin(8*phi)
	case -7:
		return nf[7] * 2027025 * s7 * cosT * math.Sin(7*phi)
	case -6:
		return nf[6] * 67567.5 * s6 * (15*c2 - 1) * math.Sin(6*phi)
	case -5:
		return nf[5] * 67567.5 * s5 * (5*c3 - cosT) * math.Sin(5*phi)
	case -4:
		return nf[4] * 1299.375 * s4 * (65*c4 - 26*c2 + 1) * math.Sin(4*phi)
	case -3:
		return nf[3] * 433.125 * s3 * (39*c5 - 26*c3 + 3*cosT) * math.Sin(3*phi)
	case -2:
		return nf[2] * 19.6875 * s2 * (143*c6 - 143*c4 + 33*c2 - 1) * math.Sin(2*phi)
	case -1:
		return nf[1] * 0.5625 * sinT * (715*c7 - 1001*c5 + 385*c3 - 35*cosT) * math.Sin(phi)
	case 0:
		return nf[0] * 0.0078125 * (6435*c8 - 12012*c6 + 6930*c4 - 1260*c2 + 35)
	case 1:
		return nf[1] * 0.5625 * sinT * (715*c7 - 1001*c5 + 385*c3 - 35*cosT) * math.Cos(phi)
	case 2:
		return nf[2] * 19.6875 * s2 * (143*c6 - 143*c4 + 33*c2 - 1) * math.Cos(2*phi)
	case 3:
		return nf[3] * 433.125 * s3 * (39*c5 - 26*c3 + 3*cosT) * math.Cos(3*phi)
	case 4:
		return nf[4] * 1299.375 * s4 * (65*c4 - 26*c2 + 1) * math.Cos(4*phi)
	case 5:
		return nf[5] * 67567.5 * s5 * (5*c3 - cosT) * math.Cos(5*phi)
	case 6:
		return nf[6] * 67567.5 * s6 * (15*c2 - 1) * math.Cos(6*phi)
	case 7:
		return nf[7] * 2027025 * s7 * cosT * math.Cos(7*phi)
	case 8:
		return nf[8] * 2027025 * s8 * math.Cos(8*phi)
	}
	return 0
}

func evalDegree10(order int, phi, sinT, cosT float64, nf []float64) float64 {
	s2 := sinT * sinT
	s3 := s2 * sinT
	s4 := s2 * s2
	s5 := s4 * sinT
	s6 := s4 * s2
	s7 := s6 * sinT
	s8 := s4 * s4
	s9 := s8 * sinT
	s10 := s8 * s2
	c2 := cosT * cosT
	c3 := c2 * cosT
	c4 := c2 * c2
	c5 := c4 * cosT
	c6 := c4 * c2
	c7 := c6 * cosT
	c8 := c4 * c4
	c9 := c8 * cosT
	c10 := c8 * c2

	switch order {
	case -10:
		return nf[10] * 654729075 * s10 * math.Sin(10*phi)
	case -9:
		return nf[9] * 654729075 * s9 * cosT * math.Sin(9*phi)
	case -8:
		return nf[8] * 17229712.5 * s8 * (19*c2 - 1) * math.Sin(8*phi)
	case -7:
		return nf[7] * 5743237.5 * s7 * (19*c3 - 3*cosT) * math.Sin(7*phi)
	case -6:
		return nf[6] * 84459.375 * s6 * (323*c4 - 102*c2 + 3) * math.Sin(6*phi)
	case -5:
		return nf[5] * 16891.875 * s5 * (323*c5 - 170*c3 + 15*cosT) * math.Sin(5*phi)
	case -4:
		return nf[4] * 2815.3125 * s4 * (323*c6 - 255*c4 + 45*c2 - 1) * math.Sin(4*phi)
	case -3:
		return nf[3] * 402.1875 * s3 * (323*c7 - 357*c5 + 105*c3 - 7*cosT) * math.Sin(3*phi)
	case -2:
		return nf[2] * 3.8671875 * s2 * (4199*c8 - 6188*c6 + 2730*c4 - 364*c2 + 7) * math.Sin(2*phi)
	case -1:
		return nf[1] * 0.4296875 * sinT * (4199*c9 - 7956*c7 + 4914*c5 - 1092*c3 + 63*cosT) * math.Sin(phi)
	case 0:
		return nf[0] * 0.00390625 * (46189*c10 - 109395*c8 + 90090*c6 - 30030*c4 + 3465*c2 - 63)
	case 1:
		return nf[1] * 0.4296875 * sinT * (4199*c9 - 7956*c7 + 4914*c5 - 1092*c3 + 63*cosT) * math.Cos(phi)
	case 2:
		return nf[2] * 3.8671875 * s2 * (4199*c8 - 6188*c6 + 2730*c4 - 364*c2 + 7) * math.Cos(2*phi)
	case 3:
		return nf[3] * 402.1875 * s3 * (323*c7 - 357*c5 + 105*c3 - 7*cosT) * math.Cos(3*phi)
	case 4:
		return nf[4] * 2815.3125 * s4 * (323*c6 - 255*c4 + 45*c2 - 1) * math.Cos(4*phi)
	case 5:
		return nf[5] * 16891.875 * s5 * (323*c5 - 170*c3 + 15*cosT) * math.Cos(5*phi)
	case 6:
		return nf[6] * 84459.375 * s6 * (323*c4 - 102*c2 + 3) * math.Cos(6*phi)
	case 7:
		return nf[7] * 5743237.5 * s7 * (19*c3 - 3*cosT) * math.Cos(7*phi)
	case 8:
		return nf[8] * 17229712.5 * s8 * (19*c2 - 1) * math.Cos(8*phi)
	case 9:
		return nf[9] * 654729075 * s9 * cosT * math.Cos(9*phi)
	case 10:
		return nf[10] * 654729075 * s10 * math.Cos(10*phi)
	}
	return 0
}
