// Package odf estimates block-wise orientation distribution function
// volumes from dense 3D fiber orientation fields. A field is partitioned
// into cubic super-voxels, the orientation angles of each sufficiently
// occupied block are collected, and the block's distribution is expressed
// as real spherical harmonic coefficients.
package odf

import (
	"math"

	"github.com/golang/geo/r3"
)

// ExtractAngles converts orientation vectors to spherical angles,
// discarding every vector without a positive norm. The azimuth is
// atan2 of the in-plane components and the polar angle is measured
// against the vector Z axis:
//
//	phi   = atan2(v.Y, v.X)
//	theta = acos(v.Z / |v|)
//
// The returned slices are parallel over the retained subset, in input
// order.
func ExtractAngles(vecs []r3.Vector) (phi, theta []float64) {
	phi = make([]float64, 0, len(vecs))
	theta = make([]float64, 0, len(vecs))
	for _, v := range vecs {
		norm := v.Norm()
		if norm <= 0 {
			continue
		}
		phi = append(phi, math.Atan2(v.Y, v.X))
		theta = append(theta, math.Acos(clampUnit(v.Z/norm)))
	}
	return phi, theta
}

// clampUnit keeps a cosine ratio inside [-1, 1]; rounding in the norm can
// otherwise push math.Acos into NaN.
func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
