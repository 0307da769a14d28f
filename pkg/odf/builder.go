package odf

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	log "github.com/sirupsen/logrus"

	"fiberodf/pkg/background"
	"fiberodf/pkg/harmonics"
	"fiberodf/pkg/volume"
)

// Params configures a Builder.
type Params struct {
	// BlockSide is the edge length in voxels of the cubic super-voxels
	// the field is partitioned into
	BlockSide int

	// MaxDegree is the even truncation degree of the harmonic series,
	// between 0 and 10
	MaxDegree int

	// OccupancyThreshold gates blocks by the ratio of their clamped
	// volume to the reference block volume; blocks at or below the
	// threshold keep zero coefficients
	OccupancyThreshold float64

	// ValidityThreshold gates blocks by their fraction of nonzero
	// vectors; the default of -1 disables the gate
	ValidityThreshold float64

	// Workers is the number of goroutines estimating blocks; values
	// below 1 fall back to the number of CPUs
	Workers int
}

// DefaultParams returns the parameter set used by the reference pipeline:
// 16-voxel super-voxels, a degree-6 series, occupancy gating at 0.5 and
// the validity gate disabled.
func DefaultParams() Params {
	return Params{
		BlockSide:          16,
		MaxDegree:          6,
		OccupancyThreshold: 0.5,
		ValidityThreshold:  -1,
		Workers:            runtime.NumCPU(),
	}
}

// Builder estimates volumetric ODF coefficient grids from orientation
// vector fields. A Builder is safe for concurrent use once constructed;
// its normalization table is read-only.
type Builder struct {
	params Params
	table  *harmonics.NormTable
}

// NewBuilder validates the parameters and precomputes the normalization
// table for the requested degree.
func NewBuilder(params Params) (*Builder, error) {
	if params.BlockSide <= 0 {
		return nil, fmt.Errorf("block side %d: must be positive", params.BlockSide)
	}
	if err := harmonics.CheckDegree(params.MaxDegree); err != nil {
		return nil, err
	}
	if params.Workers < 1 {
		params.Workers = runtime.NumCPU()
	}
	table, err := harmonics.NewNormTable(params.MaxDegree)
	if err != nil {
		return nil, err
	}
	return &Builder{params: params, table: table}, nil
}

// Table exposes the builder's normalization table, shared with callers
// that reconstruct amplitudes from the produced coefficients.
func (b *Builder) Table() *harmonics.NormTable {
	return b.table
}

// Build partitions the field into cubic blocks of BlockSide voxels,
// estimates the harmonic coefficients of every sufficiently occupied block
// and renders the matching downsampled background map.
//
// Parameters:
//   - field: the orientation vector field, shape (Z, Y, X, 3)
//   - iso: optional isotropic-channel volume of the same spatial shape;
//     when present the background map is rendered from it, otherwise the
//     background is derived from the vector field itself
//
// Returns the coefficient volume with shape
// (ceil(Z/side), ceil(Y/side), ceil(X/side), NumCoefficients(MaxDegree))
// and the background byte volume with the same spatial grid shape.
//
// The input field is never modified, and the result is identical for any
// worker count.
func (b *Builder) Build(field *volume.VectorField, iso *volume.ScalarVolume) (*volume.CoeffVolume, *volume.ByteVolume, error) {
	if field == nil || len(field.Data) == 0 {
		return nil, nil, fmt.Errorf("vector field is empty")
	}
	if iso != nil && (iso.Z != field.Z || iso.Y != field.Y || iso.X != field.X) {
		return nil, nil, fmt.Errorf("isotropic volume shape (%d, %d, %d) does not match field shape (%d, %d, %d)",
			iso.Z, iso.Y, iso.X, field.Z, field.Y, field.X)
	}

	side := b.params.BlockSide
	gz, gy, gx := field.BlockGrid(side)
	coeff, err := volume.NewCoeffVolume(gz, gy, gx, harmonics.NumCoefficients(b.params.MaxDegree))
	if err != nil {
		return nil, nil, err
	}

	total := gz * gy * gx
	workers := b.params.Workers
	if workers > total {
		workers = total
	}

	start := time.Now()
	log.WithFields(log.Fields{
		"grid":    fmt.Sprintf("%dx%dx%d", gz, gy, gx),
		"side":    side,
		"degree":  b.params.MaxDegree,
		"workers": workers,
	}).Debug("estimating ODF coefficients")

	// The reference volume shrinks with the field depth so that thin
	// stacks keep their full-depth blocks.
	refVolume := float64(min(side, field.Z) * side * side)

	errs := make([]error, workers)
	var wg sync.WaitGroup
	chunk := (total + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, total)
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			errs[w] = b.estimateRange(field, coeff, refVolume, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}

	var bg *volume.ByteVolume
	if iso != nil {
		bg, err = background.FromScalar(iso, side)
	} else {
		bg, err = background.FromField(field, side)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("rendering background map: %w", err)
	}

	log.WithFields(log.Fields{
		"blocks":  total,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("ODF estimation complete")
	return coeff, bg, nil
}

// estimateRange processes the contiguous run of block indices [lo, hi).
// Block indices enumerate the grid in z-major raster order, and each index
// owns a disjoint slice of the output, so workers need no locking.
func (b *Builder) estimateRange(field *volume.VectorField, coeff *volume.CoeffVolume, refVolume float64, lo, hi int) error {
	side := b.params.BlockSide
	_, gy, gx := field.BlockGrid(side)
	scratch := make([]r3.Vector, 0, min(side, field.Z)*min(side, field.Y)*min(side, field.X))

	for idx := lo; idx < hi; idx++ {
		bz := idx / (gy * gx)
		rem := idx % (gy * gx)
		by := rem / gx
		bx := rem % gx

		scratch = field.Block(bz*side, by*side, bx*side, side, scratch[:0])
		blockVolume := len(scratch)
		zeros := 0
		for _, v := range scratch {
			if v == (r3.Vector{}) {
				zeros++
			}
		}

		occupancy := float64(blockVolume) / refVolume
		validFraction := 1 - float64(zeros)/float64(blockVolume)
		if occupancy <= b.params.OccupancyThreshold || validFraction <= b.params.ValidityThreshold {
			continue
		}

		coeffs, err := EstimateBlock(scratch, b.params.MaxDegree, b.table)
		if err != nil {
			return err
		}
		coeff.SetCoeffs(bz, by, bx, coeffs)
	}
	return nil
}
