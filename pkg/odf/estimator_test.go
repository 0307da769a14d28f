package odf

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"fiberodf/pkg/harmonics"
)

func TestEstimateBlockAllZeroVectors(t *testing.T) {
	nt, err := harmonics.NewNormTable(6)
	if err != nil {
		t.Fatalf("NewNormTable(6) error = %v", err)
	}
	coeffs, err := EstimateBlock(make([]r3.Vector, 64), 6, nt)
	if err != nil {
		t.Fatalf("EstimateBlock() error = %v", err)
	}
	if len(coeffs) != 28 {
		t.Fatalf("len(coeffs) = %d, want 28", len(coeffs))
	}
	for i, c := range coeffs {
		if c != 0 {
			t.Errorf("coeffs[%d] = %v, want 0", i, c)
		}
	}
}

// TestEstimateBlockLowMassGate checks the degenerate gate: a block whose
// total vector norm stays below sqrt(sampleCount) yields zeros, while the
// same block with slightly longer vectors is estimated.
func TestEstimateBlockLowMassGate(t *testing.T) {
	nt, err := harmonics.NewNormTable(2)
	if err != nil {
		t.Fatalf("NewNormTable(2) error = %v", err)
	}

	// Four vectors of norm 0.4: total 1.6 < sqrt(4) = 2.
	short := []r3.Vector{{X: 0.4}, {X: 0.4}, {Y: 0.4}, {Z: 0.4}}
	coeffs, err := EstimateBlock(short, 2, nt)
	if err != nil {
		t.Fatalf("EstimateBlock() error = %v", err)
	}
	for i, c := range coeffs {
		if c != 0 {
			t.Fatalf("below the gate: coeffs[%d] = %v, want 0", i, c)
		}
	}

	// Norm 0.6 each: total 2.4 > 2, so the block is estimated.
	long := []r3.Vector{{X: 0.6}, {X: 0.6}, {Y: 0.6}, {Z: 0.6}}
	coeffs, err = EstimateBlock(long, 2, nt)
	if err != nil {
		t.Fatalf("EstimateBlock() error = %v", err)
	}
	want := math.Sqrt(1 / (4 * math.Pi))
	if math.Abs(coeffs[0]-want) > 1e-12 {
		t.Errorf("coeffs[0] = %v, want %v", coeffs[0], want)
	}
}

// TestEstimateBlockPolarAlignment feeds identical vectors along the polar
// axis: all orders away from zero must vanish exactly and each order-zero
// coefficient must equal its normalization factor.
func TestEstimateBlockPolarAlignment(t *testing.T) {
	nt, err := harmonics.NewNormTable(6)
	if err != nil {
		t.Fatalf("NewNormTable(6) error = %v", err)
	}
	vecs := make([]r3.Vector, 27)
	for i := range vecs {
		vecs[i] = r3.Vector{Z: 1}
	}

	coeffs, err := EstimateBlock(vecs, 6, nt)
	if err != nil {
		t.Fatalf("EstimateBlock() error = %v", err)
	}

	idx := 0
	for n := 0; n <= 6; n += 2 {
		for m := -n; m <= n; m++ {
			got := coeffs[idx]
			if m == 0 {
				want := nt.Row(n)[0]
				if math.Abs(got-want) > 1e-14 {
					t.Errorf("coefficient (%d, 0) = %v, want %v", n, got, want)
				}
			} else if got != 0 {
				t.Errorf("coefficient (%d, %d) = %v, want exactly 0", n, m, got)
			}
			idx++
		}
	}
}

// TestEstimateBlockDividesByValidCount mixes zero vectors into an aligned
// block: the mean must run over the vectors that carry an orientation, so
// the degree-0 coefficient keeps its full value.
func TestEstimateBlockDividesByValidCount(t *testing.T) {
	nt, err := harmonics.NewNormTable(0)
	if err != nil {
		t.Fatalf("NewNormTable(0) error = %v", err)
	}
	vecs := make([]r3.Vector, 8)
	for i := 0; i < 4; i++ {
		vecs[i] = r3.Vector{Z: 1}
	}

	coeffs, err := EstimateBlock(vecs, 0, nt)
	if err != nil {
		t.Fatalf("EstimateBlock() error = %v", err)
	}
	want := math.Sqrt(1 / (4 * math.Pi))
	if math.Abs(coeffs[0]-want) > 1e-12 {
		t.Errorf("coeffs[0] = %v, want %v (mean over valid vectors only)", coeffs[0], want)
	}
}

// TestEstimateBlockAntipodalSymmetry relies on the even-degree basis:
// flipping every vector must leave the coefficients unchanged.
func TestEstimateBlockAntipodalSymmetry(t *testing.T) {
	nt, err := harmonics.NewNormTable(6)
	if err != nil {
		t.Fatalf("NewNormTable(6) error = %v", err)
	}
	vecs := []r3.Vector{
		{X: 0.6, Y: -1.0, Z: 1.4},
		{X: -0.2, Y: 1.1, Z: 0.9},
		{X: 1.3, Y: 0.4, Z: -0.8},
	}
	flipped := make([]r3.Vector, len(vecs))
	for i, v := range vecs {
		flipped[i] = v.Mul(-1)
	}

	a, err := EstimateBlock(vecs, 6, nt)
	if err != nil {
		t.Fatalf("EstimateBlock() error = %v", err)
	}
	b, err := EstimateBlock(flipped, 6, nt)
	if err != nil {
		t.Fatalf("EstimateBlock() error = %v", err)
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			t.Errorf("coefficient %d changed under flipping: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestEstimateBlockSingleVectorMatchesBasis(t *testing.T) {
	nt, err := harmonics.NewNormTable(4)
	if err != nil {
		t.Fatalf("NewNormTable(4) error = %v", err)
	}
	v := r3.Vector{X: 0.9, Y: 0.7, Z: 1.1}

	coeffs, err := EstimateBlock([]r3.Vector{v}, 4, nt)
	if err != nil {
		t.Fatalf("EstimateBlock() error = %v", err)
	}

	phi, theta := ExtractAngles([]r3.Vector{v})
	sinT, cosT := math.Sin(theta[0]), math.Cos(theta[0])
	idx := 0
	for n := 0; n <= 4; n += 2 {
		for m := -n; m <= n; m++ {
			want, err := harmonics.Eval(n, m, phi[0], sinT, cosT, nt)
			if err != nil {
				t.Fatalf("Eval(%d, %d) error = %v", n, m, err)
			}
			if math.Abs(coeffs[idx]-want) > 1e-12 {
				t.Errorf("coefficient (%d, %d) = %v, want %v", n, m, coeffs[idx], want)
			}
			idx++
		}
	}
}

func TestEstimateBlockRejectsBadInput(t *testing.T) {
	nt, err := harmonics.NewNormTable(2)
	if err != nil {
		t.Fatalf("NewNormTable(2) error = %v", err)
	}
	vecs := []r3.Vector{{Z: 1}}

	if _, err := EstimateBlock(vecs, 3, nt); !errors.Is(err, harmonics.ErrUnsupportedDegree) {
		t.Errorf("odd degree error = %v, want ErrUnsupportedDegree", err)
	}
	if _, err := EstimateBlock(vecs, 2, nil); err == nil {
		t.Error("nil table expected an error, got none")
	}
	if _, err := EstimateBlock(vecs, 4, nt); err == nil {
		t.Error("degree beyond the table expected an error, got none")
	}
}

func BenchmarkEstimateBlock(b *testing.B) {
	nt, err := harmonics.NewNormTable(6)
	if err != nil {
		b.Fatalf("NewNormTable(6) error = %v", err)
	}
	vecs := make([]r3.Vector, 16*16*16)
	for i := range vecs {
		vecs[i] = r3.Vector{X: 0.3, Y: 0.5, Z: 0.8}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := EstimateBlock(vecs, 6, nt); err != nil {
			b.Fatal(err)
		}
	}
}
