package harmonics

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

func TestSamplingMatrixShape(t *testing.T) {
	nt, err := NewNormTable(4)
	if err != nil {
		t.Fatalf("NewNormTable(4) error = %v", err)
	}
	dirs := SphereDirections(20)
	b, err := SamplingMatrix(dirs, 4, nt)
	if err != nil {
		t.Fatalf("SamplingMatrix() error = %v", err)
	}
	rows, cols := b.Dims()
	if rows != 20 || cols != 15 {
		t.Errorf("SamplingMatrix dims = (%d, %d), want (20, 15)", rows, cols)
	}
}

// TestSamplingMatrixReconstructsConstant checks that a series holding only
// the degree-0 coefficient reconstructs the same amplitude in every
// direction.
func TestSamplingMatrixReconstructsConstant(t *testing.T) {
	nt, err := NewNormTable(0)
	if err != nil {
		t.Fatalf("NewNormTable(0) error = %v", err)
	}
	dirs := SphereDirections(32)
	b, err := SamplingMatrix(dirs, 0, nt)
	if err != nil {
		t.Fatalf("SamplingMatrix() error = %v", err)
	}

	coeffs := mat.NewVecDense(1, []float64{2.0})
	var amp mat.VecDense
	amp.MulVec(b, coeffs)

	want := 2.0 * math.Sqrt(1/(4*math.Pi))
	for i := 0; i < amp.Len(); i++ {
		if math.Abs(amp.AtVec(i)-want) > 1e-12 {
			t.Errorf("amplitude %d = %v, want %v", i, amp.AtVec(i), want)
		}
	}
}

func TestSamplingMatrixRejectsBadInput(t *testing.T) {
	nt, err := NewNormTable(4)
	if err != nil {
		t.Fatalf("NewNormTable(4) error = %v", err)
	}

	if _, err := SamplingMatrix(nil, 4, nt); err == nil {
		t.Error("SamplingMatrix(nil dirs) expected an error, got none")
	}
	if _, err := SamplingMatrix([]r3.Vector{{}}, 4, nt); err == nil {
		t.Error("SamplingMatrix with a zero-norm direction expected an error, got none")
	}
	if _, err := SamplingMatrix(SphereDirections(4), 3, nt); err == nil {
		t.Error("SamplingMatrix with an odd degree expected an error, got none")
	}
	if _, err := SamplingMatrix(SphereDirections(4), 6, nt); err == nil {
		t.Error("SamplingMatrix beyond the table maximum expected an error, got none")
	}
}

func TestSphereDirections(t *testing.T) {
	if got := SphereDirections(0); got != nil {
		t.Errorf("SphereDirections(0) = %v, want nil", got)
	}

	dirs := SphereDirections(50)
	if len(dirs) != 50 {
		t.Fatalf("SphereDirections(50) returned %d directions", len(dirs))
	}
	for i, d := range dirs {
		if math.Abs(d.Norm()-1) > 1e-12 {
			t.Errorf("direction %d has norm %v, want 1", i, d.Norm())
		}
	}
	// The spiral should cover both hemispheres.
	if dirs[0].Z <= 0 || dirs[49].Z >= 0 {
		t.Errorf("directions do not span both hemispheres: first Z = %v, last Z = %v",
			dirs[0].Z, dirs[49].Z)
	}
}
