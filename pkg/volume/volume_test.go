package volume

import (
	"testing"

	"github.com/golang/geo/r3"
)

func TestNewVectorField(t *testing.T) {
	tests := []struct {
		name    string
		dataLen int
		z, y, x int
		wantErr bool
	}{
		{"valid shape", 2 * 3 * 4 * 3, 2, 3, 4, false},
		{"length mismatch", 10, 2, 3, 4, true},
		{"zero dimension", 0, 0, 3, 4, true},
		{"negative dimension", 12, -1, 2, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVectorField(make([]float32, tt.dataLen), tt.z, tt.y, tt.x)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewVectorField() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVecAtComponentMapping(t *testing.T) {
	// One voxel whose stored components are (cz, cy, cx) = (1, 2, 3).
	f, err := NewVectorField([]float32{1, 2, 3}, 1, 1, 1)
	if err != nil {
		t.Fatalf("NewVectorField() error = %v", err)
	}

	got := f.VecAt(0, 0, 0)
	want := r3.Vector{X: 3, Y: 2, Z: 1}
	if got != want {
		t.Errorf("VecAt(0,0,0) = %v, want %v", got, want)
	}

	// The round trip through SetVecAt must preserve the mapping.
	f.SetVecAt(0, 0, 0, r3.Vector{X: 7, Y: 8, Z: 9})
	if f.Data[0] != 9 || f.Data[1] != 8 || f.Data[2] != 7 {
		t.Errorf("SetVecAt stored %v, want [9 8 7]", f.Data)
	}
}

func TestBlockClampsAtFarFaces(t *testing.T) {
	// 5x4x3 field filled with a recognizable per-voxel value.
	const z, y, x = 5, 4, 3
	data := make([]float32, z*y*x*3)
	for i := range data {
		data[i] = float32(i)
	}
	f, err := NewVectorField(data, z, y, x)
	if err != nil {
		t.Fatalf("NewVectorField() error = %v", err)
	}

	tests := []struct {
		name       string
		z0, y0, x0 int
		side       int
		wantCount  int
	}{
		{"interior block", 0, 0, 0, 2, 8},
		{"clamped in depth", 4, 0, 0, 2, 1 * 2 * 2},
		{"clamped in all axes", 4, 2, 2, 2, 1 * 2 * 1},
		{"block larger than field", 0, 0, 0, 10, z * y * x},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Block(tt.z0, tt.y0, tt.x0, tt.side, nil)
			if len(got) != tt.wantCount {
				t.Errorf("Block() returned %d vectors, want %d", len(got), tt.wantCount)
			}
		})
	}

	// First vector of the block at the origin must match VecAt.
	blk := f.Block(0, 0, 0, 2, nil)
	if blk[0] != f.VecAt(0, 0, 0) {
		t.Errorf("Block()[0] = %v, want %v", blk[0], f.VecAt(0, 0, 0))
	}
	// Raster order: second vector advances along x.
	if blk[1] != f.VecAt(0, 0, 1) {
		t.Errorf("Block()[1] = %v, want %v", blk[1], f.VecAt(0, 0, 1))
	}
}

func TestGridDim(t *testing.T) {
	tests := []struct {
		n, side, want int
	}{
		{16, 16, 1},
		{17, 16, 2},
		{15, 16, 1},
		{32, 16, 2},
		{1, 5, 1},
	}

	for _, tt := range tests {
		if got := GridDim(tt.n, tt.side); got != tt.want {
			t.Errorf("GridDim(%d, %d) = %d, want %d", tt.n, tt.side, got, tt.want)
		}
	}
}

func TestCoeffVolumeAccess(t *testing.T) {
	v, err := NewCoeffVolume(2, 2, 2, 9)
	if err != nil {
		t.Fatalf("NewCoeffVolume() error = %v", err)
	}

	coeffs := make([]float64, 9)
	for i := range coeffs {
		coeffs[i] = float64(i) + 0.5
	}
	v.SetCoeffs(1, 0, 1, coeffs)

	for i := range coeffs {
		if got := v.At(1, 0, 1, i); got != float32(coeffs[i]) {
			t.Errorf("At(1,0,1,%d) = %v, want %v", i, got, float32(coeffs[i]))
		}
	}

	// Neighboring cells stay zero.
	for _, c := range v.CoeffsAt(0, 0, 0) {
		if c != 0 {
			t.Errorf("untouched cell holds %v, want 0", c)
		}
	}
	if got := len(v.CoeffsAt(1, 0, 1)); got != 9 {
		t.Errorf("CoeffsAt length = %d, want 9", got)
	}
}

func TestByteVolumeAccess(t *testing.T) {
	v, err := NewByteVolume(2, 3, 4)
	if err != nil {
		t.Fatalf("NewByteVolume() error = %v", err)
	}
	v.Set(1, 2, 3, 200)
	if got := v.At(1, 2, 3); got != 200 {
		t.Errorf("At(1,2,3) = %d, want 200", got)
	}
	if got := v.At(0, 0, 0); got != 0 {
		t.Errorf("At(0,0,0) = %d, want 0", got)
	}
}
