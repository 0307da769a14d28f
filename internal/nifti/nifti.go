// Package nifti writes single-file NIfTI-1 images. It covers exactly what
// the coefficient export needs: a 348-byte little-endian header with an
// identity affine, the empty extension flag and a float32 payload.
package nifti

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Data type codes from the NIfTI-1 standard.
const (
	TypeUint8   = 2
	TypeFloat32 = 16
)

const (
	// HeaderSize is the fixed size of the NIfTI-1 header.
	HeaderSize = 348

	// VoxOffset is where voxel data starts in a single-file image: the
	// header followed by the four-byte extension flag.
	VoxOffset = 352
)

// Header is the fixed NIfTI-1 header, laid out field by field for direct
// binary serialization.
//
// Type translation from the nifti1 C header:
//
//	C     Go
//	-------------
//	int   int32
//	float float32
//	short int16
//	char  int8
type Header struct {
	SizeOfHdr          int32    // Must be 348
	UnusedDataType     [10]int8 // Unused
	UnusedDbName       [18]int8 // Unused
	UnusedExtents      int32    // Unused
	UnusedSessionError int16    // Unused
	UnusedRegular      int8     // Unused
	DimInfo            int8     // MRI slice ordering

	Dim           [8]int16   // Data array dimensions
	IntentP1      float32    // 1st intent parameter
	IntentP2      float32    // 2nd intent parameter
	IntentP3      float32    // 3rd intent parameter
	IntentCode    int16      // NIFTI_INTENT_* code
	DataType      int16      // Defines data type
	BitPix        int16      // Number bits/voxel
	SliceStart    int16      // First slice index
	PixDim        [8]float32 // Grid spacing
	VoxOffset     float32    // Offset into .nii file
	SclSlope      float32    // Data scaling: slope
	SclInter      float32    // Data scaling: offset
	SliceEnd      int16      // Last slice index
	SliceCode     int8       // Slice timing order
	XYZTUnits     int8       // Units of pixdim[1..4]
	CalMax        float32    // Max display intensity
	CalMin        float32    // Min display intensity
	SliceDuration float32    // Time for 1 slice
	TOffset       float32    // Time axis shift
	UnusedGlmax   int32      // Unused
	UnusedGlmin   int32      // Unused

	Descrip [80]int8 // Any text you like
	AuxFile [24]int8 // Auxiliary filename

	QFormCode int16 // NIFTI_XFORM_* code
	SFormCode int16 // NIFTI_XFORM_* code

	QuaternB float32 // Quaternion b param
	QuaternC float32 // Quaternion c param
	QuaternD float32 // Quaternion d param
	QOffsetX float32 // Quaternion x shift
	QOffsetY float32 // Quaternion y shift
	QOffsetZ float32 // Quaternion z shift

	SRowX [4]float32 // 1st row affine transform
	SRowY [4]float32 // 2nd row affine transform
	SRowZ [4]float32 // 3rd row affine transform

	IntentName [16]int8 // 'name' or meaning of data

	Magic [4]int8 // Must be "ni1\0" or "n+1\0"
}

// NewHeader builds a single-file header for the given dimensions, listed
// fastest-varying first as the standard requires, with unit grid spacing
// and an identity affine.
func NewHeader(dim []int, datatype, bitpix int16) (Header, error) {
	var h Header
	if len(dim) == 0 || len(dim) > 7 {
		return h, fmt.Errorf("nifti: %d dimensions, want 1 to 7", len(dim))
	}
	h.SizeOfHdr = HeaderSize
	h.Dim[0] = int16(len(dim))
	for i := 1; i < len(h.Dim); i++ {
		h.Dim[i] = 1
	}
	for i, d := range dim {
		if d <= 0 || d > 0x7fff {
			return h, fmt.Errorf("nifti: dimension %d out of range: %d", i, d)
		}
		h.Dim[i+1] = int16(d)
	}
	for i := range h.PixDim {
		h.PixDim[i] = 1
	}
	h.DataType = datatype
	h.BitPix = bitpix
	h.VoxOffset = VoxOffset
	h.SclSlope = 1
	h.SFormCode = 1
	h.SRowX = [4]float32{1, 0, 0, 0}
	h.SRowY = [4]float32{0, 1, 0, 0}
	h.SRowZ = [4]float32{0, 0, 1, 0}
	copy(h.Magic[:], []int8{'n', '+', '1', 0})
	return h, nil
}

// WriteFloat32 writes a single-file float32 image: header, extension flag
// and voxel payload. data must be in Fortran order matching dim, with the
// first listed dimension varying fastest.
func WriteFloat32(w io.Writer, dim []int, data []float32) error {
	h, err := NewHeader(dim, TypeFloat32, 32)
	if err != nil {
		return err
	}
	n := 1
	for _, d := range dim {
		n *= d
	}
	if n != len(data) {
		return fmt.Errorf("nifti: %d voxels do not fill dimensions %v", len(data), dim)
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("nifti: writing header: %w", err)
	}
	// No header extensions follow.
	if _, err := w.Write([]byte{0, 0, 0, 0}); err != nil {
		return fmt.Errorf("nifti: writing extension flag: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("nifti: writing voxel data: %w", err)
	}
	return nil
}
