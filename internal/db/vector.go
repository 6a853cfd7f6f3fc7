package db

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeFloat32 packs v as little-endian IEEE 754 floats, the layout of
// FLOAT32 vector attributes and of cached embeddings.
func EncodeFloat32(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// DecodeFloat32 is the inverse of EncodeFloat32.
func DecodeFloat32(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("float32 vector: %d bytes is not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}
