package db

import (
	"math"
	"testing"
)

func TestEncodeFloat32_Layout(t *testing.T) {
	b := EncodeFloat32([]float32{1.0})
	// 1.0f is 0x3f800000.
	want := []byte{0x00, 0x00, 0x80, 0x3f}
	if string(b) != string(want) {
		t.Errorf("got % x, want % x", b, want)
	}
}

func TestDecodeFloat32(t *testing.T) {
	in := []float32{0, -1.5, math.MaxFloat32, 1e-7}
	out, err := DecodeFloat32(EncodeFloat32(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("[%d] = %v, want %v", i, out[i], in[i])
		}
	}

	if _, err := DecodeFloat32([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated data")
	}
	if v, err := DecodeFloat32(nil); err != nil || len(v) != 0 {
		t.Errorf("empty input: %v, %v", v, err)
	}
}
