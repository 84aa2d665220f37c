// Package vector holds the similarity math and the binary vector codec.
package vector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// MaxDimensions is the largest vector persisted. Longer vectors are truncated.
const MaxDimensions = 1536

const epsilon = 1e-10

// ErrInvalidVector is returned when a blob cannot be decoded.
var ErrInvalidVector = errors.New("invalid vector encoding")

// Cosine returns dot(a,b) / (|a|*|b| + epsilon) over the shorter of the two
// lengths. An empty operand scores 0.
func Cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + epsilon)
}

// Truncate caps v at MaxDimensions components. It never pads.
func Truncate(v []float32) []float32 {
	if len(v) > MaxDimensions {
		return v[:MaxDimensions]
	}
	return v
}

// Encode packs v as a little-endian int32 length followed by float32 values.
func Encode(v []float32) ([]byte, error) {
	if v == nil {
		return nil, ErrInvalidVector
	}
	if len(v) > math.MaxInt32 {
		return nil, fmt.Errorf("vector too large: %d elements", len(v))
	}
	buf := make([]byte, 4+4*len(v))
	binary.LittleEndian.PutUint32(buf, uint32(len(v)))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4+4*i:], math.Float32bits(f))
	}
	return buf, nil
}

// Decode reverses Encode exactly.
func Decode(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, ErrInvalidVector
	}
	n := int32(binary.LittleEndian.Uint32(data))
	if n < 0 || len(data)-4 < int(n)*4 {
		return nil, ErrInvalidVector
	}
	v := make([]float32, n)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4+4*i:]))
	}
	return v, nil
}
