package vector

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical unit", a: []float32{1, 0, 0}, b: []float32{1, 0, 0}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 2}, b: []float32{-1, -2}, want: -1},
		{name: "shorter length wins", a: []float32{1, 0, 5}, b: []float32{1, 0}, want: 1},
		{name: "empty", a: nil, b: []float32{1}, want: 0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-6)
		})
	}
}

func TestCosine_SelfSimilarity(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		v := make([]float32, 8+r.Intn(MaxDimensions-8))
		for j := range v {
			v[j] = r.Float32()*2 - 1
		}
		assert.InDelta(t, 1.0, Cosine(v, v), 1e-6)
	}
}

func TestTruncate(t *testing.T) {
	long := make([]float32, 3072)
	for i := range long {
		long[i] = float32(i)
	}
	got := Truncate(long)
	require.Len(t, got, MaxDimensions)
	assert.Equal(t, long[:MaxDimensions], got)

	short := []float32{1, 2, 3}
	assert.Equal(t, short, Truncate(short))

	exact := make([]float32, MaxDimensions)
	assert.Len(t, Truncate(exact), MaxDimensions)
}

func TestEncodeDecode(t *testing.T) {
	in := []float32{0, 1.5, -2.25, float32(math.Pi), math.MaxFloat32, math.SmallestNonzeroFloat32}
	b, err := Encode(in)
	require.NoError(t, err)
	assert.Len(t, b, 4+4*len(in))

	out, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	b, err = Encode([]float32{})
	require.NoError(t, err)
	out, err = Decode(b)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEncodeDecode_Errors(t *testing.T) {
	_, err := Encode(nil)
	assert.ErrorIs(t, err, ErrInvalidVector)

	_, err = Decode([]byte{1, 2})
	assert.ErrorIs(t, err, ErrInvalidVector)

	// length prefix says 2 values but only one follows
	_, err = Decode([]byte{2, 0, 0, 0, 0, 0, 128, 63})
	assert.ErrorIs(t, err, ErrInvalidVector)
}
