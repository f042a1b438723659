package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 1}, b: []float64{1, 1}, want: 1},
		{name: "identical counts", a: []float64{2, 1, 3}, b: []float64{2, 1, 3}, want: 1},
		{name: "scaled", a: []float64{1, 2}, b: []float64{2, 4}, want: 1},
		{name: "orthogonal", a: []float64{1, 1, 0, 0}, b: []float64{0, 0, 1, 1}, want: 0},
		{name: "opposite", a: []float64{1, 0}, b: []float64{-1, 0}, want: -1},
		{name: "both empty", a: []float64{}, b: []float64{}, want: 0},
		{name: "nil", a: nil, b: nil, want: 0},
		{name: "zero magnitude", a: []float64{0, 0}, b: []float64{1, 1}, want: 0},
		{name: "both zero", a: []float64{0, 0}, b: []float64{0, 0}, want: 0},
		{name: "mismatched length", a: []float64{1}, b: []float64{1, 1}, want: 0},
		{name: "nan component", a: []float64{math.NaN(), 1}, b: []float64{1, 1}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestCosine_IdenticalIsExactlyOne(t *testing.T) {
	assert.Equal(t, 1.0, Cosine([]float64{1, 1}, []float64{1, 1}))
}

func TestCosine_Symmetric(t *testing.T) {
	a := []float64{1, 0, 2, 3}
	b := []float64{0, 1, 1, 1}
	assert.Equal(t, Cosine(a, b), Cosine(b, a))
}

func TestCosineStrict(t *testing.T) {
	assert.True(t, math.IsNaN(CosineStrict([]float64{0, 0}, []float64{1, 0})))
	assert.True(t, math.IsNaN(CosineStrict(nil, nil)))
	assert.InDelta(t, 0.5, CosineStrict([]float64{1, 0}, []float64{1, math.Sqrt(3)}), 1e-12)
}

func TestCosine32(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{0.1, 0.2, 0.3}, b: []float32{0.1, 0.2, 0.3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "zero vector", a: []float32{0, 0, 0}, b: []float32{1, 2, 3}, want: 0},
		{name: "nan vector", a: []float32{float32(math.NaN()), 0}, b: []float32{1, 0}, want: 0},
		{name: "empty", a: nil, b: []float32{}, want: 0},
		{name: "mismatched", a: []float32{1, 2}, b: []float32{1, 2, 3}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine32(tt.a, tt.b)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.want, got, 1e-6)
			assert.GreaterOrEqual(t, got, -1.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestCosine32_Symmetric(t *testing.T) {
	a := []float32{0.3, -0.2, 0.9, 0.01}
	b := []float32{0.1, 0.4, -0.5, 0.7}
	assert.Equal(t, Cosine32(a, b), Cosine32(b, a))
}

func TestCosine32Strict(t *testing.T) {
	assert.True(t, math.IsNaN(Cosine32Strict([]float32{0, 0}, []float32{0, 0})))
}
