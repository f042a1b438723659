package similarity

import (
	"math"

	"github.com/viterin/vek/vek32"
	"gonum.org/v1/gonum/floats"
)

// Cosine returns the cosine similarity of two float64 vectors.
// Mismatched lengths, empty vectors, zero magnitudes and NaN inputs score 0.
func Cosine(a, b []float64) float64 {
	return orZero(CosineStrict(a, b))
}

// CosineStrict is Cosine without the zero fallback: undefined cases return NaN.
func CosineStrict(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.NaN()
	}
	dot := floats.Dot(a, b)
	na := floats.Dot(a, a)
	nb := floats.Dot(b, b)
	return ratio(dot, na, nb)
}

// Cosine32 returns the cosine similarity of two float32 vectors.
// Mismatched lengths, empty vectors, zero magnitudes and NaN inputs score 0.
func Cosine32(a, b []float32) float64 {
	return orZero(Cosine32Strict(a, b))
}

// Cosine32Strict is Cosine32 without the zero fallback: undefined cases return NaN.
func Cosine32Strict(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.NaN()
	}
	dot := float64(vek32.Dot(a, b))
	na := float64(vek32.Dot(a, a))
	nb := float64(vek32.Dot(b, b))
	return ratio(dot, na, nb)
}

// ratio divides by sqrt(na*nb) rather than sqrt(na)*sqrt(nb) so identical
// vectors score exactly 1.
func ratio(dot, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return math.NaN()
	}
	score := dot / math.Sqrt(na*nb)
	if math.IsNaN(score) {
		return score
	}
	return max(-1, min(1, score))
}

func orZero(score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	return score
}
