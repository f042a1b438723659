package strategy

import (
	"context"

	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/similarity"
)

// BagOfWords compares token counts over the vocabulary of the pair.
type BagOfWords struct{}

var _ Strategy = BagOfWords{}

// ID implements Strategy.
func (BagOfWords) ID() core.StrategyID {
	return core.StrategyBoW
}

// Score implements Strategy. Two empty sequences score 0.
func (BagOfWords) Score(_ context.Context, query, phrase []string) (float64, error) {
	a, b := CountVectors(query, phrase)
	return similarity.Cosine(a, b), nil
}

// CountVectors builds the count vectors of a and b over their union
// vocabulary, ordered by first appearance.
func CountVectors(a, b []string) ([]float64, []float64) {
	index := make(map[string]int, len(a)+len(b))
	for _, tokens := range [][]string{a, b} {
		for _, token := range tokens {
			if _, ok := index[token]; !ok {
				index[token] = len(index)
			}
		}
	}
	va := make([]float64, len(index))
	vb := make([]float64, len(index))
	for _, token := range a {
		va[index[token]]++
	}
	for _, token := range b {
		vb[index[token]]++
	}
	return va, vb
}
