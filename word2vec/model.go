package word2vec

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"slices"
	"sort"

	"github.com/viterin/vek/vek32"
)

// maxExp bounds the logit fed to the sigmoid; beyond it the gradient is
// effectively zero.
const maxExp = 6

// unigramPower flattens the noise distribution towards rare words.
const unigramPower = 0.75

// Model is an incrementally trainable CBOW embedding model.
type Model struct {
	params Params

	words  []string
	index  map[string]int
	counts []int64
	// pending counts words seen fewer than MinCount times.
	pending map[string]int64

	syn0    [][]float32 // input (word) vectors
	syn1neg [][]float32 // output (context) vectors

	noise []float64 // cumulative unigram^0.75 distribution

	updates uint64
	rng     *rand.Rand
}

// New creates an empty model.
func New(params Params) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		params:  params,
		index:   make(map[string]int),
		pending: make(map[string]int64),
	}
	m.reseed()
	return m, nil
}

// Train builds a fresh model from sentences: vocabulary first, then one training run.
func Train(params Params, sentences [][]string) (*Model, error) {
	m, err := New(params)
	if err != nil {
		return nil, err
	}
	m.BuildVocab(sentences, false)
	m.Train(sentences)
	return m, nil
}

// Params returns the model's hyperparameters.
func (m *Model) Params() Params {
	return m.params
}

// Dim returns the vector width.
func (m *Model) Dim() int {
	return m.params.Dim
}

// Len returns the vocabulary size.
func (m *Model) Len() int {
	return len(m.words)
}

// Updates returns how many training runs the model has been through.
func (m *Model) Updates() uint64 {
	return m.updates
}

// Words returns the vocabulary in insertion order.
func (m *Model) Words() []string {
	return slices.Clone(m.words)
}

// Contains reports whether word is in the vocabulary.
func (m *Model) Contains(word string) bool {
	_, ok := m.index[word]
	return ok
}

// Count returns how many times word has been seen by BuildVocab.
func (m *Model) Count(word string) int64 {
	if i, ok := m.index[word]; ok {
		return m.counts[i]
	}
	return m.pending[word]
}

// Vector returns a copy of the vector for word.
func (m *Model) Vector(word string) ([]float32, bool) {
	i, ok := m.index[word]
	if !ok {
		return nil, false
	}
	return slices.Clone(m.syn0[i]), true
}

// Mean averages the vectors of the in-vocabulary tokens. OOV tokens are
// left out; when none are known the result is a vector of NaNs.
func (m *Model) Mean(tokens []string) []float32 {
	mean := make([]float32, m.params.Dim)
	n := 0
	for _, token := range tokens {
		if i, ok := m.index[token]; ok {
			vek32.Add_Inplace(mean, m.syn0[i])
			n++
		}
	}
	if n == 0 {
		for i := range mean {
			mean[i] = float32(math.NaN())
		}
		return mean
	}
	vek32.MulNumber_Inplace(mean, 1/float32(n))
	return mean
}

// BuildVocab counts the words in sentences and adds every word that reaches
// MinCount. Without update the existing vocabulary and weights are discarded
// first. It returns the number of words added.
func (m *Model) BuildVocab(sentences [][]string, update bool) int {
	if !update {
		m.words = nil
		m.index = make(map[string]int)
		m.counts = nil
		m.pending = make(map[string]int64)
		m.syn0 = nil
		m.syn1neg = nil
		m.updates = 0
		m.reseed()
	}

	added := 0
	for _, sentence := range sentences {
		for _, word := range sentence {
			if i, ok := m.index[word]; ok {
				m.counts[i]++
				continue
			}
			m.pending[word]++
			if m.pending[word] >= int64(m.params.MinCount) {
				m.addWord(word, m.pending[word])
				delete(m.pending, word)
				added++
			}
		}
	}
	m.buildNoise()
	return added
}

// Train runs Epochs passes of CBOW negative-sampling over sentences. Tokens
// outside the vocabulary are ignored. It returns the number of in-vocabulary
// tokens processed per epoch.
func (m *Model) Train(sentences [][]string) int {
	if len(m.words) == 0 {
		return 0
	}

	encoded := make([][]int, 0, len(sentences))
	words := 0
	for _, sentence := range sentences {
		idxs := make([]int, 0, len(sentence))
		for _, word := range sentence {
			if i, ok := m.index[word]; ok {
				idxs = append(idxs, i)
			}
		}
		if len(idxs) > 0 {
			encoded = append(encoded, idxs)
			words += len(idxs)
		}
	}
	if words == 0 {
		return 0
	}

	m.updates++
	m.reseed()

	total := float64(words * m.params.Epochs)
	processed := 0
	neu1 := make([]float32, m.params.Dim)
	neu1e := make([]float32, m.params.Dim)
	for range m.params.Epochs {
		for _, idxs := range encoded {
			for pos := range idxs {
				progress := float64(processed) / total
				alpha := m.params.Alpha - float32(progress)*(m.params.Alpha-m.params.MinAlpha)
				alpha = max(alpha, m.params.MinAlpha)
				m.trainCBOW(idxs, pos, alpha, neu1, neu1e)
				processed++
			}
		}
	}
	return words
}

// Update extends the vocabulary with the query tokens and trains on the
// query alone. Under UpdateOnNewTokens nothing happens when every token is
// already known. It reports whether training ran.
func (m *Model) Update(tokens []string, policy UpdatePolicy) bool {
	if len(tokens) == 0 {
		return false
	}
	if policy == UpdateOnNewTokens && !m.hasUnseen(tokens) {
		return false
	}
	sentence := [][]string{tokens}
	m.BuildVocab(sentence, true)
	return m.Train(sentence) > 0
}

func (m *Model) hasUnseen(tokens []string) bool {
	for _, token := range tokens {
		if !m.Contains(token) {
			return true
		}
	}
	return false
}

// trainCBOW predicts idxs[pos] from the mean of its context window.
func (m *Model) trainCBOW(idxs []int, pos int, alpha float32, neu1, neu1e []float32) {
	reduced := m.rng.IntN(m.params.Window)
	start := max(0, pos-m.params.Window+reduced)
	end := min(len(idxs), pos+m.params.Window+1-reduced)

	clear(neu1)
	clear(neu1e)
	contexts := 0
	for c := start; c < end; c++ {
		if c == pos {
			continue
		}
		vek32.Add_Inplace(neu1, m.syn0[idxs[c]])
		contexts++
	}
	if contexts == 0 {
		return
	}
	vek32.MulNumber_Inplace(neu1, 1/float32(contexts))

	center := idxs[pos]
	for d := 0; d <= m.params.Negative; d++ {
		target := center
		var label float32 = 1
		if d > 0 {
			target = m.sampleNoise()
			if target == center {
				continue
			}
			label = 0
		}
		out := m.syn1neg[target]
		f := vek32.Dot(neu1, out)
		g := (label - sigmoid(f)) * alpha
		axpy(neu1e, g, out)
		axpy(out, g, neu1)
	}

	vek32.MulNumber_Inplace(neu1e, 1/float32(contexts))
	for c := start; c < end; c++ {
		if c == pos {
			continue
		}
		vek32.Add_Inplace(m.syn0[idxs[c]], neu1e)
	}
}

func (m *Model) addWord(word string, count int64) {
	m.index[word] = len(m.words)
	m.words = append(m.words, word)
	m.counts = append(m.counts, count)
	m.syn0 = append(m.syn0, m.initialVector(word))
	m.syn1neg = append(m.syn1neg, make([]float32, m.params.Dim))
}

// initialVector draws components uniformly from [-0.5/dim, 0.5/dim) using a
// generator seeded by the word itself, so vocabulary order does not matter.
func (m *Model) initialVector(word string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(word))
	r := rand.New(rand.NewPCG(h.Sum64(), m.params.Seed))
	v := make([]float32, m.params.Dim)
	scale := 1 / float32(m.params.Dim)
	for i := range v {
		v[i] = (r.Float32() - 0.5) * scale
	}
	return v
}

func (m *Model) buildNoise() {
	m.noise = make([]float64, len(m.counts))
	var sum float64
	for i, c := range m.counts {
		sum += math.Pow(float64(c), unigramPower)
		m.noise[i] = sum
	}
}

func (m *Model) sampleNoise() int {
	if len(m.noise) == 0 {
		return 0
	}
	u := m.rng.Float64() * m.noise[len(m.noise)-1]
	i := sort.SearchFloat64s(m.noise, u)
	return min(i, len(m.noise)-1)
}

func (m *Model) reseed() {
	m.rng = rand.New(rand.NewPCG(m.params.Seed, m.updates))
}

func sigmoid(f float32) float32 {
	switch {
	case f > maxExp:
		return 1
	case f < -maxExp:
		return 0
	}
	return float32(1 / (1 + math.Exp(-float64(f))))
}

// axpy computes y += a*x.
func axpy(y []float32, a float32, x []float32) {
	for i := range y {
		y[i] += a * x[i]
	}
}
