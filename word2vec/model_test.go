package word2vec

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corpus = [][]string{
	{"disk", "full"},
	{"network", "down"},
	{"connection", "refused", "by", "server"},
	{"disk", "quota", "exceeded"},
	{"out", "of", "memory"},
}

func smallParams() Params {
	p := DefaultParams()
	p.Dim = 16
	p.Epochs = 3
	return p
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero dim", func(p *Params) { p.Dim = 0 }},
		{"zero window", func(p *Params) { p.Window = 0 }},
		{"zero negative", func(p *Params) { p.Negative = 0 }},
		{"zero epochs", func(p *Params) { p.Epochs = 0 }},
		{"zero min count", func(p *Params) { p.MinCount = 0 }},
		{"zero alpha", func(p *Params) { p.Alpha = 0 }},
		{"min alpha above alpha", func(p *Params) { p.MinAlpha = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParams)

			_, err := New(p)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestParseUpdatePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    UpdatePolicy
		wantErr bool
	}{
		{"", UpdateOnNewTokens, false},
		{"new_tokens", UpdateOnNewTokens, false},
		{"New-Tokens", UpdateOnNewTokens, false},
		{"always", UpdateAlways, false},
		{"sometimes", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUpdatePolicy(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownUpdatePolicy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			roundTrip, err := ParseUpdatePolicy(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, roundTrip)
		})
	}
}

func TestTrainBuildsVocabulary(t *testing.T) {
	m, err := Train(smallParams(), corpus)
	require.NoError(t, err)

	assert.Equal(t, 13, m.Len())
	assert.True(t, m.Contains("disk"))
	assert.False(t, m.Contains("router"))
	assert.Equal(t, int64(2), m.Count("disk"))
	assert.Equal(t, uint64(1), m.Updates())
	assert.Equal(t, []string{"disk", "full", "network", "down"}, m.Words()[:4])

	v, ok := m.Vector("disk")
	require.True(t, ok)
	assert.Len(t, v, 16)
	for _, f := range v {
		assert.False(t, math.IsNaN(float64(f)))
	}

	_, ok = m.Vector("router")
	assert.False(t, ok)
}

func TestTrainIsDeterministic(t *testing.T) {
	a, err := Train(smallParams(), corpus)
	require.NoError(t, err)
	b, err := Train(smallParams(), corpus)
	require.NoError(t, err)

	for _, word := range a.Words() {
		va, _ := a.Vector(word)
		vb, _ := b.Vector(word)
		assert.Equal(t, va, vb, word)
	}
}

func TestVectorReturnsCopy(t *testing.T) {
	m, err := Train(smallParams(), corpus)
	require.NoError(t, err)

	v, _ := m.Vector("disk")
	v[0] = 42
	again, _ := m.Vector("disk")
	assert.NotEqual(t, float32(42), again[0])
}

func TestMinCountHoldsBackRareWords(t *testing.T) {
	p := smallParams()
	p.MinCount = 2
	m, err := Train(p, corpus)
	require.NoError(t, err)

	assert.Equal(t, []string{"disk"}, m.Words())
	assert.Equal(t, int64(1), m.Count("network"))

	m.BuildVocab([][]string{{"network"}}, true)
	assert.True(t, m.Contains("network"))
	assert.Equal(t, int64(2), m.Count("network"))
}

func TestMean(t *testing.T) {
	m, err := Train(smallParams(), corpus)
	require.NoError(t, err)

	t.Run("in-vocabulary only", func(t *testing.T) {
		disk, _ := m.Vector("disk")
		got := m.Mean([]string{"disk", "unseen", "tokens"})
		assert.InDeltaSlice(t, disk, got, 1e-6)
	})

	t.Run("averages", func(t *testing.T) {
		disk, _ := m.Vector("disk")
		full, _ := m.Vector("full")
		got := m.Mean([]string{"disk", "full"})
		for i := range got {
			assert.InDelta(t, (disk[i]+full[i])/2, got[i], 1e-6)
		}
	})

	t.Run("all out of vocabulary", func(t *testing.T) {
		got := m.Mean([]string{"unseen"})
		require.Len(t, got, 16)
		for _, f := range got {
			assert.True(t, math.IsNaN(float64(f)))
		}
	})

	t.Run("empty", func(t *testing.T) {
		got := m.Mean(nil)
		assert.True(t, math.IsNaN(float64(got[0])))
	})
}

func TestUpdate(t *testing.T) {
	t.Run("new tokens extend vocabulary", func(t *testing.T) {
		m, err := Train(smallParams(), corpus)
		require.NoError(t, err)
		before := m.Len()

		assert.True(t, m.Update([]string{"router", "down"}, UpdateOnNewTokens))
		assert.Equal(t, before+1, m.Len())
		assert.True(t, m.Contains("router"))
		assert.Equal(t, uint64(2), m.Updates())
	})

	t.Run("known tokens skip training under new_tokens", func(t *testing.T) {
		m, err := Train(smallParams(), corpus)
		require.NoError(t, err)
		before, _ := m.Vector("disk")

		assert.False(t, m.Update([]string{"disk", "full"}, UpdateOnNewTokens))
		after, _ := m.Vector("disk")
		assert.Equal(t, before, after)
		assert.Equal(t, uint64(1), m.Updates())
	})

	t.Run("always trains", func(t *testing.T) {
		m, err := Train(smallParams(), corpus)
		require.NoError(t, err)
		before, _ := m.Vector("disk")

		assert.True(t, m.Update([]string{"disk", "full"}, UpdateAlways))
		after, _ := m.Vector("disk")
		assert.NotEqual(t, before, after)
	})

	t.Run("empty query", func(t *testing.T) {
		m, err := Train(smallParams(), corpus)
		require.NoError(t, err)
		assert.False(t, m.Update(nil, UpdateAlways))
	})
}

func TestTrainOnEmptyModel(t *testing.T) {
	m, err := New(smallParams())
	require.NoError(t, err)
	assert.Equal(t, 0, m.Train(corpus))
	assert.Equal(t, 0, m.Len())
}

func TestCodecRoundTrip(t *testing.T) {
	p := smallParams()
	p.MinCount = 2
	m, err := Train(p, corpus)
	require.NoError(t, err)
	m.Update([]string{"disk", "disk", "error"}, UpdateAlways)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)

	loaded := &Model{}
	_, err = loaded.ReadFrom(&buf)
	require.NoError(t, err)

	assert.Equal(t, m.Params(), loaded.Params())
	assert.Equal(t, m.Words(), loaded.Words())
	assert.Equal(t, m.Updates(), loaded.Updates())
	assert.Equal(t, m.Count("network"), loaded.Count("network"))
	for _, word := range m.Words() {
		want, _ := m.Vector(word)
		got, _ := loaded.Vector(word)
		assert.Equal(t, want, got, word)
	}

	// Both copies continue training identically.
	m.Update([]string{"network", "unreachable"}, UpdateAlways)
	loaded.Update([]string{"network", "unreachable"}, UpdateAlways)
	require.True(t, loaded.Contains("network"))
	want, _ := m.Vector("network")
	got, _ := loaded.Vector("network")
	assert.Equal(t, want, got)
}

func TestReadFromRejectsCorruptInput(t *testing.T) {
	m, err := Train(smallParams(), corpus)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	good := buf.Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("XXXX"), good[4:]...)},
		{"bad version", append(append([]byte(formatMagic), 99), good[5:]...)},
		{"truncated", good[:len(good)/2]},
		{"trailing bytes", append(append([]byte{}, good...), 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Model{}).ReadFrom(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, ErrCorruptModel)
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	m, err := Train(smallParams(), corpus)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "models", "word2vec.bin")
	require.NoError(t, m.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, m.Words(), loaded.Words())

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
