package models

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/glove"
	"github.com/poiesic/remedy/strategy"
	"github.com/poiesic/remedy/word2vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCorpus() []*core.PhraseRecord {
	return []*core.PhraseRecord{
		{Phrase: "Disk full!", Resolution: "clear disk"},
		{Phrase: "Network down", Resolution: "restart router"},
		nil,
		{Phrase: "???", Resolution: "ignore"},
		{Phrase: "out of memory", Resolution: "add swap"},
	}
}

func testParams() word2vec.Params {
	p := word2vec.DefaultParams()
	p.Dim = 8
	p.Epochs = 2
	return p
}

func writeTable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glove.txt")
	data := "disk 1 0 0\nfull 0.5 0.5 0\nbroken line\nnetwork 0 1 0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestSentences(t *testing.T) {
	assert.Equal(t, [][]string{
		{"disk", "full"},
		{"network", "down"},
		{"out", "of", "memory"},
	}, Sentences(testCorpus()))
	assert.Empty(t, Sentences(nil))
}

func TestLoadStatic(t *testing.T) {
	m, err := NewManager()
	require.NoError(t, err)

	_, err = m.Static()
	assert.ErrorIs(t, err, ErrStaticModelUnavailable)

	table, err := m.LoadStatic(writeTable(t))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Dim())
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 1, table.Skipped())

	again, err := m.LoadStatic("ignored once loaded")
	require.NoError(t, err)
	assert.Same(t, table, again)

	got, err := m.Static()
	require.NoError(t, err)
	assert.Same(t, table, got)
}

func TestLoadStaticFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		m, err := NewManager()
		require.NoError(t, err)
		_, err = m.LoadStatic(filepath.Join(t.TempDir(), "missing.txt"))
		assert.ErrorIs(t, err, ErrStaticModelUnavailable)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("wrong width", func(t *testing.T) {
		m, err := NewManager(WithStaticDim(50))
		require.NoError(t, err)
		_, err = m.LoadStatic(writeTable(t))
		assert.ErrorIs(t, err, ErrStaticModelUnavailable)
	})

	t.Run("mostly malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "glove.txt")
		require.NoError(t, os.WriteFile(path, []byte("disk 1 0 0\nbad x 0 0\nworse 0 y 0\n"), 0o644))
		m, err := NewManager()
		require.NoError(t, err)
		_, err = m.LoadStatic(path)
		assert.ErrorIs(t, err, ErrStaticModelUnavailable)
		assert.ErrorIs(t, err, glove.ErrMalformedTable)
	})

	t.Run("nil table option", func(t *testing.T) {
		_, err := NewManager(WithStaticTable(nil))
		assert.ErrorIs(t, err, ErrStaticModelUnavailable)
	})
}

func TestNewManagerRejectsBadParams(t *testing.T) {
	p := testParams()
	p.Dim = 0
	_, err := NewManager(WithParams(p))
	assert.ErrorIs(t, err, word2vec.ErrInvalidParams)
}

func TestIncrementalModelBuildsAndPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "models", "word2vec.bin")

	m, err := NewManager(WithIncrementalPath(path), WithParams(testParams()))
	require.NoError(t, err)

	model, err := m.IncrementalModel(ctx, testCorpus())
	require.NoError(t, err)
	assert.True(t, model.Contains("disk"))
	assert.False(t, model.Contains("???"))
	assert.FileExists(t, path)
	assert.False(t, m.Dirty())

	same, err := m.IncrementalModel(ctx, nil)
	require.NoError(t, err)
	assert.Same(t, model, same)

	// A second manager loads the snapshot instead of training.
	other, err := NewManager(WithIncrementalPath(path), WithParams(testParams()))
	require.NoError(t, err)
	loaded, err := other.IncrementalModel(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Words(), loaded.Words())
	assert.True(t, m.Trained())
	assert.False(t, other.Trained())
}

func TestIncrementalModelRefresh(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "word2vec.bin")

	m, err := NewManager(WithIncrementalPath(path), WithParams(testParams()))
	require.NoError(t, err)
	_, err = m.IncrementalModel(ctx, testCorpus())
	require.NoError(t, err)

	refreshed, err := NewManager(WithIncrementalPath(path), WithParams(testParams()), WithRefresh(true))
	require.NoError(t, err)
	model, err := refreshed.IncrementalModel(ctx, []*core.PhraseRecord{{Phrase: "kernel panic", Resolution: "reboot"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"kernel", "panic"}, model.Words())
}

func TestIncrementalModelCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "word2vec.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a model"), 0o644))

	m, err := NewManager(WithIncrementalPath(path), WithParams(testParams()))
	require.NoError(t, err)
	model, err := m.IncrementalModel(context.Background(), testCorpus())
	require.NoError(t, err)
	assert.True(t, model.Contains("network"))

	reloaded, err := word2vec.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, model.Words(), reloaded.Words())
}

func TestIncrementalModelInMemory(t *testing.T) {
	m, err := NewManager(WithParams(testParams()))
	require.NoError(t, err)
	model, err := m.IncrementalModel(context.Background(), testCorpus())
	require.NoError(t, err)
	assert.Equal(t, "", m.Path())
	assert.NoError(t, m.Save())
	assert.Positive(t, model.Len())
}

func TestIncrementalModelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, err := NewManager(WithParams(testParams()))
	require.NoError(t, err)
	_, err = m.IncrementalModel(ctx, testCorpus())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRebuild(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(WithParams(testParams()))
	require.NoError(t, err)
	first, err := m.IncrementalModel(ctx, testCorpus())
	require.NoError(t, err)

	second, err := m.Rebuild(ctx, []*core.PhraseRecord{{Phrase: "timeout", Resolution: "retry"}})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, []string{"timeout"}, second.Words())
}

func TestExtend(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager(WithParams(testParams()))
	require.NoError(t, err)

	err = m.Extend(ctx, testCorpus())
	assert.ErrorIs(t, err, ErrModelNotBuilt)

	model, err := m.IncrementalModel(ctx, testCorpus())
	require.NoError(t, err)
	before := model.Len()

	require.NoError(t, m.Extend(ctx, []*core.PhraseRecord{{Phrase: "certificate expired", Resolution: "renew"}}))
	assert.Equal(t, before+2, model.Len())
	assert.True(t, model.Contains("certificate"))
	require.NoError(t, m.Extend(ctx, nil))
}

func TestWithModelAndDirty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "word2vec.bin")
	m, err := NewManager(WithIncrementalPath(path), WithParams(testParams()))
	require.NoError(t, err)

	var seen *word2vec.Model
	require.NoError(t, m.WithModel(func(model *word2vec.Model) error {
		seen = model
		return nil
	}))
	assert.Nil(t, seen)

	_, err = m.IncrementalModel(ctx, testCorpus())
	require.NoError(t, err)

	s, err := strategy.NewIncremental(m)
	require.NoError(t, err)
	_, err = s.Score(ctx, []string{"router", "down"}, []string{"network", "down"})
	require.NoError(t, err)
	assert.True(t, m.Dirty())

	require.NoError(t, m.Save())
	assert.False(t, m.Dirty())

	loaded, err := word2vec.LoadFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.Contains("router"))
}
