package badger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) storage.PhraseRepository {
	t.Helper()
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func phrase(p, r string) *core.PhraseRecord {
	return &core.PhraseRecord{Phrase: p, Resolution: r}
}

func TestAddPhraseRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	added, err := repo.AddPhraseRecords(ctx, phrase("disk full", "clear disk"), phrase("network down", "restart router"))
	require.NoError(t, err)
	require.Len(t, added, 2)
	for _, record := range added {
		assert.Equal(t, record.ContentID(), record.Id)
		assert.False(t, record.InsertedAt.IsZero())
	}

	retrieved, err := repo.GetPhraseRecord(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "disk full", retrieved.Phrase)
	assert.Equal(t, "clear disk", retrieved.Resolution)
	assert.True(t, added[0].InsertedAt.Equal(retrieved.InsertedAt))
}

func TestAddPhraseRecords_Deduplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddPhraseRecords(ctx, phrase("disk full", "clear disk"))
	require.NoError(t, err)

	added, err := repo.AddPhraseRecords(ctx,
		phrase("disk full", "clear disk"),     // already stored
		phrase("disk full", "buy a new disk"), // same phrase, new resolution
		phrase("disk full", "buy a new disk"), // repeated in batch
	)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "buy a new disk", added[0].Resolution)

	count, err := repo.CountPhraseRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAddPhraseRecords_LeavesInputUntouched(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddPhraseRecords(ctx, phrase("disk full", "clear disk"))
	require.NoError(t, err)

	fresh := phrase("network down", "restart router")
	dup := phrase("disk full", "clear disk")
	added, err := repo.AddPhraseRecords(ctx, fresh, dup)
	require.NoError(t, err)
	require.Len(t, added, 1)

	assert.NotSame(t, fresh, added[0])
	assert.Equal(t, fresh.ContentID(), added[0].Id)
	assert.False(t, added[0].InsertedAt.IsZero())
	for _, record := range []*core.PhraseRecord{fresh, dup} {
		assert.Zero(t, record.Id)
		assert.True(t, record.InsertedAt.IsZero())
	}
}

func TestAddPhraseRecords_IDCollision(t *testing.T) {
	repo, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	ctx := context.Background()

	stored, err := repo.AddPhraseRecords(ctx, phrase("disk full", "clear disk"))
	require.NoError(t, err)
	require.Len(t, stored, 1)

	// Point the content index of a different record at the stored one, as
	// a hash collision would.
	other := phrase("network down", "restart router")
	require.NoError(t, backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makePhraseContentKey(stored[0].Id))
		if err != nil {
			return err
		}
		seq, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := tx.Set(makePhraseContentKey(other.ContentID()), seq); err != nil {
			return err
		}
		return tx.Commit()
	}, true))

	added, err := repo.AddPhraseRecords(ctx, other)
	assert.ErrorIs(t, err, storage.ErrIDCollision)
	assert.Empty(t, added)

	count, err := repo.CountPhraseRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Re-adding the genuine record is still a plain duplicate.
	added, err = repo.AddPhraseRecords(ctx, phrase("disk full", "clear disk"))
	require.NoError(t, err)
	assert.Empty(t, added)
}

func TestAddPhraseRecords_Validation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		records []*core.PhraseRecord
		wantErr error
	}{
		{"nil record", []*core.PhraseRecord{nil}, core.ErrInvalidPhraseRecord},
		{"blank phrase", []*core.PhraseRecord{phrase("  ", "x")}, core.ErrEmptyPhrase},
		{"blank resolution", []*core.PhraseRecord{phrase("x", "")}, core.ErrEmptyResolution},
		{"one bad record aborts batch", []*core.PhraseRecord{phrase("ok", "ok"), phrase("", "x")}, core.ErrEmptyPhrase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.AddPhraseRecords(ctx, tt.records...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	count, err := repo.CountPhraseRecords(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetPhraseRecords_InsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	empty, err := repo.GetPhraseRecords(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	// Enough records to cross the sequence lease boundary.
	want := make([]string, 0, 250)
	for batch := range 5 {
		records := make([]*core.PhraseRecord, 0, 50)
		for i := range 50 {
			p := fmt.Sprintf("error %03d", batch*50+i)
			want = append(want, p)
			records = append(records, phrase(p, "fix"))
		}
		_, err := repo.AddPhraseRecords(ctx, records...)
		require.NoError(t, err)
	}

	all, err := repo.GetPhraseRecords(ctx)
	require.NoError(t, err)
	got := make([]string, len(all))
	for i, record := range all {
		got[i] = record.Phrase
	}
	assert.Equal(t, want, got)
}

func TestListPhraseRecords_Pages(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := range 7 {
		_, err := repo.AddPhraseRecords(ctx, phrase(fmt.Sprintf("p%d", i), "r"))
		require.NoError(t, err)
	}

	var (
		cursor uint64
		seen   []string
		pages  int
	)
	for {
		page, next, err := repo.ListPhraseRecords(ctx, cursor, 3)
		require.NoError(t, err)
		if len(page) == 0 {
			assert.Equal(t, cursor, next)
			break
		}
		assert.Greater(t, next, cursor)
		for _, record := range page {
			seen = append(seen, record.Phrase)
		}
		cursor = next
		pages++
	}
	assert.Equal(t, 3, pages)
	assert.Equal(t, []string{"p0", "p1", "p2", "p3", "p4", "p5", "p6"}, seen)

	// Records added later are picked up from the saved cursor.
	_, err := repo.AddPhraseRecords(ctx, phrase("p7", "r"))
	require.NoError(t, err)
	page, _, err := repo.ListPhraseRecords(ctx, cursor, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "p7", page[0].Phrase)
}

func TestDeletePhraseRecords(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	added, err := repo.AddPhraseRecords(ctx, phrase("a", "1"), phrase("b", "2"))
	require.NoError(t, err)

	require.NoError(t, repo.DeletePhraseRecords(ctx, added[0].Id))

	_, err = repo.GetPhraseRecord(ctx, added[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	all, err := repo.GetPhraseRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].Phrase)

	err = repo.DeletePhraseRecords(ctx, added[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// A deleted record can be stored again and goes to the end.
	readded, err := repo.AddPhraseRecords(ctx, phrase("a", "1"))
	require.NoError(t, err)
	require.Len(t, readded, 1)
	all, err = repo.GetPhraseRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", all[1].Phrase)
}

func TestGetPhraseRecord_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetPhraseRecord(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddPhraseRecords_Concurrent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 10 {
				// Conflicting transactions may fail; retry like a caller would.
				for range 5 {
					_, err := repo.AddPhraseRecords(ctx, phrase(fmt.Sprintf("w%d-%d", w, i), "r"))
					if err == nil {
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	count, err := repo.CountPhraseRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, count)
}

func TestCheckpointRepository(t *testing.T) {
	_, checkpoints, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	missing, err := checkpoints.LoadCheckpoint(ctx, "word2vec")
	require.NoError(t, err)
	assert.Nil(t, missing)

	checkpoint := &core.Checkpoint{Name: "word2vec", Cursor: 17, Records: 12}
	require.NoError(t, checkpoints.SaveCheckpoint(ctx, checkpoint))
	assert.False(t, checkpoint.UpdatedAt.IsZero())

	loaded, err := checkpoints.LoadCheckpoint(ctx, "word2vec")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, uint64(17), loaded.Cursor)
	assert.Equal(t, int64(12), loaded.Records)
	assert.True(t, checkpoint.UpdatedAt.Equal(loaded.UpdatedAt))
}
