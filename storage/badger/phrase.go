package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/storage"
)

// PhraseRepository implements storage.PhraseRepository for BadgerDB.
type PhraseRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.PhraseRepository = (*PhraseRepository)(nil)

// NewPhraseRepository creates a new PhraseRepository.
func NewPhraseRepository(backend *Backend) (storage.PhraseRepository, error) {
	seq, err := backend.GetSequence(phraseRecordSeq)
	if err != nil {
		return nil, err
	}

	return &PhraseRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// Close releases the insertion sequence.
func (r *PhraseRepository) Close() error {
	return r.seq.Release()
}

// WithTransaction delegates to the backend.
func (r *PhraseRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddPhraseRecords adds records that are not stored yet.
func (r *PhraseRepository) AddPhraseRecords(ctx context.Context, records ...*core.PhraseRecord) ([]*core.PhraseRecord, error) {
	for _, record := range records {
		if err := core.ValidatePhraseRecord(record); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var added []*core.PhraseRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		seen := make(map[core.ID]*core.PhraseRecord, len(records))
		for _, record := range records {
			stored := *record
			stored.Id = stored.ContentID()
			if prev, ok := seen[stored.Id]; ok {
				if !sameContent(prev, &stored) {
					return fmt.Errorf("%w: %016x", storage.ErrIDCollision, uint64(stored.Id))
				}
				continue
			}
			seen[stored.Id] = &stored

			contentKey := makePhraseContentKey(stored.Id)
			existing, err := readIndexedRecord(tx, contentKey)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			if existing != nil {
				if !sameContent(existing, &stored) {
					return fmt.Errorf("%w: %016x", storage.ErrIDCollision, uint64(stored.Id))
				}
				continue
			}

			seq, err := r.nextSeq()
			if err != nil {
				return err
			}
			stored.InsertedAt = time.Now().UTC().Truncate(time.Microsecond)

			if err := tx.Set(makePhraseRecordKey(seq), storage.MarshalPhraseRecord(&stored)); err != nil {
				return err
			}
			if err := tx.Set(contentKey, encodeSeq(seq)); err != nil {
				return err
			}
			added = append(added, &stored)
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return added, nil
}

// readIndexedRecord follows a content index entry to its record. It returns
// storage.ErrNotFound when the content is not indexed.
func readIndexedRecord(tx *badger.Txn, contentKey []byte) (*core.PhraseRecord, error) {
	seq, err := readSeq(tx, contentKey)
	if err != nil {
		return nil, err
	}
	record, err := readPhraseRecord(tx, makePhraseRecordKey(seq))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: index points at missing record %d", storage.ErrNotFound, seq)
	}
	return record, nil
}

func sameContent(a, b *core.PhraseRecord) bool {
	return a.Phrase == b.Phrase && a.Resolution == b.Resolution
}

// DeletePhraseRecords removes records by their IDs.
func (r *PhraseRepository) DeletePhraseRecords(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			contentKey := makePhraseContentKey(id)
			seq, err := readSeq(tx, contentKey)
			if err != nil {
				return err
			}
			if err := tx.Delete(makePhraseRecordKey(seq)); err != nil {
				return err
			}
			if err := tx.Delete(contentKey); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetPhraseRecord retrieves a single record by ID.
func (r *PhraseRepository) GetPhraseRecord(ctx context.Context, id core.ID) (*core.PhraseRecord, error) {
	var result *core.PhraseRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readIndexedRecord(tx, makePhraseContentKey(id))
		return err
	}, false)
	return result, err
}

// GetPhraseRecords returns every record in insertion order.
func (r *PhraseRepository) GetPhraseRecords(ctx context.Context) ([]*core.PhraseRecord, error) {
	records, _, err := r.ListPhraseRecords(ctx, 0, 0)
	if records == nil && err == nil {
		records = []*core.PhraseRecord{}
	}
	return records, err
}

// ListPhraseRecords returns up to limit records stored after cursor.
// A limit of zero or less means no limit.
func (r *PhraseRepository) ListPhraseRecords(ctx context.Context, cursor uint64, limit int) ([]*core.PhraseRecord, uint64, error) {
	var results []*core.PhraseRecord
	next := cursor
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(phraseRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(makePhraseRecordKey(cursor + 1)); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			item := iter.Item()
			seq, err := seqFromPhraseRecordKey(item.Key())
			if err != nil {
				return err
			}
			var record *core.PhraseRecord
			if err := item.Value(func(val []byte) error {
				var unmarshalErr error
				record, unmarshalErr = storage.UnmarshalPhraseRecord(val)
				return unmarshalErr
			}); err != nil {
				return err
			}
			results = append(results, record)
			next = seq
		}
		return nil
	}, false)
	if err != nil {
		return nil, cursor, err
	}
	return results, next, nil
}

// CountPhraseRecords returns the number of stored records.
func (r *PhraseRepository) CountPhraseRecords(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(phraseRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Helper methods

// nextSeq returns the next insertion sequence number.
// BadgerDB sequences can return 0 on first call; 0 is reserved as the
// "from the beginning" cursor, so it is skipped.
func (r *PhraseRepository) nextSeq() (uint64, error) {
	seq, err := r.seq.Next()
	if err != nil {
		return 0, err
	}
	if seq == 0 {
		return r.seq.Next()
	}
	return seq, nil
}

// readSeq resolves a content index key to a sequence number.
func readSeq(tx *badger.Txn, contentKey []byte) (uint64, error) {
	item, err := tx.Get(contentKey)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, storage.ErrNotFound
		}
		return 0, err
	}
	var seq uint64
	err = item.Value(func(val []byte) error {
		var decodeErr error
		seq, decodeErr = decodeSeq(val)
		return decodeErr
	})
	return seq, err
}

// readPhraseRecord reads a record from the transaction.
func readPhraseRecord(tx *badger.Txn, key []byte) (*core.PhraseRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var record *core.PhraseRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalPhraseRecord(val)
		return unmarshalErr
	})
	return record, err
}
