// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/remedy/core"
	"github.com/poiesic/remedy/storage"
)

// CheckpointRepository keeps the named corpus cursors of background
// consumers such as the model retrainer.
type CheckpointRepository struct {
	backend *Backend
}

var _ storage.CheckpointRepository = (*CheckpointRepository)(nil)

// NewCheckpointRepository creates a CheckpointRepository on backend.
func NewCheckpointRepository(backend *Backend) *CheckpointRepository {
	return &CheckpointRepository{backend: backend}
}

// SaveCheckpoint stores checkpoint under its Name and stamps UpdatedAt.
// A blank name is rejected with core.ErrInvalidCheckpoint.
func (r *CheckpointRepository) SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error {
	if checkpoint == nil || strings.TrimSpace(checkpoint.Name) == "" {
		return fmt.Errorf("%w: name is required", core.ErrInvalidCheckpoint)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	stamped := *checkpoint
	stamped.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeCheckpointKey(stamped.Name), storage.MarshalCheckpoint(&stamped)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return err
	}
	checkpoint.UpdatedAt = stamped.UpdatedAt
	return nil
}

// LoadCheckpoint returns the checkpoint stored under name, or nil when the
// consumer has never saved one.
func (r *CheckpointRepository) LoadCheckpoint(ctx context.Context, name string) (*core.Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var checkpoint *core.Checkpoint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCheckpointKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := storage.UnmarshalCheckpoint(val)
			if err != nil {
				return err
			}
			if decoded.Name != name {
				return fmt.Errorf("%w: checkpoint %q stored under %q", storage.ErrSerializationFailed, decoded.Name, name)
			}
			checkpoint = decoded
			return nil
		})
	}, false)
	return checkpoint, err
}
