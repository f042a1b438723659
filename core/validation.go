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


package core

import (
	"fmt"
	"strings"
)

// ValidatePhraseRecord validates a PhraseRecord according to domain rules.
//
// Validation rules:
//   - Phrase must contain something other than whitespace
//   - Resolution must contain something other than whitespace
//
// NOT validated (populated by the store):
//   - ID (derived from content on insert)
//   - InsertedAt
func ValidatePhraseRecord(record *PhraseRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidPhraseRecord)
	}

	if strings.TrimSpace(record.Phrase) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPhraseRecord, ErrEmptyPhrase)
	}

	if strings.TrimSpace(record.Resolution) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPhraseRecord, ErrEmptyResolution)
	}

	return nil
}
