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

import "errors"

// Domain validation errors
var (
	// ErrInvalidPhraseRecord indicates a PhraseRecord failed validation.
	ErrInvalidPhraseRecord = errors.New("invalid phrase record")

	// ErrEmptyPhrase indicates the Phrase field is blank.
	ErrEmptyPhrase = errors.New("phrase cannot be empty")

	// ErrEmptyResolution indicates the Resolution field is blank.
	ErrEmptyResolution = errors.New("resolution cannot be empty")

	// ErrInvalidCheckpoint indicates a Checkpoint without a name.
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")

	// ErrUnknownStrategy indicates a strategy identifier outside the known set.
	ErrUnknownStrategy = errors.New("unknown strategy")
)
