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


// Package word2vec implements a small, incrementally trainable word
// embedding model (CBOW with negative sampling).
//
// A Model is first trained on every stored phrase. Afterwards queries can
// extend it: Update adds unseen tokens to the vocabulary and runs a training
// pass over the query sentence alone, so new failure vocabulary gets vectors
// without retraining from scratch.
//
// Initial vectors are derived from the word and the model seed, and the
// sampling RNG is seeded from the seed and the update counter, so two models
// fed the same sentences in the same order end up with identical weights.
//
// A Model is not safe for concurrent use. Callers that share one across
// goroutines must serialize every call, reads included, because Update
// rewrites vectors in place.
//
// # Persistence
//
// WriteTo and ReadFrom use a compact binary format (a magic header followed
// by a mus-go encoded snapshot). SaveFile writes through a temporary file and
// a rename so a crash never leaves a truncated model behind.
package word2vec
