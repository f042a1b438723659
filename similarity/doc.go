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


// Package similarity scores pairs of vectors with cosine similarity.
//
// Cosine and Cosine32 never return NaN. A vector with zero magnitude (an
// empty bag of words, an all-OOV sentence) or with NaN components scores 0
// against anything, which keeps the ranking sort totally ordered. Results are
// clamped to [-1, 1].
//
// CosineStrict and Cosine32Strict return NaN for those inputs instead, for
// diagnostics that need to tell "no signal" apart from "orthogonal".
package similarity
