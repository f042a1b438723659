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


// Package strategy implements the interchangeable ways of scoring a query
// against a stored phrase.
//
// Every Strategy receives two already normalized token sequences and returns
// a cosine similarity:
//   - BagOfWords counts tokens over the union vocabulary of the pair
//   - Static averages pretrained word vectors, OOV words counting as zero
//   - Incremental averages vectors from a Word2Vec model that learns the
//     query's vocabulary before answering
//
// BagOfWords and Static are safe for concurrent use. Incremental mutates its
// model and serializes every call through a ModelAccess.
package strategy
