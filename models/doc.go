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


// Package models owns the embedding models used for ranking.
//
// A Manager holds the read-only static table and the process-wide
// incremental model. The incremental model is loaded from disk when a
// snapshot exists, otherwise trained on the corpus phrases and written back.
// Every access to it goes through the Manager's lock, so the Manager can be
// handed to strategy.NewIncremental directly.
package models
