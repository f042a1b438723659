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


// Package ranking scores a query against a whole corpus and orders the results.
//
// Rank applies one strategy to every phrase record and returns the records
// sorted by descending score. The sort is stable: records with equal scores
// keep their corpus order. Rank never truncates; use Top for that.
//
// RankAll is a separate mode that scores every record under every configured
// strategy and returns the per-strategy scores in corpus order, without
// sorting, since there is no single score to sort by.
//
// Pure strategies are scored concurrently on an ants worker pool. Strategies
// that mutate shared state (see strategy.Sequential) are scored one record at
// a time in corpus order.
package ranking
