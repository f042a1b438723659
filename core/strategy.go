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

// StrategyID identifies a vector representation strategy.
type StrategyID int

const (
	// StrategyBoW compares per-pair bag-of-words count vectors.
	StrategyBoW StrategyID = iota + 1
	// StrategyGloVe compares averaged static pretrained word vectors.
	StrategyGloVe
	// StrategyWord2Vec compares averaged vectors from the incrementally trained model.
	StrategyWord2Vec
)

// Strategies lists every strategy in canonical order.
var Strategies = []StrategyID{StrategyBoW, StrategyGloVe, StrategyWord2Vec}

// String returns the canonical strategy name.
func (s StrategyID) String() string {
	switch s {
	case StrategyBoW:
		return "BoW"
	case StrategyGloVe:
		return "GloVe"
	case StrategyWord2Vec:
		return "Word2Vec"
	default:
		return fmt.Sprintf("StrategyID(%d)", int(s))
	}
}

// Valid reports whether s is one of the known strategies.
func (s StrategyID) Valid() bool {
	return s >= StrategyBoW && s <= StrategyWord2Vec
}

// ParseStrategy converts a strategy name into a StrategyID.
// Matching is case-insensitive.
func ParseStrategy(name string) (StrategyID, error) {
	for _, id := range Strategies {
		if strings.EqualFold(name, id.String()) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// ValidateStrategy returns ErrUnknownStrategy for values outside the enumeration.
func ValidateStrategy(s StrategyID) error {
	if !s.Valid() {
		return fmt.Errorf("%w: value %d", ErrUnknownStrategy, int(s))
	}
	return nil
}
