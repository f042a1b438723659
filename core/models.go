package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Phrase records use content-based IDs so exact duplicates collide.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// PhraseRecord pairs a known error/failure phrase with its resolution.
// Records are immutable once stored.
type PhraseRecord struct {
	Id         ID
	Phrase     string
	Resolution string
	InsertedAt time.Time // When the record was inserted into the store
}

// Key returns the string the record's content ID is derived from.
// The unit separator keeps ("a b", "c") and ("a", "b c") apart.
func (r *PhraseRecord) Key() string {
	return r.Phrase + "\x1f" + r.Resolution
}

// ContentID returns the content-based ID of the record.
func (r *PhraseRecord) ContentID() ID {
	return IDFromContent(r.Key())
}

// RankedResult is one corpus entry scored against a query.
type RankedResult struct {
	Phrase     string
	Resolution string
	Score      float64
}

// StrategyScores maps each strategy to the score it produced for one comparison.
type StrategyScores map[StrategyID]float64

// MultiRankedResult is one corpus entry scored under every strategy.
type MultiRankedResult struct {
	Phrase     string
	Resolution string
	Scores     StrategyScores
}
