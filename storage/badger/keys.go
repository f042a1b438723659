package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/remedy/core"
)

// Key prefixes for different data types
const (
	phraseRecordPrefix  = "phrrec:"
	phraseContentPrefix = "phrcid:"
	phraseRecordSeq     = "phrrecseq"
	checkpointPrefix    = "chkpt:"
)

// makePhraseRecordKey generates the primary key of a record.
// Format: prefix + BigEndian(seq), so iteration follows insertion order.
func makePhraseRecordKey(seq uint64) []byte {
	buf := make([]byte, len(phraseRecordPrefix)+8)
	offset := copy(buf, phraseRecordPrefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// seqFromPhraseRecordKey extracts the sequence number from a primary key.
func seqFromPhraseRecordKey(key []byte) (uint64, error) {
	if len(key) != len(phraseRecordPrefix)+8 {
		return 0, fmt.Errorf("malformed phrase record key %q", key)
	}
	return binary.BigEndian.Uint64(key[len(phraseRecordPrefix):]), nil
}

// makePhraseContentKey generates the content index key of a record.
// Format: prefix + BigEndian(content ID) -> BigEndian(seq)
func makePhraseContentKey(id core.ID) []byte {
	buf := make([]byte, len(phraseContentPrefix)+8)
	offset := copy(buf, phraseContentPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

func encodeSeq(seq uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, seq)
}

func decodeSeq(val []byte) (uint64, error) {
	if len(val) != 8 {
		return 0, fmt.Errorf("malformed sequence value of %d bytes", len(val))
	}
	return binary.BigEndian.Uint64(val), nil
}

// makeCheckpointKey generates a key for consumer checkpoints.
func makeCheckpointKey(name string) []byte {
	return []byte(checkpointPrefix + name)
}
