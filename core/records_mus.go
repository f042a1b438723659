package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// IDMUS serializes IDs as varints.
var IDMUS mus.Serializer[ID] = idMUS{}

// PhraseRecordMUS serializes PhraseRecords field by field:
// Id, Phrase, Resolution, InsertedAt (unix microseconds).
var PhraseRecordMUS mus.Serializer[PhraseRecord] = phraseRecordMUS{}

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type phraseRecordMUS struct{}

func (phraseRecordMUS) Marshal(v PhraseRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Phrase, bs[n:])
	n += ord.String.Marshal(v.Resolution, bs[n:])
	n += varint.Int64.Marshal(timeToMicros(v.InsertedAt), bs[n:])
	return
}

func (phraseRecordMUS) Unmarshal(bs []byte) (v PhraseRecord, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Phrase, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Resolution, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt = microsToTime(micros)
	return
}

func (phraseRecordMUS) Size(v PhraseRecord) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Phrase)
	size += ord.String.Size(v.Resolution)
	return size + varint.Int64.Size(timeToMicros(v.InsertedAt))
}

func (phraseRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	for range 2 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// Zero times round-trip as zero times rather than the Unix epoch.
func timeToMicros(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microsToTime(micros int64) time.Time {
	if micros == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros).UTC()
}

// CheckpointMUS serializes Checkpoints: Name, Cursor, Records, UpdatedAt.
var CheckpointMUS mus.Serializer[Checkpoint] = checkpointMUS{}

type checkpointMUS struct{}

func (checkpointMUS) Marshal(v Checkpoint, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += varint.Uint64.Marshal(v.Cursor, bs[n:])
	n += varint.Int64.Marshal(v.Records, bs[n:])
	n += varint.Int64.Marshal(timeToMicros(v.UpdatedAt), bs[n:])
	return
}

func (checkpointMUS) Unmarshal(bs []byte) (v Checkpoint, n int, err error) {
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Cursor, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Records, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt = microsToTime(micros)
	return
}

func (checkpointMUS) Size(v Checkpoint) (size int) {
	size = ord.String.Size(v.Name)
	size += varint.Uint64.Size(v.Cursor)
	size += varint.Int64.Size(v.Records)
	return size + varint.Int64.Size(timeToMicros(v.UpdatedAt))
}

func (checkpointMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Uint64.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for range 2 {
		n1, err = varint.Int64.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
