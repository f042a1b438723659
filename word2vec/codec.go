package word2vec

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

const (
	formatMagic   = "RW2V"
	formatVersion = 1
)

// WriteTo writes a binary snapshot of the model to w.
func (m *Model) WriteTo(w io.Writer) (int64, error) {
	bs := make([]byte, len(formatMagic)+1+m.size())
	n := copy(bs, formatMagic)
	bs[n] = formatVersion
	n++
	n += m.marshal(bs[n:])

	written, err := w.Write(bs[:n])
	return int64(written), err
}

// ReadFrom replaces the model's state with a snapshot read from r.
func (m *Model) ReadFrom(r io.Reader) (int64, error) {
	bs, err := io.ReadAll(r)
	if err != nil {
		return int64(len(bs)), err
	}
	if len(bs) < len(formatMagic)+1 || !bytes.Equal(bs[:len(formatMagic)], []byte(formatMagic)) {
		return int64(len(bs)), fmt.Errorf("%w: bad header", ErrCorruptModel)
	}
	if v := bs[len(formatMagic)]; v != formatVersion {
		return int64(len(bs)), fmt.Errorf("%w: unsupported version %d", ErrCorruptModel, v)
	}

	decoded := &Model{}
	if err := decoded.unmarshal(bs[len(formatMagic)+1:]); err != nil {
		return int64(len(bs)), fmt.Errorf("%w: %w", ErrCorruptModel, err)
	}
	*m = *decoded
	return int64(len(bs)), nil
}

// SaveFile writes the model to path. The snapshot goes to a temporary file in
// the same directory which is renamed over path once it is complete.
func (m *Model) SaveFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := m.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write model: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move model into place: %w", err)
	}
	return nil
}

// LoadFile reads a model written by SaveFile.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := &Model{}
	if _, err := m.ReadFrom(f); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) size() (size int) {
	size = paramsSize(m.params)
	size += varint.Uint64.Size(m.updates)
	size += varint.Int.Size(len(m.words))
	for i, word := range m.words {
		size += ord.String.Size(word)
		size += varint.Int64.Size(m.counts[i])
		size += 2 * m.params.Dim * raw.Float32.Size(0)
	}
	size += varint.Int.Size(len(m.pending))
	for word, count := range m.pending {
		size += ord.String.Size(word)
		size += varint.Int64.Size(count)
	}
	return
}

func (m *Model) marshal(bs []byte) (n int) {
	n = marshalParams(m.params, bs)
	n += varint.Uint64.Marshal(m.updates, bs[n:])
	n += varint.Int.Marshal(len(m.words), bs[n:])
	for i, word := range m.words {
		n += ord.String.Marshal(word, bs[n:])
		n += varint.Int64.Marshal(m.counts[i], bs[n:])
		for _, f := range m.syn0[i] {
			n += raw.Float32.Marshal(f, bs[n:])
		}
		for _, f := range m.syn1neg[i] {
			n += raw.Float32.Marshal(f, bs[n:])
		}
	}
	n += varint.Int.Marshal(len(m.pending), bs[n:])
	for word, count := range m.pending {
		n += ord.String.Marshal(word, bs[n:])
		n += varint.Int64.Marshal(count, bs[n:])
	}
	return
}

func (m *Model) unmarshal(bs []byte) (err error) {
	var n, n1 int
	if m.params, n, err = unmarshalParams(bs); err != nil {
		return
	}
	if err = m.params.Validate(); err != nil {
		return
	}
	if m.updates, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1

	var words int
	if words, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	// Every word needs at least its vectors, which bounds a sane count.
	if words < 0 || words > len(bs)/(2*m.params.Dim*4) {
		return fmt.Errorf("vocabulary size %d out of range", words)
	}

	m.words = make([]string, 0, words)
	m.index = make(map[string]int, words)
	m.counts = make([]int64, 0, words)
	m.syn0 = make([][]float32, 0, words)
	m.syn1neg = make([][]float32, 0, words)
	for range words {
		var word string
		if word, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		var count int64
		if count, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		var in, out []float32
		if in, n1, err = unmarshalVector(bs[n:], m.params.Dim); err != nil {
			return
		}
		n += n1
		if out, n1, err = unmarshalVector(bs[n:], m.params.Dim); err != nil {
			return
		}
		n += n1
		if _, dup := m.index[word]; dup {
			return fmt.Errorf("duplicate word %q", word)
		}
		m.index[word] = len(m.words)
		m.words = append(m.words, word)
		m.counts = append(m.counts, count)
		m.syn0 = append(m.syn0, in)
		m.syn1neg = append(m.syn1neg, out)
	}

	var pending int
	if pending, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if pending < 0 || pending > len(bs)-n {
		return fmt.Errorf("pending size %d out of range", pending)
	}
	m.pending = make(map[string]int64, pending)
	for range pending {
		var word string
		if word, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		var count int64
		if count, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		m.pending[word] = count
	}
	if n != len(bs) {
		return fmt.Errorf("%d trailing bytes", len(bs)-n)
	}

	m.buildNoise()
	m.reseed()
	return nil
}

func unmarshalVector(bs []byte, dim int) (v []float32, n int, err error) {
	v = make([]float32, dim)
	var n1 int
	for i := range v {
		if v[i], n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
		if math.IsNaN(float64(v[i])) || math.IsInf(float64(v[i]), 0) {
			return nil, n, fmt.Errorf("non-finite weight")
		}
	}
	return
}

func paramsSize(p Params) int {
	return varint.Int.Size(p.Dim) +
		varint.Int.Size(p.Window) +
		varint.Int.Size(p.Negative) +
		varint.Int.Size(p.Epochs) +
		varint.Int.Size(p.MinCount) +
		raw.Float32.Size(p.Alpha) +
		raw.Float32.Size(p.MinAlpha) +
		varint.Uint64.Size(p.Seed)
}

func marshalParams(p Params, bs []byte) (n int) {
	for _, v := range [...]int{p.Dim, p.Window, p.Negative, p.Epochs, p.MinCount} {
		n += varint.Int.Marshal(v, bs[n:])
	}
	n += raw.Float32.Marshal(p.Alpha, bs[n:])
	n += raw.Float32.Marshal(p.MinAlpha, bs[n:])
	n += varint.Uint64.Marshal(p.Seed, bs[n:])
	return
}

func unmarshalParams(bs []byte) (p Params, n int, err error) {
	var n1 int
	for _, dst := range [...]*int{&p.Dim, &p.Window, &p.Negative, &p.Epochs, &p.MinCount} {
		if *dst, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
			return
		}
		n += n1
	}
	if p.Alpha, n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if p.MinAlpha, n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	p.Seed, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	return
}
