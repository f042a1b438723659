package glove

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/viterin/vek/vek32"
)

// maxLineSize bounds a single table line; 300-d tables stay well under it.
const maxLineSize = 1 << 20

// Table maps words to fixed-width vectors.
type Table struct {
	dim     int
	vectors map[string][]float32
	zero    []float32
	skipped int
}

// Option configures a load.
type Option func(*loadOptions)

type loadOptions struct {
	dim    int
	logger *slog.Logger
}

// WithDim fixes the expected vector width. Lines of any other width are skipped.
// By default the width is taken from the first well-formed line.
func WithDim(dim int) Option {
	return func(o *loadOptions) {
		o.dim = dim
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *loadOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// Load reads a table from a file.
func Load(path string, opts ...Option) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, opts...)
}

// Read parses a table from r. Malformed lines are skipped. Without WithDim
// the width is the most common component count in the source, so a header
// or a truncated first line cannot fix it. A source where skipped lines
// outnumber the loaded ones fails with ErrMalformedTable.
func Read(r io.Reader, opts ...Option) (*Table, error) {
	options := &loadOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger.With("component", "glove")

	var entries []entry
	widths := make(map[int]int)
	rejected := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, ok := parseLine(line)
		if !ok || (options.dim > 0 && len(e.vector) != options.dim) {
			rejected++
			logger.Debug("skipping malformed embedding line", "line", lineNo)
			continue
		}
		e.line = lineNo
		entries = append(entries, e)
		widths[len(e.vector)]++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading embedding table: %w", err)
	}

	dim := options.dim
	if dim == 0 {
		dim = commonWidth(entries, widths)
	}
	t := &Table{
		dim:     dim,
		vectors: make(map[string][]float32, widths[dim]),
		skipped: rejected,
	}
	for _, e := range entries {
		if len(e.vector) != dim {
			t.skipped++
			logger.Debug("skipping embedding line with unexpected width", "line", e.line, "width", len(e.vector), "dim", dim)
			continue
		}
		t.vectors[e.word] = e.vector
	}
	if len(t.vectors) == 0 {
		return nil, ErrEmptyTable
	}
	if t.skipped > len(t.vectors) {
		return nil, fmt.Errorf("%w: %d lines skipped, %d loaded", ErrMalformedTable, t.skipped, len(t.vectors))
	}

	t.zero = make([]float32, t.dim)
	logger.Info("loaded embedding table", "words", len(t.vectors), "dim", t.dim, "skipped", t.skipped)
	return t, nil
}

type entry struct {
	word   string
	vector []float32
	line   int
}

// parseLine splits "<word> <d1> ... <dN>".
func parseLine(line string) (entry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return entry{}, false
	}
	vector := make([]float32, len(fields)-1)
	for i, field := range fields[1:] {
		v, err := strconv.ParseFloat(field, 32)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return entry{}, false
		}
		vector[i] = float32(v)
	}
	return entry{word: fields[0], vector: vector}, true
}

// commonWidth returns the most frequent vector width. Ties go to the width
// seen first.
func commonWidth(entries []entry, widths map[int]int) int {
	best := 0
	for _, e := range entries {
		w := len(e.vector)
		if widths[w] > widths[best] {
			best = w
		}
	}
	return best
}

// New builds a table from an in-memory map. Every vector must have width dim.
func New(dim int, vectors map[string][]float32) (*Table, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{
		dim:     dim,
		vectors: make(map[string][]float32, len(vectors)),
		zero:    make([]float32, dim),
	}
	for word, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: %q has %d components, want %d", ErrDimensionMismatch, word, len(v), dim)
		}
		t.vectors[word] = append([]float32(nil), v...)
	}
	return t, nil
}

// Dim returns the vector width.
func (t *Table) Dim() int {
	return t.dim
}

// Len returns the number of words in the table.
func (t *Table) Len() int {
	return len(t.vectors)
}

// Skipped returns how many source lines were rejected during the load.
func (t *Table) Skipped() int {
	return t.skipped
}

// Contains reports whether word has a vector.
func (t *Table) Contains(word string) bool {
	_, ok := t.vectors[word]
	return ok
}

// Lookup returns the vector for word, or a zero vector of width Dim for OOV words.
// The returned slice must not be modified.
func (t *Table) Lookup(word string) []float32 {
	if v, ok := t.vectors[word]; ok {
		return v
	}
	return t.zero
}

// Mean averages the vectors of every token, counting OOV tokens as zero
// vectors. An empty token slice yields a vector of NaNs.
func (t *Table) Mean(tokens []string) []float32 {
	mean := make([]float32, t.dim)
	if len(tokens) == 0 {
		for i := range mean {
			mean[i] = float32(math.NaN())
		}
		return mean
	}
	for _, token := range tokens {
		vek32.Add_Inplace(mean, t.Lookup(token))
	}
	vek32.MulNumber_Inplace(mean, 1/float32(len(tokens)))
	return mean
}
