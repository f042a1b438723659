// Package logscan picks failure lines out of log output so they can be used
// as ranking queries.
package logscan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"regexp"
	"strings"
)

// maxLineSize bounds a single log line.
const maxLineSize = 1 << 20

// failurePattern matches lines that report an error or failure.
var failurePattern = regexp.MustCompile(`(?i)(error|failure|failed)`)

// Match reports whether line reports an error or failure.
func Match(line string) bool {
	return failurePattern.MatchString(line)
}

// Seq yields the trimmed failure lines of r in order. Iteration stops at the
// first read error, which is yielded with an empty line.
func Seq(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := scanner.Text()
			if !Match(line) {
				continue
			}
			if !yield(strings.TrimSpace(line), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", err)
		}
	}
}

// Scan returns the trimmed failure lines of r.
func Scan(r io.Reader) ([]string, error) {
	lines := []string{}
	for line, err := range Seq(r) {
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ScanFile returns the trimmed failure lines of the file at path.
func ScanFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("log file %q: %w", path, err)
		}
		return nil, err
	}
	defer f.Close()
	return Scan(f)
}
