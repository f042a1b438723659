package logscan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Follow watches the file at path and calls fn with every failure line
// appended after Follow starts, like tail -f. A file that shrinks is assumed
// to have been truncated and is read again from the start. When a new file
// is created at path, as log rotation does, the rest of the old file is
// read and the new one is followed from its first line. Follow returns
// when ctx is done, when fn returns an error, or when watching fails.
func Follow(ctx context.Context, path string, fn func(line string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { file.Close() }()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating log watcher: %w", err)
	}
	defer watcher.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}
	offset := stat.Size()
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek log file: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching log dir: %w", err)
	}

	var pending []byte
	buf := make([]byte, 4096)
	readAvailable := func() error {
		if stat, err := file.Stat(); err == nil && stat.Size() < offset {
			if _, err := file.Seek(0, io.SeekStart); err != nil {
				return fmt.Errorf("seek log file: %w", err)
			}
			offset = 0
			pending = pending[:0]
		}
		for {
			n, err := file.Read(buf)
			if n > 0 {
				offset += int64(n)
				pending = append(pending, buf[:n]...)
				if emitErr := emitLines(&pending, fn); emitErr != nil {
					return emitErr
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := readAvailable(); err != nil {
				return err
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			rotated, err := os.Open(path)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return fmt.Errorf("reopening log file: %w", err)
			}
			file.Close()
			file = rotated
			offset = 0
			pending = pending[:0]
			if err := readAvailable(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("log watcher error: %w", err)
		}
	}
}

// emitLines passes each complete line in pending to fn and keeps the
// unterminated tail.
func emitLines(pending *[]byte, fn func(string) error) error {
	for {
		i := bytes.IndexByte(*pending, '\n')
		if i < 0 {
			return nil
		}
		line := string((*pending)[:i])
		*pending = (*pending)[i+1:]
		if !Match(line) {
			continue
		}
		if err := fn(strings.TrimSpace(line)); err != nil {
			return err
		}
	}
}
