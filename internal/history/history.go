// Package history keeps the append-only log of completed tests.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/record"
)

// ErrIO reports a failure to read or append the history log.
var ErrIO = errors.New("history io failure")

// LoadError lists every line that failed to decode during a strict open.
type LoadError struct {
	Path  string
	Lines []record.MalformedError
}

func (e *LoadError) Error() string {
	nums := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		nums[i] = fmt.Sprint(l.Line)
	}
	return fmt.Sprintf("%s: %d malformed line(s): %s", e.Path, len(e.Lines), strings.Join(nums, ", "))
}

// Unwrap makes errors.Is(err, record.ErrMalformedRecord) hold.
func (e *LoadError) Unwrap() error {
	return record.ErrMalformedRecord
}

// Store is the in-memory mirror of a history log file.
type Store struct {
	path    string
	logger  *slog.Logger
	records []model.Record
	skipped []record.MalformedError
}

type options struct {
	logger *slog.Logger
	strict bool
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger used to report skipped lines.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrict makes Open fail when any line is malformed instead of skipping it.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// Open loads the log at path. A missing file is an empty history.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	if path == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	s := &Store{path: path, logger: o.logger}
	if err := s.load(o.strict); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(strict bool) error {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("history log not found, starting empty", "path", s.path)
			return nil
		}
		return fmt.Errorf("%w: open %s: %w", ErrIO, s.path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only log.
			_ = cerr
		}
	}()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		rec, err := record.Decode(line)
		if err != nil {
			var me *record.MalformedError
			if !errors.As(err, &me) {
				return err
			}
			me.Line = lineNo
			s.skipped = append(s.skipped, *me)
			if !strict {
				s.logger.Warn("skipping malformed history line", "path", s.path, "line", lineNo, "reason", me.Reason)
			}
			continue
		}
		s.records = append(s.records, rec)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrIO, s.path, err)
	}
	if strict && len(s.skipped) > 0 {
		return &LoadError{Path: s.path, Lines: s.skipped}
	}
	s.logger.Debug("history loaded", "path", s.path, "records", len(s.records), "skipped", len(s.skipped))
	return nil
}

// Save appends r to the log and then to the in-memory list. When the write
// fails the in-memory list is left unchanged.
func (s *Store) Save(r model.Record) error {
	line := record.Encode(r) + "\n"
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s for append: %w", ErrIO, s.path, err)
	}
	if _, err := file.WriteString(line); err != nil {
		_ = file.Close()
		return fmt.Errorf("%w: append to %s: %w", ErrIO, s.path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, s.path, err)
	}
	s.records = append(s.records, r)
	s.logger.Debug("test saved", "path", s.path, "user", r.UserName, "wpm", r.WPM)
	return nil
}

// ListAll returns every record in save order.
func (s *Store) ListAll() []model.Record {
	out := make([]model.Record, len(s.records))
	copy(out, s.records)
	return out
}

// ListForUser returns the records whose user name equals name exactly.
func (s *Store) ListForUser(name string) []model.Record {
	var out []model.Record
	for _, r := range s.records {
		if r.UserName == name {
			out = append(out, r)
		}
	}
	return out
}

// Skipped returns the malformed lines ignored while loading.
func (s *Store) Skipped() []record.MalformedError {
	out := make([]record.MalformedError, len(s.skipped))
	copy(out, s.skipped)
	return out
}

// Len returns the number of loaded and saved records.
func (s *Store) Len() int {
	return len(s.records)
}

// Path returns the log file path.
func (s *Store) Path() string {
	return s.path
}
