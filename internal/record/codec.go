// Package record encodes test records as single log lines.
package record

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/typetest/internal/model"
)

// Delimiter separates fields in an encoded record.
const Delimiter = '|'

const fieldCount = 7

// ErrMalformedRecord reports a line that does not decode into a record.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedError describes why a line failed to decode.
type MalformedError struct {
	// Line is the 1-based line number in the log, 0 when unknown.
	Line   int
	Text   string
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, ErrMalformedRecord, e.Reason)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedRecord, e.Reason)
}

// Unwrap makes errors.Is(err, ErrMalformedRecord) hold.
func (e *MalformedError) Unwrap() error {
	return ErrMalformedRecord
}

// Encode renders r as one line without a terminator. Accuracy keeps two
// decimals. Backslash, the delimiter and line breaks inside text fields are
// escaped so the line always splits back into seven fields.
func Encode(r model.Record) string {
	var b strings.Builder
	writeText(&b, r.UserName)
	b.WriteByte(Delimiter)
	writeText(&b, string(r.Difficulty))
	b.WriteByte(Delimiter)
	writeText(&b, r.Language)
	b.WriteByte(Delimiter)
	b.WriteString(strconv.Itoa(r.WPM))
	b.WriteByte(Delimiter)
	b.WriteString(strconv.Itoa(r.SPM))
	b.WriteByte(Delimiter)
	b.WriteString(strconv.FormatFloat(r.Accuracy, 'f', 2, 64))
	b.WriteByte(Delimiter)
	writeText(&b, r.Timestamp)
	return b.String()
}

// Decode parses a line produced by Encode.
func Decode(line string) (model.Record, error) {
	fields := split(line)
	if len(fields) != fieldCount {
		return model.Record{}, malformed(line, fmt.Sprintf("expected %d fields, got %d", fieldCount, len(fields)))
	}
	wpm, err := parseCount(fields[3])
	if err != nil {
		return model.Record{}, malformed(line, fmt.Sprintf("wpm: %v", err))
	}
	spm, err := parseCount(fields[4])
	if err != nil {
		return model.Record{}, malformed(line, fmt.Sprintf("spm: %v", err))
	}
	acc, err := strconv.ParseFloat(strings.TrimSpace(fields[5]), 64)
	if err != nil {
		return model.Record{}, malformed(line, fmt.Sprintf("accuracy: %v", err))
	}
	if math.IsNaN(acc) || acc < 0 || acc > 100 {
		return model.Record{}, malformed(line, fmt.Sprintf("accuracy %v out of range", acc))
	}
	return model.Record{
		UserName:   fields[0],
		Difficulty: model.Difficulty(fields[1]),
		Language:   fields[2],
		WPM:        wpm,
		SPM:        spm,
		Accuracy:   acc,
		Timestamp:  fields[6],
	}, nil
}

func malformed(line, reason string) *MalformedError {
	return &MalformedError{Text: line, Reason: reason}
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}

func writeText(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case Delimiter:
			b.WriteString(`\|`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
}

// split cuts line at unescaped delimiters and unescapes each field. A
// backslash that starts no known escape is kept as text.
func split(line string) []string {
	fields := make([]string, 0, fieldCount)
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case Delimiter:
			fields = append(fields, cur.String())
			cur.Reset()
		case '\\':
			if i+1 >= len(line) {
				cur.WriteByte(c)
				continue
			}
			switch line[i+1] {
			case '\\':
				cur.WriteByte('\\')
			case Delimiter:
				cur.WriteByte(Delimiter)
			case 'n':
				cur.WriteByte('\n')
			case 'r':
				cur.WriteByte('\r')
			default:
				// Unescaped backslash from an older log line.
				cur.WriteByte(c)
				continue
			}
			i++
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return fields
}
