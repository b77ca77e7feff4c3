// Package corpus provides the sentences presented during a test.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/typetest/internal/model"
)

var builtin = map[model.Difficulty][]string{
	model.Easy: {
		"The cat sat on the mat.",
		"I love to code every day.",
		"The sun is shining bright.",
		"She reads books at night.",
		"We play games on weekends.",
	},
	model.Medium: {
		"Programming requires logical thinking and problem solving skills.",
		"The quick brown fox jumps over the lazy sleeping dog.",
		"Technology advances rapidly in the modern digital world.",
		"Practice makes perfect when learning new programming languages.",
		"Artificial intelligence is transforming industries worldwide.",
	},
	model.Hard: {
		"Object-oriented programming encompasses encapsulation, inheritance, and polymorphism fundamentals.",
		"Sophisticated algorithms optimize computational efficiency through strategic data structure implementation.",
		"Comprehensive understanding requires diligent practice, analytical thinking, and continuous improvement.",
		"The exponential growth of technological innovation necessitates perpetual adaptation and learning.",
		"Efficient memory management and algorithmic complexity analysis are crucial for scalable applications.",
	},
}

// Builtin returns a copy of the bundled sentences for d.
func Builtin(d model.Difficulty) []string {
	return append([]string(nil), builtin[d]...)
}

// FileName returns the corpus file name for d inside a corpus directory.
func FileName(d model.Difficulty) string {
	return strings.ToLower(string(d)) + ".txt"
}

// Load returns the sentences for d from dir, or the bundled set when dir is
// empty or holds no file for d.
func Load(dir string, d model.Difficulty) ([]string, error) {
	if dir == "" {
		return requireBuiltin(d)
	}
	path := filepath.Join(dir, FileName(d))
	sentences, err := LoadSentences(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return requireBuiltin(d)
		}
		return nil, fmt.Errorf("failed to load corpus %s: %w", path, err)
	}
	return sentences, nil
}

func requireBuiltin(d model.Difficulty) ([]string, error) {
	sentences := Builtin(d)
	if len(sentences) == 0 {
		return nil, fmt.Errorf("no sentences for difficulty %q", d)
	}
	return sentences, nil
}

// LoadSentences reads one sentence per line from the provided file path.
func LoadSentences(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only corpus.
			_ = cerr
		}
	}()

	var sentences []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sentences = append(sentences, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}
	return sentences, nil
}
