// Package metric computes typing accuracy and throughput.
package metric

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// MinimumMinutes replaces a zero elapsed time when computing rates.
const MinimumMinutes = 0.01

// ErrInvalidArgument reports an elapsed time that cannot produce rates.
var ErrInvalidArgument = errors.New("invalid argument")

// EditDistance returns the Levenshtein distance between a and b, counted in
// characters with unit cost for insertion, deletion and substitution.
func EditDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// Accuracy scores typed against reference as a percentage in [0, 100].
// Two empty strings are a perfect match.
func Accuracy(reference, typed string) float64 {
	maxLen := max(utf8.RuneCountInString(reference), utf8.RuneCountInString(typed))
	if maxLen == 0 {
		return 100.0
	}
	dist := EditDistance(reference, typed)
	acc := float64(maxLen-dist) / float64(maxLen) * 100.0
	return math.Min(math.Max(acc, 0), 100)
}

// CountWords counts maximal runs of non-whitespace bytes.
func CountWords(text string) int {
	count := 0
	inWord := false
	for i := 0; i < len(text); i++ {
		if isSpace(text[i]) {
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			count++
		}
	}
	return count
}

// Throughput converts word and sentence counts into per-minute rates.
// Elapsed time is truncated to whole seconds; zero is replaced by
// MinimumMinutes.
func Throughput(words, sentences int, elapsedSeconds float64) (wpm, spm int, err error) {
	minutes, err := Minutes(elapsedSeconds)
	if err != nil {
		return 0, 0, err
	}
	return int(float64(words) / minutes), int(float64(sentences) / minutes), nil
}

// Minutes converts elapsed seconds into the minutes used for rates.
func Minutes(elapsedSeconds float64) (float64, error) {
	if math.IsNaN(elapsedSeconds) || math.IsInf(elapsedSeconds, 0) {
		return 0, fmt.Errorf("%w: elapsed time %v is not finite", ErrInvalidArgument, elapsedSeconds)
	}
	if elapsedSeconds < 0 {
		return 0, fmt.Errorf("%w: elapsed time %v is negative", ErrInvalidArgument, elapsedSeconds)
	}
	minutes := math.Trunc(elapsedSeconds) / 60.0
	if minutes == 0 {
		minutes = MinimumMinutes
	}
	return minutes, nil
}

// isSpace matches the C locale isspace set.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
