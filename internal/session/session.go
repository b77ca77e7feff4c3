// Package session runs one typing test and turns it into a record.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/typetest/internal/metric"
	"github.com/verte-zerg/typetest/internal/model"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Input collects what the user typed for one sentence.
type Input interface {
	ReadSentence(ctx context.Context, index, total int, sentence string) (string, error)
}

// Saver persists a finished record.
type Saver interface {
	Save(r model.Record) error
}

// Pair is one reference sentence and the text typed for it.
type Pair struct {
	Reference string
	Typed     string
}

// Score computes the metrics of a finished attempt and builds its record.
// References and typed texts are each concatenated with a trailing space
// after every sentence before comparison.
func Score(b *model.Builder, pairs []Pair, elapsedSeconds float64, now time.Time) (model.Record, error) {
	var refs, typed strings.Builder
	for _, p := range pairs {
		refs.WriteString(p.Reference)
		refs.WriteByte(' ')
		typed.WriteString(p.Typed)
		typed.WriteByte(' ')
	}
	words := metric.CountWords(refs.String())
	wpm, spm, err := metric.Throughput(words, len(pairs), elapsedSeconds)
	if err != nil {
		return model.Record{}, err
	}
	acc := metric.Accuracy(refs.String(), typed.String())
	return b.Rates(wpm, spm).Accuracy(acc).Timestamp(now).Build(), nil
}

// PadPairs pairs every sentence with its typed text. Sentences past the end
// of typed count as typed empty, which is how an attempt ended early is scored.
func PadPairs(sentences, typed []string) []Pair {
	pairs := make([]Pair, len(sentences))
	for i, s := range sentences {
		pairs[i].Reference = s
		if i < len(typed) {
			pairs[i].Typed = typed[i]
		}
	}
	return pairs
}

// Runner drives a line-oriented test through an Input.
type Runner struct {
	clock Clock
	input Input
	saver Saver
}

// NewRunner constructs a Runner.
func NewRunner(clock Clock, input Input, saver Saver) *Runner {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Runner{clock: clock, input: input, saver: saver}
}

// Run presents each sentence, scores the attempt and saves it. When saving
// fails the scored record is still returned along with the error.
func (r *Runner) Run(ctx context.Context, b *model.Builder, sentences []string) (model.Record, error) {
	if len(sentences) == 0 {
		return model.Record{}, fmt.Errorf("no sentences to type")
	}
	start := r.clock.Now()
	pairs := make([]Pair, 0, len(sentences))
	for i, sentence := range sentences {
		if err := ctx.Err(); err != nil {
			return model.Record{}, err
		}
		typed, err := r.input.ReadSentence(ctx, i, len(sentences), sentence)
		if err != nil {
			return model.Record{}, fmt.Errorf("failed to read sentence %d: %w", i+1, err)
		}
		pairs = append(pairs, Pair{Reference: sentence, Typed: typed})
	}
	end := r.clock.Now()

	rec, err := Score(b, pairs, end.Sub(start).Seconds(), end)
	if err != nil {
		return model.Record{}, err
	}
	if r.saver != nil {
		if err := r.saver.Save(rec); err != nil {
			return rec, fmt.Errorf("failed to save test: %w", err)
		}
	}
	return rec, nil
}
