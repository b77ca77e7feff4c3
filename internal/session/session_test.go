package session

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typetest/internal/metric"
	"github.com/verte-zerg/typetest/internal/model"
)

type stepClock struct {
	times []time.Time
}

func (c *stepClock) Now() time.Time {
	t := c.times[0]
	if len(c.times) > 1 {
		c.times = c.times[1:]
	}
	return t
}

type scriptedInput struct {
	lines []string
	seen  []string
}

func (s *scriptedInput) ReadSentence(_ context.Context, index, _ int, sentence string) (string, error) {
	s.seen = append(s.seen, sentence)
	return s.lines[index], nil
}

type memorySaver struct {
	saved []model.Record
	err   error
}

func (m *memorySaver) Save(r model.Record) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, r)
	return nil
}

func TestScoreZeroDurationUsesFloor(t *testing.T) {
	now := time.Date(2024, 2, 3, 4, 5, 6, 0, time.Local)
	b := model.NewBuilder().UserName("alice").Difficulty(model.Easy)
	pairs := []Pair{{Reference: "The cat sat on the mat.", Typed: "The cat sat on the mat."}}
	rec, err := Score(b, pairs, 0, now)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if rec.Accuracy != 100.0 {
		t.Fatalf("expected accuracy 100, got %v", rec.Accuracy)
	}
	if rec.WPM != 600 {
		t.Fatalf("expected wpm 600, got %d", rec.WPM)
	}
	if rec.SPM != 100 {
		t.Fatalf("expected spm 100, got %d", rec.SPM)
	}
	if rec.Timestamp != "2024-02-03 04:05:06" {
		t.Fatalf("unexpected timestamp %q", rec.Timestamp)
	}
	if rec.UserName != "alice" || rec.Difficulty != model.Easy || rec.Language != "English" {
		t.Fatalf("builder fields lost: %+v", rec)
	}
}

func TestScoreConcatenatesSentences(t *testing.T) {
	pairs := []Pair{
		{Reference: "abc", Typed: "abd"},
		{Reference: "de", Typed: "de"},
	}
	rec, err := Score(model.NewBuilder(), pairs, 60, time.Now())
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	// "abc de " vs "abd de ": one substitution over seven characters.
	want := metric.Accuracy("abc de ", "abd de ")
	if math.Abs(rec.Accuracy-want) > 1e-9 || math.Abs(rec.Accuracy-600.0/7.0) > 1e-9 {
		t.Fatalf("expected accuracy %v, got %v", want, rec.Accuracy)
	}
	if rec.WPM != 2 || rec.SPM != 2 {
		t.Fatalf("expected 2 wpm and 2 spm, got %d/%d", rec.WPM, rec.SPM)
	}
}

func TestScoreRejectsNegativeElapsed(t *testing.T) {
	_, err := Score(model.NewBuilder(), []Pair{{Reference: "a", Typed: "a"}}, -1, time.Now())
	if !errors.Is(err, metric.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestPadPairs(t *testing.T) {
	pairs := PadPairs([]string{"one", "two", "three"}, []string{"one"})
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	if pairs[0].Typed != "one" || pairs[1].Typed != "" || pairs[2].Typed != "" {
		t.Fatalf("unexpected pairs: %+v", pairs)
	}
	if pairs[2].Reference != "three" {
		t.Fatalf("unexpected reference: %q", pairs[2].Reference)
	}
}

func TestRunnerRunSavesRecord(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
	clock := &stepClock{times: []time.Time{start, start.Add(30 * time.Second)}}
	input := &scriptedInput{lines: []string{"I love to code every day.", "The sun is shining bright."}}
	saver := &memorySaver{}
	runner := NewRunner(clock, input, saver)

	sentences := []string{"I love to code every day.", "The sun is shining bright."}
	rec, err := runner.Run(context.Background(), model.NewBuilder().UserName("bob").Difficulty(model.Easy), sentences)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(input.seen) != 2 {
		t.Fatalf("expected both sentences presented, got %d", len(input.seen))
	}
	if len(saver.saved) != 1 || saver.saved[0] != rec {
		t.Fatalf("expected the record to be saved once, got %+v", saver.saved)
	}
	// 11 words and 2 sentences in half a minute.
	if rec.WPM != 22 || rec.SPM != 4 {
		t.Fatalf("expected 22 wpm and 4 spm, got %d/%d", rec.WPM, rec.SPM)
	}
	if rec.Accuracy != 100 {
		t.Fatalf("expected accuracy 100, got %v", rec.Accuracy)
	}
	if rec.Timestamp != "2024-01-01 12:00:30" {
		t.Fatalf("unexpected timestamp %q", rec.Timestamp)
	}
}

func TestRunnerReturnsRecordOnSaveFailure(t *testing.T) {
	start := time.Now()
	clock := &stepClock{times: []time.Time{start, start.Add(time.Minute)}}
	saveErr := errors.New("disk full")
	runner := NewRunner(clock, &scriptedInput{lines: []string{"x"}}, &memorySaver{err: saveErr})
	rec, err := runner.Run(context.Background(), model.NewBuilder().UserName("carol"), []string{"x"})
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected save error, got %v", err)
	}
	if rec.UserName != "carol" {
		t.Fatalf("expected scored record alongside error, got %+v", rec)
	}
}

func TestRunnerStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	saver := &memorySaver{}
	runner := NewRunner(nil, &scriptedInput{lines: []string{"x"}}, saver)
	if _, err := runner.Run(ctx, model.NewBuilder(), []string{"x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(saver.saved) != 0 {
		t.Fatalf("expected nothing saved")
	}
}

func TestConsoleInput(t *testing.T) {
	in := strings.NewReader("\nfirst line\r\nsecond")
	var out bytes.Buffer
	c := NewConsoleInput(in, &out)
	ctx := context.Background()
	if err := c.WaitReady(ctx); err != nil {
		t.Fatalf("wait ready: %v", err)
	}
	got, err := c.ReadSentence(ctx, 0, 2, "First line.")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "first line" {
		t.Fatalf("unexpected line %q", got)
	}
	got, err = c.ReadSentence(ctx, 1, 2, "Second line.")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "second" {
		t.Fatalf("unexpected line %q", got)
	}
	if !strings.Contains(out.String(), "Sentence 2 of 2:") {
		t.Fatalf("expected prompt in output, got %q", out.String())
	}
	if _, err := c.ReadSentence(ctx, 2, 2, "Extra."); err == nil {
		t.Fatalf("expected error at end of input")
	}
}

func TestConsoleInputAskTrims(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleInput(strings.NewReader("  alice  \n"), &out)
	name, err := c.Ask(context.Background(), "Name: ")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if name != "alice" {
		t.Fatalf("expected trimmed name, got %q", name)
	}
	if out.String() != "Name: " {
		t.Fatalf("unexpected prompt %q", out.String())
	}
}
