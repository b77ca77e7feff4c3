package model

import (
	"math"
	"testing"
	"time"
)

func TestDefaultRecord(t *testing.T) {
	r := DefaultRecord()
	if r.Language != "English" {
		t.Fatalf("expected English, got %q", r.Language)
	}
	if r.Difficulty != "" || r.WPM != 0 || r.SPM != 0 || r.Accuracy != 0 || r.UserName != "" || r.Timestamp != "" {
		t.Fatalf("unexpected default record: %+v", r)
	}
}

func TestNewRecordClamps(t *testing.T) {
	r := NewRecord("alice", Easy, "English", -3, -1, 140, "2024-01-02 03:04:05")
	if r.WPM != 0 || r.SPM != 0 {
		t.Fatalf("expected negative rates to be raised to 0, got %+v", r)
	}
	if r.Accuracy != 100 {
		t.Fatalf("expected accuracy 100, got %v", r.Accuracy)
	}
	if got := NewRecord("a", Easy, "English", 1, 1, -5, "").Accuracy; got != 0 {
		t.Fatalf("expected accuracy 0, got %v", got)
	}
	if got := NewRecord("a", Easy, "English", 1, 1, math.NaN(), "").Accuracy; got != 0 {
		t.Fatalf("expected NaN accuracy to map to 0, got %v", got)
	}
}

func TestBuilderBuildsIndependentRecords(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	b := NewBuilder().UserName("alice").Difficulty(Medium).Rates(40, 3).Accuracy(97.5).Timestamp(ts)
	first := b.Build()
	if first.Language != "English" {
		t.Fatalf("expected default language, got %q", first.Language)
	}
	if first.Timestamp != "2024-05-06 07:08:09" {
		t.Fatalf("unexpected timestamp %q", first.Timestamp)
	}
	b.UserName("bob")
	if first.UserName != "alice" {
		t.Fatalf("built record changed after builder mutation")
	}
	taken, err := first.TakenAt()
	if err != nil {
		t.Fatalf("parse timestamp: %v", err)
	}
	if !taken.Equal(ts) {
		t.Fatalf("expected %v, got %v", ts, taken)
	}
}

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]Difficulty{"easy": Easy, "MEDIUM": Medium, " Hard ": Hard} {
		got, err := ParseDifficulty(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %q, got %q", in, want, got)
		}
	}
	if _, err := ParseDifficulty("extreme"); err == nil {
		t.Fatalf("expected error for unknown difficulty")
	}
}
