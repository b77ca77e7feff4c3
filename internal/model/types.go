// Package model defines shared data structures.
package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TimestampLayout is the layout of Record.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultLanguage is the language assigned to new records.
const DefaultLanguage = "English"

// Difficulty selects the sentence set of a test.
type Difficulty string

// Supported difficulties.
const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists the supported difficulties in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty accepts a difficulty name in any letter case.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want Easy, Medium or Hard)", s)
}

// Record is one completed typing test.
type Record struct {
	UserName   string     `json:"user_name"`
	Difficulty Difficulty `json:"difficulty"`
	Language   string     `json:"language"`
	WPM        int        `json:"wpm"`
	SPM        int        `json:"spm"`
	Accuracy   float64    `json:"accuracy"`
	Timestamp  string     `json:"timestamp"`
}

// DefaultRecord returns an empty record with the default language.
func DefaultRecord() Record {
	return Record{Language: DefaultLanguage}
}

// NewRecord builds a record from all of its fields. Accuracy is clamped into
// [0, 100] and negative rates are raised to 0.
func NewRecord(userName string, difficulty Difficulty, language string, wpm, spm int, accuracy float64, timestamp string) Record {
	return Record{
		UserName:   userName,
		Difficulty: difficulty,
		Language:   language,
		WPM:        max(wpm, 0),
		SPM:        max(spm, 0),
		Accuracy:   ClampAccuracy(accuracy),
		Timestamp:  timestamp,
	}
}

// ClampAccuracy limits an accuracy percentage to [0, 100]. NaN maps to 0.
func ClampAccuracy(acc float64) float64 {
	if math.IsNaN(acc) || acc < 0 {
		return 0
	}
	if acc > 100 {
		return 100
	}
	return acc
}

// TakenAt parses the record timestamp in the local time zone.
func (r Record) TakenAt() (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, r.Timestamp, time.Local)
}

// Builder accumulates record fields while a session runs.
type Builder struct {
	rec Record
}

// NewBuilder returns a builder seeded with DefaultRecord.
func NewBuilder() *Builder {
	return &Builder{rec: DefaultRecord()}
}

// UserName sets the user name.
func (b *Builder) UserName(name string) *Builder {
	b.rec.UserName = name
	return b
}

// Difficulty sets the difficulty.
func (b *Builder) Difficulty(d Difficulty) *Builder {
	b.rec.Difficulty = d
	return b
}

// Language sets the language.
func (b *Builder) Language(lang string) *Builder {
	b.rec.Language = lang
	return b
}

// Rates sets words and sentences per minute.
func (b *Builder) Rates(wpm, spm int) *Builder {
	b.rec.WPM = wpm
	b.rec.SPM = spm
	return b
}

// Accuracy sets the accuracy percentage.
func (b *Builder) Accuracy(acc float64) *Builder {
	b.rec.Accuracy = acc
	return b
}

// Timestamp sets the completion time.
func (b *Builder) Timestamp(t time.Time) *Builder {
	b.rec.Timestamp = t.Format(TimestampLayout)
	return b
}

// Build returns the finished record. The builder can be reused afterwards
// without affecting records it already produced.
func (b *Builder) Build() Record {
	r := b.rec
	return NewRecord(r.UserName, r.Difficulty, r.Language, r.WPM, r.SPM, r.Accuracy, r.Timestamp)
}

// Config defines practice settings.
type Config struct {
	UserName   string
	Difficulty Difficulty
	Language   string
	Sentences  int
	Shuffle    bool
	CorpusDir  string
}

// StatsConfig defines filters for history queries.
type StatsConfig struct {
	UserName   string
	Difficulty Difficulty
	Since      *time.Time
	Last       int
}

// UserSummary aggregates the tests of one user at one difficulty.
type UserSummary struct {
	UserName    string     `json:"user_name"`
	Difficulty  Difficulty `json:"difficulty"`
	Tests       int        `json:"tests"`
	AvgWPM      float64    `json:"avg_wpm"`
	BestWPM     int        `json:"best_wpm"`
	AvgSPM      float64    `json:"avg_spm"`
	AvgAccuracy float64    `json:"avg_accuracy"`
	LastTakenAt string     `json:"last_taken_at"`
}
