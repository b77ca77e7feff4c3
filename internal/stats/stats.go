// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/typetest/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Verdict returns the encouragement line for an accuracy percentage.
func Verdict(accuracy float64) string {
	switch {
	case accuracy >= 90:
		return "Outstanding performance! You're a typing master!"
	case accuracy >= 75:
		return "Excellent work! Keep practicing to improve further!"
	case accuracy >= 60:
		return "Good effort! A bit more practice and you'll excel!"
	default:
		return "Keep practicing! Every expert was once a beginner!"
	}
}

// RenderResult prints the summary card of one finished test.
func RenderResult(w io.Writer, r model.Record) error {
	lines := []string{
		"Test Summary",
		fmt.Sprintf("User:        %s", r.UserName),
		fmt.Sprintf("Difficulty:  %s", r.Difficulty),
		fmt.Sprintf("Language:    %s", r.Language),
		fmt.Sprintf("WPM:         %d words/minute", r.WPM),
		fmt.Sprintf("SPM:         %d sentences/minute", r.SPM),
		fmt.Sprintf("Accuracy:    %.2f%%", r.Accuracy),
		fmt.Sprintf("Date & Time: %s", r.Timestamp),
		"",
		fmt.Sprintf("Great job %s! Your accuracy is %.2f%%!", r.UserName, r.Accuracy),
		Verdict(r.Accuracy),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints records as a table. The user column is omitted when
// showUser is false.
func RenderHistory(w io.Writer, title string, records []model.Record, showUser bool) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No test history found. Take a test to start building your history!")
		return err
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	headers := []string{"Difficulty", "WPM", "SPM", "Accuracy", "Date & Time"}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	if showUser {
		headers = append([]string{"User"}, headers...)
		rightAlign = map[int]bool{2: true, 3: true, 4: true}
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{
			string(r.Difficulty),
			fmt.Sprintf("%d", r.WPM),
			fmt.Sprintf("%d", r.SPM),
			fmt.Sprintf("%.2f%%", r.Accuracy),
			r.Timestamp,
		}
		if showUser {
			row = append([]string{r.UserName}, row...)
		}
		rows = append(rows, row)
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary prints totals and a WPM trend for records. now anchors the
// relative time of the latest test.
func RenderSummary(w io.Writer, records []model.Record, window int, now time.Time) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No tests found.")
		return err
	}
	var totalWPM, totalSPM, totalAcc float64
	best := records[0]
	wpms := make([]float64, len(records))
	for i, r := range records {
		totalWPM += float64(r.WPM)
		totalSPM += float64(r.SPM)
		totalAcc += r.Accuracy
		if r.WPM > best.WPM {
			best = r
		}
		wpms[i] = float64(r.WPM)
	}
	count := float64(len(records))
	last := records[len(records)-1]
	lastLabel := last.Timestamp
	if taken, err := last.TakenAt(); err == nil {
		lastLabel = fmt.Sprintf("%s (%s)", last.Timestamp, humanize.RelTime(taken, now, "ago", "from now"))
	}

	lines := []string{
		"Summary",
		fmt.Sprintf("Tests: %s", humanize.Comma(int64(len(records)))),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %d (%s, %s)", best.WPM, best.Difficulty, best.Timestamp),
		fmt.Sprintf("Avg SPM: %.2f", totalSPM/count),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count),
		fmt.Sprintf("Last test: %s", lastLabel),
	}
	if len(records) > 1 {
		lines = append(lines, fmt.Sprintf("WPM trend: [%s]", Sparkline(MovingAverage(wpms, window))))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderUserSummaries prints per user and difficulty aggregates.
func RenderUserSummaries(w io.Writer, sums []model.UserSummary) error {
	if len(sums) == 0 {
		_, err := fmt.Fprintln(w, "No tests found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per User"); err != nil {
		return err
	}
	headers := []string{"User", "Difficulty", "Tests", "Avg WPM", "Best WPM", "Avg SPM", "Avg Accuracy", "Last Test"}
	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		rows = append(rows, []string{
			s.UserName,
			string(s.Difficulty),
			fmt.Sprintf("%d", s.Tests),
			fmt.Sprintf("%.1f", s.AvgWPM),
			fmt.Sprintf("%d", s.BestWPM),
			fmt.Sprintf("%.1f", s.AvgSPM),
			fmt.Sprintf("%.2f%%", s.AvgAccuracy),
			s.LastTakenAt,
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
