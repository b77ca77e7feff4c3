package stats

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "stats.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	history := []model.Record{
		model.NewRecord("alice", model.Easy, "English", 40, 4, 90, "2024-01-01 10:00:00"),
		model.NewRecord("bob", model.Easy, "English", 50, 5, 95, "2024-01-02 10:00:00"),
		model.NewRecord("alice", model.Easy, "English", 44, 4, 92, "2024-01-03 10:00:00"),
		model.NewRecord("alice", model.Medium, "English", 35, 3, 85, "2024-01-04 10:00:00"),
	}
	ctx := context.Background()
	report, err := BuildReport(ctx, st, history, model.StatsConfig{UserName: "alice", Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(report.Records))
	}
	if report.Records[0].Timestamp != "2024-01-03 10:00:00" || report.Records[1].Timestamp != "2024-01-04 10:00:00" {
		t.Fatalf("unexpected records: %+v", report.Records)
	}
	if len(report.Summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(report.Summaries))
	}
	if report.Summaries[0].Difficulty != model.Easy || report.Summaries[0].Tests != 1 {
		t.Fatalf("unexpected first summary: %+v", report.Summaries[0])
	}
}
