package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleRecords() []model.Record {
	return []model.Record{
		model.NewRecord("alice", model.Easy, "English", 40, 4, 90, "2024-01-01 10:00:00"),
		model.NewRecord("bob", model.Medium, "English", 30, 2, 80, "2024-01-02 10:00:00"),
		model.NewRecord("alice", model.Easy, "English", 60, 6, 100, "2024-01-03 10:00:00"),
		model.NewRecord("alice", model.Hard, "English", 20, 1, 70, "2024-01-04 10:00:00"),
	}
}

func TestSyncAndListRecords(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Sync(ctx, sampleRecords()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	all, err := st.ListRecords(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 records, got %d", len(all))
	}
	for i, r := range sampleRecords() {
		if all[i] != r {
			t.Fatalf("record %d mismatch:\n got %+v\nwant %+v", i, all[i], r)
		}
	}

	// A second sync replaces the index instead of duplicating it.
	if err := st.Sync(ctx, sampleRecords()[:2]); err != nil {
		t.Fatalf("resync: %v", err)
	}
	all, err = st.ListRecords(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records after resync, got %d", len(all))
	}
}

func TestListRecordsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Sync(ctx, sampleRecords()); err != nil {
		t.Fatalf("sync: %v", err)
	}

	got, err := st.ListRecords(ctx, model.StatsConfig{UserName: "alice", Last: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].WPM != 60 || got[1].WPM != 20 {
		t.Fatalf("expected alice's last two tests in order, got %+v", got)
	}

	since := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)
	got, err = st.ListRecords(ctx, model.StatsConfig{Since: &since, Difficulty: model.Easy})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].WPM != 60 {
		t.Fatalf("expected one easy test since Jan 2, got %+v", got)
	}
}

func TestListSummaries(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Sync(ctx, sampleRecords()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	sums, err := st.ListSummaries(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(sums) != 3 {
		t.Fatalf("expected 3 groups, got %d: %+v", len(sums), sums)
	}
	easy := sums[0]
	if easy.UserName != "alice" || easy.Difficulty != model.Easy {
		t.Fatalf("unexpected first group: %+v", easy)
	}
	if easy.Tests != 2 || easy.BestWPM != 60 || math.Abs(easy.AvgWPM-50) > 1e-9 || math.Abs(easy.AvgAccuracy-95) > 1e-9 {
		t.Fatalf("unexpected aggregates: %+v", easy)
	}
	if easy.LastTakenAt != "2024-01-03 10:00:00" {
		t.Fatalf("unexpected last taken at %q", easy.LastTakenAt)
	}
	if sums[1].Difficulty != model.Hard || sums[2].UserName != "bob" {
		t.Fatalf("unexpected ordering: %+v", sums)
	}
}

func TestListOnEmptyIndex(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Sync(ctx, nil); err != nil {
		t.Fatalf("sync: %v", err)
	}
	recs, err := st.ListRecords(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records")
	}
	sums, err := st.ListSummaries(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(sums) != 0 {
		t.Fatalf("expected no summaries")
	}
}
