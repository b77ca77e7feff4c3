package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Records   []model.Record      `json:"records"`
	Summaries []model.UserSummary `json:"summaries"`
}

// BuildReport indexes the history records and queries them with cfg.
func BuildReport(ctx context.Context, st *store.Store, history []model.Record, cfg model.StatsConfig) (Report, error) {
	if err := st.Sync(ctx, history); err != nil {
		return Report{}, fmt.Errorf("failed to index history: %w", err)
	}
	records, err := st.ListRecords(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to list tests: %w", err)
	}
	sums, err := st.ListSummaries(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to summarize tests: %w", err)
	}
	return Report{Records: records, Summaries: sums}, nil
}
