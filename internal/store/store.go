// Package store indexes the test history in SQLite for aggregate queries.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/typetest/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the history index.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tests (
			seq INTEGER PRIMARY KEY,
			user_name TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			language TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			spm INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			taken_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tests_user_name ON tests(user_name);`,
		`CREATE INDEX IF NOT EXISTS idx_tests_taken_at ON tests(taken_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Sync replaces the indexed tests with records, keeping their order.
func (s *Store) Sync(ctx context.Context, records []model.Record) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM tests`); err != nil {
		return err
	}
	if len(records) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO tests (seq, user_name, difficulty, language, wpm, spm, accuracy, taken_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, r := range records {
			if _, err = stmt.ExecContext(ctx, i+1, r.UserName, string(r.Difficulty), r.Language, r.WPM, r.SPM, r.Accuracy, r.Timestamp); err != nil {
				return err
			}
		}
	}
	err = tx.Commit()
	return err
}

// filter builds the CTE selecting the tests matched by cfg, newest Last only.
func filter(cfg model.StatsConfig) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.UserName != "" {
		clauses = append(clauses, "user_name = ?")
		args = append(args, cfg.UserName)
	}
	if cfg.Difficulty != "" {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, string(cfg.Difficulty))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "taken_at >= ?")
		args = append(args, cfg.Since.Format(model.TimestampLayout))
	}
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	args = append(args, limit)
	cte := fmt.Sprintf(`WITH selected AS (
		SELECT * FROM tests
		WHERE %s
		ORDER BY seq DESC
		LIMIT ?
	)`, strings.Join(clauses, " AND "))
	return cte, args
}

// ListRecords returns the tests matched by cfg in save order.
func (s *Store) ListRecords(ctx context.Context, cfg model.StatsConfig) ([]model.Record, error) {
	cte, args := filter(cfg)
	query := cte + `
	SELECT user_name, difficulty, language, wpm, spm, accuracy, taken_at
	FROM selected
	ORDER BY seq ASC`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Record
	for rows.Next() {
		var r model.Record
		var difficulty string
		if err := rows.Scan(&r.UserName, &difficulty, &r.Language, &r.WPM, &r.SPM, &r.Accuracy, &r.Timestamp); err != nil {
			return nil, err
		}
		r.Difficulty = model.Difficulty(difficulty)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListSummaries aggregates the tests matched by cfg per user and difficulty.
func (s *Store) ListSummaries(ctx context.Context, cfg model.StatsConfig) ([]model.UserSummary, error) {
	cte, args := filter(cfg)
	query := cte + `
	SELECT user_name, difficulty, COUNT(*) AS tests,
		AVG(wpm) AS avg_wpm, MAX(wpm) AS best_wpm, AVG(spm) AS avg_spm,
		AVG(accuracy) AS avg_accuracy, MAX(taken_at) AS last_taken_at
	FROM selected
	GROUP BY user_name, difficulty
	ORDER BY user_name ASC,
		CASE difficulty WHEN 'Easy' THEN 1 WHEN 'Medium' THEN 2 WHEN 'Hard' THEN 3 ELSE 4 END ASC`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.UserSummary
	for rows.Next() {
		var sum model.UserSummary
		var difficulty string
		if err := rows.Scan(&sum.UserName, &difficulty, &sum.Tests, &sum.AvgWPM, &sum.BestWPM, &sum.AvgSPM, &sum.AvgAccuracy, &sum.LastTakenAt); err != nil {
			return nil, err
		}
		sum.Difficulty = model.Difficulty(difficulty)
		result = append(result, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
