package storage

import (
	"fmt"
	"time"

	"github.com/vovakirdan/gravity/internal/run"
)

// RunEntry is a recorded run.
type RunEntry struct {
	ID        int64
	Profile   string
	Level     int
	Completed bool
	Distance  float64
	Tries     int
	CreatedAt time.Time
}

// RecordRun stores a finished run for profile.
func (s *Store) RecordRun(profile string, r run.Result) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (profile, level, completed, distance, tries)
		 VALUES (?, ?, ?, ?, ?)`,
		profile, r.Level, r.Completed, r.Distance, r.Tries,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot record run: %w", err)
	}
	return nil
}

// RecentRuns returns the latest runs of profile, newest first.
func (s *Store) RecentRuns(profile string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, profile, level, completed, distance, tries, created_at
		 FROM runs
		 WHERE profile = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		profile, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var out []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Profile, &e.Level, &e.Completed, &e.Distance, &e.Tries, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// LevelStats contains aggregated statistics for one level of a profile.
type LevelStats struct {
	Level        int
	Attempts     int
	Completions  int
	BestDistance float64
	LastPlayed   time.Time
}

// LevelStats returns per-level statistics for profile, by level.
func (s *Store) LevelStats(profile string) ([]LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level, COUNT(*), COALESCE(SUM(completed), 0), MAX(distance), MAX(created_at)
		 FROM runs
		 WHERE profile = ?
		 GROUP BY level
		 ORDER BY level`,
		profile,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	var out []LevelStats
	for rows.Next() {
		var st LevelStats
		var lastPlayed any
		if err := rows.Scan(&st.Level, &st.Attempts, &st.Completions, &st.BestDistance, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		out = append(out, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ClearRuns deletes the run history of profile.
func (s *Store) ClearRuns(profile string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE profile = ?", profile)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}
