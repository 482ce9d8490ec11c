package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/gravity/internal/run"
)

// Load returns the save record of profile. The second result is false
// when the profile has never been saved.
func (s *Store) Load(profile string) (run.SaveRecord, bool, error) {
	var rec run.SaveRecord
	err := s.db.QueryRow(
		`SELECT first_time, highest_level, bgm_volume, se_volume
		 FROM save_records
		 WHERE profile = ?`,
		profile,
	).Scan(&rec.FirstTime, &rec.HighestLevel, &rec.BGMVolume, &rec.SEVolume)

	if errors.Is(err, sql.ErrNoRows) {
		return run.SaveRecord{}, false, nil
	}
	if err != nil {
		return run.SaveRecord{}, false, fmt.Errorf("storage: cannot load save record: %w", err)
	}
	return rec, true, nil
}

// Save writes the save record of profile, replacing the previous one.
func (s *Store) Save(profile string, rec run.SaveRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO save_records (profile, first_time, highest_level, bgm_volume, se_volume)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(profile) DO UPDATE SET
			first_time = excluded.first_time,
			highest_level = excluded.highest_level,
			bgm_volume = excluded.bgm_volume,
			se_volume = excluded.se_volume,
			updated_at = CURRENT_TIMESTAMP`,
		profile, rec.FirstTime, rec.HighestLevel, rec.BGMVolume, rec.SEVolume,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save record: %w", err)
	}
	return nil
}

// MergeHighest folds the highest level of profile from into profile to
// and returns the merged record. A missing target starts from defaults.
func (s *Store) MergeHighest(to, from string) (run.SaveRecord, error) {
	src, ok, err := s.Load(from)
	if err != nil {
		return run.SaveRecord{}, err
	}
	if !ok {
		return run.SaveRecord{}, fmt.Errorf("storage: no save record for profile %q", from)
	}

	dst, ok, err := s.Load(to)
	if err != nil {
		return run.SaveRecord{}, err
	}
	if !ok {
		dst = run.DefaultSaveRecord()
	}

	merged := dst.MergeHighest(src)
	if err := s.Save(to, merged); err != nil {
		return run.SaveRecord{}, err
	}
	return merged, nil
}

// ProfileSummary is one row of the profile list.
type ProfileSummary struct {
	Profile      string
	HighestLevel int
	UpdatedAt    time.Time
}

// Profiles lists every saved profile, most recently saved first.
func (s *Store) Profiles() ([]ProfileSummary, error) {
	rows, err := s.db.Query(
		`SELECT profile, highest_level, updated_at
		 FROM save_records
		 ORDER BY updated_at DESC, profile`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query profiles: %w", err)
	}
	defer rows.Close()

	var out []ProfileSummary
	for rows.Next() {
		var p ProfileSummary
		var updatedAt any
		if err := rows.Scan(&p.Profile, &p.HighestLevel, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.UpdatedAt = parseTime(updatedAt)
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Ensure Store implements the run collaborators.
var (
	_ run.Persistence = (*Store)(nil)
	_ run.History     = (*Store)(nil)
)
