package storage

import (
	"fmt"
	"time"

	"github.com/vovakirdan/gravity/internal/achievement"
	"github.com/vovakirdan/gravity/internal/run"
)

// AchievementEntry is an unlocked achievement of a profile.
type AchievementEntry struct {
	ID         achievement.ID
	Count      int
	UnlockedAt time.Time
}

// UnlockOrIncrement records an achievement for profile. It returns true
// the first time the profile earns it.
func (s *Store) UnlockOrIncrement(profile string, id achievement.ID) (bool, error) {
	res, err := s.db.Exec(
		`INSERT INTO achievements (profile, achievement_id) VALUES (?, ?)
		 ON CONFLICT(profile, achievement_id) DO NOTHING`,
		profile, string(id),
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot unlock achievement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	_, err = s.db.Exec(
		`UPDATE achievements SET count = count + 1
		 WHERE profile = ? AND achievement_id = ?`,
		profile, string(id),
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot increment achievement: %w", err)
	}
	return false, nil
}

// Achievements lists the achievements profile has unlocked, oldest first.
func (s *Store) Achievements(profile string) ([]AchievementEntry, error) {
	rows, err := s.db.Query(
		`SELECT achievement_id, count, unlocked_at
		 FROM achievements
		 WHERE profile = ?
		 ORDER BY unlocked_at, achievement_id`,
		profile,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query achievements: %w", err)
	}
	defer rows.Close()

	var out []AchievementEntry
	for rows.Next() {
		var e AchievementEntry
		var id string
		var unlockedAt any
		if err := rows.Scan(&id, &e.Count, &unlockedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.ID = achievement.ID(id)
		e.UnlockedAt = parseTime(unlockedAt)
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// Progress binds the store to one profile as a run.Progress.
func (s *Store) Progress(profile string) *ProfileProgress {
	return &ProfileProgress{store: s, profile: profile}
}

// ProfileProgress records achievements for a single profile.
type ProfileProgress struct {
	store   *Store
	profile string
}

// UnlockOrIncrement implements run.Progress.
func (p *ProfileProgress) UnlockOrIncrement(id achievement.ID) (bool, error) {
	return p.store.UnlockOrIncrement(p.profile, id)
}

var _ run.Progress = (*ProfileProgress)(nil)
