package database

import (
	"database/sql"
	"fmt"

	"github.com/lysyi3m/podcast-intel/app/config"
)

// StatsStore runs the aggregate count queries behind the dashboard
type StatsStore struct {
	db *DB
}

func NewStatsStore(db *DB) *StatsStore {
	return &StatsStore{db: db}
}

func (r *StatsStore) CountEpisodes() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM episodes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count episodes: %w", err)
	}
	return count, nil
}

func (r *StatsStore) CountAnalyzed() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM episodes WHERE analysis IS NOT NULL`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count analyzed episodes: %w", err)
	}
	return count, nil
}

func (r *StatsStore) CountByLean() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT COALESCE(lean, ''), COUNT(*) FROM episodes GROUP BY lean`)
	if err != nil {
		return nil, fmt.Errorf("failed to count episodes by lean: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			lean  string
			count int
		)
		if err := rows.Scan(&lean, &count); err != nil {
			return nil, fmt.Errorf("failed to scan lean count: %w", err)
		}
		counts[lean] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lean counts: %w", err)
	}

	return counts, nil
}

// DailyVolume counts episodes per fetch day and lean for episodes fetched after since.
func (r *StatsStore) DailyVolume(since string) ([]VolumeRow, error) {
	rows, err := r.db.Query(`
		SELECT date(fetched_at) AS day, COALESCE(lean, ''), COUNT(*)
		FROM episodes
		WHERE fetched_at > ?
		GROUP BY day, lean
		ORDER BY day
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily volume: %w", err)
	}
	defer rows.Close()

	var volume []VolumeRow
	for rows.Next() {
		var (
			day  sql.NullString
			lean string
			row  VolumeRow
		)
		if err := rows.Scan(&day, &lean, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan volume row: %w", err)
		}
		row.Day = day.String
		row.Lean = config.Lean(lean)
		volume = append(volume, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate volume rows: %w", err)
	}

	return volume, nil
}

// ThreatCounts groups analyzed episodes by the stored threat_level value.
// Records that are not valid JSON or carry no level count under "".
func (r *StatsStore) ThreatCounts() (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT
			CASE WHEN json_valid(analysis)
				THEN COALESCE(json_extract(analysis, '$.threat_level'), '')
				ELSE '' END AS level,
			COUNT(*)
		FROM episodes
		WHERE analysis IS NOT NULL
		GROUP BY level
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count threat levels: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			level string
			count int
		)
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("failed to scan threat count: %w", err)
		}
		counts[level] += count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate threat counts: %w", err)
	}

	return counts, nil
}

// ShowCounts returns per-podcast analyzed episode counts for lean, with the
// number rated high threat, busiest shows first.
func (r *StatsStore) ShowCounts(lean config.Lean) ([]ShowCount, error) {
	rows, err := r.db.Query(`
		SELECT podcast_name, COUNT(*) AS cnt,
			SUM(CASE WHEN json_valid(analysis)
				AND json_extract(analysis, '$.threat_level') = 'high'
				THEN 1 ELSE 0 END)
		FROM episodes
		WHERE lean = ? AND analysis IS NOT NULL
		GROUP BY podcast_name
		ORDER BY cnt DESC, podcast_name
	`, string(lean))
	if err != nil {
		return nil, fmt.Errorf("failed to count episodes per show: %w", err)
	}
	defer rows.Close()

	var shows []ShowCount
	for rows.Next() {
		var (
			show    ShowCount
			podcast sql.NullString
		)
		if err := rows.Scan(&podcast, &show.Count, &show.High); err != nil {
			return nil, fmt.Errorf("failed to scan show count: %w", err)
		}
		show.Podcast = podcast.String
		shows = append(shows, show)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate show counts: %w", err)
	}

	return shows, nil
}
