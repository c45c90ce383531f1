package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lysyi3m/podcast-intel/app/config"
)

const episodeColumns = `id, podcast_name, lean, title, published, description, audio_url,
	transcript, analysis, fetched_at, digest_included`

// EpisodeStore handles database operations for episodes
type EpisodeStore struct {
	db *DB
}

func NewEpisodeStore(db *DB) *EpisodeStore {
	return &EpisodeStore{db: db}
}

// Insert stores a newly fetched episode. Existing ids are left untouched and
// reported as not inserted.
func (r *EpisodeStore) Insert(episode Episode) (bool, error) {
	res, err := r.db.Exec(`
		INSERT OR IGNORE INTO episodes
			(id, podcast_name, lean, title, published, description, audio_url, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, episode.ID, episode.PodcastName, string(episode.Lean), episode.Title,
		episode.Published, episode.Description, episode.AudioURL, episode.FetchedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert episode: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

func (r *EpisodeStore) Exists(id string) (bool, error) {
	var found string
	err := r.db.QueryRow(`SELECT id FROM episodes WHERE id = ?`, id).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check episode: %w", err)
	}
	return true, nil
}

// GetForAnalysis returns unanalyzed episodes with enough content, newest fetched first.
func (r *EpisodeStore) GetForAnalysis(limit int) ([]Episode, error) {
	rows, err := r.db.Query(`
		SELECT `+episodeColumns+`
		FROM episodes
		WHERE analysis IS NULL
		AND ((description IS NOT NULL AND length(description) > 50) OR transcript IS NOT NULL)
		ORDER BY fetched_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query episodes for analysis: %w", err)
	}
	defer rows.Close()

	return scanEpisodes(rows)
}

func (r *EpisodeStore) UpdateTranscript(id, transcript string) error {
	_, err := r.db.Exec(`UPDATE episodes SET transcript = ? WHERE id = ?`, transcript, id)
	if err != nil {
		return fmt.Errorf("failed to update transcript: %w", err)
	}
	return nil
}

func (r *EpisodeStore) UpdateAnalysis(id, analysis string) error {
	_, err := r.db.Exec(`UPDATE episodes SET analysis = ? WHERE id = ?`, analysis, id)
	if err != nil {
		return fmt.Errorf("failed to update analysis: %w", err)
	}
	return nil
}

// ListAnalyzed returns analyzed episodes, most recently fetched first.
func (r *EpisodeStore) ListAnalyzed(filter EpisodeFilter) ([]Episode, error) {
	var (
		where = []string{"analysis IS NOT NULL"}
		args  []any
	)

	if len(filter.Leans) > 0 {
		placeholders := make([]string, len(filter.Leans))
		for i, lean := range filter.Leans {
			placeholders[i] = "?"
			args = append(args, string(lean))
		}
		where = append(where, "lean IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.FetchedAfter != "" {
		where = append(where, "fetched_at > ?")
		args = append(args, filter.FetchedAfter)
	}

	query := `SELECT ` + episodeColumns + ` FROM episodes WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY fetched_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyzed episodes: %w", err)
	}
	defer rows.Close()

	return scanEpisodes(rows)
}

// GetUndigested returns analyzed episodes fetched on day (YYYY-MM-DD, UTC) that
// no digest has consumed yet, ordered by lean then podcast name.
func (r *EpisodeStore) GetUndigested(day string) ([]Episode, error) {
	rows, err := r.db.Query(`
		SELECT `+episodeColumns+`
		FROM episodes
		WHERE date(fetched_at) = ?
		AND analysis IS NOT NULL
		AND digest_included = 0
		ORDER BY lean, podcast_name
	`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query undigested episodes: %w", err)
	}
	defer rows.Close()

	return scanEpisodes(rows)
}

// MarkIncluded flags the given episodes as consumed by a digest and returns
// how many rows changed.
func (r *EpisodeStore) MarkIncluded(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	res, err := r.db.Exec(`
		UPDATE episodes SET digest_included = 1
		WHERE digest_included = 0 AND id IN (`+strings.Join(placeholders, ", ")+`)
	`, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark episodes included: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}

func scanEpisodes(rows *sql.Rows) ([]Episode, error) {
	var episodes []Episode

	for rows.Next() {
		var (
			ep                                           Episode
			podcast, lean, title, published, description sql.NullString
			audioURL, transcript, analysis, fetchedAt    sql.NullString
			included                                     sql.NullInt64
		)

		if err := rows.Scan(&ep.ID, &podcast, &lean, &title, &published, &description,
			&audioURL, &transcript, &analysis, &fetchedAt, &included); err != nil {
			return nil, fmt.Errorf("failed to scan episode: %w", err)
		}

		ep.PodcastName = podcast.String
		ep.Lean = config.Lean(lean.String)
		ep.Title = title.String
		ep.Published = published.String
		ep.Description = description.String
		ep.AudioURL = audioURL.String
		ep.Transcript = transcript.String
		ep.Analysis = analysis.String
		ep.FetchedAt = fetchedAt.String
		ep.DigestIncluded = included.Int64 != 0

		episodes = append(episodes, ep)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate episodes: %w", err)
	}

	return episodes, nil
}
