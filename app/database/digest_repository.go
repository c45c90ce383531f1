package database

import (
	"fmt"
)

// DigestStore persists rendered digest snapshots
type DigestStore struct {
	db *DB
}

func NewDigestStore(db *DB) *DigestStore {
	return &DigestStore{db: db}
}

// Upsert replaces the snapshot for the digest id.
func (r *DigestStore) Upsert(digest Digest) error {
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO digests (id, date, content_html, content_text, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, digest.ID, digest.Date, digest.ContentHTML, digest.ContentText, digest.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert digest: %w", err)
	}
	return nil
}

func (r *DigestStore) GetRecent(limit int) ([]Digest, error) {
	rows, err := r.db.Query(`
		SELECT id, COALESCE(date, ''), COALESCE(content_html, ''),
			COALESCE(content_text, ''), COALESCE(created_at, '')
		FROM digests
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query digests: %w", err)
	}
	defer rows.Close()

	var digests []Digest
	for rows.Next() {
		var d Digest
		if err := rows.Scan(&d.ID, &d.Date, &d.ContentHTML, &d.ContentText, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan digest: %w", err)
		}
		digests = append(digests, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate digests: %w", err)
	}

	return digests, nil
}
