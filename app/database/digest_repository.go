package database

import (
	"database/sql"
	"fmt"
)

var _ DigestRepository = (*DigestRecordRepository)(nil)

// DigestRecordRepository stores published digests for the serve API.
type DigestRecordRepository struct {
	db *DB
}

func NewDigestRecordRepository(db *DB) *DigestRecordRepository {
	return &DigestRecordRepository{db: db}
}

// Insert stores a published digest and returns its id.
func (r *DigestRecordRepository) Insert(digest Digest) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO digests (generated_at, item_count, briefing, markdown, pr_url)
		VALUES (?, ?, ?, ?, ?)
	`, digest.GeneratedAt, digest.ItemCount, digest.Briefing, digest.Markdown, digest.PRURL)
	if err != nil {
		return 0, fmt.Errorf("failed to insert digest: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get digest id: %w", err)
	}
	return id, nil
}

// GetLatest returns the most recently generated digest, or nil if none
// has been published yet.
func (r *DigestRecordRepository) GetLatest() (*Digest, error) {
	var digest Digest
	err := r.db.QueryRow(`
		SELECT id, generated_at, item_count, briefing, markdown, pr_url
		FROM digests
		ORDER BY generated_at DESC, id DESC
		LIMIT 1
	`).Scan(&digest.ID, &digest.GeneratedAt, &digest.ItemCount,
		&digest.Briefing, &digest.Markdown, &digest.PRURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest digest: %w", err)
	}
	return &digest, nil
}

// Count returns the number of published digests.
func (r *DigestRecordRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM digests`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count digests: %w", err)
	}
	return count, nil
}
