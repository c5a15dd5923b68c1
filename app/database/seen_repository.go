package database

import (
	"fmt"
	"time"
)

var _ SeenRepository = (*SeenItemRepository)(nil)

// SeenItemRepository handles database operations for the dedup window.
type SeenItemRepository struct {
	db *DB
}

func NewSeenItemRepository(db *DB) *SeenItemRepository {
	return &SeenItemRepository{db: db}
}

// GetLiveRecords returns all records inside the retention window, oldest
// first.
func (r *SeenItemRepository) GetLiveRecords(scope string, cutoff time.Time) ([]SeenRecord, error) {
	rows, err := r.db.Query(`
		SELECT identity, title, first_seen_at
		FROM seen_items
		WHERE scope = ? AND first_seen_at >= ?
		ORDER BY first_seen_at ASC
	`, scope, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get seen records: %w", err)
	}
	defer rows.Close()

	var records []SeenRecord
	for rows.Next() {
		var rec SeenRecord
		if err := rows.Scan(&rec.Identity, &rec.Title, &rec.FirstSeenAt); err != nil {
			return nil, fmt.Errorf("failed to scan seen record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating seen records: %w", err)
	}

	return records, nil
}

// Insert records an identity as seen. Re-inserting the same identity
// keeps the original first_seen_at, so re-running collect after a partial
// failure never extends the window.
func (r *SeenItemRepository) Insert(scope string, rec SeenRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO seen_items (scope, identity, title, first_seen_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (scope, identity) DO NOTHING
	`, scope, rec.Identity, rec.Title, rec.FirstSeenAt)
	if err != nil {
		return fmt.Errorf("failed to insert seen record: %w", err)
	}
	return nil
}

// DeleteExpired removes records older than the retention cutoff.
func (r *SeenItemRepository) DeleteExpired(scope string, cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`
		DELETE FROM seen_items
		WHERE scope = ? AND first_seen_at < ?
	`, scope, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired records: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted records: %w", err)
	}
	return deleted, nil
}

// CountLive returns the number of records inside the retention window.
func (r *SeenItemRepository) CountLive(scope string, cutoff time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM seen_items
		WHERE scope = ? AND first_seen_at >= ?
	`, scope, cutoff).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count seen records: %w", err)
	}
	return count, nil
}
