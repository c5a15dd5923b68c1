package database

import (
	"fmt"
)

var _ BufferRepository = (*BufferedItemRepository)(nil)

// BufferedItemRepository handles database operations for the digest buffer.
type BufferedItemRepository struct {
	db *DB
}

func NewBufferedItemRepository(db *DB) *BufferedItemRepository {
	return &BufferedItemRepository{db: db}
}

// Append adds an item to the end of the buffer.
func (r *BufferedItemRepository) Append(item BufferedItem) error {
	_, err := r.db.Exec(`
		INSERT INTO buffered_items (
			link, identity, title, summary, source,
			category, category_label, published_at, buffered_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.Link, item.Identity, item.Title, item.Summary, item.Source,
		item.Category, item.CategoryLabel, item.PublishedAt, item.BufferedAt)
	if err != nil {
		return fmt.Errorf("failed to append buffered item: %w", err)
	}
	return nil
}

// GetAll returns the buffer contents in insertion order without
// modifying them. Draining and clearing are separate operations so a
// failed digest leaves the buffer intact for retry.
func (r *BufferedItemRepository) GetAll() ([]BufferedItem, error) {
	rows, err := r.db.Query(`
		SELECT id, link, identity, title, summary, source,
		       category, category_label, published_at, buffered_at
		FROM buffered_items
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get buffered items: %w", err)
	}
	defer rows.Close()

	var items []BufferedItem
	for rows.Next() {
		var item BufferedItem
		err := rows.Scan(
			&item.ID, &item.Link, &item.Identity, &item.Title, &item.Summary,
			&item.Source, &item.Category, &item.CategoryLabel,
			&item.PublishedAt, &item.BufferedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan buffered item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buffered items: %w", err)
	}

	return items, nil
}

// Clear removes all buffered items.
func (r *BufferedItemRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM buffered_items`); err != nil {
		return fmt.Errorf("failed to clear buffer: %w", err)
	}
	return nil
}

// Count returns the number of buffered items.
func (r *BufferedItemRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM buffered_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count buffered items: %w", err)
	}
	return count, nil
}
