package media

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, item *Item) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO media_items (id, type, url, duration, thumbnail_url, name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Type, item.URL, item.Duration, nullString(item.ThumbnailURL), item.Name,
		item.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Item, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, type, url, duration, thumbnail_url, name, created_at
		FROM media_items WHERE id = ?
	`, id)

	var item Item
	var thumbnail sql.NullString
	var createdAt string
	err := row.Scan(&item.ID, &item.Type, &item.URL, &item.Duration, &thumbnail, &item.Name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item.ThumbnailURL = thumbnail.String
	item.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &item, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, url, duration, thumbnail_url, name, created_at
		FROM media_items ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var item Item
		var thumbnail sql.NullString
		var createdAt string
		if err := rows.Scan(&item.ID, &item.Type, &item.URL, &item.Duration, &thumbnail, &item.Name, &createdAt); err != nil {
			return nil, err
		}
		item.ThumbnailURL = thumbnail.String
		item.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM media_items WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM media_items").Scan(&count)
	return count, err
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
