package artworks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/dbx"
	"github.com/dmitrijs2005/gallery/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error) {

	query :=
		`INSERT INTO artworks (user_id, storage_key, image_url, title, description)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		artwork.UserID, artwork.StorageKey, artwork.ImageURL, artwork.Title, artwork.Description).
		Scan(&artwork.ID, &artwork.CreatedAt, &artwork.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return artwork, nil
}

// GetByID returns one artwork with the owner's username joined in.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Artwork, error) {
	query :=
		`SELECT a.id, a.user_id, u.username, a.storage_key, a.image_url, a.title, a.description, a.created_at, a.updated_at
		 FROM artworks a
		 LEFT JOIN users u ON a.user_id = u.id
		 WHERE a.id = $1
		 `

	artwork := &models.Artwork{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&artwork.ID, &artwork.UserID, &artwork.Username, &artwork.StorageKey, &artwork.ImageURL,
		&artwork.Title, &artwork.Description, &artwork.CreatedAt, &artwork.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return artwork, nil
}

// List returns artworks ordered by creation time, newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*models.Artwork, error) {
	query :=
		`SELECT a.id, a.user_id, u.username, a.storage_key, a.image_url, a.title, a.description, a.created_at, a.updated_at
		 FROM artworks a
		 LEFT JOIN users u ON a.user_id = u.id
		 ORDER BY a.created_at DESC
		 LIMIT $1 OFFSET $2
		 `

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Artwork, 0)
	for rows.Next() {
		artwork := &models.Artwork{}
		if err := rows.Scan(
			&artwork.ID, &artwork.UserID, &artwork.Username, &artwork.StorageKey, &artwork.ImageURL,
			&artwork.Title, &artwork.Description, &artwork.CreatedAt, &artwork.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, artwork)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM artworks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
