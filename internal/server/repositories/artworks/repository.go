package artworks

import (
	"context"

	"github.com/dmitrijs2005/gallery/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error)
	GetByID(ctx context.Context, id int64) (*models.Artwork, error)
	List(ctx context.Context, limit, offset int) ([]*models.Artwork, error)
	Delete(ctx context.Context, id int64) error
}
