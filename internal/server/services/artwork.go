package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/logging"
	"github.com/dmitrijs2005/gallery/internal/server/models"
	"github.com/dmitrijs2005/gallery/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gallery/internal/server/storage"
	"github.com/google/uuid"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20

	maxTitleLength       = 100
	minDescriptionLength = 10
	maxDescriptionLength = 2000
	maxImageSize         = 10 << 20
)

// ImageUpload describes an incoming image file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ArtworkService implements the gallery's artwork operations: public listing
// and detail, authenticated upload, and owner-gated deletion.
type ArtworkService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	logger      logging.Logger
}

func NewArtworkService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore, l logging.Logger) *ArtworkService {
	return &ArtworkService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		logger:      l.With("module", "artwork_service"),
	}
}

// List returns one page of artworks, newest first. Out-of-range page or
// pageSize values fall back to the defaults (1 and 20).
func (s *ArtworkService) List(ctx context.Context, page, pageSize int) ([]*models.Artwork, error) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	repo := s.repomanager.Artworks(s.db)
	result, err := repo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Get returns one artwork by id.
func (s *ArtworkService) Get(ctx context.Context, id int64) (*models.Artwork, error) {
	repo := s.repomanager.Artworks(s.db)
	artwork, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return artwork, nil
}

// Create validates the upload, stores the blob, and inserts the row. If the
// insert fails after the blob was written, the blob is removed best-effort.
func (s *ArtworkService) Create(ctx context.Context, userID int64, title, description string, image *ImageUpload) (*models.Artwork, error) {
	if title == "" || description == "" || image == nil {
		return nil, ErrMissingUploadFields
	}
	// limits count characters, not bytes, so multibyte titles are not
	// penalized
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}
	if n := utf8.RuneCountInString(description); n < minDescriptionLength || n > maxDescriptionLength {
		return nil, ErrInvalidDescription
	}
	if !strings.HasPrefix(image.ContentType, "image/") {
		return nil, ErrNotAnImage
	}
	if image.Size > maxImageSize {
		return nil, ErrImageTooLarge
	}

	key := makeStorageKey(image.Filename)

	if err := s.blobs.Put(ctx, key, image.ContentType, image.Content); err != nil {
		s.logger.Error(ctx, "blob upload failed", "key", key, "error", err.Error())
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Artworks(s.db)
	artwork := &models.Artwork{
		UserID:      userID,
		StorageKey:  key,
		ImageURL:    s.blobs.PublicURL(key),
		Title:       title,
		Description: description,
	}

	created, err := repo.Create(ctx, artwork)
	if err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Warn(ctx, "orphaned blob left after failed insert", "key", key, "error", delErr.Error())
		}
		return nil, common.ErrorInternal
	}

	// re-read to pick up the joined owner username
	full, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return full, nil
}

// Delete removes an artwork owned by userID. An absent artwork yields
// ErrorNotFound, one owned by someone else ErrorForbidden. The blob is
// removed before the row; a blob-removal failure is logged and does not
// block the row delete.
func (s *ArtworkService) Delete(ctx context.Context, userID, id int64) error {
	repo := s.repomanager.Artworks(s.db)

	artwork, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if artwork.UserID != userID {
		return common.ErrorForbidden
	}

	if err := s.blobs.Delete(ctx, artwork.StorageKey); err != nil {
		s.logger.Warn(ctx, "blob delete failed, removing row anyway", "key", artwork.StorageKey, "error", err.Error())
	}

	if err := repo.Delete(ctx, id); err != nil {
		return common.ErrorInternal
	}

	return nil
}

// makeStorageKey builds a collision-free object key for an uploaded image,
// keeping the original extension: artworks/YYYY/M/D/<uuid><ext>.
func makeStorageKey(filename string) string {
	d := time.Now()
	ext := filepath.Ext(filename)
	return fmt.Sprintf("artworks/%d/%d/%d/%v%s", d.Year(), int(d.Month()), d.Day(), uuid.New(), ext)
}
