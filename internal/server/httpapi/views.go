package httpapi

import (
	"time"

	"github.com/dmitrijs2005/gallery/internal/server/models"
)

// userView is the public profile shape; the password hash never leaves the
// server.
type userView struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	CreateTime time.Time `json:"createTime"`
}

type artworkView struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Username    string    `json:"username"`
	ImageURL    string    `json:"imageUrl"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreateTime  time.Time `json:"createTime"`
	UpdateTime  time.Time `json:"updateTime"`
}

func newUserView(u *models.User) userView {
	return userView{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		CreateTime: u.CreatedAt,
	}
}

func newArtworkView(a *models.Artwork) artworkView {
	return artworkView{
		ID:          a.ID,
		UserID:      a.UserID,
		Username:    a.Username,
		ImageURL:    a.ImageURL,
		Title:       a.Title,
		Description: a.Description,
		CreateTime:  a.CreatedAt,
		UpdateTime:  a.UpdatedAt,
	}
}

func newArtworkViews(list []*models.Artwork) []artworkView {
	views := make([]artworkView, 0, len(list))
	for _, a := range list {
		views = append(views, newArtworkView(a))
	}
	return views
}
