// Package cli implements the interactive gallery client: a small REPL for
// registering, logging in, browsing artworks and managing uploads.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/gallery/internal/client/api"
	"github.com/dmitrijs2005/gallery/internal/client/config"
	"github.com/dmitrijs2005/gallery/internal/client/session"
)

// galleryAPI is the backend surface the commands need. The real api.Client
// satisfies it; tests can provide a stub.
type galleryAPI interface {
	Register(ctx context.Context, username, password, email string) error
	Login(ctx context.Context, username, password string) (*api.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*api.User, error)
	ListArtworks(ctx context.Context, page, pageSize int) ([]api.Artwork, error)
	GetArtwork(ctx context.Context, id int64) (*api.Artwork, error)
	UploadArtwork(ctx context.Context, title, description, filePath string) (*api.Artwork, error)
	DeleteArtwork(ctx context.Context, id int64) error
}

type App struct {
	config   *config.Config
	api      galleryAPI
	session  session.Store
	reader   *bufio.Reader
	out      io.Writer
	username string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	store, err := session.Open(ctx, c.SessionDBPath)
	if err != nil {
		return nil, err
	}

	app := &App{
		config:  c,
		api:     api.NewClient(c.ServerBaseURL, store),
		session: store,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	// A stored profile from a previous run restores the logged-in prompt.
	if p, err := store.User(ctx); err == nil && p != nil {
		app.username = p.Username
	}

	return app, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.session.Close()
	runREPL(ctx, a, a.showLogin, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.username != ""
}

func (a *App) showLogin() string {
	if a.username == "" {
		return "(not logged in)"
	}
	return a.username
}
