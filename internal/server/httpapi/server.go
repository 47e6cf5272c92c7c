package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gallery/internal/logging"
	"github.com/dmitrijs2005/gallery/internal/server/models"
	"github.com/dmitrijs2005/gallery/internal/server/services"
	"github.com/gorilla/mux"
)

const apiVersion = "1.0.0"

// UserService is the authentication surface the handlers need.
type UserService interface {
	Register(ctx context.Context, username, password, email string) error
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	CurrentUser(ctx context.Context, userID int64) (*models.User, error)
}

// ArtworkService is the artwork surface the handlers need.
type ArtworkService interface {
	List(ctx context.Context, page, pageSize int) ([]*models.Artwork, error)
	Get(ctx context.Context, id int64) (*models.Artwork, error)
	Create(ctx context.Context, userID int64, title, description string, image *services.ImageUpload) (*models.Artwork, error)
	Delete(ctx context.Context, userID, id int64) error
}

type Server struct {
	address   string
	logger    logging.Logger
	users     UserService
	artworks  ArtworkService
	jwtSecret []byte
}

func NewServer(address string, l logging.Logger, us UserService, as ArtworkService, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "httpapi"),
		users:     us,
		artworks:  as,
		jwtSecret: []byte(secretKey),
	}
}

// Handler assembles the full middleware chain and route table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.Handle("/user/current", s.requireAuth(http.HandlerFunc(s.handleCurrentUser))).Methods(http.MethodGet)
	api.HandleFunc("/artworks", s.handleListArtworks).Methods(http.MethodGet)
	api.Handle("/artworks", s.requireAuth(http.HandlerFunc(s.handleCreateArtwork))).Methods(http.MethodPost)
	api.HandleFunc("/artworks/{id}", s.handleGetArtwork).Methods(http.MethodGet)
	api.Handle("/artworks/{id}", s.requireAuth(http.HandlerFunc(s.handleDeleteArtwork))).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFail(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFail(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// CORS wraps the router itself so preflight and unmatched routes get
	// the headers too.
	return corsMiddleware(s.recoverMiddleware(r))
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, map[string]string{
		"message": "gallery API running",
		"version": apiVersion,
	}, "ok")
}
