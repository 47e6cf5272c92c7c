package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/server/services"
	"github.com/gorilla/mux"
)

// multipart bodies may exceed the image cap by the form overhead; the hard
// request limit leaves headroom above the 10MB image check in the service.
const maxUploadBytes = 12 << 20

func (s *Server) handleListArtworks(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", services.DefaultPage)
	pageSize := queryInt(r, "pageSize", services.DefaultPageSize)

	list, err := s.artworks.List(r.Context(), page, pageSize)
	if err != nil {
		s.internalError(w, r, "artwork listing failed", err)
		return
	}

	writeSuccess(w, newArtworkViews(list), "ok")
}

func (s *Server) handleGetArtwork(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	artwork, err := s.artworks.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeFail(w, http.StatusNotFound, "artwork not found")
			return
		}
		s.internalError(w, r, "artwork lookup failed", err)
		return
	}

	writeSuccess(w, newArtworkView(artwork), "ok")
}

func (s *Server) handleCreateArtwork(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := r.FormValue("title")
	description := r.FormValue("description")

	var image *services.ImageUpload
	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		image = &services.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     file,
		}
	}

	artwork, err := s.artworks.Create(r.Context(), claims.UserID, title, description, image)
	if err != nil {
		if services.IsValidationError(err) {
			writeFail(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, r, "artwork upload failed", err)
		return
	}

	writeSuccess(w, newArtworkView(artwork), "artwork uploaded")
}

func (s *Server) handleDeleteArtwork(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, idOK := pathID(w, r)
	if !idOK {
		return
	}

	if err := s.artworks.Delete(r.Context(), claims.UserID, id); err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeFail(w, http.StatusNotFound, "artwork not found")
		case errors.Is(err, common.ErrorForbidden):
			writeFail(w, http.StatusForbidden, "no permission to delete this artwork")
		default:
			s.internalError(w, r, "artwork deletion failed", err)
		}
		return
	}

	writeSuccess(w, nil, "artwork deleted")
}

// pathID parses the {id} route variable; on failure it writes the 400
// envelope and returns ok=false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeFail(w, http.StatusBadRequest, "invalid artwork id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
