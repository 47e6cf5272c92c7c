package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/server/models"
	"github.com/dmitrijs2005/gallery/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserService struct {
	registerErr error
	loginToken  string
	loginUser   *models.User
	loginErr    error
	currentUser *models.User
	currentErr  error
}

func (f *fakeUserService) Register(ctx context.Context, username, password, email string) error {
	return f.registerErr
}

func (f *fakeUserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.loginToken, f.loginUser, nil
}

func (f *fakeUserService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return f.currentUser, nil
}

type fakeArtworkService struct {
	listOut      []*models.Artwork
	listErr      error
	lastPage     int
	lastPageSize int

	getOut *models.Artwork
	getErr error

	createOut    *models.Artwork
	createErr    error
	createCalls  int
	createUserID int64

	deleteErr    error
	deleteCalls  int
	deleteUserID int64
	deleteID     int64
}

func (f *fakeArtworkService) List(ctx context.Context, page, pageSize int) ([]*models.Artwork, error) {
	f.lastPage, f.lastPageSize = page, pageSize
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeArtworkService) Get(ctx context.Context, id int64) (*models.Artwork, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeArtworkService) Create(ctx context.Context, userID int64, title, description string, image *services.ImageUpload) (*models.Artwork, error) {
	f.createCalls++
	f.createUserID = userID
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeArtworkService) Delete(ctx context.Context, userID, id int64) error {
	f.deleteCalls++
	f.deleteUserID, f.deleteID = userID, id
	return f.deleteErr
}

func sampleArtwork(id int64) *models.Artwork {
	return &models.Artwork{
		ID:          id,
		UserID:      7,
		Username:    "alice",
		StorageKey:  fmt.Sprintf("artworks/2025/1/2/%d.png", id),
		ImageURL:    fmt.Sprintf("http://localhost:9000/gallery/artworks/2025/1/2/%d.png", id),
		Title:       "Sunset",
		Description: "oil on canvas, painted outdoors",
		CreatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func doRequest(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(nil, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec.Body.Bytes())
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "gallery API running", data["message"])
	assert.Equal(t, apiVersion, data["version"])
}

func TestHandleRegister(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "success",
			body:     `{"username":"alice","password":"secret1","email":"a@b.co"}`,
			wantCode: http.StatusOK,
			wantMsg:  "registration successful",
		},
		{
			name:     "malformed body",
			body:     `{"username":`,
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid request body",
		},
		{
			name:     "validation error passes through",
			body:     `{"username":"al","password":"secret1","email":"a@b.co"}`,
			svcErr:   services.ErrInvalidUsername,
			wantCode: http.StatusBadRequest,
			wantMsg:  services.ErrInvalidUsername.Error(),
		},
		{
			name:     "username taken",
			body:     `{"username":"alice","password":"secret1","email":"a@b.co"}`,
			svcErr:   services.ErrUsernameTaken,
			wantCode: http.StatusBadRequest,
			wantMsg:  services.ErrUsernameTaken.Error(),
		},
		{
			name:     "internal error is opaque",
			body:     `{"username":"alice","password":"secret1","email":"a@b.co"}`,
			svcErr:   fmt.Errorf("db down"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeUserService{registerErr: tt.svcErr}, nil)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			rec := doRequest(s, req)

			require.Equal(t, tt.wantCode, rec.Code)
			env := decodeEnvelope(t, rec.Body.Bytes())
			assert.Equal(t, tt.wantCode, env.Code)
			assert.Equal(t, tt.wantMsg, env.Message)
		})
	}
}

func TestHandleLogin_Success(t *testing.T) {
	user := &models.User{ID: 7, Username: "alice", Email: "a@b.co", CreatedAt: time.Now()}
	s := newTestServer(&fakeUserService{loginToken: "tok123", loginUser: user}, nil)

	body := `{"username":"alice","password":"secret1"}`
	rec := doRequest(s, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec.Body.Bytes())
	assert.Equal(t, "login successful", env.Message)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "tok123", data["token"])

	profile, ok := data["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", profile["username"])
	assert.Equal(t, float64(7), profile["id"])
	assert.NotContains(t, profile, "passwordHash")
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	s := newTestServer(&fakeUserService{loginErr: services.ErrInvalidCredentials}, nil)

	body := `{"username":"alice","password":"wrong"}`
	rec := doRequest(s, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, services.ErrInvalidCredentials.Error(), decodeEnvelope(t, rec.Body.Bytes()).Message)
}

func TestHandleCurrentUser(t *testing.T) {
	user := &models.User{ID: 7, Username: "alice", Email: "a@b.co"}
	s := newTestServer(&fakeUserService{currentUser: user}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
	req.Header.Set("Authorization", "Bearer "+validToken(t, 7, "alice"))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeEnvelope(t, rec.Body.Bytes()).Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, "a@b.co", data["email"])
}

func TestHandleCurrentUser_Missing(t *testing.T) {
	s := newTestServer(&fakeUserService{currentErr: common.ErrorNotFound}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/user/current", nil)
	req.Header.Set("Authorization", "Bearer "+validToken(t, 7, "alice"))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found", decodeEnvelope(t, rec.Body.Bytes()).Message)
}

func TestHandleCurrentUser_RequiresAuth(t *testing.T) {
	s := newTestServer(&fakeUserService{}, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/user/current", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleListArtworks(t *testing.T) {
	arts := &fakeArtworkService{listOut: []*models.Artwork{sampleArtwork(1), sampleArtwork(2)}}
	s := newTestServer(nil, arts)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/artworks?page=3&pageSize=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, arts.lastPage)
	assert.Equal(t, 5, arts.lastPageSize)

	data, ok := decodeEnvelope(t, rec.Body.Bytes()).Data.([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)
}

func TestHandleListArtworks_DefaultsWhenUnparseable(t *testing.T) {
	arts := &fakeArtworkService{listOut: []*models.Artwork{}}
	s := newTestServer(nil, arts)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/artworks?page=abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, services.DefaultPage, arts.lastPage)
	assert.Equal(t, services.DefaultPageSize, arts.lastPageSize)

	// an empty page serialises as [], not null
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestHandleGetArtwork(t *testing.T) {
	s := newTestServer(nil, &fakeArtworkService{getOut: sampleArtwork(42)})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/artworks/42", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data, ok := decodeEnvelope(t, rec.Body.Bytes()).Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(42), data["id"])
	assert.Equal(t, "alice", data["username"])
	assert.NotContains(t, data, "storageKey")
}

func TestHandleGetArtwork_NotFound(t *testing.T) {
	s := newTestServer(nil, &fakeArtworkService{getErr: common.ErrorNotFound})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/artworks/42", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "artwork not found", decodeEnvelope(t, rec.Body.Bytes()).Message)
}

func TestHandleGetArtwork_BadID(t *testing.T) {
	s := newTestServer(nil, &fakeArtworkService{})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/artworks/banana", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid artwork id", decodeEnvelope(t, rec.Body.Bytes()).Message)
}

func multipartUpload(t *testing.T, title, description string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.WriteField("description", description))
	if image != nil {
		part, err := mw.CreatePart(map[string][]string{
			"Content-Disposition": {`form-data; name="image"; filename="pic.png"`},
			"Content-Type":        {"image/png"},
		})
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandleCreateArtwork(t *testing.T) {
	arts := &fakeArtworkService{createOut: sampleArtwork(42)}
	s := newTestServer(nil, arts)

	body, contentType := multipartUpload(t, "Sunset", "oil on canvas, painted outdoors", []byte("pngbytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/artworks", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+validToken(t, 7, "alice"))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, arts.createCalls)
	assert.Equal(t, int64(7), arts.createUserID)
	assert.Equal(t, "artwork uploaded", decodeEnvelope(t, rec.Body.Bytes()).Message)
}

func TestHandleCreateArtwork_RequiresAuth(t *testing.T) {
	arts := &fakeArtworkService{}
	s := newTestServer(nil, arts)

	body, contentType := multipartUpload(t, "Sunset", "oil on canvas, painted outdoors", []byte("pngbytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/artworks", body)
	req.Header.Set("Content-Type", contentType)
	rec := doRequest(s, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, arts.createCalls)
}

func TestHandleCreateArtwork_ValidationError(t *testing.T) {
	arts := &fakeArtworkService{createErr: services.ErrInvalidDescription}
	s := newTestServer(nil, arts)

	body, contentType := multipartUpload(t, "Sunset", "short", []byte("pngbytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/artworks", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+validToken(t, 7, "alice"))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, services.ErrInvalidDescription.Error(), decodeEnvelope(t, rec.Body.Bytes()).Message)
}

func TestHandleCreateArtwork_NotMultipart(t *testing.T) {
	s := newTestServer(nil, &fakeArtworkService{})

	req := httptest.NewRequest(http.MethodPost, "/api/artworks", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+validToken(t, 7, "alice"))
	rec := doRequest(s, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid multipart form", decodeEnvelope(t, rec.Body.Bytes()).Message)
}

func TestHandleDeleteArtwork(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		wantCode int
		wantMsg  string
	}{
		{name: "owner deletes", wantCode: http.StatusOK, wantMsg: "artwork deleted"},
		{name: "not found", svcErr: common.ErrorNotFound, wantCode: http.StatusNotFound, wantMsg: "artwork not found"},
		{name: "not the owner", svcErr: common.ErrorForbidden, wantCode: http.StatusForbidden, wantMsg: "no permission to delete this artwork"},
		{name: "storage failure", svcErr: fmt.Errorf("db down"), wantCode: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arts := &fakeArtworkService{deleteErr: tt.svcErr}
			s := newTestServer(nil, arts)

			req := httptest.NewRequest(http.MethodDelete, "/api/artworks/42", nil)
			req.Header.Set("Authorization", "Bearer "+validToken(t, 7, "alice"))
			rec := doRequest(s, req)

			require.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeEnvelope(t, rec.Body.Bytes()).Message)
			assert.Equal(t, int64(7), arts.deleteUserID)
			assert.Equal(t, int64(42), arts.deleteID)
		})
	}
}

func TestHandleDeleteArtwork_RequiresAuth(t *testing.T) {
	arts := &fakeArtworkService{}
	s := newTestServer(nil, arts)

	rec := doRequest(s, httptest.NewRequest(http.MethodDelete, "/api/artworks/42", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, arts.deleteCalls)
}

func TestRouter_UnknownRoute(t *testing.T) {
	s := newTestServer(nil, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/nothing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "route not found", decodeEnvelope(t, rec.Body.Bytes()).Message)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	s := newTestServer(nil, nil)

	rec := doRequest(s, httptest.NewRequest(http.MethodPut, "/api/auth/login", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestEnvelope_TimestampIsMilliseconds(t *testing.T) {
	s := newTestServer(nil, &fakeArtworkService{listOut: []*models.Artwork{}})

	rec := doRequest(s, httptest.NewRequest(http.MethodGet, "/api/artworks", nil))

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.InDelta(t, time.Now().UnixMilli(), env.Timestamp, 5000)
}
