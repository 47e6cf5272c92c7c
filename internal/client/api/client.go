// Package api implements the REST client for the gallery backend. It attaches
// the stored bearer token to requests, decodes the JSON envelope, and clears
// the local session when the server rejects the token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gallery/internal/client/session"
	"github.com/dmitrijs2005/gallery/internal/common"
)

// Error is an application-level failure reported by the server envelope.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// User is the profile shape returned by the backend.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	CreateTime time.Time `json:"createTime"`
}

type Artwork struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Username    string    `json:"username"`
	ImageURL    string    `json:"imageUrl"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreateTime  time.Time `json:"createTime"`
	UpdateTime  time.Time `json:"updateTime"`
}

type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type Client struct {
	baseURL string
	http    *http.Client
	session session.Store
}

func NewClient(baseURL string, s session.Store) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		session: s,
	}
}

// do sends the request and decodes the envelope into out (when non-nil).
// A transport-level 401 wipes the local session so the next command starts
// logged out.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("request build error: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, err := c.session.Token(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("unexpected response from server: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.session.Clear(ctx)
		return fmt.Errorf("%s: %w", env.Message, common.ErrorUnauthorized)
	}

	if env.Code != http.StatusOK {
		return &Error{Code: env.Code, Message: env.Message}
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("response decode error: %w", err)
		}
	}

	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("request encode error: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(payload), out)
}

func (c *Client) Register(ctx context.Context, username, password, email string) error {
	in := map[string]string{"username": username, "password": password, "email": email}
	return c.postJSON(ctx, "/api/auth/register", in, nil)
}

// Login authenticates and persists the token and profile in the session
// store.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	in := map[string]string{"username": username, "password": password}

	var out struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := c.postJSON(ctx, "/api/auth/login", in, &out); err != nil {
		return nil, err
	}

	if err := c.session.SetToken(ctx, out.Token); err != nil {
		return nil, err
	}
	if err := c.session.SetUser(ctx, &session.Profile{
		ID:       out.User.ID,
		Username: out.User.Username,
		Email:    out.User.Email,
	}); err != nil {
		return nil, err
	}

	return &out.User, nil
}

// Logout discards the local session. The token itself stays valid until it
// expires; the server keeps no session state.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Clear(ctx)
}

func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/user/current", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListArtworks(ctx context.Context, page, pageSize int) ([]Artwork, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	path := "/api/artworks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []Artwork
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetArtwork(ctx context.Context, id int64) (*Artwork, error) {
	var out Artwork
	if err := c.do(ctx, http.MethodGet, "/api/artworks/"+strconv.FormatInt(id, 10), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadArtwork sends the image at filePath together with its title and
// description as a multipart form.
func (c *Client) UploadArtwork(ctx context.Context, title, description, filePath string) (*Artwork, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("image open error: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("title", title); err != nil {
		return nil, fmt.Errorf("form build error: %w", err)
	}
	if err := mw.WriteField("description", description); err != nil {
		return nil, fmt.Errorf("form build error: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(filePath))}
	header["Content-Type"] = []string{contentType}

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("form build error: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("image read error: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("form build error: %w", err)
	}

	var out Artwork
	if err := c.do(ctx, http.MethodPost, "/api/artworks", mw.FormDataContentType(), &buf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteArtwork(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/artworks/"+strconv.FormatInt(id, 10), "", nil, nil)
}
