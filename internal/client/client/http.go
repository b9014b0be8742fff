package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/common"
)

// TokenSource returns the bearer token to attach, or "" for none.
type TokenSource func() string

type HTTPClient struct {
	baseURL   string
	healthURL string
	http      *http.Client
	token     TokenSource
}

// NewHTTPClient builds a client for the API rooted at baseURL
// (e.g. http://localhost:5000/api). Every request is bounded by timeout.
func NewHTTPClient(baseURL, healthURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		healthURL: healthURL,
		http:      &http.Client{Timeout: timeout},
	}
}

// SetTokenSource installs the function consulted before each request.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.token = ts
}

type postPayload struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

func (c *HTTPClient) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/posts", nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (c *HTTPClient) GetPost(ctx context.Context, id int64) (models.Post, error) {
	var p models.Post
	err := c.do(ctx, http.MethodGet, postPath(id), nil, &p)
	return p, err
}

func (c *HTTPClient) CreatePost(ctx context.Context, title, content string) (models.Post, error) {
	var p models.Post
	err := c.do(ctx, http.MethodPost, "/posts", postPayload{Title: title, Content: content}, &p)
	return p, err
}

// UpdatePost sends only the non-empty fields.
func (c *HTTPClient) UpdatePost(ctx context.Context, id int64, title, content string) (models.Post, error) {
	var p models.Post
	err := c.do(ctx, http.MethodPut, postPath(id), postPayload{Title: title, Content: content}, &p)
	return p, err
}

func (c *HTTPClient) DeletePost(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, postPath(id), nil, nil)
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	req := map[string]string{"username": username, "password": password}
	res := &AuthResult{}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	req := map[string]string{"username": username, "email": email, "password": password}
	res := &AuthResult{}
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Ping checks the health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func postPath(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != nil {
		if t := c.token(); t != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+t)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
