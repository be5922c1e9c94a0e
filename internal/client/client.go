// Package client talks to the blog backend's REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/domain"
)

const maxErrorBody = 4 << 10

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	// ErrRejected is returned when the backend answers an authentication request without a token.
	ErrRejected = errors.New("authentication rejected")
)

// APIError is a response with an error status. It matches ErrUnauthorized, ErrForbidden and
// ErrNotFound through errors.Is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// RejectionError carries the backend's explanation for a refused authentication. It matches
// ErrRejected.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return ErrRejected.Error()
	}
	return ErrRejected.Error() + ": " + e.Message
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrRejected
}

// Message returns the explanation the backend gave for err, if any.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection.Message
	}
	return ""
}

// Client is safe for concurrent use. Authorization is added by the transport of the
// http.Client it wraps (see Authorizer).
type Client struct {
	base   *url.URL
	client *http.Client
}

func New(base *url.URL, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		base:   base,
		client: client,
	}
}

func (c *Client) do(ctx context.Context, method string, path []string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	target := c.base.JoinPath(path...)
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: res.StatusCode}
		content, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		var msg struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if json.Unmarshal(content, &msg) == nil {
			apiErr.Message = msg.Message
			if apiErr.Message == "" {
				apiErr.Message = msg.Error
			}
		}
		log.Debug().
			Str("method", method).
			Str("path", target.Path).
			Int("status", res.StatusCode).
			Bytes("response", content).
			Msg("api error")
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, target.Path, err)
	}
	return nil
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

func (c *Client) authenticate(ctx context.Context, path string, in any) (domain.AuthResponse, error) {
	var res domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, []string{"auth", path}, in, &res); err != nil {
		return res, err
	}
	if res.Token == "" || res.User == nil {
		return res, &RejectionError{Message: res.Message}
	}
	return res, nil
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	return c.authenticate(ctx, "register", req)
}

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	return c.authenticate(ctx, "login", req)
}

// GoogleLogin exchanges a Google ID token for a backend session.
func (c *Client) GoogleLogin(ctx context.Context, req domain.GoogleAuthRequest) (domain.AuthResponse, error) {
	return c.authenticate(ctx, "google", req)
}

// UpdateProfile returns the updated user and, when the backend reissues one, a new token.
func (c *Client) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (domain.AuthResponse, error) {
	var res domain.AuthResponse
	if err := c.do(ctx, http.MethodPut, []string{"auth", "profile"}, req, &res); err != nil {
		return res, err
	}
	if res.User == nil {
		return res, &RejectionError{Message: res.Message}
	}
	return res, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (u domain.User, err error) {
	err = c.do(ctx, http.MethodGet, []string{"auth", "me"}, nil, &u)
	return
}

func (c *Client) ListPosts(ctx context.Context) (posts []domain.Post, err error) {
	err = c.do(ctx, http.MethodGet, []string{"posts"}, nil, &posts)
	return
}

// MyPosts lists the posts written by the signed-in blogger.
func (c *Client) MyPosts(ctx context.Context) (posts []domain.Post, err error) {
	err = c.do(ctx, http.MethodGet, []string{"posts", "my-posts"}, nil, &posts)
	return
}

func (c *Client) GetPost(ctx context.Context, postID int64) (post domain.Post, err error) {
	err = c.do(ctx, http.MethodGet, []string{"posts", id(postID)}, nil, &post)
	return
}

func (c *Client) CreatePost(ctx context.Context, req domain.PostRequest) (post domain.Post, err error) {
	if req.Tags == nil {
		req.Tags = []string{}
	}
	err = c.do(ctx, http.MethodPost, []string{"posts"}, req, &post)
	return
}

func (c *Client) ToggleLike(ctx context.Context, postID int64) (res domain.LikeResponse, err error) {
	err = c.do(ctx, http.MethodPost, []string{"posts", id(postID), "like"}, struct{}{}, &res)
	return
}

// Likes lists who liked a post.
func (c *Client) Likes(ctx context.Context, postID int64) (likes []domain.Liker, err error) {
	err = c.do(ctx, http.MethodGet, []string{"posts", id(postID), "likes"}, nil, &likes)
	return
}

func (c *Client) ListComments(ctx context.Context, postID int64) (comments []domain.Comment, err error) {
	err = c.do(ctx, http.MethodGet, []string{"posts", id(postID), "comments"}, nil, &comments)
	return
}

func (c *Client) AddComment(ctx context.Context, postID int64, content string) (comment domain.Comment, err error) {
	err = c.do(ctx, http.MethodPost, []string{"posts", id(postID), "comments"}, domain.CommentRequest{Content: content}, &comment)
	return
}

func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.do(ctx, http.MethodDelete, []string{"comments", id(commentID)}, nil, nil)
}
