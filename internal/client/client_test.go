package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sidereusnuntius/blogfront/internal/domain"
)

var ctx = context.Background()

type call struct {
	Method string
	Path   string
	Body   string
}

// backend answers every request with status and body, recording what it received.
func backend(t *testing.T, status int, body string) (*Client, *[]call) {
	t.Helper()
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.Path, string(b)})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL + "/api")
	if err != nil {
		t.Fatal(err)
	}
	return New(base, server.Client()), &calls
}

func TestEndpoints(t *testing.T) {
	cases := []struct {
		name     string
		run      func(c *Client) error
		expected call
	}{
		{"register", func(c *Client) error {
			_, err := c.Register(ctx, domain.RegisterRequest{Username: "ana", Email: "a@b.c", Password: "secret", Role: domain.RoleReader})
			return err
		}, call{"POST", "/api/auth/register", `{"username":"ana","email":"a@b.c","password":"secret","role":"READER"}`}},
		{"login", func(c *Client) error {
			_, err := c.Login(ctx, domain.LoginRequest{Email: "a@b.c", Password: "secret"})
			return err
		}, call{"POST", "/api/auth/login", `{"email":"a@b.c","password":"secret"}`}},
		{"google", func(c *Client) error {
			_, err := c.GoogleLogin(ctx, domain.GoogleAuthRequest{IDToken: "idt", Role: domain.RoleBlogger})
			return err
		}, call{"POST", "/api/auth/google", `{"idToken":"idt","role":"BLOGGER"}`}},
		{"profile", func(c *Client) error {
			bio := "hello"
			_, err := c.UpdateProfile(ctx, domain.UpdateProfileRequest{Bio: &bio})
			return err
		}, call{"PUT", "/api/auth/profile", `{"bio":"hello"}`}},
		{"create post", func(c *Client) error {
			_, err := c.CreatePost(ctx, domain.PostRequest{Title: "T", Content: "C", Excerpt: "E", Category: "Tech", Image: "http://i"})
			return err
		}, call{"POST", "/api/posts", `{"title":"T","content":"C","resume":"E","category":"Tech","image":"http://i","tags":[]}`}},
		{"toggle like", func(c *Client) error {
			_, err := c.ToggleLike(ctx, 7)
			return err
		}, call{"POST", "/api/posts/7/like", `{}`}},
		{"add comment", func(c *Client) error {
			_, err := c.AddComment(ctx, 7, "nice")
			return err
		}, call{"POST", "/api/posts/7/comments", `{"content":"nice"}`}},
		{"delete comment", func(c *Client) error {
			return c.DeleteComment(ctx, 9)
		}, call{"DELETE", "/api/comments/9", ``}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			client, calls := backend(t, http.StatusOK, `{"token":"tok","user":{"id":1,"role":"READER"}}`)
			if err := c.run(client); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff([]call{c.expected}, *calls); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestReadEndpoints(t *testing.T) {
	cases := []struct {
		name string
		path string
		run  func(c *Client) (any, error)
	}{
		{"list posts", "/api/posts", func(c *Client) (any, error) { return c.ListPosts(ctx) }},
		{"my posts", "/api/posts/my-posts", func(c *Client) (any, error) { return c.MyPosts(ctx) }},
		{"likes", "/api/posts/3/likes", func(c *Client) (any, error) { return c.Likes(ctx, 3) }},
		{"comments", "/api/posts/3/comments", func(c *Client) (any, error) { return c.ListComments(ctx, 3) }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			client, calls := backend(t, http.StatusOK, `[]`)
			if _, err := c.run(client); err != nil {
				t.Fatal(err)
			}
			if len(*calls) != 1 || (*calls)[0].Method != http.MethodGet || (*calls)[0].Path != c.path {
				t.Errorf("unexpected calls %+v", *calls)
			}
		})
	}
}

func TestGetPost(t *testing.T) {
	client, calls := backend(t, http.StatusOK, `{"id":42,"title":"Hi","likes":2,"tags":["a"],"date":"2025-05-01T10:00:00"}`)
	post, err := client.GetPost(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if post.ID != 42 || post.Title != "Hi" || post.Likes != 2 || post.Date.IsZero() {
		t.Errorf("unexpected post %+v", post)
	}
	if (*calls)[0].Path != "/api/posts/42" {
		t.Errorf("unexpected path %s", (*calls)[0].Path)
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		target  error
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"Token manquant"}`, ErrUnauthorized, "Token manquant"},
		{"forbidden", http.StatusForbidden, ``, ErrForbidden, ""},
		{"not found", http.StatusNotFound, `{"error":"Not Found"}`, ErrNotFound, "Not Found"},
		{"server error", http.StatusInternalServerError, `oops`, nil, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			client, _ := backend(t, c.status, c.body)
			_, err := client.ListPosts(ctx)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected an APIError, got %v", err)
			}
			if apiErr.Status != c.status || Message(err) != c.message {
				t.Errorf("unexpected error %+v", apiErr)
			}
			if c.target != nil && !errors.Is(err, c.target) {
				t.Errorf("expected %v to match %v", err, c.target)
			}
			for _, other := range []error{ErrUnauthorized, ErrForbidden, ErrNotFound} {
				if other != c.target && errors.Is(err, other) {
					t.Errorf("%v must not match %v", err, other)
				}
			}
		})
	}
}

func TestAuthenticationRejected(t *testing.T) {
	client, _ := backend(t, http.StatusOK, `{"message":"Ce nom d'utilisateur est déjà pris"}`)
	_, err := client.Register(ctx, domain.RegisterRequest{})
	if !errors.Is(err, ErrRejected) {
		t.Errorf("expected ErrRejected, got %v", err)
	}
	if msg := Message(err); msg != "Ce nom d'utilisateur est déjà pris" {
		t.Errorf("unexpected message %q", msg)
	}

	_, err = client.UpdateProfile(ctx, domain.UpdateProfileRequest{})
	if !errors.Is(err, ErrRejected) {
		t.Errorf("expected ErrRejected, got %v", err)
	}
}

func TestMalformedResponse(t *testing.T) {
	client, _ := backend(t, http.StatusOK, `{"id": "not a number"}`)
	_, err := client.GetPost(ctx, 1)
	if err == nil {
		t.Fatal("expected a decoding error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Errorf("decoding errors are not API errors: %v", err)
	}
}

func TestAuthResponseDecoding(t *testing.T) {
	client, _ := backend(t, http.StatusOK, `{"token":"tok","user":{"id":5,"username":"bo","email":"bo@x.y","role":"BLOGGER","avatar":"http://a"}}`)
	res, err := client.Login(ctx, domain.LoginRequest{})
	if err != nil {
		t.Fatal(err)
	}

	expected := domain.AuthResponse{
		Token: "tok",
		User:  &domain.User{ID: 5, Username: "bo", Email: "bo@x.y", Role: domain.RoleBlogger, Avatar: "http://a"},
	}
	if diff := cmp.Diff(expected, res); diff != "" {
		t.Error(diff)
	}
	if _, err := json.Marshal(res); err != nil {
		t.Error(err)
	}
}
