package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/session"
	"github.com/sidereusnuntius/blogfront/internal/storage"
)

type redirects struct {
	mu      sync.Mutex
	targets []string
}

func (r *redirects) Redirect(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
}

func (r *redirects) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.targets...)
}

type seen struct {
	mu            sync.Mutex
	authorization []string
	requestIDs    []string
}

// authorized builds a client whose backend answers with status and records the headers it received.
func authorized(t *testing.T, status int, resolve Resolver) (*Client, *seen) {
	t.Helper()
	s := &seen{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.authorization = append(s.authorization, r.Header.Get("Authorization"))
		s.requestIDs = append(s.requestIDs, r.Header.Get(RequestIDHeader))
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	base, _ := url.Parse(server.URL + "/api")
	httpClient := &http.Client{Transport: NewAuthorizer(server.Client().Transport, resolve)}
	return New(base, httpClient), s
}

func signedIn(t *testing.T, nav session.Navigator) *session.Store {
	t.Helper()
	store := session.New(storage.NewMemory(), nav)
	if err := store.Set("tok", domain.User{ID: 1, Username: "rita", Role: domain.RoleReader}); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestBearerAttached(t *testing.T) {
	store := signedIn(t, nil)
	c, s := authorized(t, http.StatusOK, Static(store))

	if _, err := c.ListPosts(ctx); err != nil {
		t.Fatal(err)
	}
	if s.authorization[0] != "Bearer tok" {
		t.Errorf("expected bearer token, got %q", s.authorization[0])
	}
	if s.requestIDs[0] == "" {
		t.Error("expected a request id")
	}
}

func TestAnonymousRequestsCarryNoToken(t *testing.T) {
	store := session.New(nil, nil)
	c, s := authorized(t, http.StatusOK, Static(store))

	if _, err := c.ListPosts(ctx); err != nil {
		t.Fatal(err)
	}
	if s.authorization[0] != "" {
		t.Errorf("expected no authorization header, got %q", s.authorization[0])
	}
}

func TestRequestIDsDiffer(t *testing.T) {
	c, s := authorized(t, http.StatusOK, nil)
	c.ListPosts(ctx)
	c.ListPosts(ctx)
	if s.requestIDs[0] == s.requestIDs[1] {
		t.Error("expected a fresh request id per request")
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	nav := &redirects{}
	store := signedIn(t, nav)
	c, _ := authorized(t, http.StatusUnauthorized, FromContext)

	reqCtx := WithReturnPath(WithSession(ctx, store), "/post/7")
	_, err := c.ListPosts(reqCtx)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if store.IsLoggedIn() {
		t.Error("expected the session to be cleared")
	}

	targets := nav.all()
	if len(targets) != 1 || targets[0] != "/login?returnUrl=%2Fpost%2F7" {
		t.Errorf("expected one redirect to login, got %v", targets)
	}
}

func TestConcurrentUnauthorizedRedirectsOnce(t *testing.T) {
	nav := &redirects{}
	store := signedIn(t, nav)
	c, _ := authorized(t, http.StatusUnauthorized, Static(store))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.ListPosts(ctx)
		}()
	}
	wg.Wait()

	if n := len(nav.all()); n != 1 {
		t.Errorf("expected exactly one redirect, got %d", n)
	}
}

func TestAnonymousUnauthorizedLeavesSession(t *testing.T) {
	nav := &redirects{}
	store := session.New(storage.NewMemory(), nav)
	c, _ := authorized(t, http.StatusUnauthorized, Static(store))

	_, err := c.ListPosts(ctx)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if n := len(nav.all()); n != 0 {
		t.Errorf("expected no redirect, got %d", n)
	}
}

func TestStaleTokenDoesNotSignOut(t *testing.T) {
	nav := &redirects{}
	store := signedIn(t, nav)

	// The session changes while the rejected request is in flight.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := store.Set("fresh", domain.User{ID: 1, Username: "rita", Role: domain.RoleReader}); err != nil {
			t.Error(err)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()
	base, _ := url.Parse(server.URL)
	c := New(base, &http.Client{Transport: NewAuthorizer(server.Client().Transport, Static(store))})

	c.ListPosts(ctx)

	if store.Token() != "fresh" {
		t.Errorf("expected the newer session to survive, got token %q", store.Token())
	}
	if n := len(nav.all()); n != 0 {
		t.Errorf("expected no redirect, got %d", n)
	}
}

func TestForbiddenLeavesSession(t *testing.T) {
	nav := &redirects{}
	store := signedIn(t, nav)
	c, _ := authorized(t, http.StatusForbidden, Static(store))

	_, err := c.ListPosts(ctx)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if !store.IsLoggedIn() || store.Token() != "tok" {
		t.Error("expected the session to be untouched")
	}
	if n := len(nav.all()); n != 0 {
		t.Errorf("expected no redirect, got %d", n)
	}
}

func TestNoSessionInContext(t *testing.T) {
	c, s := authorized(t, http.StatusUnauthorized, nil)
	_, err := c.ListPosts(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if s.authorization[0] != "" {
		t.Errorf("expected no authorization header, got %q", s.authorization[0])
	}
}
