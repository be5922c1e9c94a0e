package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/oauth2"
)

func tokenServer(t *testing.T, body string) *Google {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		if r.Form.Get("code") != "the-code" {
			t.Errorf("unexpected code %q", r.Form.Get("code"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	g := NewGoogle("client", "secret", "http://localhost/auth/google/callback")
	g.config.Endpoint = oauth2.Endpoint{
		AuthURL:   server.URL + "/auth",
		TokenURL:  server.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	return g
}

func TestIDToken(t *testing.T) {
	g := tokenServer(t, `{"access_token":"at","token_type":"Bearer","expires_in":3600,"id_token":"idt"}`)

	idToken, err := g.IDToken(context.Background(), "the-code")
	if err != nil {
		t.Fatal(err)
	}
	if idToken != "idt" {
		t.Errorf("expected idt, got %q", idToken)
	}
}

func TestMissingIDToken(t *testing.T) {
	g := tokenServer(t, `{"access_token":"at","token_type":"Bearer"}`)

	if _, err := g.IDToken(context.Background(), "the-code"); !errors.Is(err, ErrNoIDToken) {
		t.Errorf("expected ErrNoIDToken, got %v", err)
	}
}

func TestDisabled(t *testing.T) {
	g := NewGoogle("", "", "")
	if g.Enabled() {
		t.Error("expected google sign-in to be disabled")
	}
	if _, err := g.IDToken(context.Background(), "code"); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestAuthCodeURL(t *testing.T) {
	g := NewGoogle("client", "secret", "http://localhost/auth/google/callback")

	u, err := url.Parse(g.AuthCodeURL("xyz"))
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if u.Host != "accounts.google.com" {
		t.Errorf("unexpected host %s", u.Host)
	}
	if q.Get("state") != "xyz" || q.Get("client_id") != "client" || q.Get("redirect_uri") != "http://localhost/auth/google/callback" {
		t.Errorf("unexpected query %v", q)
	}
	if NewState() == NewState() {
		t.Error("expected distinct states")
	}
}
