package web

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sidereusnuntius/blogfront/internal/client"
	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/guard"
	"github.com/sidereusnuntius/blogfront/internal/route"
	"github.com/sidereusnuntius/blogfront/internal/session"
	"github.com/sidereusnuntius/blogfront/internal/storage/cookiekv"
	"github.com/sidereusnuntius/blogfront/internal/store"
)

// Keys of the values kept in the session cookie beside the session itself.
const (
	flashKey       = "flash"
	oauthStateKey  = "oauth_state"
	oauthRoleKey   = "oauth_role"
	oauthReturnKey = "oauth_return"
)

// navigation remembers where a forced sign-out wants the browser to go. The handler performs
// the redirect once it sees the failed call.
type navigation struct {
	target string
}

func (n *navigation) Redirect(target string) {
	if n.target == "" {
		n.target = target
	}
}

type requestSession struct {
	store *session.Store
	kv    *cookiekv.KV
	nav   *navigation
}

type key struct{}

func current(r *http.Request) *requestSession {
	if rs, ok := r.Context().Value(key{}).(*requestSession); ok {
		return rs
	}
	return &requestSession{store: session.New(nil, nil), nav: &navigation{}}
}

// returnPath is the view to come back to after signing in. Form posts come back to the page
// that sent them.
func returnPath(r *http.Request) string {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return r.URL.RequestURI()
	}
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" {
		return ""
	}
	if ref.Host != "" && ref.Host != r.Host {
		return ""
	}
	p := ref.RequestURI()
	if !route.IsLocal(p) {
		return ""
	}
	return p
}

// SessionMiddleware loads the browser's session from its cookie and makes it the session of
// every backend call made while serving the request.
func SessionMiddleware(h *Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			kv := cookiekv.New(h.SessionManager, w, r)
			nav := &navigation{}
			s := session.New(kv, nav)
			s.Initialize()

			// The caches of a token are dropped as soon as the token stops being current.
			token := s.Token()
			cancel := s.User().Subscribe(func(*domain.User) {
				if token != "" && s.Token() != token {
					h.workspaces.Remove(token)
				}
			})
			defer cancel()

			ctx := context.WithValue(r.Context(), key{}, &requestSession{store: s, kv: kv, nav: nav})
			ctx = client.WithSession(ctx, s)
			ctx = client.WithReturnPath(ctx, returnPath(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Protect admits the request only if g allows it, redirecting otherwise.
func Protect(g guard.Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g(current(r).store, returnPath(r))
			if !d.Allowed {
				http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) workspace(rs *requestSession) *store.Workspace {
	token := rs.store.Token()
	if token == "" {
		return store.NewWorkspace(h.api)
	}

	h.wsMu.Lock()
	defer h.wsMu.Unlock()
	if ws, ok := h.workspaces.Get(token); ok {
		return ws
	}
	ws := store.NewWorkspace(h.api)
	h.workspaces.Add(token, ws)
	return ws
}

func (rs *requestSession) flash(msg string) {
	if rs.kv != nil {
		rs.kv.Set(flashKey, msg)
	}
}

func (rs *requestSession) popFlash() string {
	if rs.kv == nil {
		return ""
	}
	return rs.kv.Pop(flashKey)
}
