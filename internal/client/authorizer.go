package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-Id"

// Session is what the authorizer needs from the session store.
type Session interface {
	Token() string
	// Invalidate signs out if token is still the current one.
	Invalidate(token, returnTo string) bool
}

// Resolver finds the session an outgoing request is made for.
type Resolver func(ctx context.Context) (Session, bool)

type sessionKey struct{}
type returnKey struct{}

// WithSession attaches s to ctx for the FromContext resolver.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext resolves the session attached with WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok && s != nil
}

// Static always resolves to s.
func Static(s Session) Resolver {
	return func(context.Context) (Session, bool) {
		return s, true
	}
}

// WithReturnPath records the view being displayed, so that a forced sign-out can come back to it.
func WithReturnPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, returnKey{}, path)
}

func ReturnPath(ctx context.Context) string {
	p, _ := ctx.Value(returnKey{}).(string)
	return p
}

// Authorizer is a RoundTripper that adds the session's bearer token to each request. When a
// request that carried a token is answered with 401 the session is invalidated; a 401 for an
// anonymous request and any 403 leave the session alone.
type Authorizer struct {
	next    http.RoundTripper
	resolve Resolver
}

func NewAuthorizer(next http.RoundTripper, resolve Resolver) *Authorizer {
	if next == nil {
		next = http.DefaultTransport
	}
	if resolve == nil {
		resolve = FromContext
	}
	return &Authorizer{
		next:    next,
		resolve: resolve,
	}
}

func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	s, ok := a.resolve(ctx)

	var token string
	if ok {
		token = s.Token()
	}

	out := req.Clone(ctx)
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, uuid.NewString())
	}
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	} else {
		out.Header.Del("Authorization")
	}

	res, err := a.next.RoundTrip(out)
	if err != nil {
		return res, err
	}

	switch res.StatusCode {
	case http.StatusUnauthorized:
		if token == "" {
			log.Debug().Str("path", out.URL.Path).Msg("anonymous request rejected")
			break
		}
		returnTo := ReturnPath(ctx)
		if s.Invalidate(token, returnTo) {
			log.Warn().
				Str("path", out.URL.Path).
				Str("request_id", out.Header.Get(RequestIDHeader)).
				Str("return_to", returnTo).
				Msg("token rejected, session cleared")
		}
	case http.StatusForbidden:
		log.Debug().Str("path", out.URL.Path).Msg("permission denied")
	}
	return res, nil
}
