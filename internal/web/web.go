// Package web serves the blog's HTML views. Every browser keeps its own session in an encrypted
// cookie; the caches for signed-in sessions live in memory, keyed by token.
package web

import (
	"context"
	"sync"
	"time"

	"github.com/alexedwards/scs"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sidereusnuntius/blogfront/internal/client"
	"github.com/sidereusnuntius/blogfront/internal/config"
	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/oauth"
	"github.com/sidereusnuntius/blogfront/internal/service"
	"github.com/sidereusnuntius/blogfront/internal/store"
)

// Backend is everything the views need from the API client.
type Backend interface {
	store.API
	MyPosts(ctx context.Context) ([]domain.Post, error)
	Likes(ctx context.Context, postID int64) ([]domain.Liker, error)
}

type Handler struct {
	Config         *config.Configuration
	SessionManager *scs.Manager

	api        Backend
	service    service.Service
	google     *oauth.Google
	wsMu       sync.Mutex
	workspaces *expirable.LRU[string, *store.Workspace]
	policy     *bluemonday.Policy
}

func New(config *config.Configuration, api Backend, service service.Service, manager *scs.Manager, google *oauth.Google) *Handler {
	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Handler{
		Config:         config,
		SessionManager: manager,
		api:            api,
		service:        service,
		google:         google,
		workspaces:     expirable.NewLRU[string, *store.Workspace](max(config.CacheSize, 1), nil, ttl),
		policy:         bluemonday.UGCPolicy(),
	}
}

// NewManager returns the cookie session manager configured for c.
func NewManager(c *config.Configuration) *scs.Manager {
	manager := scs.NewCookieManager(c.SessionKey)
	manager.Name("blogfront")
	manager.Lifetime(c.SessionLifetime)
	manager.Persist(true)
	manager.HttpOnly(true)
	manager.Secure(c.SecureCookies)
	// Keeps the cookie off cross-site form posts.
	manager.SameSite("Lax")
	return manager
}

var _ Backend = (*client.Client)(nil)
