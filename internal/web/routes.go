package web

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/client"
	"github.com/sidereusnuntius/blogfront/internal/guard"
	"github.com/sidereusnuntius/blogfront/internal/route"
)

func (h *Handler) Mount(r chi.Router) {
	r.Use(middleware.Recoverer)
	if h.Config.Debug {
		r.Use(RequestLogger)
	}
	if h.Config.RequestTimeout > 0 {
		r.Use(middleware.Timeout(h.Config.RequestTimeout))
	}
	r.Use(SessionMiddleware(h))

	authenticated := Protect(guard.Auth)

	r.Get(route.Landing, h.Landing)
	r.Group(func(r chi.Router) {
		r.Use(Protect(guard.Guest))
		r.Get(route.Login, h.GetLogin)
		r.Post(route.Login, h.Login)
		r.Get(route.Register, h.GetRegister)
		r.Post(route.Register, h.Register)
		r.Get(route.GoogleLogin, h.GoogleLogin)
		r.Get(route.GoogleCallback, h.GoogleCallback)
	})
	r.Post(route.Logout, h.Logout)

	r.With(authenticated).Get(route.Home, h.Home)
	r.With(Protect(guard.Reader)).Get(route.ReaderHome, h.Home)

	r.Route(route.BloggerHome, func(r chi.Router) {
		r.Use(Protect(guard.Blogger))
		r.Get("/", h.BloggerHome)
		r.Get("/post-form", h.GetPostForm)
		r.Post("/post-form", h.CreatePost)
	})

	r.Route(route.Profile, func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", h.GetProfile)
		r.Post("/", h.UpdateProfile)
	})

	r.Route(route.Posts+"/{id}", func(r chi.Router) {
		r.Get("/", h.Post)
		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Post("/like", h.Like)
			r.Post("/comments", h.AddComment)
			r.Post("/comments/{cid}/delete", h.DeleteComment)
		})
	})

	h.MountStaticRoutes(r)
}

func (h *Handler) MountStaticRoutes(r chi.Router) {
	dir := h.Config.StaticDir
	if !filepath.IsAbs(dir) {
		wd, _ := os.Getwd()
		dir = filepath.Join(wd, dir)
	}

	fileServer := http.FileServer(http.FS(os.DirFS(dir)))
	r.Handle(route.Static+"/*", http.StripPrefix(route.Static+"/", fileServer))
}

// RequestLogger logs every request through the global logger.
func RequestLogger(next http.Handler) http.Handler {
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Send()
	})
	return hlog.NewHandler(log.Logger)(
		hlog.RequestIDHandler("req_id", client.RequestIDHeader)(
			hlog.RemoteAddrHandler("ip")(access(next)),
		),
	)
}
