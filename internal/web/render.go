package web

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/route"
	"github.com/sidereusnuntius/blogfront/templates"
)

// render writes page inside the layout with status. Cookies are set before anything is written,
// so the page is rendered into a buffer first.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data templates.PageData, page templ.Component) {
	rs := current(r)
	if u, ok := rs.store.CurrentUser(); ok {
		data.User = &u
		data.Home = route.HomeFor(u.Role)
	}
	if data.Flash == "" {
		data.Flash = rs.popFlash()
	}
	data.Child = page

	var buf bytes.Buffer
	if err := templates.Layout(data).Render(r.Context(), &buf); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
