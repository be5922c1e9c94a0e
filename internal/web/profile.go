package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/route"
	"github.com/sidereusnuntius/blogfront/templates"
)

func profileValues(u domain.User) url.Values {
	return url.Values{
		"username": {u.Username},
		"avatar":   {u.Avatar},
		"bio":      {u.Bio},
	}
}

func profilePage(u domain.User) formPage {
	return func(f templates.Form) templ.Component {
		return templates.Profile(f, u.Email, string(u.Role))
	}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := current(r).store.CurrentUser()
	page := profilePage(u)
	h.render(w, r, http.StatusOK, templates.PageData{Title: "Profile"}, page(templates.Form{Values: profileValues(u)}))
}

// UpdateProfile sends only the fields that were filled in, except the bio, which may be emptied.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form body", http.StatusBadRequest)
		return
	}

	f := r.PostForm
	var req domain.UpdateProfileRequest
	if v := strings.TrimSpace(f.Get("username")); v != "" {
		req.Username = &v
	}
	if v := strings.TrimSpace(f.Get("avatar")); v != "" {
		req.Avatar = &v
	}
	bio := strings.TrimSpace(f.Get("bio"))
	req.Bio = &bio

	rs := current(r)
	if _, err := h.service.UpdateProfile(r.Context(), rs.store, req); err != nil {
		u, _ := rs.store.CurrentUser()
		h.formError(w, r, "Profile", profilePage(u), f, err)
		return
	}
	rs.flash("Your profile has been updated.")
	http.Redirect(w, r, route.Profile, http.StatusSeeOther)
}
