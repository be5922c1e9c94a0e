package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/oauth"
	"github.com/sidereusnuntius/blogfront/internal/route"
	"github.com/sidereusnuntius/blogfront/templates"
)

// afterLogin is where a user who just signed in goes: back where they came from, or home.
// Views that only make sense signed out are never a way back.
func afterLogin(returnURL string, role domain.Role) string {
	if !route.IsLocal(returnURL) {
		return route.HomeFor(role)
	}
	for _, p := range []string{route.Login, route.Register, route.Logout, route.GoogleLogin} {
		if strings.HasPrefix(returnURL, p) {
			return route.HomeFor(role)
		}
	}
	return returnURL
}

func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	if u, ok := current(r).store.CurrentUser(); ok {
		http.Redirect(w, r, route.HomeFor(u.Role), http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, templates.PageData{Title: "Welcome"}, templates.Landing(h.google.Enabled()))
}

func (h *Handler) loginPage(returnURL string) formPage {
	return func(f templates.Form) templ.Component {
		return templates.Login(f, returnURL, h.google.Enabled())
	}
}

func (h *Handler) GetLogin(w http.ResponseWriter, r *http.Request) {
	page := h.loginPage(r.URL.Query().Get(route.ReturnParam))
	h.render(w, r, http.StatusOK, templates.PageData{Title: "Sign in"}, page(templates.Form{}))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form body", http.StatusBadRequest)
		return
	}

	returnURL := r.PostForm.Get(route.ReturnParam)
	u, err := h.service.Login(r.Context(), current(r).store, domain.LoginRequest{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		h.formError(w, r, "Sign in", h.loginPage(returnURL), r.PostForm, err)
		return
	}
	http.Redirect(w, r, afterLogin(returnURL, u.Role), http.StatusSeeOther)
}

func (h *Handler) GetRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, templates.PageData{Title: "Create an account"}, templates.Register(templates.Form{}))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form body", http.StatusBadRequest)
		return
	}

	if r.PostForm.Get("password") != r.PostForm.Get("confirm") {
		h.render(w, r, http.StatusBadRequest,
			templates.PageData{Title: "Create an account", Error: msgCorrect},
			templates.Register(templates.Form{
				Values: r.PostForm,
				Fields: map[string]string{"confirm": "passwords do not match"},
			}))
		return
	}

	u, err := h.service.Register(r.Context(), current(r).store, domain.RegisterRequest{
		Username: r.PostForm.Get("username"),
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
		Role:     domain.Role(r.PostForm.Get("role")),
	})
	if err != nil {
		h.formError(w, r, "Create an account", templates.Register, r.PostForm, err)
		return
	}
	http.Redirect(w, r, route.HomeFor(u.Role), http.StatusSeeOther)
}

// Logout signs out, if anyone is signed in, and goes to the login view.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	rs := current(r)
	h.service.Logout(rs.store)

	target := rs.nav.target
	if target == "" {
		target = route.Login
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// GoogleLogin starts Google's authorization-code flow. The role chosen on the form is used when
// the backend creates the account.
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.google.Enabled() {
		http.NotFound(w, r)
		return
	}

	role, ok := domain.ParseRole(r.URL.Query().Get("role"))
	if !ok || role == domain.RoleAdmin {
		role = domain.RoleReader
	}

	rs := current(r)
	state := oauth.NewState()
	err := errors.Join(
		rs.kv.Set(oauthStateKey, state),
		rs.kv.Set(oauthRoleKey, string(role)),
		rs.kv.Set(oauthReturnKey, r.URL.Query().Get(route.ReturnParam)),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to store oauth state")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusFound)
}

func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	rs := current(r)
	state := rs.kv.Pop(oauthStateKey)
	role := domain.Role(rs.kv.Pop(oauthRoleKey))
	returnURL := rs.kv.Pop(oauthReturnKey)

	q := r.URL.Query()
	if q.Get("error") != "" {
		rs.flash("Google sign-in was cancelled.")
		http.Redirect(w, r, route.Login, http.StatusSeeOther)
		return
	}
	if state == "" || q.Get("state") != state {
		log.Warn().Msg("oauth state mismatch")
		rs.flash("Google sign-in failed. Please try again.")
		http.Redirect(w, r, route.Login, http.StatusSeeOther)
		return
	}

	idToken, err := h.google.IDToken(r.Context(), q.Get("code"))
	if err != nil {
		log.Warn().Err(err).Msg("google code exchange failed")
		rs.flash("Google sign-in failed. Please try again.")
		http.Redirect(w, r, route.Login, http.StatusSeeOther)
		return
	}

	u, err := h.service.GoogleLogin(r.Context(), rs.store, domain.GoogleAuthRequest{IDToken: idToken, Role: role})
	if err != nil {
		_, msg := GetCode(err)
		rs.flash(msg)
		http.Redirect(w, r, route.Login, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, afterLogin(returnURL, u.Role), http.StatusSeeOther)
}
