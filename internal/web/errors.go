package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/client"
	"github.com/sidereusnuntius/blogfront/internal/route"
	"github.com/sidereusnuntius/blogfront/internal/validate"
	"github.com/sidereusnuntius/blogfront/templates"
)

const (
	msgExpired     = "Your session has expired. Please sign in again."
	msgSignIn      = "Please sign in to continue."
	msgForbidden   = "You are not allowed to do that."
	msgNotFound    = "There is nothing here."
	msgUnavailable = "The blog cannot be reached right now. Please try again later."
	msgCorrect     = "Please correct the fields below."
)

// fail reports err to the browser. A rejected token sends it to the login view; everything else
// renders an error page and leaves the session alone.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	rs := current(r)

	if errors.Is(err, client.ErrUnauthorized) {
		target := rs.nav.target
		msg := msgExpired
		if target == "" {
			target = route.LoginURL(returnPath(r))
			msg = msgSignIn
		}
		rs.flash(msg)
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	status, msg := GetCode(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	back := route.Landing
	if u, ok := rs.store.CurrentUser(); ok {
		back = route.HomeFor(u.Role)
	}
	title := http.StatusText(status)
	h.render(w, r, status, templates.PageData{Title: title, Error: msg}, templates.ErrorPage(title, back))
}

// GetCode maps err to a status and a message that can be shown to the user.
func GetCode(err error) (int, string) {
	switch {
	case errors.Is(err, validate.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, client.ErrForbidden):
		return http.StatusForbidden, msgForbidden
	case errors.Is(err, client.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, msgUnavailable
	}
	if msg := client.Message(err); msg != "" {
		return http.StatusBadGateway, msg
	}
	return http.StatusBadGateway, msgUnavailable
}

// formPage is a view holding a form, filled in with what was submitted.
type formPage func(f templates.Form) templ.Component

// formError re-renders a form after a failed submission.
func (h *Handler) formError(w http.ResponseWriter, r *http.Request, title string, page formPage, values url.Values, err error) {
	data := templates.PageData{Title: title}
	f := templates.Form{Values: values}

	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		f.Fields = verr.Fields
		data.Error = msgCorrect
		h.render(w, r, http.StatusBadRequest, data, page(f))
	case errors.Is(err, client.ErrRejected), errors.Is(err, client.ErrUnauthorized) && current(r).nav.target == "":
		data.Error = client.Message(err)
		if data.Error == "" {
			data.Error = "Invalid email or password."
		}
		h.render(w, r, http.StatusUnauthorized, data, page(f))
	case errors.Is(err, client.ErrUnauthorized):
		h.fail(w, r, err)
	default:
		status, msg := GetCode(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("form submission failed")
		}
		data.Error = msg
		h.render(w, r, status, data, page(f))
	}
}
