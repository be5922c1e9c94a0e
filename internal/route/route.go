// Package route names the views of the application and the redirects between them.
package route

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/sidereusnuntius/blogfront/internal/domain"
)

const (
	Landing        = "/"
	Login          = "/login"
	Register       = "/register"
	Logout         = "/logout"
	GoogleLogin    = "/auth/google"
	GoogleCallback = "/auth/google/callback"
	Home           = "/home"
	ReaderHome     = "/reader/home"
	BloggerHome    = "/blogger"
	PostForm       = "/blogger/post-form"
	Profile        = "/profile"
	Posts          = "/post"
	Static         = "/static"

	// ReturnParam is the query parameter carrying the path to go back to after signing in.
	ReturnParam = "returnUrl"
)

// LoginURL is the login view, remembering returnTo when it is a local path.
func LoginURL(returnTo string) string {
	if !IsLocal(returnTo) || returnTo == Login || strings.HasPrefix(returnTo, Login+"?") {
		return Login
	}
	return Login + "?" + url.Values{ReturnParam: {returnTo}}.Encode()
}

// HomeFor is the landing view of a signed-in user with the given role.
func HomeFor(role domain.Role) string {
	switch {
	case role.Is(domain.RoleReader):
		return ReaderHome
	case role.Is(domain.RoleBlogger), role.Is(domain.RoleAdmin):
		return BloggerHome
	default:
		return Home
	}
}

// IsLocal reports whether p is an absolute path on this site. It rejects scheme-relative and
// backslash forms that browsers treat as other hosts.
func IsLocal(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
		return false
	}
	u, err := url.Parse(p)
	return err == nil && u.Scheme == "" && u.Host == ""
}

// Post is the detail view of the post with the given id.
func Post(id int64) string {
	return Posts + "/" + strconv.FormatInt(id, 10)
}
