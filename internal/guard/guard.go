// Package guard decides whether a view may be entered with the current session. Guards never wait
// on the network: they read the session snapshot as it is when navigation happens.
//
// The policy is the same for every guard. Anonymous visitors are sent to the login view with the
// attempted path as returnUrl. Signed-in users lacking the role are sent to their own home, never
// to login. Roles compare case-insensitively.
package guard

import (
	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/route"
)

// Session is the part of the session store guards read.
type Session interface {
	IsLoggedIn() bool
	HasRole(roles ...domain.Role) bool
	CurrentUser() (domain.User, bool)
}

type Decision struct {
	Allowed  bool
	Redirect string
}

var allow = Decision{Allowed: true}

func deny(target string) Decision {
	return Decision{Redirect: target}
}

// Guard evaluates one navigation attempt to path.
type Guard func(s Session, path string) Decision

// Auth lets in anyone signed in.
func Auth(s Session, path string) Decision {
	if s.IsLoggedIn() {
		return allow
	}
	return deny(route.LoginURL(path))
}

// Reader lets in readers.
func Reader(s Session, path string) Decision {
	return requireRole(s, path, domain.RoleReader)
}

// Blogger lets in bloggers and administrators.
func Blogger(s Session, path string) Decision {
	return requireRole(s, path, domain.RoleBlogger, domain.RoleAdmin)
}

// Guest lets in only visitors who are not signed in, such as on the login and registration views.
func Guest(s Session, path string) Decision {
	if !s.IsLoggedIn() {
		return allow
	}
	return deny(home(s))
}

func requireRole(s Session, path string, roles ...domain.Role) Decision {
	if !s.IsLoggedIn() {
		return deny(route.LoginURL(path))
	}
	if s.HasRole(roles...) {
		return allow
	}
	return deny(home(s))
}

func home(s Session) string {
	u, _ := s.CurrentUser()
	return route.HomeFor(u.Role)
}
