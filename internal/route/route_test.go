package route

import (
	"testing"

	"github.com/sidereusnuntius/blogfront/internal/domain"
)

func TestLoginURL(t *testing.T) {
	cases := []struct {
		returnTo string
		expected string
	}{
		{"", "/login"},
		{"/blogger/post-form", "/login?returnUrl=%2Fblogger%2Fpost-form"},
		{"/home?category=Tech", "/login?returnUrl=%2Fhome%3Fcategory%3DTech"},
		{"//evil.example", "/login"},
		{"https://evil.example/", "/login"},
		{"/login?returnUrl=%2Fhome", "/login"},
	}

	for _, c := range cases {
		t.Run(c.returnTo, func(t *testing.T) {
			if got := LoginURL(c.returnTo); got != c.expected {
				t.Errorf("LoginURL(%q) = %q, expected %q", c.returnTo, got, c.expected)
			}
		})
	}
}

func TestHomeFor(t *testing.T) {
	cases := []struct {
		role     domain.Role
		expected string
	}{
		{domain.RoleReader, ReaderHome},
		{"reader", ReaderHome},
		{domain.RoleBlogger, BloggerHome},
		{domain.RoleAdmin, BloggerHome},
		{"", Home},
	}

	for _, c := range cases {
		if got := HomeFor(c.role); got != c.expected {
			t.Errorf("HomeFor(%q) = %q, expected %q", c.role, got, c.expected)
		}
	}
}

func TestIsLocal(t *testing.T) {
	for p, expected := range map[string]bool{
		"/":             true,
		"/post/3":       true,
		"":              false,
		"post/3":        false,
		"//host/x":      false,
		"/\\host":       false,
		"http://host/x": false,
	} {
		if got := IsLocal(p); got != expected {
			t.Errorf("IsLocal(%q) = %v, expected %v", p, got, expected)
		}
	}
}

func TestPost(t *testing.T) {
	if got := Post(42); got != "/post/42" {
		t.Errorf("unexpected path %q", got)
	}
}
