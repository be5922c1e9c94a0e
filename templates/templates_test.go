package templates

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/sidereusnuntius/blogfront/internal/domain"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestLayoutEscapesAndNests(t *testing.T) {
	page := render(t, Layout(PageData{
		Title: "<b>Posts</b>",
		User:  &domain.User{Username: "ana", Role: domain.RoleBlogger},
		Home:  "/blogger",
		Error: "Please correct the fields below.",
		Child: ErrorPage("Not Found", "/blogger"),
	}))

	for _, want := range []string{
		"&lt;b&gt;Posts&lt;/b&gt;",
		`<a href="/blogger/post-form">Write</a>`,
		`<form action="/logout" method="post"`,
		"Please correct the fields below.",
		"<h1>Not Found</h1>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("expected %q in %s", want, page)
		}
	}
	if strings.Contains(page, "<b>Posts</b>") {
		t.Error("title was not escaped")
	}
}

func TestLayoutForGuests(t *testing.T) {
	page := render(t, Layout(PageData{Title: "Welcome", Child: Landing(false)}))
	if strings.Contains(page, "/logout") || !strings.Contains(page, `<a href="/login">Sign in</a>`) {
		t.Errorf("unexpected navigation for a guest: %s", page)
	}
	if strings.Contains(page, "/auth/google") {
		t.Error("google sign-in offered while disabled")
	}
}

func TestFormKeepsValuesAndFaults(t *testing.T) {
	page := render(t, Register(Form{
		Values: url.Values{"username": {`ana"><script>`}, "role": {"BLOGGER"}},
		Fields: map[string]string{"confirm": "passwords do not match"},
	}))

	if strings.Contains(page, "<script>") {
		t.Error("submitted value was not escaped")
	}
	if !strings.Contains(page, `<span class="field-error">passwords do not match</span>`) {
		t.Error("missing field message")
	}
	if !strings.Contains(page, `value="BLOGGER" checked`) || strings.Contains(page, `value="READER" checked`) {
		t.Error("expected the blogger role to stay selected")
	}
}

func TestPostRendersSanitizedContent(t *testing.T) {
	page := render(t, Post(PostView{
		Post: domain.Post{
			ID:       3,
			Title:    "Hello",
			Author:   domain.Author{Username: "rita"},
			Date:     domain.Timestamp{Time: time.Date(2025, 3, 4, 10, 11, 0, 0, time.UTC)},
			Comments: 1,
			Tags:     []string{"go", "web"},
		},
		Content:  "<p>Hi</p>",
		Likers:   []domain.Liker{{Username: "bob"}, {Username: "eve"}},
		Comments: []domain.Comment{{ID: 9, Content: "First!", Author: domain.Author{Username: "bob"}, CanDelete: true}},
		SignedIn: true,
	}))

	for _, want := range []string{
		"<p>Hi</p>",
		"04/03/2025 10:11",
		"go, web",
		"Liked by bob, eve",
		`action="/post/3/like"`,
		`action="/post/3/comments"`,
		`action="/post/3/comments/9/delete"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("expected %q in %s", want, page)
		}
	}
}

func TestPostAsksGuestsToSignIn(t *testing.T) {
	page := render(t, Post(PostView{Post: domain.Post{ID: 3}}))
	if !strings.Contains(page, `href="/login?returnUrl=%2Fpost%2F3"`) {
		t.Errorf("expected a sign-in link back to the post: %s", page)
	}
	if strings.Contains(page, `action="/post/3/comments"`) {
		t.Error("guests must not get the comment form")
	}
}

func TestHomeSelectsCategory(t *testing.T) {
	page := render(t, Home(Listing{
		Title:      "Posts",
		Categories: []string{"Tous", "Tech"},
		Category:   "Tech",
		Posts:      []domain.Post{{ID: 1, Title: "Go routines", Likes: 2, LikedByCurrentUser: true}},
	}))

	if !strings.Contains(page, `<option value="Tech" selected>Tech</option>`) {
		t.Error("expected the current category to be selected")
	}
	if !strings.Contains(page, "Unlike") || strings.Contains(page, "No post matches.") {
		t.Errorf("unexpected listing: %s", page)
	}
}
