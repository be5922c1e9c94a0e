// Package templates holds the templ components of the web front. Run `go tool templ generate`
// after editing a .templ file.
package templates

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/route"
)

// PageData is what the layout needs around a page.
type PageData struct {
	Title string
	User  *domain.User
	Home  string
	Flash string
	Error string
	Child templ.Component
}

// Form carries the values a form was submitted with and the messages of its invalid fields.
type Form struct {
	Values url.Values
	Fields map[string]string
}

func (f Form) Value(name string) string {
	return f.Values.Get(name)
}

func (f Form) Fault(name string) string {
	return f.Fields[name]
}

type Listing struct {
	Title      string
	Categories []string
	Category   string
	Query      string
	Posts      []domain.Post
	MyPosts    []domain.Post
}

type PostView struct {
	Post     domain.Post
	Content  string // sanitized HTML
	Likers   []domain.Liker
	Comments []domain.Comment
	SignedIn bool
}

func isBlogger(u *domain.User) bool {
	return u != nil && (u.Role.Is(domain.RoleBlogger) || u.Role.Is(domain.RoleAdmin))
}

func postURL(id int64) string {
	return route.Post(id)
}

func likeURL(id int64) string {
	return route.Post(id) + "/like"
}

func commentsURL(id int64) string {
	return route.Post(id) + "/comments"
}

func deleteCommentURL(postID, commentID int64) string {
	return commentsURL(postID) + "/" + strconv.FormatInt(commentID, 10) + "/delete"
}

func loginURL(returnTo string) string {
	return route.LoginURL(returnTo)
}

func date(t domain.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

func likerNames(likers []domain.Liker) string {
	names := make([]string, len(likers))
	for i, l := range likers {
		names[i] = l.Username
	}
	return strings.Join(names, ", ")
}
