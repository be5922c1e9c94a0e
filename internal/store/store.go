// Package store keeps client-side caches of the backend's collections. Each cache is an
// observable snapshot replaced as a whole; snapshots are shared and must not be modified.
package store

//go:generate mockgen -destination=../mocks/store.go -package=mocks . PostAPI,CommentAPI

import (
	"context"
	"errors"

	"github.com/sidereusnuntius/blogfront/internal/domain"
)

// ErrLikeInFlight is returned when a like toggle is requested for a post whose previous toggle
// has not been answered yet.
var ErrLikeInFlight = errors.New("like already in flight")

type PostAPI interface {
	ListPosts(ctx context.Context) ([]domain.Post, error)
	GetPost(ctx context.Context, postID int64) (domain.Post, error)
	CreatePost(ctx context.Context, req domain.PostRequest) (domain.Post, error)
	ToggleLike(ctx context.Context, postID int64) (domain.LikeResponse, error)
}

type CommentAPI interface {
	ListComments(ctx context.Context, postID int64) ([]domain.Comment, error)
	AddComment(ctx context.Context, postID int64, content string) (domain.Comment, error)
	DeleteComment(ctx context.Context, commentID int64) error
}

type API interface {
	PostAPI
	CommentAPI
}

// Workspace holds the caches belonging to one session.
type Workspace struct {
	Posts    *PostStore
	Comments *CommentStore
}

func NewWorkspace(api API) *Workspace {
	posts := NewPostStore(api)
	return &Workspace{
		Posts:    posts,
		Comments: NewCommentStore(api, posts),
	}
}
