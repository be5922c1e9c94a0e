package store

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/observe"
	"github.com/sidereusnuntius/blogfront/internal/validate"
)

// CommentList is the comment thread of one post.
type CommentList struct {
	PostID   int64
	Comments []domain.Comment
}

// CommentStore caches the thread of the post being viewed. Loads follow the same generation
// rule as PostStore.
type CommentStore struct {
	api   CommentAPI
	posts *PostStore

	mu     sync.Mutex
	gen    uint64
	thread *observe.Value[CommentList]
}

// NewCommentStore returns a store that keeps the comment counts in posts up to date.
func NewCommentStore(api CommentAPI, posts *PostStore) *CommentStore {
	return &CommentStore{
		api:    api,
		posts:  posts,
		thread: observe.NewValue(CommentList{}),
	}
}

func (s *CommentStore) Comments() observe.Observable[CommentList] {
	return s.thread
}

// Load makes postID's thread the current one.
func (s *CommentStore) Load(ctx context.Context, postID int64) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	comments, err := s.api.ListComments(ctx, postID)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		log.Debug().Int64("post", postID).Msg("discarding superseded comment list")
		return nil
	}
	notify := s.thread.Put(CommentList{PostID: postID, Comments: comments})
	s.mu.Unlock()
	notify()
	return nil
}

// Add posts a comment and prepends it to the thread when postID is the current one.
func (s *CommentStore) Add(ctx context.Context, postID int64, content string) (domain.Comment, error) {
	if err := validate.Struct(domain.CommentRequest{Content: content}); err != nil {
		return domain.Comment{}, err
	}

	comment, err := s.api.AddComment(ctx, postID, content)
	if err != nil {
		return comment, err
	}

	s.mutate(postID, func(comments []domain.Comment) []domain.Comment {
		out := make([]domain.Comment, 0, len(comments)+1)
		return append(append(out, comment), comments...)
	})
	s.posts.AdjustComments(postID, 1)
	return comment, nil
}

// Delete removes a comment of postID.
func (s *CommentStore) Delete(ctx context.Context, postID, commentID int64) error {
	if err := s.api.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	s.mutate(postID, func(comments []domain.Comment) []domain.Comment {
		return slices.DeleteFunc(slices.Clone(comments), func(c domain.Comment) bool {
			return c.ID == commentID
		})
	})
	s.posts.AdjustComments(postID, -1)
	return nil
}

// mutate applies f to the thread when postID is the current one. Changes to other posts' threads
// leave the cache, and any load in flight, alone.
func (s *CommentStore) mutate(postID int64, f func([]domain.Comment) []domain.Comment) {
	s.mu.Lock()
	current := s.thread.Get()
	if current.PostID != postID {
		s.mu.Unlock()
		return
	}
	s.gen++
	notify := s.thread.Put(CommentList{PostID: postID, Comments: f(current.Comments)})
	s.mu.Unlock()
	notify()
}
