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

// PostStore caches the post list.
//
// Every Load takes a generation number. A load's result replaces the snapshot only if its
// generation is still the latest when it returns; starting another load or confirming a
// mutation that changes the snapshot moves the generation on, so late responses never
// overwrite newer state.
//
// Subscribers are notified after the store's lock is released and may call back into it.
type PostStore struct {
	api PostAPI

	mu       sync.Mutex
	gen      uint64
	inflight map[int64]struct{}
	posts    *observe.Value[[]domain.Post]
}

func NewPostStore(api PostAPI) *PostStore {
	return &PostStore{
		api:      api,
		inflight: make(map[int64]struct{}),
		posts:    observe.NewValue[[]domain.Post](nil),
	}
}

func (s *PostStore) Posts() observe.Observable[[]domain.Post] {
	return s.posts
}

// Load replaces the snapshot with the backend's list. A failed load leaves the snapshot as it
// was. A load overtaken by a newer load or mutation returns nil without publishing.
func (s *PostStore) Load(ctx context.Context) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	posts, err := s.api.ListPosts(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		log.Debug().Uint64("generation", gen).Msg("discarding superseded post list")
		return nil
	}
	notify := s.posts.Put(posts)
	s.mu.Unlock()
	notify()
	return nil
}

// Create validates req, sends it and prepends the post the backend returns.
func (s *PostStore) Create(ctx context.Context, req domain.PostRequest) (domain.Post, error) {
	if err := validate.Struct(req); err != nil {
		return domain.Post{}, err
	}

	post, err := s.api.CreatePost(ctx, req)
	if err != nil {
		return post, err
	}

	s.mutate(func(posts []domain.Post) ([]domain.Post, bool) {
		out := make([]domain.Post, 0, len(posts)+1)
		out = append(out, post)
		for _, p := range posts {
			if p.ID != post.ID {
				out = append(out, p)
			}
		}
		return out, true
	})
	return post, nil
}

// ToggleLike flips the current user's like on a post. Only one toggle per post may be
// outstanding; others fail with ErrLikeInFlight without reaching the backend.
func (s *PostStore) ToggleLike(ctx context.Context, postID int64) (domain.LikeResponse, error) {
	s.mu.Lock()
	if _, ok := s.inflight[postID]; ok {
		s.mu.Unlock()
		return domain.LikeResponse{}, ErrLikeInFlight
	}
	s.inflight[postID] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, postID)
		s.mu.Unlock()
	}()

	res, err := s.api.ToggleLike(ctx, postID)
	if err != nil {
		return res, err
	}

	s.mutate(func(posts []domain.Post) ([]domain.Post, bool) {
		return replace(posts, postID, func(p domain.Post) domain.Post {
			return applyLike(p, res.Liked)
		})
	})
	return res, nil
}

// applyLike sets the like flag, moving the count by one only when the flag changes.
func applyLike(p domain.Post, liked bool) domain.Post {
	if p.LikedByCurrentUser == liked {
		return p
	}
	p.LikedByCurrentUser = liked
	if liked {
		p.Likes++
	} else if p.Likes > 0 {
		p.Likes--
	}
	return p
}

// Fetch reads one post from the backend and refreshes its cached copy, if any.
func (s *PostStore) Fetch(ctx context.Context, postID int64) (domain.Post, error) {
	post, err := s.api.GetPost(ctx, postID)
	if err != nil {
		return post, err
	}

	s.mutate(func(posts []domain.Post) ([]domain.Post, bool) {
		return replace(posts, postID, func(domain.Post) domain.Post { return post })
	})
	return post, nil
}

// Get returns the cached post with the given id.
func (s *PostStore) Get(postID int64) (domain.Post, bool) {
	posts := s.posts.Get()
	i := slices.IndexFunc(posts, func(p domain.Post) bool { return p.ID == postID })
	if i < 0 {
		return domain.Post{}, false
	}
	return posts[i], true
}

// AdjustComments moves a post's comment count by delta, never below zero.
func (s *PostStore) AdjustComments(postID int64, delta int) {
	s.mutate(func(posts []domain.Post) ([]domain.Post, bool) {
		return replace(posts, postID, func(p domain.Post) domain.Post {
			p.Comments = max(p.Comments+delta, 0)
			return p
		})
	})
}

func (s *PostStore) Filter(category, query string) []domain.Post {
	return ApplyFilters(s.posts.Get(), category, query)
}

// mutate publishes f's result as a confirmed change and retires every load in flight. When f
// reports that nothing changed, loads in flight are left to finish.
func (s *PostStore) mutate(f func([]domain.Post) ([]domain.Post, bool)) {
	s.mu.Lock()
	posts, changed := f(s.posts.Get())
	if !changed {
		s.mu.Unlock()
		return
	}
	s.gen++
	notify := s.posts.Put(posts)
	s.mu.Unlock()
	notify()
}

// replace returns a copy of posts with the post of the given id passed through f. It reports
// false, returning posts as they are, when no post has that id.
func replace(posts []domain.Post, postID int64, f func(domain.Post) domain.Post) ([]domain.Post, bool) {
	i := slices.IndexFunc(posts, func(p domain.Post) bool { return p.ID == postID })
	if i < 0 {
		return posts, false
	}
	out := slices.Clone(posts)
	out[i] = f(out[i])
	return out, true
}
