package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/mocks"
	"github.com/sidereusnuntius/blogfront/internal/validate"
	"go.uber.org/mock/gomock"
)

var ctx = context.Background()

var (
	first  = domain.Post{ID: 1, Title: "First", Category: "Tech", Likes: 2, Comments: 1}
	second = domain.Post{ID: 2, Title: "Second", Category: "Voyage", Likes: 0, LikedByCurrentUser: false}
)

var validPost = domain.PostRequest{
	Title:    "A new post",
	Content:  "Some content that is long enough.",
	Excerpt:  "A short excerpt",
	Category: "Tech",
	Image:    "https://example.com/cover.png",
}

func ids(posts []domain.Post) []int64 {
	out := make([]int64, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first, second}, nil)
	if err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]domain.Post{first, second}, s.Posts().Get()); diff != "" {
		t.Error(diff)
	}

	post, ok := s.Get(2)
	if !ok || post.Title != "Second" {
		t.Errorf("unexpected lookup result %+v, %v", post, ok)
	}
	if _, ok := s.Get(3); ok {
		t.Error("expected post 3 to be missing")
	}
}

func TestLoadFailureKeepsSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)
	failure := errors.New("network down")

	gomock.InOrder(
		api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first}, nil),
		api.EXPECT().ListPosts(gomock.Any()).Return(nil, failure),
	)

	s.Load(ctx)
	if err := s.Load(ctx); !errors.Is(err, failure) {
		t.Errorf("expected %v, got %v", failure, err)
	}
	if diff := cmp.Diff([]int64{1}, ids(s.Posts().Get())); diff != "" {
		t.Error(diff)
	}
}

func TestSupersededLoadIsDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	started := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		api.EXPECT().ListPosts(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Post, error) {
			close(started)
			<-release
			return []domain.Post{first}, nil
		}),
		api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first, second}, nil),
	)

	done := make(chan error)
	go func() { done <- s.Load(ctx) }()
	<-started

	if err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]int64{1, 2}, ids(s.Posts().Get())); diff != "" {
		t.Error(diff)
	}
}

func TestCancelledLoadIsDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	cctx, cancel := context.WithCancel(ctx)
	api.EXPECT().ListPosts(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Post, error) {
		cancel()
		return []domain.Post{first}, nil
	})

	if err := s.Load(cctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(s.Posts().Get()) != 0 {
		t.Error("expected the snapshot to stay empty")
	}
}

func TestCreatePrepends(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	created := domain.Post{ID: 42, Title: validPost.Title}
	gomock.InOrder(
		api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first, second}, nil),
		api.EXPECT().CreatePost(gomock.Any(), validPost).Return(created, nil),
	)

	s.Load(ctx)
	post, err := s.Create(ctx, validPost)
	if err != nil {
		t.Fatal(err)
	}
	if post.ID != 42 {
		t.Errorf("expected the server's post, got %+v", post)
	}
	if diff := cmp.Diff([]int64{42, 1, 2}, ids(s.Posts().Get())); diff != "" {
		t.Error(diff)
	}
}

// A list requested before a post was created must not bring the post back twice.
func TestCreateDuringLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	created := domain.Post{ID: 42, Title: validPost.Title}
	started := make(chan struct{})
	release := make(chan struct{})
	api.EXPECT().ListPosts(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Post, error) {
		close(started)
		<-release
		return []domain.Post{created, first}, nil
	})
	api.EXPECT().CreatePost(gomock.Any(), gomock.Any()).Return(created, nil)

	done := make(chan error)
	go func() { done <- s.Load(ctx) }()
	<-started

	if _, err := s.Create(ctx, validPost); err != nil {
		t.Fatal(err)
	}
	close(release)
	<-done

	if diff := cmp.Diff([]int64{42}, ids(s.Posts().Get())); diff != "" {
		t.Error(diff)
	}

	api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{created, first}, nil)
	s.Load(ctx)
	if diff := cmp.Diff([]int64{42, 1}, ids(s.Posts().Get())); diff != "" {
		t.Error(diff)
	}
}

func TestCreateValidatesLocally(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	invalid := validPost
	invalid.Title = "Hi"
	_, err := s.Create(ctx, invalid)
	if !errors.Is(err, validate.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	var verr *validate.Error
	if !errors.As(err, &verr) || verr.Fields["title"] == "" {
		t.Errorf("expected a message for the title, got %v", err)
	}
}

func TestCreateFailureKeepsSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)
	failure := errors.New("boom")

	api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first}, nil)
	api.EXPECT().CreatePost(gomock.Any(), gomock.Any()).Return(domain.Post{}, failure)

	s.Load(ctx)
	if _, err := s.Create(ctx, validPost); !errors.Is(err, failure) {
		t.Errorf("expected %v, got %v", failure, err)
	}
	if diff := cmp.Diff([]int64{1}, ids(s.Posts().Get())); diff != "" {
		t.Error(diff)
	}
}

func TestToggleLike(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	gomock.InOrder(
		api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first, second}, nil),
		api.EXPECT().ToggleLike(gomock.Any(), int64(2)).Return(domain.LikeResponse{Liked: true}, nil),
		api.EXPECT().ToggleLike(gomock.Any(), int64(2)).Return(domain.LikeResponse{Liked: false}, nil),
	)
	s.Load(ctx)

	if _, err := s.ToggleLike(ctx, 2); err != nil {
		t.Fatal(err)
	}
	post, _ := s.Get(2)
	if !post.LikedByCurrentUser || post.Likes != 1 {
		t.Errorf("expected one like, got %+v", post)
	}

	if _, err := s.ToggleLike(ctx, 2); err != nil {
		t.Fatal(err)
	}
	post, _ = s.Get(2)
	if post.LikedByCurrentUser || post.Likes != 0 {
		t.Errorf("expected no like, got %+v", post)
	}

	if p, _ := s.Get(1); p.Likes != first.Likes {
		t.Error("other posts must not change")
	}
}

func TestToggleLikeInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	started := make(chan struct{})
	release := make(chan struct{})
	api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first, second}, nil)
	api.EXPECT().ToggleLike(gomock.Any(), int64(1)).DoAndReturn(func(context.Context, int64) (domain.LikeResponse, error) {
		close(started)
		<-release
		return domain.LikeResponse{Liked: true}, nil
	})
	api.EXPECT().ToggleLike(gomock.Any(), int64(2)).Return(domain.LikeResponse{Liked: true}, nil)
	s.Load(ctx)

	done := make(chan error)
	go func() {
		_, err := s.ToggleLike(ctx, 1)
		done <- err
	}()
	<-started

	if _, err := s.ToggleLike(ctx, 1); !errors.Is(err, ErrLikeInFlight) {
		t.Errorf("expected ErrLikeInFlight, got %v", err)
	}
	if _, err := s.ToggleLike(ctx, 2); err != nil {
		t.Errorf("other posts must not be blocked: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	post, _ := s.Get(1)
	if post.Likes != first.Likes+1 {
		t.Errorf("expected exactly one more like, got %d", post.Likes)
	}

	api.EXPECT().ToggleLike(gomock.Any(), int64(1)).Return(domain.LikeResponse{Liked: false}, nil)
	if _, err := s.ToggleLike(ctx, 1); err != nil {
		t.Errorf("expected the guard to be released, got %v", err)
	}
}

func TestToggleLikeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)
	failure := errors.New("boom")

	api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first}, nil)
	api.EXPECT().ToggleLike(gomock.Any(), int64(1)).Return(domain.LikeResponse{}, failure).Times(2)
	s.Load(ctx)

	for range 2 {
		if _, err := s.ToggleLike(ctx, 1); !errors.Is(err, failure) {
			t.Errorf("expected %v, got %v", failure, err)
		}
	}
	if diff := cmp.Diff([]domain.Post{first}, s.Posts().Get()); diff != "" {
		t.Error(diff)
	}
}

func TestApplyLike(t *testing.T) {
	cases := []struct {
		name          string
		liked, result bool
		likes         int
		expected      int
	}{
		{"like", false, true, 3, 4},
		{"unlike", true, false, 3, 2},
		{"already liked", true, true, 3, 3},
		{"already unliked", false, false, 3, 3},
		{"never negative", true, false, 0, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := applyLike(domain.Post{Likes: c.likes, LikedByCurrentUser: c.liked}, c.result)
			if p.Likes != c.expected || p.LikedByCurrentUser != c.result {
				t.Errorf("got %d likes, liked=%v", p.Likes, p.LikedByCurrentUser)
			}
		})
	}
}

func TestFetchRefreshesCachedPost(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	fresh := first
	fresh.Likes = 10
	api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first, second}, nil)
	api.EXPECT().GetPost(gomock.Any(), int64(1)).Return(fresh, nil)
	api.EXPECT().GetPost(gomock.Any(), int64(3)).Return(domain.Post{ID: 3}, nil)
	s.Load(ctx)

	if _, err := s.Fetch(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if p, _ := s.Get(1); p.Likes != 10 {
		t.Errorf("expected the cached post to be refreshed, got %+v", p)
	}

	if _, err := s.Fetch(ctx, 3); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{1, 2}, ids(s.Posts().Get())); diff != "" {
		t.Error(diff)
	}
}

func TestAdjustComments(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first}, nil)
	s.Load(ctx)
	before := s.Posts().Get()

	s.AdjustComments(1, 1)
	if p, _ := s.Get(1); p.Comments != 2 {
		t.Errorf("expected 2 comments, got %d", p.Comments)
	}
	s.AdjustComments(1, -5)
	if p, _ := s.Get(1); p.Comments != 0 {
		t.Errorf("expected 0 comments, got %d", p.Comments)
	}
	if before[0].Comments != 1 {
		t.Error("published snapshots must not be modified")
	}
}

func TestPostsObservable(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	var seen [][]int64
	cancel := s.Posts().Subscribe(func(posts []domain.Post) {
		seen = append(seen, ids(posts))
	})
	defer cancel()

	api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first}, nil)
	s.Load(ctx)

	if diff := cmp.Diff([][]int64{{}, {1}}, seen); diff != "" {
		t.Error(diff)
	}
}

// Mutations of posts that are not cached change nothing, so a load in flight must still land.
func TestUncachedMutationKeepsLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	started := make(chan struct{})
	release := make(chan struct{})
	api.EXPECT().ListPosts(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Post, error) {
		close(started)
		<-release
		return []domain.Post{first, second}, nil
	})
	api.EXPECT().GetPost(gomock.Any(), int64(99)).Return(domain.Post{ID: 99}, nil)
	api.EXPECT().ToggleLike(gomock.Any(), int64(99)).Return(domain.LikeResponse{Liked: true}, nil)

	done := make(chan error)
	go func() { done <- s.Load(ctx) }()
	<-started

	if _, err := s.Fetch(ctx, 99); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleLike(ctx, 99); err != nil {
		t.Fatal(err)
	}
	s.AdjustComments(99, 1)

	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{1, 2}, ids(s.Posts().Get())); diff != "" {
		t.Error(diff)
	}
}

func TestCachedMutationSupersedesLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	started := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first, second}, nil),
		api.EXPECT().ListPosts(gomock.Any()).DoAndReturn(func(context.Context) ([]domain.Post, error) {
			close(started)
			<-release
			return []domain.Post{first, second}, nil
		}),
	)
	api.EXPECT().ToggleLike(gomock.Any(), int64(2)).Return(domain.LikeResponse{Liked: true}, nil)
	s.Load(ctx)

	done := make(chan error)
	go func() { done <- s.Load(ctx) }()
	<-started

	if _, err := s.ToggleLike(ctx, 2); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	if p, _ := s.Get(2); !p.LikedByCurrentUser || p.Likes != 1 {
		t.Errorf("the older list must not undo the like, got %+v", p)
	}
}

func TestSubscriberMayCallBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockPostAPI(ctrl)
	s := NewPostStore(api)

	adjusted := false
	cancel := s.Posts().Subscribe(func(posts []domain.Post) {
		if len(posts) > 0 && !adjusted {
			adjusted = true
			s.AdjustComments(posts[0].ID, 1)
		}
	})
	defer cancel()

	api.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first}, nil)
	if err := s.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if p, _ := s.Get(1); p.Comments != first.Comments+1 {
		t.Errorf("expected the subscriber's change, got %+v", p)
	}
}
