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

type fakeAPI struct {
	*mocks.MockPostAPI
	*mocks.MockCommentAPI
}

func workspace(t *testing.T) (*Workspace, fakeAPI) {
	ctrl := gomock.NewController(t)
	api := fakeAPI{mocks.NewMockPostAPI(ctrl), mocks.NewMockCommentAPI(ctrl)}
	ws := NewWorkspace(api)

	api.MockPostAPI.EXPECT().ListPosts(gomock.Any()).Return([]domain.Post{first, second}, nil)
	if err := ws.Posts.Load(ctx); err != nil {
		t.Fatal(err)
	}
	return ws, api
}

func commentIDs(l CommentList) []int64 {
	out := make([]int64, len(l.Comments))
	for i, c := range l.Comments {
		out[i] = c.ID
	}
	return out
}

func TestCommentsLoad(t *testing.T) {
	ws, api := workspace(t)

	api.MockCommentAPI.EXPECT().ListComments(gomock.Any(), int64(1)).
		Return([]domain.Comment{{ID: 10, Content: "hello"}}, nil)
	if err := ws.Comments.Load(ctx, 1); err != nil {
		t.Fatal(err)
	}

	thread := ws.Comments.Comments().Get()
	if thread.PostID != 1 {
		t.Errorf("expected thread of post 1, got %d", thread.PostID)
	}
	if diff := cmp.Diff([]int64{10}, commentIDs(thread)); diff != "" {
		t.Error(diff)
	}
}

func TestCommentAddAndDelete(t *testing.T) {
	ws, api := workspace(t)

	gomock.InOrder(
		api.MockCommentAPI.EXPECT().ListComments(gomock.Any(), int64(1)).
			Return([]domain.Comment{{ID: 10}}, nil),
		api.MockCommentAPI.EXPECT().AddComment(gomock.Any(), int64(1), "nice post").
			Return(domain.Comment{ID: 11, Content: "nice post"}, nil),
		api.MockCommentAPI.EXPECT().DeleteComment(gomock.Any(), int64(10)).Return(nil),
	)
	ws.Comments.Load(ctx, 1)

	if _, err := ws.Comments.Add(ctx, 1, "nice post"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{11, 10}, commentIDs(ws.Comments.Comments().Get())); diff != "" {
		t.Error(diff)
	}
	if p, _ := ws.Posts.Get(1); p.Comments != 2 {
		t.Errorf("expected 2 comments on the post, got %d", p.Comments)
	}

	if err := ws.Comments.Delete(ctx, 1, 10); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int64{11}, commentIDs(ws.Comments.Comments().Get())); diff != "" {
		t.Error(diff)
	}
	if p, _ := ws.Posts.Get(1); p.Comments != 1 {
		t.Errorf("expected 1 comment on the post, got %d", p.Comments)
	}
}

func TestCommentOnOtherPost(t *testing.T) {
	ws, api := workspace(t)

	api.MockCommentAPI.EXPECT().ListComments(gomock.Any(), int64(1)).
		Return([]domain.Comment{{ID: 10}}, nil)
	api.MockCommentAPI.EXPECT().AddComment(gomock.Any(), int64(2), gomock.Any()).
		Return(domain.Comment{ID: 20}, nil)
	ws.Comments.Load(ctx, 1)

	if _, err := ws.Comments.Add(ctx, 2, "elsewhere"); err != nil {
		t.Fatal(err)
	}
	thread := ws.Comments.Comments().Get()
	if thread.PostID != 1 || len(thread.Comments) != 1 {
		t.Errorf("the current thread must not change, got %+v", thread)
	}
	if p, _ := ws.Posts.Get(2); p.Comments != 1 {
		t.Errorf("expected the other post's count to move, got %d", p.Comments)
	}
}

// Commenting on another post leaves the thread being loaded alone.
func TestCommentElsewhereKeepsLoad(t *testing.T) {
	ws, api := workspace(t)

	started := make(chan struct{})
	release := make(chan struct{})
	api.MockCommentAPI.EXPECT().ListComments(gomock.Any(), int64(1)).
		DoAndReturn(func(context.Context, int64) ([]domain.Comment, error) {
			close(started)
			<-release
			return []domain.Comment{{ID: 10}}, nil
		})
	api.MockCommentAPI.EXPECT().AddComment(gomock.Any(), int64(2), gomock.Any()).
		Return(domain.Comment{ID: 20}, nil)

	done := make(chan error)
	go func() { done <- ws.Comments.Load(ctx, 1) }()
	<-started

	if _, err := ws.Comments.Add(ctx, 2, "elsewhere"); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	thread := ws.Comments.Comments().Get()
	if thread.PostID != 1 {
		t.Fatalf("expected the thread of post 1, got %+v", thread)
	}
	if diff := cmp.Diff([]int64{10}, commentIDs(thread)); diff != "" {
		t.Error(diff)
	}
}

func TestCommentFailures(t *testing.T) {
	ws, api := workspace(t)
	failure := errors.New("boom")

	api.MockCommentAPI.EXPECT().ListComments(gomock.Any(), int64(1)).
		Return([]domain.Comment{{ID: 10}}, nil)
	api.MockCommentAPI.EXPECT().DeleteComment(gomock.Any(), int64(10)).Return(failure)
	ws.Comments.Load(ctx, 1)

	if err := ws.Comments.Delete(ctx, 1, 10); !errors.Is(err, failure) {
		t.Errorf("expected %v, got %v", failure, err)
	}
	if diff := cmp.Diff([]int64{10}, commentIDs(ws.Comments.Comments().Get())); diff != "" {
		t.Error(diff)
	}
	if p, _ := ws.Posts.Get(1); p.Comments != first.Comments {
		t.Errorf("the count must not move, got %d", p.Comments)
	}

	if _, err := ws.Comments.Add(ctx, 1, ""); !errors.Is(err, validate.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
