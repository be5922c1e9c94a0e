package web

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/blogfront/internal/domain"
	"github.com/sidereusnuntius/blogfront/internal/route"
	"github.com/sidereusnuntius/blogfront/internal/store"
	"github.com/sidereusnuntius/blogfront/internal/validate"
	"github.com/sidereusnuntius/blogfront/templates"
)

func (h *Handler) listing(r *http.Request, title string) templates.Listing {
	q := r.URL.Query()
	return templates.Listing{
		Title:      title,
		Categories: h.Config.Categories,
		Category:   q.Get("category"),
		Query:      q.Get("q"),
	}
}

// Home lists every post, filtered by the category and q query parameters.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(current(r))
	if err := ws.Posts.Load(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}

	l := h.listing(r, "Posts")
	l.Posts = ws.Posts.Filter(l.Category, l.Query)
	h.render(w, r, http.StatusOK, templates.PageData{Title: l.Title}, templates.Home(l))
}

// BloggerHome adds the signed-in blogger's own posts to the listing.
func (h *Handler) BloggerHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ws := h.workspace(current(r))
	if err := ws.Posts.Load(ctx); err != nil {
		h.fail(w, r, err)
		return
	}
	mine, err := h.api.MyPosts(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	l := h.listing(r, "My blog")
	l.Posts = ws.Posts.Filter(l.Category, l.Query)
	l.MyPosts = mine
	h.render(w, r, http.StatusOK, templates.PageData{Title: l.Title}, templates.Home(l))
}

// postForm offers every configured category except the catch-all ones.
func (h *Handler) postForm(f templates.Form) templ.Component {
	var categories []string
	for _, c := range h.Config.Categories {
		if !slices.ContainsFunc(store.AllCategories, func(all string) bool { return strings.EqualFold(all, c) }) {
			categories = append(categories, c)
		}
	}
	return templates.PostForm(f, categories)
}

func (h *Handler) GetPostForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, templates.PageData{Title: "New post"}, h.postForm(templates.Form{}))
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form body", http.StatusBadRequest)
		return
	}

	f := r.PostForm
	req := domain.PostRequest{
		Title:    strings.TrimSpace(f.Get("title")),
		Content:  f.Get("content"),
		Excerpt:  strings.TrimSpace(f.Get("resume")),
		Category: f.Get("category"),
		Image:    strings.TrimSpace(f.Get("image")),
		Tags:     splitTags(f.Get("tags")),
	}

	rs := current(r)
	post, err := h.workspace(rs).Posts.Create(r.Context(), req)
	if err != nil {
		h.formError(w, r, "New post", h.postForm, f, err)
		return
	}

	log.Info().Int64("post_id", post.ID).Msg("post published")
	rs.flash("Your post has been published.")
	http.Redirect(w, r, route.Post(post.ID), http.StatusSeeOther)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// Post shows a post with the people who liked it and its comments.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	ws := h.workspace(current(r))
	post, err := ws.Posts.Fetch(ctx, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := ws.Comments.Load(ctx, id); err != nil {
		h.fail(w, r, err)
		return
	}

	likers, err := h.api.Likes(ctx, id)
	if err != nil {
		log.Warn().Err(err).Int64("post_id", id).Msg("failed to list likes")
	}

	thread := ws.Comments.Comments().Get()
	var comments []domain.Comment
	if thread.PostID == id {
		comments = thread.Comments
	}

	_, signedIn := current(r).store.CurrentUser()
	h.render(w, r, http.StatusOK, templates.PageData{Title: post.Title}, templates.Post(templates.PostView{
		Post:     post,
		Content:  h.policy.Sanitize(post.Content),
		Likers:   likers,
		Comments: comments,
		SignedIn: signedIn,
	}))
}

// back returns the local page the request came from, or fallback.
func back(r *http.Request, fallback string) string {
	if p := returnPath(r); p != "" {
		return p
	}
	return fallback
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	rs := current(r)
	_, err := h.workspace(rs).Posts.ToggleLike(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrLikeInFlight):
		rs.flash("Your previous like is still being processed.")
	case err != nil:
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, back(r, route.Post(id)), http.StatusSeeOther)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form body", http.StatusBadRequest)
		return
	}

	rs := current(r)
	_, err := h.workspace(rs).Comments.Add(r.Context(), id, strings.TrimSpace(r.PostForm.Get("content")))
	switch {
	case errors.Is(err, validate.ErrInvalidInput):
		rs.flash(err.Error())
	case err != nil:
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, route.Post(id), http.StatusSeeOther)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	cid, cok := pathID(r, "cid")
	if !ok || !cok {
		http.NotFound(w, r)
		return
	}

	if err := h.workspace(current(r)).Comments.Delete(r.Context(), id, cid); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, route.Post(id), http.StatusSeeOther)
}
