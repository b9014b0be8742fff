package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/gorilla/mux"
)

const msgPostNotFound = "Post not found"

type postRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// postID parses the {id} path variable. Anything that is not an integer is
// reported as a missing post.
func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

func (s *HTTPServer) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.metrics.posts.Set(float64(len(posts)))
	_ = JSONWrite(w, http.StatusOK, posts)
}

// SyncPostCount sets the posts gauge from the store. Called once at startup
// so seeded or restored posts are counted before the first list.
func (s *HTTPServer) SyncPostCount(ctx context.Context) error {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return err
	}
	s.metrics.posts.Set(float64(len(posts)))
	return nil
}

func (s *HTTPServer) getPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		JSONError(w, http.StatusNotFound, msgPostNotFound)
		return
	}

	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.postError(w, r, err)
		return
	}
	_ = JSONWrite(w, http.StatusOK, post)
}

func (s *HTTPServer) createPost(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	author := ""
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		author = claims.UserName
	}

	post, err := s.posts.Create(r.Context(), deref(req.Title), deref(req.Content), author)
	if err != nil {
		s.postError(w, r, err)
		return
	}

	s.metrics.posts.Inc()
	s.logger.Info(r.Context(), "post created", "id", post.ID, "author", post.Author)
	_ = JSONWrite(w, http.StatusCreated, post)
}

func (s *HTTPServer) updatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		JSONError(w, http.StatusNotFound, msgPostNotFound)
		return
	}

	// an empty body is an empty patch
	var req postRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	post, err := s.posts.Update(r.Context(), id, req.Title, req.Content)
	if err != nil {
		s.postError(w, r, err)
		return
	}
	_ = JSONWrite(w, http.StatusOK, post)
}

func (s *HTTPServer) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		JSONError(w, http.StatusNotFound, msgPostNotFound)
		return
	}

	if err := s.posts.Delete(r.Context(), id); err != nil {
		s.postError(w, r, err)
		return
	}

	s.metrics.posts.Dec()
	s.logger.Info(r.Context(), "post deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) postError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		JSONError(w, http.StatusNotFound, msgPostNotFound)
	case errors.Is(err, common.ErrorValidation):
		JSONError(w, http.StatusBadRequest, "Title and content are required")
	default:
		s.internalError(w, r, err)
	}
}

func (s *HTTPServer) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "error", err,
		"request_id", RequestIDFromContext(r.Context()))
	JSONError(w, http.StatusInternalServerError, "Internal server error")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
