package httpapi

import (
	"net/http"

	"inkwell.dev/internal/audit"
	"inkwell.dev/internal/auth"
	"inkwell.dev/internal/blog"
)

type commentRequest struct {
	Content string `json:"content"`
}

func (a *API) CreateComment(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	postID, err := pathID(r)
	if err != nil || postID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	comment, err := a.content.CreateComment(r.Context(), principal, postID, req.Content)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "comment.create", map[string]any{
		"post_id":    postID,
		"comment_id": comment.ID,
	})
	writeJSON(w, http.StatusCreated, comment)
}

func (a *API) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil || postID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	comments, err := a.content.ListComments(r.Context(), principalOrNil(r), postID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if comments == nil {
		comments = []*blog.Comment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

func (a *API) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	if err := a.content.DeleteComment(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "comment.delete", map[string]any{"comment_id": id})
	writeJSON(w, http.StatusOK, map[string]any{"message": "comment deleted"})
}
