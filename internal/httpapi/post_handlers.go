package httpapi

import (
	"net/http"
	"strconv"

	"inkwell.dev/internal/audit"
	"inkwell.dev/internal/auth"
	"inkwell.dev/internal/blog"
)

type postRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ReadRole *string `json:"readPermission"`
}

func parseReadRole(raw *string) (*auth.Role, error) {
	if raw == nil {
		return nil, nil
	}
	role, err := auth.ParseRole(*raw)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (a *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	readRole, err := parseReadRole(req.ReadRole)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	post, err := a.content.CreatePost(r.Context(), principal, blog.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		ReadRole: readRole,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "post.create", map[string]any{"post_id": post.ID})
	writeJSON(w, http.StatusCreated, post)
}

func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	post, err := a.content.GetPost(r.Context(), principalOrNil(r), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	size := queryInt(r, "size", 20)
	posts, total, err := a.content.ListPosts(r.Context(), principalOrNil(r), page, size)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if posts == nil {
		posts = []*blog.Post{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"posts": posts,
		"total": total,
		"page":  page,
	})
}

type postUpdateRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ReadRole *string `json:"readPermission"`
	// ClearReadRole makes the post public again; readPermission alone
	// cannot express "remove the gate" through JSON null reliably.
	ClearReadRole bool `json:"clearReadPermission"`
}

func (a *API) UpdatePost(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := pathID(r)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req postUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	upd := blog.PostUpdate{Title: req.Title, Content: req.Content}
	switch {
	case req.ClearReadRole:
		upd.SetReadRole = true
	case req.ReadRole != nil:
		role, err := parseReadRole(req.ReadRole)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		upd.SetReadRole = true
		upd.ReadRole = role
	}
	post, err := a.content.UpdatePost(r.Context(), principal, id, upd)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (a *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	if err := a.content.DeletePost(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "post.delete", map[string]any{"post_id": id})
	writeJSON(w, http.StatusOK, map[string]any{"message": "post deleted"})
}

func principalOrNil(r *http.Request) *auth.Principal {
	if principal, ok := auth.PrincipalFromContext(r.Context()); ok {
		return &principal
	}
	return nil
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
