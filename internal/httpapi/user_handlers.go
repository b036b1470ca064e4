package httpapi

import (
	"net/http"
	"strings"

	"inkwell.dev/internal/audit"
	"inkwell.dev/internal/auth"
)

func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := a.users.FindByID(r.Context(), principal.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if users == nil {
		users = []*auth.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (a *API) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	user, err := a.users.FindByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type userUpdateRequest struct {
	Nickname *string `json:"nickname"`
	Password *string `json:"password"`
}

// UpdateUser changes nickname or password. The ownership guard already
// ensured the caller edits their own account unless they hold admin.
func (a *API) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req userUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Nickname != nil {
		nick := strings.TrimSpace(*req.Nickname)
		if nick == "" || len(nick) > 20 {
			writeError(w, r, http.StatusBadRequest, "nickname must be 1-20 characters")
			return
		}
		req.Nickname = &nick
	}
	upd := auth.UserUpdate{Nickname: req.Nickname}
	if req.Password != nil {
		if strings.TrimSpace(*req.Password) == "" {
			writeError(w, r, http.StatusBadRequest, "password must not be blank")
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		upd.Password = &hash
	}
	user, err := a.users.Update(r.Context(), id, upd)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "user.update", map[string]any{"user_id": id})
	writeJSON(w, http.StatusOK, user)
}
