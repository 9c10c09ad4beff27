package user

import (
	"context"
	"net/http"

	"github.com/hsm-gustavo/job-board/internal/api/auth"
	"github.com/hsm-gustavo/job-board/internal/api/httpx"
	"github.com/hsm-gustavo/job-board/internal/apperr"
	"github.com/hsm-gustavo/job-board/internal/db"
)

type Finder interface {
	GetUserByID(ctx context.Context, id int64) (*db.User, error)
}

type Handler struct {
	users Finder
	rs    httpx.Responder
}

func NewHandler(users Finder, rs httpx.Responder) *Handler {
	return &Handler{users: users, rs: rs}
}

type MeResponse struct {
	ID    int64   `json:"id" example:"1"`
	Name  string  `json:"name" example:"João Silva"`
	Email string  `json:"email" example:"joao@example.com"`
	Role  db.Role `json:"role" example:"recruiter"`
}

// Me godoc
// @Summary		Get current user info
// @Description	Returns the stored profile of the authenticated user
// @Tags			users
// @Produce		json
// @Security		BearerAuth
// @Success		200	{object}	MeResponse				"User information retrieved"
// @Failure		401	{object}	httpx.ErrorResponse		"Missing or malformed token"
// @Failure		403	{object}	httpx.ErrorResponse		"Invalid or expired token"
// @Failure		404	{object}	httpx.ErrorResponse		"User no longer exists"
// @Failure		500	{object}	httpx.ErrorResponse		"Internal server error"
// @Router			/users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	if err := auth.Authorize(claims); err != nil {
		h.rs.Error(w, r, err)
		return
	}

	u, err := h.users.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		h.rs.Error(w, r, apperr.Internal("retrieving user", err))
		return
	}
	if u == nil {
		h.rs.Error(w, r, apperr.NotFound("User account no longer exists"))
		return
	}

	h.rs.JSON(w, http.StatusOK, MeResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	})
}
