package health

import (
	"context"
	"net/http"
	"time"

	"github.com/hsm-gustavo/job-board/internal/api/httpx"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db Pinger
	rs httpx.Responder
}

func NewHandler(db Pinger, rs httpx.Responder) *Handler {
	return &Handler{db: db, rs: rs}
}

type Response struct {
	Status   string `json:"status" example:"online"`
	Database string `json:"database" example:"up"`
	Message  string `json:"message" example:"API is working correctly"`
}

// Health godoc
//
//	@Summary		Health check endpoint
//	@Description	Check if the API is running and the database is reachable
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	Response	"API is healthy"
//	@Failure		503	{object}	Response	"Database unreachable"
//	@Router			/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.rs.JSON(w, http.StatusServiceUnavailable, Response{
			Status:   "degraded",
			Database: "down",
			Message:  "Database is unreachable",
		})
		return
	}

	h.rs.JSON(w, http.StatusOK, Response{
		Status:   "online",
		Database: "up",
		Message:  "API is working correctly",
	})
}
