// Package httpx holds the JSON request/response helpers shared by handlers.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hsm-gustavo/job-board/internal/apperr"
	"github.com/hsm-gustavo/job-board/internal/logging"
	"github.com/hsm-gustavo/job-board/internal/validation"
)

const maxJSONBody = 1 << 20

type ErrorResponse struct {
	Error   string `json:"error" example:"forbidden"`
	Message string `json:"message,omitempty" example:"You do not have permission to access this resource"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Job post deleted"`
}

// Responder writes JSON bodies and maps service errors to statuses.
type Responder struct {
	Log logging.Logger
}

// NewResponder returns a Responder logging to log, or to nowhere when log
// is nil.
func NewResponder(log logging.Logger) Responder {
	if log == nil {
		log = logging.Nop()
	}
	return Responder{Log: log}
}

func (rs Responder) JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		rs.Log.Warn(context.Background(), "encoding response", "error", err)
	}
}

// Error writes err as {"error": code, "message": text}. Internal causes are
// logged and replaced by a generic message; denied requests are logged at
// warn level.
func (rs Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	log := rs.Log.With(
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)

	switch {
	case kind == apperr.KindInternal:
		log.Error(r.Context(), "request failed", "error", err)
	case errors.Is(err, apperr.ErrForbidden):
		log.Warn(r.Context(), "access denied", "reason", apperr.MessageOf(err))
	case errors.Is(err, apperr.ErrUnauthorized):
		w.Header().Set("WWW-Authenticate", `Bearer realm="job-board"`)
	}

	rs.JSON(w, kind.Status(), ErrorResponse{
		Error:   kind.String(),
		Message: apperr.MessageOf(err),
	})
}

// DecodeJSON reads a single JSON object from the request body into dst and
// checks its validate tags.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.InvalidInput("Request body is empty")
		}
		return apperr.Wrap(apperr.KindInvalidInput, "Invalid JSON format", err)
	}
	return validation.Struct(dst)
}

// IsJSON reports whether the request declares a JSON body.
func IsJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return ct == "" || strings.HasPrefix(strings.ToLower(ct), "application/json")
}

// Int64Param parses a positive integer path parameter.
func Int64Param(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidInput("Invalid " + name)
	}
	return id, nil
}
