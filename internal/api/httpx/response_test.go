package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsm-gustavo/job-board/internal/apperr"
	"github.com/hsm-gustavo/job-board/internal/logging"
)

func TestResponder_ErrorMapsKind(t *testing.T) {
	rs := NewResponder(logging.Nop())
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	w := httptest.NewRecorder()

	rs.Error(w, r, apperr.Forbidden("not yours"))

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Error: "forbidden", Message: "not yours"}, body)
}

func TestResponder_InternalErrorIsLoggedNotLeaked(t *testing.T) {
	var buf bytes.Buffer
	rs := NewResponder(logging.New(&buf, "info", "text"))
	r := httptest.NewRequest(http.MethodPost, "/api/jobs/jobposts", nil)
	w := httptest.NewRecorder()

	rs.Error(w, r, apperr.Internal("creating job post", errors.New("deadlock found")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "deadlock")
	assert.Contains(t, buf.String(), "deadlock found")
}

func TestResponder_UnauthorizedChallenges(t *testing.T) {
	rs := NewResponder(nil)
	w := httptest.NewRecorder()

	rs.Error(w, httptest.NewRequest(http.MethodGet, "/api/users/me", nil), apperr.Unauthorized("Missing authorization header"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Bearer realm="job-board"`, w.Header().Get("WWW-Authenticate"))
}

func TestResponder_ForbiddenIsLogged(t *testing.T) {
	var buf bytes.Buffer
	rs := NewResponder(logging.New(&buf, "info", "text"))
	w := httptest.NewRecorder()

	rs.Error(w, httptest.NewRequest(http.MethodPut, "/api/jobs/jobposts/7", nil), apperr.Forbidden("not yours"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("WWW-Authenticate"))
	assert.Contains(t, buf.String(), "access denied")
	assert.Contains(t, buf.String(), "/api/jobs/jobposts/7")
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"A"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "A", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(DecodeJSON(r, &dst)))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(DecodeJSON(r, &dst)))
}

func TestDecodeJSON_Validates(t *testing.T) {
	var dst struct {
		Email string `json:"email" validate:"required,email"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope"}`))
	err := DecodeJSON(r, &dst)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
	assert.Equal(t, "email must be a valid email address", apperr.MessageOf(err))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com"}`))
	assert.NoError(t, DecodeJSON(r, &dst))
}

func TestInt64Param(t *testing.T) {
	withParam := func(v string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", v)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := Int64Param(withParam("42"), "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc", "1.5"} {
		_, err := Int64Param(withParam(bad), "id")
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err), bad)
	}
}
