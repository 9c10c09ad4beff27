package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Status(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
		code   string
	}{
		{KindUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{KindInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{KindForbidden, http.StatusForbidden, "forbidden"},
		{KindNotFound, http.StatusNotFound, "not_found"},
		{KindConflict, http.StatusBadRequest, "conflict"},
		{KindInvalidInput, http.StatusBadRequest, "invalid_input"},
		{KindInternal, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.status, tc.kind.Status(), tc.code)
		assert.Equal(t, tc.code, tc.kind.String())
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("updating post: %w", Forbidden("not the owner"))

	assert.Equal(t, KindForbidden, KindOf(err))
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "not the owner", MessageOf(err))
}

func TestKindOf_Unclassified(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "Internal server error", MessageOf(err))
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Internal("creating job post", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Internal server error", MessageOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}
