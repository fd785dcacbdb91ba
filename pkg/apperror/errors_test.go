package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("slug", "too short"), http.StatusBadRequest},
		{"not found", NotFound("blog"), http.StatusNotFound},
		{"unauthorized", Unauthorized("not the owner"), http.StatusForbidden},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized},
		{"conflict", Conflict("slug is taken"), http.StatusConflict},
		{"ledger", LedgerConflict("already applied"), http.StatusConflict},
		{"rate limited", fmt.Errorf("create post: %w", ErrRateLimited), http.StatusTooManyRequests},
		{"wrapped sentinel", fmt.Errorf("load: %w", ErrNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatus(tc.err))
		})
	}
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	assert.ErrorIs(t, Validation("username", "too long"), ErrValidationFailed)
	assert.ErrorIs(t, NotFound("post"), ErrNotFound)
	assert.ErrorIs(t, Conflict("already following"), ErrConflict)
	assert.ErrorIs(t, LedgerConflict("not applied"), ErrLedgerConflict)
	assert.NotErrorIs(t, Conflict("x"), ErrLedgerConflict)

	err := Validation("slug", "must be at least 5 bytes")
	assert.Equal(t, "validation failed: slug: must be at least 5 bytes", err.Error())
}
