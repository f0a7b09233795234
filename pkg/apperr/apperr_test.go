package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwrapsThroughFmtErrorf(t *testing.T) {
	base := New(Conflict, "status changed concurrently")
	wrapped := fmt.Errorf("transition: %w", base)

	assert.Equal(t, Conflict, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, Conflict))
	assert.Equal(t, "status changed concurrently", Message(wrapped))
}

func TestKindOfPlainErrorIsInternal(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, Internal, KindOf(err))
	assert.Equal(t, "internal error", Message(err))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{Unauthenticated, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{AccountBlocked, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Invalid, http.StatusBadRequest},
		{InvalidTransition, http.StatusConflict},
		{Conflict, http.StatusConflict},
		{AlreadyExists, http.StatusConflict},
		{Unavailable, http.StatusServiceUnavailable},
		{Internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(New(tc.kind, "x")), tc.kind.String())
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(New(Conflict, "lost race")))
	assert.True(t, Retryable(New(Unavailable, "db down")))
	assert.False(t, Retryable(New(Forbidden, "nope")))
	assert.False(t, Retryable(New(InvalidTransition, "pending -> completed")))
	assert.False(t, Retryable(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Wrap(cause, Unavailable, "insert funding record")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert funding record")
	assert.Contains(t, err.Error(), "connection refused")
}
