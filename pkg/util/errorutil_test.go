package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationErrorKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		code   string
		status int
	}{
		{NewInvalidSignature(), "INVALID_SIGNATURE", http.StatusUnauthorized},
		{NewNonceNotFound(), "NONCE_NOT_FOUND", http.StatusNotFound},
		{NewReplayDetected(), "REPLAY_DETECTED", http.StatusConflict},
		{NewTokenExpired(), "TOKEN_EXPIRED", http.StatusGone},
		{NewSubjectNotFound(), "SUBJECT_NOT_FOUND", http.StatusNotFound},
		{NewProfileNotFound(), "PROFILE_NOT_FOUND", http.StatusNotFound},
		{NewRateLimited(), "RATE_LIMITED", http.StatusTooManyRequests},
	}

	for _, tc := range tests {
		var domainErr *DomainError
		require.True(t, errors.As(tc.err, &domainErr))
		assert.Equal(t, tc.code, domainErr.Code)
		assert.Equal(t, tc.status, domainErr.HTTPStatus)
	}
}

func TestLedgerWriteErrorWrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("unique constraint violated")
	err := NewLedgerWriteError(cause)

	var domainErr *DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "LEDGER_WRITE_FAILED", domainErr.Code)
	assert.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	assert.ErrorIs(t, err, cause)
}

func TestToDomainError_MapsNoRows(t *testing.T) {
	t.Parallel()

	domainErr := ToDomainError(fmt.Errorf("lookup: %w", pgx.ErrNoRows))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
}

func TestToDomainError_PassthroughAndFallback(t *testing.T) {
	t.Parallel()

	original := NewReplayDetected()
	assert.Same(t, original.(*DomainError), ToDomainError(original))

	plain := ToDomainError(errors.New("boom"))
	assert.Equal(t, "INTERNAL_ERROR", plain.Code)
}

func TestCodeOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", CodeOf(nil))
	assert.Equal(t, "TOKEN_EXPIRED", CodeOf(NewTokenExpired()))
	assert.Equal(t, "INTERNAL_ERROR", CodeOf(errors.New("boom")))
}
