package xerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeSuccess, HTTPStatusOK},
		{CodeInvalidParams, HTTPStatusBadRequest},
		{CodeInvalidCredentials, HTTPStatusUnauthorized},
		{CodeAuthenticationFailed, HTTPStatusUnauthorized},
		{CodeSessionAlreadyActive, HTTPStatusConflict},
		{CodeSuggestionPending, HTTPStatusAccepted},
		{CodeInvalidDateRange, HTTPStatusUnprocessableEntity},
		{CodeExternalServiceError, HTTPStatusBadGateway},
		{CodeKratosError, HTTPStatusServiceUnavailable},
		{CodeRateLimitExceeded, HTTPStatusTooManyRequests},
		{CodeForbidden, HTTPStatusForbidden},
		{CodeResourceNotFound, HTTPStatusNotFound},
		{CodeInternalError, HTTPStatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestWrapKeepsAppError(t *testing.T) {
	original := NewExternalServiceError("suggestion_api", errors.New("dial tcp: refused"))
	wrapped := fmt.Errorf("dispatch: %w", original)

	got := Wrap(wrapped, CodeInternalError, "should not be used")
	require.NotNil(t, got)
	assert.Equal(t, CodeExternalServiceError, got.Code)
	assert.True(t, HasCode(wrapped, CodeExternalServiceError))
	assert.True(t, got.IsRetryable())
}

func TestWrapPlainError(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternalError, "nil"))

	got := Wrap(errors.New("boom"), CodeCacheError, "cache failed")
	require.NotNil(t, got)
	assert.Equal(t, CodeCacheError, got.Code)
	assert.Equal(t, "cache failed", got.Message)
	assert.NotEmpty(t, got.File)
}

func TestMetadata(t *testing.T) {
	err := NewExternalStatusError("suggestion_api", 503, "unavailable")

	v, ok := err.Metadata("status_code")
	require.True(t, ok)
	assert.Equal(t, 503, v)

	_, ok = err.Metadata("missing")
	assert.False(t, ok)
}

func TestTranslateKratosError(t *testing.T) {
	code, msg := TranslateKratosError(int64(ErrorValidationInvalidCredentials))
	assert.Equal(t, CodeInvalidCredentials, code)
	assert.Equal(t, CodeInvalidCredentials.Message(), msg)

	code, _ = TranslateKratosError(123)
	assert.Equal(t, CodeAuthenticationFailed, code)
}

func TestTranslateKratosErrorText(t *testing.T) {
	code, _ := TranslateKratosErrorText("The provided credentials are invalid, check for spelling mistakes.")
	assert.Equal(t, CodeInvalidCredentials, code)

	code, _ = TranslateKratosErrorText("The login flow expired 1.00 minutes ago")
	assert.Equal(t, CodeSessionExpired, code)

	code, _ = TranslateKratosErrorText("")
	assert.Equal(t, CodeAuthenticationFailed, code)
	assert.Less(t, GetKratosErrorPriority(CodeInvalidCredentials), GetKratosErrorPriority(CodeInvalidParams))
}
