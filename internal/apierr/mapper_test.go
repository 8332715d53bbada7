package apierr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigschool/authkit/pkg/api"
)

func envelope(code, message string, details map[string]any) *api.ErrorResponse {
	return &api.ErrorResponse{
		Success: false,
		Error: api.ErrorPayload{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func TestMap_ClosedTable(t *testing.T) {
	tests := []struct {
		envelope *api.ErrorResponse
		name     string
		wantKind Kind
		status   int
	}{
		{
			name:     "401 invalid credentials",
			status:   401,
			envelope: envelope("INVALID_CREDENTIALS", "Invalid email or password", nil),
			wantKind: KindInvalidCredentials,
		},
		{
			name:     "401 refresh token expired",
			status:   401,
			envelope: envelope("REFRESH_TOKEN_EXPIRED", "", nil),
			wantKind: KindRefreshTokenExpired,
		},
		{
			name:     "401 reuse detected",
			status:   401,
			envelope: envelope("REFRESH_TOKEN_REUSE_DETECTED", "", nil),
			wantKind: KindRefreshTokenReuseDetected,
		},
		{
			name:     "401 unknown code falls back to invalid credentials",
			status:   401,
			envelope: envelope("SOMETHING_ELSE", "", nil),
			wantKind: KindInvalidCredentials,
		},
		{
			name:     "403 user not active",
			status:   403,
			envelope: envelope("USER_NOT_ACTIVE", "", map[string]any{"status": "SUSPENDED"}),
			wantKind: KindUserNotActive,
		},
		{
			name:     "409 user already exists",
			status:   409,
			envelope: envelope("USER_ALREADY_EXISTS", "", map[string]any{"email": "user@example.com"}),
			wantKind: KindUserAlreadyExists,
		},
		{
			name:     "409 email already verified",
			status:   409,
			envelope: envelope("EMAIL_ALREADY_VERIFIED", "", nil),
			wantKind: KindEmailAlreadyVerified,
		},
		{
			name:     "423 account locked",
			status:   423,
			envelope: envelope("ACCOUNT_LOCKED", "", map[string]any{"remainingSeconds": float64(300)}),
			wantKind: KindAccountLocked,
		},
		{
			name:     "400 weak password",
			status:   400,
			envelope: envelope("WEAK_PASSWORD", "", map[string]any{"missingRequirements": []any{"Minimum 8 characters"}}),
			wantKind: KindWeakPassword,
		},
		{
			name:     "400 password mismatch",
			status:   400,
			envelope: envelope("PASSWORD_MISMATCH", "", nil),
			wantKind: KindPasswordMismatch,
		},
		{
			name:     "400 terms not accepted",
			status:   400,
			envelope: envelope("TERMS_NOT_ACCEPTED", "", nil),
			wantKind: KindTermsNotAccepted,
		},
		{
			name:     "400 invalid verification token",
			status:   400,
			envelope: envelope("INVALID_VERIFICATION_TOKEN", "", nil),
			wantKind: KindInvalidVerificationToken,
		},
		{
			name:     "400 verification token expired",
			status:   400,
			envelope: envelope("VERIFICATION_TOKEN_EXPIRED", "", nil),
			wantKind: KindVerificationTokenExpired,
		},
		{
			name:     "400 invalid password reset token",
			status:   400,
			envelope: envelope("INVALID_PASSWORD_RESET_TOKEN", "", nil),
			wantKind: KindInvalidPasswordResetToken,
		},
		{
			name:     "400 password reset token expired",
			status:   400,
			envelope: envelope("PASSWORD_RESET_TOKEN_EXPIRED", "", nil),
			wantKind: KindPasswordResetTokenExpired,
		},
		{
			name:     "400 password reset token already used",
			status:   400,
			envelope: envelope("PASSWORD_RESET_TOKEN_ALREADY_USED", "", nil),
			wantKind: KindPasswordResetTokenAlreadyUsed,
		},
		{
			name:     "500 internal",
			status:   500,
			envelope: envelope("", "database exploded", nil),
			wantKind: KindInternal,
		},
		{
			name:     "503 internal",
			status:   503,
			envelope: nil,
			wantKind: KindInternal,
		},
		{
			name:     "unmatched status yields generic error",
			status:   418,
			envelope: envelope("TEAPOT", "I'm a teapot", nil),
			wantKind: KindUnknown,
		},
		{
			name:     "malformed body never panics",
			status:   400,
			envelope: nil,
			wantKind: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Map(tt.status, tt.envelope)

			require.NotNil(t, err)
			assert.Equal(t, tt.wantKind, err.Kind)
		})
	}
}

func TestMap_ExtractedFields(t *testing.T) {
	t.Run("account locked remaining seconds", func(t *testing.T) {
		err := Map(423, envelope("ACCOUNT_LOCKED", "", map[string]any{"remainingSeconds": float64(300)}))
		assert.Equal(t, int64(300), err.RemainingSeconds)
		assert.Contains(t, err.Message, "300 seconds")
	})

	t.Run("account locked defaults to 900", func(t *testing.T) {
		err := Map(423, envelope("ACCOUNT_LOCKED", "", nil))
		assert.Equal(t, int64(900), err.RemainingSeconds)
	})

	t.Run("weak password requirements", func(t *testing.T) {
		err := Map(400, envelope("WEAK_PASSWORD", "", map[string]any{
			"missingRequirements": []any{"Minimum 8 characters", "At least one uppercase letter"},
		}))
		assert.Equal(t, []string{"Minimum 8 characters", "At least one uppercase letter"}, err.MissingRequirements)
	})

	t.Run("user not active status", func(t *testing.T) {
		err := Map(403, envelope("USER_NOT_ACTIVE", "", map[string]any{"status": "SUSPENDED"}))
		assert.Equal(t, "SUSPENDED", err.UserStatus)
		assert.Equal(t, "User account is suspended", err.Message)
	})

	t.Run("user not active default status", func(t *testing.T) {
		err := Map(403, envelope("USER_NOT_ACTIVE", "", nil))
		assert.Equal(t, "inactive", err.UserStatus)
	})

	t.Run("email from details", func(t *testing.T) {
		err := Map(409, envelope("USER_ALREADY_EXISTS", "", map[string]any{"email": "user@example.com"}))
		assert.Equal(t, "user@example.com", err.Email)
	})

	t.Run("email extracted from message as fallback", func(t *testing.T) {
		err := Map(409, envelope("USER_ALREADY_EXISTS", "User with email ghost@nowhere.test already exists", nil))
		assert.Equal(t, "ghost@nowhere.test", err.Email)
	})

	t.Run("email unknown when nowhere to extract from", func(t *testing.T) {
		err := Map(409, envelope("USER_ALREADY_EXISTS", "duplicate user", nil))
		assert.Equal(t, "unknown", err.Email)
	})
}

func TestMap_Idempotent(t *testing.T) {
	env := envelope("ACCOUNT_LOCKED", "locked", map[string]any{"remainingSeconds": float64(120)})

	first := Map(423, env)
	second := Map(423, env)

	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.RemainingSeconds, second.RemainingSeconds)
	assert.Equal(t, first.Message, second.Message)
}

func TestMapTransport(t *testing.T) {
	t.Run("deadline exceeded is a timeout", func(t *testing.T) {
		err := MapTransport(fmt.Errorf("request failed: %w", context.DeadlineExceeded))
		assert.Equal(t, KindNetwork, err.Kind)
		assert.True(t, err.Timeout)
	})

	t.Run("plain connection failure", func(t *testing.T) {
		err := MapTransport(errors.New("dial tcp: connection refused"))
		assert.Equal(t, KindNetwork, err.Kind)
		assert.False(t, err.Timeout)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, MapTransport(nil))
	})
}

func TestIsReuseDetectedCode(t *testing.T) {
	assert.True(t, IsReuseDetectedCode(envelope("REFRESH_TOKEN_REUSE_DETECTED", "", nil)))
	assert.False(t, IsReuseDetectedCode(envelope("REFRESH_TOKEN_EXPIRED", "", nil)))
	assert.False(t, IsReuseDetectedCode(nil))
}

func TestErrorIsComparison(t *testing.T) {
	err := fmt.Errorf("login failed: %w", NewInvalidCredentials())

	assert.True(t, errors.Is(err, NewInvalidCredentials()))
	assert.False(t, errors.Is(err, NewRefreshTokenExpired()))
	assert.Equal(t, KindInvalidCredentials, KindOf(err))
	assert.True(t, IsKind(err, KindInvalidCredentials))
}
