package auth_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	"github.com/tongpin/user-service/auth"
)

func TestIsTokenExpiredError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "Nil error",
			err:  nil,
			want: false,
		},
		{
			name: "Sentinel expired error",
			err:  auth.ErrTokenExpired,
			want: true,
		},
		{
			name: "Wrapped expired error",
			err:  goerrors.Wrap(auth.ErrTokenExpired, goerrors.CategoryAuth, "verification failed"),
			want: false, // wrapping replaces the text code; the sentinel must stay outermost
		},
		{
			name: "Raw jwt library message",
			err:  errors.New("token has invalid claims: token is expired"),
			want: true,
		},
		{
			name: "Unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.IsTokenExpiredError(tt.err))
		})
	}
}

func TestIsMalformedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "Sentinel malformed error",
			err:  auth.ErrTokenMalformed,
			want: true,
		},
		{
			name: "Raw jwt library message",
			err:  errors.New("token is malformed: could not base64 decode"),
			want: true,
		},
		{
			name: "Middleware extraction message",
			err:  errors.New("missing or malformed JWT"),
			want: true,
		},
		{
			name: "Expired is not malformed",
			err:  auth.ErrTokenExpired,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.IsMalformedError(tt.err))
		})
	}
}

func TestErrorHTTPCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *goerrors.Error
		code int
	}{
		{"Invalid credentials", auth.ErrInvalidCredentials, 401},
		{"Phone already registered", auth.ErrPhoneAlreadyRegistered, 400},
		{"Invalid refresh token", auth.ErrInvalidRefreshToken, 401},
		{"Token expired", auth.ErrTokenExpired, 401},
		{"Token malformed", auth.ErrTokenMalformed, 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestErrorMessagesAreClientFacing(t *testing.T) {
	assert.Equal(t, "Invalid phone or password", auth.ErrInvalidCredentials.Message)
	assert.Equal(t, "Phone number already registered", auth.ErrPhoneAlreadyRegistered.Message)
	assert.Equal(t, "Invalid refresh token", auth.ErrInvalidRefreshToken.Message)
	assert.Equal(t, "Token expired", auth.ErrTokenExpired.Message)
	assert.Equal(t, "Invalid token", auth.ErrTokenMalformed.Message)
}
