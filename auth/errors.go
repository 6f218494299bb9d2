package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	textCodePhoneRegistered      = "PHONE_ALREADY_REGISTERED"
	textCodeInvalidRefreshToken  = "INVALID_REFRESH_TOKEN"
	textCodeTokenExpired         = "TOKEN_EXPIRED"
	textCodeTokenMalformed       = "TOKEN_MALFORMED"
	textCodeAccountSuspended     = "ACCOUNT_SUSPENDED"
	textCodeTooManyLoginAttempts = "TOO_MANY_LOGIN_ATTEMPTS"
	textCodeSessionNotFound      = "SESSION_NOT_FOUND"
	textCodeStoreUnavailable     = "STORE_UNAVAILABLE"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrMismatchedHashAndPassword indicates a plaintext did not match the stored
// digest. It never leaves the package; callers surface ErrInvalidCredentials.
var ErrMismatchedHashAndPassword = goerrors.New("hashed password mismatch", goerrors.CategoryAuth)

// ErrNoEmptyString rejects empty plaintext passwords before hashing
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryBadInput)

// ErrInvalidCredentials is returned for both unknown phones and wrong
// passwords, indistinguishably, to avoid user enumeration.
var ErrInvalidCredentials = goerrors.New("Invalid phone or password", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrPhoneAlreadyRegistered is returned when registering a phone that
// already has an identity record.
var ErrPhoneAlreadyRegistered = goerrors.New("Phone number already registered", goerrors.CategoryConflict).
	WithTextCode(textCodePhoneRegistered).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidRefreshToken covers every refresh verification failure; expired
// and malformed are not distinguished on this path.
var ErrInvalidRefreshToken = goerrors.New("Invalid refresh token", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidRefreshToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when a token is presented at or past its expiry
var ErrTokenExpired = goerrors.New("Token expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers unparseable structure and bad signatures
var ErrTokenMalformed = goerrors.New("Invalid token", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeForbidden)

// ErrAccountSuspended blocks login for suspended accounts
var ErrAccountSuspended = goerrors.New("Account suspended", goerrors.CategoryAuth).
	WithTextCode(textCodeAccountSuspended).
	WithCode(goerrors.CodeUnauthorized)

// ErrTooManyLoginAttempts enforces the login attempt cool down window
var ErrTooManyLoginAttempts = goerrors.New("Too many login attempts", goerrors.CategoryRateLimit).
	WithTextCode(textCodeTooManyLoginAttempts)

// ErrSessionNotFound reports an absent session registry entry, distinctly
// from a store failure.
var ErrSessionNotFound = goerrors.New("session not found", goerrors.CategoryNotFound).
	WithTextCode(textCodeSessionNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrStoreUnavailable wraps opaque collaborator failures (Postgres, Redis)
var ErrStoreUnavailable = goerrors.New("auth store unavailable", goerrors.CategoryInternal).
	WithTextCode(textCodeStoreUnavailable).
	WithCode(goerrors.CodeInternal)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == textCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == textCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// wrapStoreError tags a collaborator failure so the HTTP layer reports a
// generic 500 without leaking the underlying driver error.
func wrapStoreError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).
		WithTextCode(textCodeStoreUnavailable).
		WithCode(goerrors.CodeInternal)
}
