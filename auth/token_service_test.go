package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tongpin/user-service/auth"
)

type testIdentity struct {
	id    string
	phone string
	scope []string
}

func (i testIdentity) ID() string       { return i.id }
func (i testIdentity) Phone() string    { return i.phone }
func (i testIdentity) Nickname() string { return "tester" }
func (i testIdentity) Scope() []string  { return i.scope }

func newTestTokenService(clock func() time.Time) auth.TokenService {
	opts := []auth.TokenServiceOption{}
	if clock != nil {
		opts = append(opts, auth.WithTokenClock(clock))
	}
	return auth.NewTokenService(
		[]byte("test-access-secret"),
		[]byte("test-refresh-secret"),
		168,
		"user-service-test",
		nil,
		opts...,
	)
}

func TestTokenServiceRoundTrip(t *testing.T) {
	ts := newTestTokenService(nil)
	identity := testIdentity{id: "user-123", phone: "+15550001", scope: []string{"user"}}

	token, err := ts.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.Subject())
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "+15550001", claims.UserPhone())
	assert.Equal(t, []string{"user"}, claims.UserScope())
	assert.True(t, claims.HasScope("user"))

	lifetime := claims.Expires().Sub(claims.IssuedAt())
	assert.Equal(t, 168*time.Hour, lifetime)
}

func TestTokenServiceSecretsAreIndependent(t *testing.T) {
	ts := newTestTokenService(nil)
	identity := testIdentity{id: "user-123", phone: "+15550001", scope: []string{"user"}}

	access, err := ts.Generate(identity)
	require.NoError(t, err)
	refresh, err := ts.GenerateRefresh(identity)
	require.NoError(t, err)

	t.Run("Access token fails refresh validation", func(t *testing.T) {
		_, err := ts.ValidateRefresh(access)
		assert.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("Refresh token fails access validation", func(t *testing.T) {
		_, err := ts.Validate(refresh)
		assert.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("Refresh token passes refresh validation", func(t *testing.T) {
		claims, err := ts.ValidateRefresh(refresh)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID())
	})
}

func TestTokenServiceSignClaims(t *testing.T) {
	ts := newTestTokenService(nil)

	t.Run("Hand-built claims round-trip", func(t *testing.T) {
		now := time.Now()
		signed, err := ts.SignClaims(&auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "user-service-test",
				Subject:   "user-123",
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			Phone: "+15550001",
			Scope: []string{"user"},
		})
		require.NoError(t, err)

		claims, err := ts.Validate(signed)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, "+15550001", claims.UserPhone())
	})

	t.Run("Uses the access secret", func(t *testing.T) {
		signed, err := ts.SignClaims(&auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "user-service-test",
				Subject:   "user-123",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Phone: "+15550001",
		})
		require.NoError(t, err)

		_, err = ts.ValidateRefresh(signed)
		assert.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("Nil claims rejected", func(t *testing.T) {
		_, err := ts.SignClaims(nil)
		assert.Error(t, err)
	})
}

func TestTokenServiceExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	expiry := issuedAt.Add(168 * time.Hour)

	issuer := newTestTokenService(func() time.Time { return issuedAt })
	identity := testIdentity{id: "user-123", phone: "+15550001", scope: []string{"user"}}

	token, err := issuer.Generate(identity)
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		expired bool
	}{
		{
			name: "Just before expiry",
			now:  expiry.Add(-time.Second),
		},
		{
			name:    "Exactly at expiry",
			now:     expiry,
			expired: true,
		},
		{
			name:    "After expiry",
			now:     expiry.Add(time.Second),
			expired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := newTestTokenService(func() time.Time { return tt.now })

			claims, err := verifier.Validate(token)
			if tt.expired {
				require.Error(t, err)
				assert.True(t, auth.IsTokenExpiredError(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "user-123", claims.UserID())
		})
	}
}

func TestTokenServiceRejectsTamperedTokens(t *testing.T) {
	ts := newTestTokenService(nil)
	identity := testIdentity{id: "user-123", phone: "+15550001", scope: []string{"user"}}

	token, err := ts.Generate(identity)
	require.NoError(t, err)

	t.Run("Garbage input", func(t *testing.T) {
		_, err := ts.Validate("not-a-jwt")
		assert.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("Truncated signature", func(t *testing.T) {
		_, err := ts.Validate(token[:len(token)-4])
		assert.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("Foreign signing key", func(t *testing.T) {
		other := auth.NewTokenService([]byte("other-access"), []byte("other-refresh"), 168, "user-service-test", nil)
		foreign, err := other.Generate(identity)
		require.NoError(t, err)

		_, err = ts.Validate(foreign)
		assert.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})
}

func TestTokenServiceRejectsIncompleteClaims(t *testing.T) {
	ts := newTestTokenService(nil)

	t.Run("Missing phone", func(t *testing.T) {
		token, err := ts.Generate(testIdentity{id: "user-123", scope: []string{"user"}})
		require.NoError(t, err)

		_, err = ts.Validate(token)
		assert.Error(t, err)
	})

	t.Run("Missing subject", func(t *testing.T) {
		token, err := ts.Generate(testIdentity{phone: "+15550001", scope: []string{"user"}})
		require.NoError(t, err)

		_, err = ts.Validate(token)
		assert.Error(t, err)
	})
}
