package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

type secretKind int

const (
	secretAccess secretKind = iota
	secretRefresh
)

// TokenServiceImpl implements the TokenService interface with two
// independent HS256 secrets, one per token kind.
type TokenServiceImpl struct {
	accessKey       []byte
	refreshKey      []byte
	tokenExpiration int
	issuer          string
	logger          Logger
	now             func() time.Time
}

// TokenServiceOption customizes TokenService construction.
type TokenServiceOption func(*TokenServiceImpl)

// WithTokenClock injects a custom clock (useful for tests).
func WithTokenClock(clock func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if clock != nil {
			ts.now = clock
		}
	}
}

// NewTokenService creates a new TokenService instance. tokenExpiration is
// expressed in hours; the access and refresh lifetimes are identical.
func NewTokenService(accessKey, refreshKey []byte, tokenExpiration int, issuer string, logger Logger, opts ...TokenServiceOption) TokenService {
	if logger == nil {
		logger = defLogger{}
	}

	ts := &TokenServiceImpl{
		accessKey:       accessKey,
		refreshKey:      refreshKey,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		logger:          logger,
		now:             time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

// Generate creates an access JWT carrying the identity's id, phone and scope
func (ts *TokenServiceImpl) Generate(identity Identity) (string, error) {
	return ts.sign(ts.newClaims(identity), secretAccess)
}

// GenerateRefresh creates a refresh JWT signed with the refresh secret
func (ts *TokenServiceImpl) GenerateRefresh(identity Identity) (string, error) {
	return ts.sign(ts.newClaims(identity), secretRefresh)
}

// SignClaims signs arbitrary JWT claims using the access secret.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	return ts.sign(claims, secretAccess)
}

func (ts *TokenServiceImpl) sign(claims *JWTClaims, kind secretKind) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.key(kind))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates an access token, returning structured claims
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	return ts.validate(tokenString, secretAccess)
}

// ValidateRefresh parses and validates a refresh token. Access tokens fail
// here: they are signed with a different secret.
func (ts *TokenServiceImpl) ValidateRefresh(tokenString string) (AuthClaims, error) {
	return ts.validate(tokenString, secretRefresh)
}

func (ts *TokenServiceImpl) validate(tokenString string, kind secretKind) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.key(kind), nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(ErrTokenMalformed.Code)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode or validate claims")
		return nil, ErrTokenMalformed
	}

	if err := claims.validateRequired(); err != nil {
		return nil, err
	}

	return claims, nil
}

func (ts *TokenServiceImpl) newClaims(identity Identity) *JWTClaims {
	now := ts.now()

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.ID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.tokenExpiration) * time.Hour)),
		},
		Phone: identity.Phone(),
		Scope: identity.Scope(),
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

func (ts *TokenServiceImpl) key(kind secretKind) []byte {
	if kind == secretRefresh {
		return ts.refreshKey
	}
	return ts.accessKey
}

// TokenLifetime returns the configured token lifetime; the session registry
// TTL mirrors it.
func (ts *TokenServiceImpl) TokenLifetime() time.Duration {
	return time.Duration(ts.tokenExpiration) * time.Hour
}
