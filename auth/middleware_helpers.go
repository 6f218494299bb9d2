package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/tongpin/user-service/auth/middleware/jwtware"
)

// ContextEnricherAdapter adapts jwtware.AuthClaims to auth.AuthClaims and
// stores claims in the standard context for downstream usage.
func ContextEnricherAdapter(c context.Context, claims jwtware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}

	return WithClaimsContext(c, authClaims)
}

// jwtwareValidator adapts a TokenValidator to the middleware's validator
// contract without the middleware importing this package.
func jwtwareValidator(tv TokenValidator) jwtware.TokenValidator {
	return jwtware.TokenValidatorFunc(func(tokenString string) (jwtware.AuthClaims, error) {
		claims, err := tv.Validate(tokenString)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

// ProtectedRoute rejects requests without a valid access token. Any
// TokenService satisfies TokenValidator; pass a TokenValidatorFunc to swap
// in a custom verification strategy.
func ProtectedRoute(cfg Config, tv TokenValidator) fiber.Handler {
	return jwtware.New(jwtware.Config{
		TokenValidator:  jwtwareValidator(tv),
		TokenLookup:     cfg.GetTokenLookup(),
		AuthScheme:      cfg.GetAuthScheme(),
		ContextKey:      cfg.GetContextKey(),
		ContextEnricher: ContextEnricherAdapter,
	})
}

// OptionalRoute attaches claims when a valid token is present and lets the
// request through anonymously otherwise.
func OptionalRoute(cfg Config, tv TokenValidator) fiber.Handler {
	return jwtware.New(jwtware.Config{
		TokenValidator:  jwtwareValidator(tv),
		TokenLookup:     cfg.GetTokenLookup(),
		AuthScheme:      cfg.GetAuthScheme(),
		ContextKey:      cfg.GetContextKey(),
		ContextEnricher: ContextEnricherAdapter,
		Optional:        true,
	})
}
