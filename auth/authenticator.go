package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// Auther composes the password hasher, token codec, credential store, and
// session registry into the register/login/refresh/logout operations.
type Auther struct {
	repo         RepositoryManager
	provider     IdentityProvider
	sessions     SessionRegistry
	tokenService TokenService
	sessionTTL   time.Duration
	logger       Logger
	useHashids   bool
}

// NewAuthenticator returns a new Authenticator. The session TTL mirrors the
// access token lifetime so registry entries expire with the tokens they track.
func NewAuthenticator(repo RepositoryManager, sessions SessionRegistry, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetAccessSigningKey()),
		[]byte(opts.GetRefreshSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		defLogger{},
	)

	return &Auther{
		repo:         repo,
		provider:     NewUserProvider(repo.Users()),
		sessions:     sessions,
		tokenService: tokenService,
		sessionTTL:   time.Duration(opts.GetTokenExpiration()) * time.Hour,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
		if p, ok := s.provider.(*UserProvider); ok {
			p.WithLogger(logger)
		}
	}
	return s
}

// WithIdentityProvider sets a custom IdentityProvider for the Auther.
func (s *Auther) WithIdentityProvider(provider IdentityProvider) *Auther {
	if provider != nil {
		s.provider = provider
	}
	return s
}

// WithTokenService sets a custom token codec, mostly for tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithDeterministicIDs derives new user ids from the phone number instead of
// random UUIDs. Useful when records must be re-creatable across environments.
func (s *Auther) WithDeterministicIDs() *Auther {
	s.useHashids = true
	return s
}

// TokenService returns the token codec used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Register creates an identity record and issues an access token. It does
// not create a session registry entry; only Login does.
func (s *Auther) Register(ctx context.Context, phone, password, nickname string) (*User, string, error) {
	user := &User{}

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if existing, err := s.repo.Users().GetByPhoneTx(ctx, tx, phone); err != nil {
			if !goerrors.IsNotFound(err) {
				return wrapStoreError(err, "failed to check phone registration")
			}
		} else if existing != nil {
			return ErrPhoneAlreadyRegistered
		}

		hash, err := HashPassword(password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.Phone = phone
		user.PasswordHash = hash
		user.Nickname = nickname
		user.Status = UserStatusActive
		if s.useHashids {
			if id, err := hashid.NewUUID(phone); err == nil {
				user.ID = id
			}
		}

		if user, err = s.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		s.logger.Error("Register failed", "error", err, "phone", phone)
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, "", richErr
		}
		return nil, "", wrapStoreError(err, "user registration transaction failed")
	}

	token, err := s.tokenService.Generate(NewIdentityFromUser(user))
	if err != nil {
		s.logger.Error("Register token generation failed", "error", err, "user_id", user.ID)
		return nil, "", err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "phone", user.Phone)

	return user.Sanitized(), token, nil
}

// Login verifies the credentials, mints a token pair, and records the access
// token as the user's live session. Two concurrent logins race harmlessly;
// the registry keeps exactly one value.
func (s *Auther) Login(ctx context.Context, phone, password string) (*User, *TokenPair, error) {
	identity, err := s.provider.VerifyIdentity(ctx, phone, password)
	if err != nil {
		s.logger.Warn("Login verify identity error", "error", err, "phone", phone)
		return nil, nil, loginError(err)
	}

	accessToken, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation failed", "error", err)
		return nil, nil, err
	}

	refreshToken, err := s.tokenService.GenerateRefresh(identity)
	if err != nil {
		s.logger.Error("Login refresh token generation failed", "error", err)
		return nil, nil, err
	}

	if err := s.sessions.Put(ctx, identity.ID(), accessToken, s.sessionTTL); err != nil {
		s.logger.Error("Login session store failed", "error", err, "user_id", identity.ID())
		return nil, nil, err
	}

	user, err := s.repo.Users().GetByPhone(ctx, phone)
	if err != nil {
		return nil, nil, wrapStoreError(err, "failed to load user after login")
	}

	s.logger.Info("User logged in successfully", "user_id", identity.ID(), "phone", phone)

	return user.Sanitized(), &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh verifies a refresh token against the refresh secret and mints a new
// access token carrying the same subject, phone and scope. The session
// registry is not touched.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokenService.ValidateRefresh(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token verification failed", "error", err)
		return "", ErrInvalidRefreshToken
	}

	token, err := s.tokenService.Generate(claimsIdentity{claims: claims})
	if err != nil {
		s.logger.Error("Refresh token generation failed", "error", err)
		return "", err
	}

	return token, nil
}

// Logout deletes the session registry entry for userID. Deleting an absent
// entry succeeds; repeated logouts are indistinguishable from the first.
func (s *Auther) Logout(ctx context.Context, userID string) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		s.logger.Error("Logout session delete failed", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("User logged out", "user_id", userID)
	return nil
}

// loginError collapses enumeration-prone failures into ErrInvalidCredentials.
// Status and rate limit errors pass through unchanged.
func loginError(err error) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		switch richErr.TextCode {
		case textCodeAccountSuspended, textCodeTooManyLoginAttempts, textCodeStoreUnavailable:
			return richErr
		}
	}

	return ErrInvalidCredentials
}

var _ Authenticator = (*Auther)(nil)
