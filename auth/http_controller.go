package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/nyaruka/phonenumbers"
)

// RegisterAuthRoutes mounts the authentication endpoints under /auth.
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	group := app.Group("/auth")
	group.Post("/register", controller.Register).Name("auth.register")
	group.Post("/login", controller.Login).Name("auth.login")
	group.Post("/refresh-token", controller.RefreshToken).Name("auth.refresh")

	logout := []fiber.Handler{controller.Logout}
	if controller.Guard != nil {
		logout = append([]fiber.Handler{controller.Guard}, logout...)
	}
	group.Post("/logout", logout...).Name("auth.logout")
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Auther Authenticator
	// Guard protects the logout route; the other auth routes are public.
	Guard fiber.Handler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerGuard(guard fiber.Handler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Guard = guard
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegisterPayload is the registration request body
type RegisterPayload struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Phone,
			validation.Required,
			validation.By(ValidatePhoneNumber),
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(6, 100),
		),
		validation.Field(
			&r.Nickname,
			validation.Required,
			validation.Length(1, 50),
		),
	)
}

func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := new(RegisterPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return RespondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "Invalid request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Warn("register validate payload", "error", err)
		return RespondValidationError(c, err)
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	user, token, err := a.Auther.Register(c.UserContext(), payload.Phone, payload.Password, payload.Nickname)
	if err != nil {
		a.Logger.Error("register user", "error", err, "phone", payload.Phone)
		return RespondErrorWithDetail(c, err, a.Debug)
	}

	return RespondData(c, fiber.StatusCreated, fiber.Map{
		"message": "Registration successful",
		"user":    user,
		"token":   token,
	})
}

// LoginPayload is the login request body
type LoginPayload struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Phone,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return RespondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "Invalid request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Warn("login validate payload", "error", err)
		return RespondValidationError(c, err)
	}

	user, tokens, err := a.Auther.Login(c.UserContext(), payload.Phone, payload.Password)
	if err != nil {
		a.Logger.Warn("login failed", "error", err, "phone", payload.Phone)
		return RespondErrorWithDetail(c, err, a.Debug)
	}

	return RespondData(c, fiber.StatusOK, fiber.Map{
		"message":      "Login successful",
		"user":         user,
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

// RefreshPayload is the refresh token request body
type RefreshPayload struct {
	RefreshToken string `json:"refreshToken"`
}

func (a *AuthController) RefreshToken(c *fiber.Ctx) error {
	payload := new(RefreshPayload)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("refresh parse payload", "error", err)
		return RespondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "Invalid request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if payload.RefreshToken == "" {
		return RespondError(c, goerrors.New("Refresh token required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest))
	}

	token, err := a.Auther.Refresh(c.UserContext(), payload.RefreshToken)
	if err != nil {
		a.Logger.Warn("refresh token failed", "error", err)
		return RespondErrorWithDetail(c, err, a.Debug)
	}

	return RespondData(c, fiber.StatusOK, fiber.Map{
		"token": token,
	})
}

func (a *AuthController) Logout(c *fiber.Ctx) error {
	claims, ok := GetClaims(c.UserContext())
	if !ok {
		return RespondError(c, ErrTokenMalformed)
	}

	if err := a.Auther.Logout(c.UserContext(), claims.UserID()); err != nil {
		a.Logger.Error("logout failed", "error", err, "user_id", claims.UserID())
		return RespondErrorWithDetail(c, err, a.Debug)
	}

	return RespondMessage(c, fiber.StatusOK, "Logout successful")
}

// ValidatePhoneNumber accepts any parseable E.164-ish number. We do not
// check carrier validity, only that the value reads as a phone number.
func ValidatePhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := phonenumbers.Parse(s, ""); err != nil {
		return fmt.Errorf("must be a valid phone number")
	}
	return nil
}
