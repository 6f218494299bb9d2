package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// RegisterUserRoutes mounts the profile and user lookup endpoints under
// /users. Every route requires an authenticated caller.
func RegisterUserRoutes(app fiber.Router, guard fiber.Handler, opts ...ProfileControllerOption) {
	controller := NewProfileController(opts...)

	group := app.Group("/users", guard)
	group.Get("/profile", controller.GetProfile).Name("users.profile.get")
	group.Put("/profile", controller.UpdateProfile).Name("users.profile.update")
	group.Get("/search", controller.SearchUsers).Name("users.search")
	group.Get("/:id", controller.GetUserByID).Name("users.get")
}

type ProfileController struct {
	Logger Logger
	Repo   RepositoryManager
}

type ProfileControllerOption func(*ProfileController) *ProfileController

func NewProfileController(opts ...ProfileControllerOption) *ProfileController {
	c := &ProfileController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in profile controller...")
	}

	return c
}

func WithProfileLogger(logger Logger) ProfileControllerOption {
	return func(c *ProfileController) *ProfileController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithProfileRepo(repo RepositoryManager) ProfileControllerOption {
	return func(c *ProfileController) *ProfileController {
		c.Repo = repo
		return c
	}
}

func (p *ProfileController) GetProfile(c *fiber.Ctx) error {
	claims, ok := GetClaims(c.UserContext())
	if !ok {
		return RespondError(c, ErrTokenMalformed)
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return RespondError(c, ErrTokenMalformed)
	}

	user, err := p.Repo.Users().GetByUserID(c.UserContext(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return RespondError(c, ErrIdentityNotFound)
		}
		p.Logger.Error("get profile", "error", err, "user_id", id)
		return RespondError(c, wrapStoreError(err, "failed to load profile"))
	}

	return RespondData(c, fiber.StatusOK, fiber.Map{"user": user.Sanitized()})
}

// UpdateProfilePayload carries the mutable profile fields. Absent fields are
// left untouched; an explicit empty string clears text fields.
type UpdateProfilePayload struct {
	Nickname *string `json:"nickname"`
	Bio      *string `json:"bio"`
	Age      *int    `json:"age"`
	City     *string `json:"city"`
	Avatar   *string `json:"avatar"`
}

// Validate will run validation rules
func (r UpdateProfilePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nickname, validation.Length(1, 50)),
		validation.Field(&r.Bio, validation.Length(0, 500)),
		validation.Field(&r.Age, validation.Min(18), validation.Max(100)),
		validation.Field(&r.City, validation.Length(0, 100)),
	)
}

func (p *ProfileController) UpdateProfile(c *fiber.Ctx) error {
	claims, ok := GetClaims(c.UserContext())
	if !ok {
		return RespondError(c, ErrTokenMalformed)
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return RespondError(c, ErrTokenMalformed)
	}

	payload := new(UpdateProfilePayload)
	if err := c.BodyParser(payload); err != nil {
		p.Logger.Error("update profile parse payload", "error", err)
		return RespondError(c, goerrors.Wrap(err, goerrors.CategoryBadInput, "Invalid request body").
			WithCode(goerrors.CodeBadRequest))
	}

	if err := payload.Validate(); err != nil {
		p.Logger.Warn("update profile validate payload", "error", err)
		return RespondValidationError(c, err)
	}

	user, err := p.Repo.Users().GetByUserID(c.UserContext(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return RespondError(c, ErrIdentityNotFound)
		}
		return RespondError(c, wrapStoreError(err, "failed to load profile"))
	}

	if payload.Nickname != nil {
		user.Nickname = *payload.Nickname
	}
	if payload.Bio != nil {
		user.Bio = *payload.Bio
	}
	if payload.Age != nil {
		user.Age = payload.Age
	}
	if payload.City != nil {
		user.City = *payload.City
	}
	if payload.Avatar != nil {
		user.Avatar = *payload.Avatar
	}

	if user, err = p.Repo.Users().Update(c.UserContext(), user, repository.UpdateByID(id.String())); err != nil {
		p.Logger.Error("update profile", "error", err, "user_id", id)
		return RespondError(c, wrapStoreError(err, "failed to update profile"))
	}

	return RespondData(c, fiber.StatusOK, fiber.Map{
		"message": "Profile updated successfully",
		"user":    user.Sanitized(),
	})
}

func (p *ProfileController) GetUserByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return RespondError(c, goerrors.New("Invalid user id", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest))
	}

	user, err := p.Repo.Users().GetByUserID(c.UserContext(), id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return RespondError(c, ErrIdentityNotFound)
		}
		p.Logger.Error("get user by id", "error", err, "user_id", id)
		return RespondError(c, wrapStoreError(err, "failed to load user"))
	}

	return RespondData(c, fiber.StatusOK, fiber.Map{"user": user.Sanitized()})
}

func (p *ProfileController) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return RespondError(c, goerrors.New("Search query required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest))
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, total, err := p.Repo.Users().SearchByNickname(c.UserContext(), query, limit, offset)
	if err != nil {
		p.Logger.Error("search users", "error", err, "query", query)
		return RespondError(c, wrapStoreError(err, "failed to search users"))
	}

	results := make([]*User, 0, len(users))
	for _, u := range users {
		results = append(results, u.Sanitized())
	}

	return RespondData(c, fiber.StatusOK, fiber.Map{
		"users":  results,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
