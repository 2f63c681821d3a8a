// Package http carries the authentication endpoints: credential login and
// self-service registration. Everything else lives with its feature.
package http

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/gerardoh13/jobly/internal/apperr"
	"github.com/gerardoh13/jobly/internal/auth"
	"github.com/gerardoh13/jobly/internal/users"
)

var validate = validator.New()

type AuthHandler struct {
	Users  users.Store
	Secret []byte
}

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Token exchanges a username/password pair for a signed bearer token.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var body tokenRequest
	if err := c.BodyParser(&body); err != nil {
		return fmt.Errorf("%w: invalid json body", apperr.ErrInvalidInput)
	}
	if err := validate.Struct(body); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err)
	}

	user, err := h.Users.Authenticate(c.Context(), body.Username, body.Password)
	if err != nil {
		return err
	}

	token, err := auth.MakeToken(auth.Identity{Username: user.Username, IsAdmin: user.IsAdmin}, h.Secret)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	return c.JSON(tokenResponse{Token: token})
}

// Register creates a regular account. The admin flag is not accepted
// here; admin accounts come from the admin-only user routes.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body users.RegisterParams
	if err := c.BodyParser(&body); err != nil {
		return fmt.Errorf("%w: invalid json body", apperr.ErrInvalidInput)
	}
	if err := validate.Struct(body); err != nil {
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, err)
	}

	user, err := h.Users.Create(c.Context(), users.CreateParams{RegisterParams: body})
	if err != nil {
		return err
	}

	token, err := auth.MakeToken(auth.Identity{Username: user.Username, IsAdmin: user.IsAdmin}, h.Secret)
	if err != nil {
		return fmt.Errorf("signing token: %w", err)
	}
	return c.Status(fiber.StatusCreated).JSON(tokenResponse{Token: token})
}
