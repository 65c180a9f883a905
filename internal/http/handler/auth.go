package handler

import (
	"github.com/gofiber/fiber/v2"

	"taskapi/internal/http/middleware"
	"taskapi/internal/service"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name" validate:"max=200"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signup registers a new account.
//
// @Summary Sign up
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signupRequest true "Credentials"
// @Success 200 {object} model.User
// @Failure 422 {object} errorPayload
// @Router /signup [post]
func Signup(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signupRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		u, err := svc.Signup(c.UserContext(), service.Credentials{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// Login exchanges credentials for a bearer token.
//
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} errorPayload
// @Router /login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := bind(c, &req); err != nil {
			return err
		}
		token, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(tokenResponse{Token: token})
	}
}

// Logout revokes the bearer token used for this request.
//
// @Summary Log out
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errorPayload
// @Router /logout [post]
func Logout(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Logout(c.UserContext(), middleware.ClaimsFrom(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Me returns the authenticated account.
//
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} errorPayload
// @Router /me [get]
func Me(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.Me(c.UserContext(), callerID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}
