package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/ankurdental/dentaldesk/internal/api/http/middleware"
	"github.com/ankurdental/dentaldesk/internal/service/session"
	pasetotoken "github.com/ankurdental/dentaldesk/pkg/paseto"
)

type AuthHandler struct {
	svc session.Service
}

func NewAuthHandler(svc session.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		return unauthorized(c, err.Error())
	case errors.Is(err, session.ErrAccountLocked):
		return tooManyRequests(c, err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		return unauthorized(c, err.Error())
	case errors.Is(err, session.ErrTokensDisabled):
		return unavailable(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return badRequest(c, "email and password are required")
	}

	u, err := h.svc.Authenticate(c.Context(), body.Email, body.Password)
	if err != nil {
		return mapAuthError(c, err)
	}

	tokens, err := h.svc.IssueToken(c.Context(), *u)
	if err != nil {
		return mapAuthError(c, err)
	}

	return ok(c, fiber.Map{
		"access_token": tokens.AccessToken,
		"expires_in":   tokens.ExpiresIn,
		"user":         tokens.User,
	})
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	claims, found := pasetotoken.ClaimsFromFiber(c)
	if !found {
		return unauthorized(c, "unauthorized")
	}
	if err := h.svc.Revoke(c.Context(), claims.SessionID); err != nil {
		return mapAuthError(c, err)
	}
	return noContent(c)
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	u, found := middleware.UserFromFiber(c)
	if !found {
		return unauthorized(c, "unauthorized")
	}
	return ok(c, u)
}
