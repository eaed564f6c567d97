package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trip-service/internal/api/dto"
	"github.com/spec-kit/trip-service/internal/domain"
	"github.com/spec-kit/trip-service/internal/service"
	apperrors "github.com/spec-kit/trip-service/pkg/util"
)

// AuthHandler exposes the session protocol endpoints.
type AuthHandler struct {
	sessions *service.SessionService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	pair, err := h.sessions.Login(c.UserContext(), domain.Credential{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": tokenPairResponse(pair)})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewBadRequest("refresh token required", nil)
	}

	pair, err := h.sessions.RefreshToken(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": tokenPairResponse(pair)})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AccessToken == "" || req.RefreshToken == "" {
		return apperrors.NewBadRequest("access and refresh tokens required", nil)
	}

	if err := h.sessions.Logout(c.UserContext(), req.AccessToken, req.RefreshToken); err != nil {
		return err
	}

	return c.SendStatus(http.StatusNoContent)
}

func tokenPairResponse(pair *domain.TokenPair) dto.TokenPairResponse {
	return dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ID:           pair.PrincipalID,
	}
}
