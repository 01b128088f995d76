package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/reelscript-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/reelscript-be/internal/modules/creator/services"
)

type AuthHandler struct {
	accounts *services.AccountService
	verifier auth.IdentityVerifier
	jwt      *auth.JWTService
}

func NewAuthHandler(accounts *services.AccountService, verifier auth.IdentityVerifier, jwt *auth.JWTService) *AuthHandler {
	return &AuthHandler{accounts: accounts, verifier: verifier, jwt: jwt}
}

// SignInResponse is the session plus the account it belongs to
type SignInResponse struct {
	auth.AuthResponse
	services.SignInResult
}

// LoginWithGoogle godoc
// @Summary Sign in with Google
// @Description Verifies a Google ID token, creates the account on first sign-in and issues a session token. Accounts that never picked a plan are rejected after the grace period and removed after repeated attempts.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body auth.GoogleLoginRequest true "Google ID token"
// @Success 200 {object} SignInResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 410 {object} map[string]interface{}
// @Router /auth/google [post]
func (h *AuthHandler) LoginWithGoogle(c *fiber.Ctx) error {
	var req auth.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil || req.IDToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id_token is required",
		})
	}

	info, err := h.verifier.VerifyIDToken(c.UserContext(), req.IDToken)
	if err != nil {
		log.Warn().Err(err).Msg("Google token rejected")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid Google credential",
		})
	}

	result, err := h.accounts.SignIn(c.UserContext(), services.Identity{
		UID:         info.GoogleID,
		Email:       info.Email,
		DisplayName: info.Name,
		ClaimBasic:  strings.EqualFold(strings.TrimSpace(req.Plan), "basic"),
	})
	if err != nil {
		return respondError(c, err)
	}

	token, expiresIn, err := h.jwt.GenerateAccessToken(&auth.TokenClaims{UID: info.GoogleID, Email: info.Email})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(SignInResponse{
		AuthResponse: auth.AuthResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		SignInResult: *result,
	})
}
