package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/enrollment-service/internal/enrollment/service"
	apperrors "github.com/learnsphere/enrollment-service/internal/errors"
)

const (
	localAccountID = "account_id"
	localRole      = "role"
)

// authenticate extracts and verifies the Bearer access token.
func (h *AuthHandler) authenticate(c *fiber.Ctx) (*service.JWTCustomClaims, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, apperrors.ErrTokenMalformed
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.ErrTokenMalformed
	}

	claims, err := h.tokenService.VerifyAccessToken(parts[1])
	if err != nil {
		return nil, err
	}

	// The account is re-resolved on every request so a ban cuts off access
	// even while the token itself is still valid.
	if _, err := h.accountService.ActiveAccount(c.Context(), claims.AccountID); err != nil {
		return nil, err
	}

	return claims, nil
}

// RequireAuth verifies the Bearer access token and stashes the claims in the
// request locals for downstream handlers.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	claims, err := h.authenticate(c)
	if err != nil {
		return respondError(c, err)
	}

	c.Locals(localAccountID, claims.AccountID)
	c.Locals(localRole, claims.Role)

	return c.Next()
}

// RequireRole verifies the token and additionally gates on the role claim.
func (h *AuthHandler) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := h.authenticate(c)
		if err != nil {
			return respondError(c, err)
		}

		if claims.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient role",
			})
		}

		c.Locals(localAccountID, claims.AccountID)
		c.Locals(localRole, claims.Role)

		return c.Next()
	}
}
