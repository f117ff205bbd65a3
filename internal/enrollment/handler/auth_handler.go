package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/enrollment-service/internal/enrollment/domain"
	"github.com/learnsphere/enrollment-service/internal/enrollment/dto"
	"github.com/learnsphere/enrollment-service/internal/enrollment/service"
	apperrors "github.com/learnsphere/enrollment-service/internal/errors"
)

type AuthHandler struct {
	accountService *service.AccountService
	tokenService   service.TokenGenerator
}

func NewAuthHandler(accountService *service.AccountService, tokenService service.TokenGenerator) *AuthHandler {
	return &AuthHandler{accountService: accountService, tokenService: tokenService}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var input dto.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	account, verificationToken, err := h.accountService.Signup(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	// No mailer is wired up, so the verification token rides back in the
	// response for the caller to relay.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":                 account.ID,
		"email":              account.Email,
		"kind":               string(account.Kind),
		"verification_token": verificationToken,
	})
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing token",
		})
	}

	if err := h.accountService.VerifyEmail(c.Context(), token); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"verified": true,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	tokens, err := h.accountService.Login(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var input dto.RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	tokens, err := h.accountService.Refresh(c.Context(), input.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(tokens)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	accountID, _ := c.Locals(localAccountID).(string)

	if err := h.accountService.Logout(c.Context(), accountID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input dto.ForgotPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	out, err := h.accountService.RequestReset(c.Context(), input.Email)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input dto.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	if err := h.accountService.ResetPassword(c.Context(), input); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"reset": true,
	})
}

func (h *AuthHandler) SetApproval(c *fiber.Ctx) error {
	var input dto.SetApprovalInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	state := domain.ApprovalState(input.State)
	switch state {
	case domain.ApprovalPending, domain.ApprovalApproved, domain.ApprovalReupload, domain.ApprovalBanned:
	default:
		return respondError(c, apperrors.ErrInvalidTransition)
	}

	if err := h.accountService.SetApproval(c.Context(), c.Params("id"), state); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":       c.Params("id"),
		"approval": input.State,
	})
}
