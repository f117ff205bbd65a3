package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/learnsphere/enrollment-service/internal/errors"
)

// statusFor maps service sentinel errors onto HTTP status codes. Anything
// unrecognized is treated as an internal failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrRefreshTokenInvalid),
		errors.Is(err, apperrors.ErrResetTokenInvalid),
		errors.Is(err, apperrors.ErrResetTokenExpired),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenMalformed),
		errors.Is(err, apperrors.ErrTokenSignature):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrNotApproved),
		errors.Is(err, apperrors.ErrEmailNotVerified),
		errors.Is(err, apperrors.ErrAccountBanned),
		errors.Is(err, apperrors.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, apperrors.ErrAlreadyEnrolled),
		errors.Is(err, apperrors.ErrCourseFull),
		errors.Is(err, apperrors.ErrScheduleConflict),
		errors.Is(err, apperrors.ErrEmailAlreadyInUse),
		errors.Is(err, apperrors.ErrNotJoinable),
		errors.Is(err, apperrors.ErrNotAdvanceable),
		errors.Is(err, apperrors.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidAccountKind),
		errors.Is(err, apperrors.ErrInvalidSlot),
		errors.Is(err, apperrors.ErrInvalidDate),
		errors.Is(err, apperrors.ErrPastDate),
		errors.Is(err, apperrors.ErrOutsideSchedule):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
