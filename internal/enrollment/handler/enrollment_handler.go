package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/enrollment-service/internal/enrollment/dto"
	"github.com/learnsphere/enrollment-service/internal/enrollment/service"
)

type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

func (h *EnrollmentHandler) CreateCourse(c *fiber.Ctx) error {
	var input dto.CreateCourseInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	input.TeacherID, _ = c.Locals(localAccountID).(string)

	course, err := h.enrollmentService.CreateCourse(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CourseOutput{
		ID:        course.ID,
		TeacherID: course.TeacherID,
		Name:      course.Name,
		Capacity:  course.Capacity,
		Schedule:  course.Schedule,
		CreatedAt: course.CreatedAt,
	})
}

func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	studentID, _ := c.Locals(localAccountID).(string)

	if err := h.enrollmentService.Enroll(c.Context(), studentID, c.Params("id")); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"enrolled": true,
	})
}

func (h *EnrollmentHandler) Eligibility(c *fiber.Ctx) error {
	studentID, _ := c.Locals(localAccountID).(string)

	err := h.enrollmentService.CanEnroll(c.Context(), studentID, c.Params("id"))
	if err == nil {
		return c.Status(fiber.StatusOK).JSON(dto.EligibilityOutput{Eligible: true})
	}
	if statusFor(err) == fiber.StatusInternalServerError {
		return respondError(c, err)
	}

	// An ineligible student is still a successful dry run; the blocking check
	// rides back as the reason.
	return c.Status(fiber.StatusOK).JSON(dto.EligibilityOutput{
		Eligible: false,
		Reason:   err.Error(),
	})
}
