package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/enrollment-service/internal/enrollment/domain"
	"github.com/learnsphere/enrollment-service/internal/enrollment/dto"
	"github.com/learnsphere/enrollment-service/internal/enrollment/service"
)

type ClassHandler struct {
	classService *service.ClassService
}

func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

func (h *ClassHandler) CreateClass(c *fiber.Ctx) error {
	var input dto.CreateClassInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input",
		})
	}

	input.CourseID = c.Params("id")
	input.TeacherID, _ = c.Locals(localAccountID).(string)

	instance, err := h.classService.CreateInstance(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(classOutput(instance))
}

func (h *ClassHandler) Advance(c *fiber.Ctx) error {
	teacherID, _ := c.Locals(localAccountID).(string)

	instance, err := h.classService.Advance(c.Context(), c.Params("id"), teacherID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(classOutput(instance))
}

func (h *ClassHandler) Complete(c *fiber.Ctx) error {
	teacherID, _ := c.Locals(localAccountID).(string)

	instance, err := h.classService.Complete(c.Context(), c.Params("id"), teacherID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(classOutput(instance))
}

func (h *ClassHandler) Join(c *fiber.Ctx) error {
	link, err := h.classService.Join(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.JoinOutput{Link: link})
}

func classOutput(instance *domain.LiveClassInstance) dto.ClassOutput {
	return dto.ClassOutput{
		ID:          instance.ID,
		CourseID:    instance.CourseID,
		Title:       instance.Title,
		Date:        instance.Date,
		StartMinute: instance.StartMinute,
		Status:      string(instance.Status),
	}
}
