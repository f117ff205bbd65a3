package dto

import (
	"time"

	"github.com/learnsphere/enrollment-service/internal/enrollment/domain"
)

type CreateCourseInput struct {
	Name     string        `json:"name" binding:"required"`
	Capacity int           `json:"capacity"`
	Schedule []domain.Slot `json:"schedule" binding:"required"`

	TeacherID string `json:"-"`
}

type CourseOutput struct {
	ID        string        `json:"id"`
	TeacherID string        `json:"teacher_id"`
	Name      string        `json:"name"`
	Capacity  int           `json:"capacity"`
	Schedule  []domain.Slot `json:"schedule"`
	CreatedAt time.Time     `json:"created_at"`
}

type EligibilityOutput struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}
