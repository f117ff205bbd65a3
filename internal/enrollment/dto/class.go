package dto

import "time"

type CreateClassInput struct {
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	StartMinute int    `json:"start_minute"`
	Link        string `json:"link" binding:"required"`

	CourseID  string `json:"-"`
	TeacherID string `json:"-"`
}

type ClassOutput struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	StartMinute int       `json:"start_minute"`
	Status      string    `json:"status"`
}

type JoinOutput struct {
	Link string `json:"link"`
}
