package domain

import (
	"time"

	apperrors "github.com/learnsphere/enrollment-service/internal/errors"
)

const minutesPerDay = 24 * 60

// Slot is a weekly recurring time window. Minutes are counted from midnight;
// the interval is half-open, [StartMinute, EndMinute).
type Slot struct {
	Day         int `json:"day"`
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

func (s Slot) Validate() error {
	if s.Day < 0 || s.Day > 6 {
		return apperrors.ErrInvalidSlot
	}
	if s.StartMinute < 0 || s.StartMinute >= minutesPerDay {
		return apperrors.ErrInvalidSlot
	}
	if s.EndMinute < 0 || s.EndMinute >= minutesPerDay {
		return apperrors.ErrInvalidSlot
	}
	if s.StartMinute >= s.EndMinute {
		return apperrors.ErrInvalidSlot
	}
	return nil
}

type Course struct {
	ID        string
	TeacherID string
	Name      string
	Capacity  int
	Schedule  []Slot
	CreatedAt time.Time
}

type ClassStatus string

const (
	ClassUpcoming   ClassStatus = "upcoming"
	ClassInProgress ClassStatus = "in-progress"
	ClassCompleted  ClassStatus = "completed"
)

// Next returns the forward transition for a class status. Completed has no
// successor.
func (s ClassStatus) Next() (ClassStatus, bool) {
	switch s {
	case ClassUpcoming:
		return ClassInProgress, true
	case ClassInProgress:
		return ClassCompleted, true
	default:
		return "", false
	}
}

type LiveClassInstance struct {
	ID          string
	CourseID    string
	Title       string
	Date        time.Time
	StartMinute int
	Link        string
	Status      ClassStatus
	CreatedAt   time.Time
}

// StartsAt combines the calendar date with the start minute.
func (c *LiveClassInstance) StartsAt() time.Time {
	day := time.Date(c.Date.Year(), c.Date.Month(), c.Date.Day(), 0, 0, 0, 0, c.Date.Location())
	return day.Add(time.Duration(c.StartMinute) * time.Minute)
}
