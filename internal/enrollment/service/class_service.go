package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/learnsphere/enrollment-service/internal/enrollment/domain"
	"github.com/learnsphere/enrollment-service/internal/enrollment/dto"
	apperrors "github.com/learnsphere/enrollment-service/internal/errors"
)

const classDateLayout = "2006-01-02"

type ClassService struct {
	courses domain.CourseRepository
	logger  *zap.Logger
}

func NewClassService(courses domain.CourseRepository, logger *zap.Logger) *ClassService {
	return &ClassService{
		courses: courses,
		logger:  logger,
	}
}

// CreateInstance schedules a live class for a course. The instance must start
// in the future and fall inside one of the course's weekly slots.
func (s *ClassService) CreateInstance(ctx context.Context, input dto.CreateClassInput) (*domain.LiveClassInstance, error) {
	course, err := s.courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.ErrNotFound
	}
	if course.TeacherID != input.TeacherID {
		return nil, apperrors.ErrForbidden
	}

	date, err := time.ParseInLocation(classDateLayout, input.Date, time.Local)
	if err != nil {
		return nil, apperrors.ErrInvalidDate
	}
	if input.StartMinute < 0 || input.StartMinute >= 24*60 {
		return nil, apperrors.ErrOutsideSchedule
	}

	instance := &domain.LiveClassInstance{
		ID:          uuid.NewString(),
		CourseID:    course.ID,
		Title:       input.Title,
		Date:        date,
		StartMinute: input.StartMinute,
		Link:        input.Link,
		Status:      domain.ClassUpcoming,
		CreatedAt:   time.Now(),
	}

	if instance.StartsAt().Before(time.Now()) {
		return nil, apperrors.ErrPastDate
	}

	if !withinWeeklyEnvelope(course.Schedule, date, input.StartMinute) {
		return nil, apperrors.ErrOutsideSchedule
	}

	if err := s.courses.CreateInstance(ctx, instance); err != nil {
		return nil, err
	}

	s.logger.Info("class instance created",
		zap.String("instance_id", instance.ID),
		zap.String("course_id", course.ID),
		zap.String("date", input.Date))

	return instance, nil
}

// Advance performs the legal forward transition for the instance, on behalf
// of the teacher who owns the course. An upcoming class only moves to
// in-progress once its start time has passed; an in-progress class can
// always be closed out. There are no timers here; an external scheduler
// drives the calls.
func (s *ClassService) Advance(ctx context.Context, instanceID, teacherID string) (*domain.LiveClassInstance, error) {
	instance, err := s.ownedInstance(ctx, instanceID, teacherID)
	if err != nil {
		return nil, err
	}

	next, ok := instance.Status.Next()
	if !ok {
		return nil, apperrors.ErrNotAdvanceable
	}

	if instance.Status == domain.ClassUpcoming && time.Now().Before(instance.StartsAt()) {
		return nil, apperrors.ErrNotAdvanceable
	}

	moved, err := s.courses.UpdateInstanceStatus(ctx, instanceID, instance.Status, next)
	if err != nil {
		return nil, err
	}
	if !moved {
		// Another caller transitioned it first; status never regresses.
		return nil, apperrors.ErrNotAdvanceable
	}

	instance.Status = next

	return instance, nil
}

// Complete force-closes an instance, including skipping an upcoming class
// entirely. Backward transitions are never performed.
func (s *ClassService) Complete(ctx context.Context, instanceID, teacherID string) (*domain.LiveClassInstance, error) {
	instance, err := s.ownedInstance(ctx, instanceID, teacherID)
	if err != nil {
		return nil, err
	}
	if instance.Status == domain.ClassCompleted {
		return instance, nil
	}

	moved, err := s.courses.UpdateInstanceStatus(ctx, instanceID, instance.Status, domain.ClassCompleted)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, apperrors.ErrNotAdvanceable
	}

	instance.Status = domain.ClassCompleted

	return instance, nil
}

// ownedInstance loads an instance and verifies the caller owns its course.
func (s *ClassService) ownedInstance(ctx context.Context, instanceID,
	teacherID string) (*domain.LiveClassInstance, error) {
	instance, err := s.courses.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, apperrors.ErrNotFound
	}

	course, err := s.courses.GetByID(ctx, instance.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.ErrNotFound
	}
	if course.TeacherID != teacherID {
		return nil, apperrors.ErrForbidden
	}

	return instance, nil
}

// Join hands out the meeting link unless the class is already over.
func (s *ClassService) Join(ctx context.Context, instanceID string) (string, error) {
	instance, err := s.courses.GetInstance(ctx, instanceID)
	if err != nil {
		return "", err
	}
	if instance == nil {
		return "", apperrors.ErrNotFound
	}

	if instance.Status == domain.ClassCompleted {
		return "", apperrors.ErrNotJoinable
	}

	return instance.Link, nil
}

// withinWeeklyEnvelope reports whether the given date and start minute land
// inside one of the course's weekly slots.
func withinWeeklyEnvelope(slots []domain.Slot, date time.Time, startMinute int) bool {
	day := int(date.Weekday())
	for _, slot := range slots {
		if slot.Day == day && startMinute >= slot.StartMinute && startMinute < slot.EndMinute {
			return true
		}
	}
	return false
}
