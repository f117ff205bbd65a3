package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/learnsphere/enrollment-service/config"
	"github.com/learnsphere/enrollment-service/internal/enrollment/domain"
	"github.com/learnsphere/enrollment-service/internal/enrollment/dto"
	"github.com/learnsphere/enrollment-service/internal/enrollment/schedule"
	apperrors "github.com/learnsphere/enrollment-service/internal/errors"
)

type EnrollmentService struct {
	accounts domain.AccountRepository
	courses  domain.CourseRepository
	cfg      *config.Config
	logger   *zap.Logger
}

func NewEnrollmentService(accounts domain.AccountRepository, courses domain.CourseRepository,
	cfg *config.Config, logger *zap.Logger) *EnrollmentService {
	return &EnrollmentService{
		accounts: accounts,
		courses:  courses,
		cfg:      cfg,
		logger:   logger,
	}
}

// CreateCourse registers a teacher's course with its weekly schedule.
func (s *EnrollmentService) CreateCourse(ctx context.Context, input dto.CreateCourseInput) (*domain.Course, error) {
	teacher, err := s.accounts.GetByID(ctx, input.TeacherID)
	if err != nil {
		return nil, err
	}
	if teacher == nil || teacher.Kind != domain.KindTeacher {
		return nil, apperrors.ErrNotFound
	}
	if teacher.Approval != domain.ApprovalApproved {
		return nil, apperrors.ErrNotApproved
	}

	if len(input.Schedule) == 0 {
		return nil, apperrors.ErrInvalidSlot
	}
	for _, slot := range input.Schedule {
		if err := slot.Validate(); err != nil {
			return nil, err
		}
	}
	if schedule.SelfConflicts(input.Schedule) {
		return nil, apperrors.ErrScheduleConflict
	}

	capacity := input.Capacity
	if capacity <= 0 {
		capacity = s.cfg.CourseCapacity
	}

	course := &domain.Course{
		ID:        uuid.NewString(),
		TeacherID: teacher.ID,
		Name:      input.Name,
		Capacity:  capacity,
		Schedule:  input.Schedule,
		CreatedAt: time.Now(),
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created",
		zap.String("course_id", course.ID),
		zap.String("teacher_id", teacher.ID),
		zap.Int("capacity", capacity))

	return course, nil
}

// Enroll runs the eligibility checks in order and, when all pass, applies the
// membership write. The first failing check wins. The final write re-checks
// capacity under a course-row lock, so two racers for the last seat resolve
// to exactly one success.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) error {
	course, err := s.checkEligibility(ctx, studentID, courseID)
	if err != nil {
		return err
	}

	enrolled, err := s.courses.Enroll(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return apperrors.ErrCourseFull
	}

	s.logger.Info("student enrolled",
		zap.String("student_id", studentID),
		zap.String("course_id", course.ID))

	return nil
}

// CanEnroll is the dry-run variant of Enroll: the same checks, no mutation.
func (s *EnrollmentService) CanEnroll(ctx context.Context, studentID, courseID string) error {
	_, err := s.checkEligibility(ctx, studentID, courseID)
	return err
}

func (s *EnrollmentService) checkEligibility(ctx context.Context, studentID,
	courseID string) (*domain.Course, error) {
	student, err := s.accounts.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil || student.Kind != domain.KindStudent {
		return nil, apperrors.ErrNotFound
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.ErrNotFound
	}

	if student.Approval != domain.ApprovalApproved {
		return nil, apperrors.ErrNotApproved
	}

	alreadyEnrolled, err := s.courses.IsEnrolled(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if alreadyEnrolled {
		return nil, apperrors.ErrAlreadyEnrolled
	}

	count, err := s.courses.EnrolledCount(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if count >= course.Capacity {
		return nil, apperrors.ErrCourseFull
	}

	existingSlots, err := s.courses.EnrolledSlots(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if schedule.Conflicts(course.Schedule, existingSlots) {
		return nil, apperrors.ErrScheduleConflict
	}

	return course, nil
}
