package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/learnsphere/enrollment-service/internal/enrollment/domain"
	"github.com/learnsphere/enrollment-service/internal/enrollment/dto"
	"github.com/learnsphere/enrollment-service/internal/enrollment/service"
	apperrors "github.com/learnsphere/enrollment-service/internal/errors"
	"github.com/learnsphere/enrollment-service/internal/mocks"
)

func newClassService(t *testing.T) (*service.ClassService, *mocks.MockCourseRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockCourses := mocks.NewMockCourseRepository(ctrl)

	return service.NewClassService(mockCourses, zap.NewNop()), mockCourses
}

// courseMeetingOn builds a course whose weekly schedule covers the given
// date's weekday from startMinute to endMinute.
func courseMeetingOn(date time.Time, startMinute, endMinute int) *domain.Course {
	return &domain.Course{
		ID:        "course-1",
		TeacherID: "teacher-1",
		Name:      "Algebra",
		Capacity:  20,
		Schedule:  []domain.Slot{{Day: int(date.Weekday()), StartMinute: startMinute, EndMinute: endMinute}},
	}
}

func TestClassService_CreateInstance_Success(t *testing.T) {
	s, mockCourses := newClassService(t)

	tomorrow := time.Now().AddDate(0, 0, 1)
	course := courseMeetingOn(tomorrow, 0, 1440)

	mockCourses.EXPECT().GetByID(gomock.Any(), course.ID).Return(course, nil)
	mockCourses.EXPECT().CreateInstance(gomock.Any(), gomock.Any()).Return(nil)

	instance, err := s.CreateInstance(context.Background(), dto.CreateClassInput{
		CourseID:    course.ID,
		TeacherID:   course.TeacherID,
		Title:       "Week 3: quadratics",
		Date:        tomorrow.Format("2006-01-02"),
		StartMinute: 540,
		Link:        "https://meet.example.com/abc",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ClassUpcoming, instance.Status)
	assert.Equal(t, course.ID, instance.CourseID)
	assert.NotEmpty(t, instance.ID)
}

func TestClassService_CreateInstance_UnknownCourse(t *testing.T) {
	s, mockCourses := newClassService(t)

	mockCourses.EXPECT().GetByID(gomock.Any(), "ghost-course").Return(nil, nil)

	_, err := s.CreateInstance(context.Background(), dto.CreateClassInput{
		CourseID:  "ghost-course",
		TeacherID: "teacher-1",
		Date:      time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClassService_CreateInstance_WrongTeacher(t *testing.T) {
	s, mockCourses := newClassService(t)

	tomorrow := time.Now().AddDate(0, 0, 1)
	course := courseMeetingOn(tomorrow, 0, 1440)

	mockCourses.EXPECT().GetByID(gomock.Any(), course.ID).Return(course, nil)

	_, err := s.CreateInstance(context.Background(), dto.CreateClassInput{
		CourseID:    course.ID,
		TeacherID:   "teacher-2",
		Date:        tomorrow.Format("2006-01-02"),
		StartMinute: 540,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestClassService_CreateInstance_PastDate(t *testing.T) {
	s, mockCourses := newClassService(t)

	yesterday := time.Now().AddDate(0, 0, -1)
	course := courseMeetingOn(yesterday, 0, 1440)

	// No CreateInstance expectation: a past class is never persisted.
	mockCourses.EXPECT().GetByID(gomock.Any(), course.ID).Return(course, nil)

	_, err := s.CreateInstance(context.Background(), dto.CreateClassInput{
		CourseID:    course.ID,
		TeacherID:   course.TeacherID,
		Date:        yesterday.Format("2006-01-02"),
		StartMinute: 540,
	})
	assert.ErrorIs(t, err, apperrors.ErrPastDate)
}

func TestClassService_CreateInstance_MalformedDate(t *testing.T) {
	s, mockCourses := newClassService(t)

	course := courseMeetingOn(time.Now(), 0, 1440)
	mockCourses.EXPECT().GetByID(gomock.Any(), course.ID).Return(course, nil)

	_, err := s.CreateInstance(context.Background(), dto.CreateClassInput{
		CourseID:    course.ID,
		TeacherID:   course.TeacherID,
		Date:        "03/15/2026",
		StartMinute: 540,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidDate)
}

func TestClassService_CreateInstance_OutsideSchedule(t *testing.T) {
	s, mockCourses := newClassService(t)

	tomorrow := time.Now().AddDate(0, 0, 1)
	// Course meets 09:00-10:00 on tomorrow's weekday; the class asks for 12:00.
	course := courseMeetingOn(tomorrow, 540, 600)

	mockCourses.EXPECT().GetByID(gomock.Any(), course.ID).Return(course, nil)

	_, err := s.CreateInstance(context.Background(), dto.CreateClassInput{
		CourseID:    course.ID,
		TeacherID:   course.TeacherID,
		Date:        tomorrow.Format("2006-01-02"),
		StartMinute: 720,
	})
	assert.ErrorIs(t, err, apperrors.ErrOutsideSchedule)
}

func TestClassService_CreateInstance_WrongWeekday(t *testing.T) {
	s, mockCourses := newClassService(t)

	tomorrow := time.Now().AddDate(0, 0, 1)
	dayAfter := time.Now().AddDate(0, 0, 2)
	course := courseMeetingOn(tomorrow, 0, 1440)

	mockCourses.EXPECT().GetByID(gomock.Any(), course.ID).Return(course, nil)

	_, err := s.CreateInstance(context.Background(), dto.CreateClassInput{
		CourseID:    course.ID,
		TeacherID:   course.TeacherID,
		Date:        dayAfter.Format("2006-01-02"),
		StartMinute: 540,
	})
	assert.ErrorIs(t, err, apperrors.ErrOutsideSchedule)
}

func TestClassService_Advance(t *testing.T) {
	started := time.Now().Add(-2 * time.Hour)
	ownedCourse := &domain.Course{ID: "course-1", TeacherID: "teacher-1"}

	t.Run("upcoming moves to in-progress after start", func(t *testing.T) {
		s, mockCourses := newClassService(t)

		instance := &domain.LiveClassInstance{
			ID:          "class-1",
			CourseID:    ownedCourse.ID,
			Date:        time.Date(started.Year(), started.Month(), started.Day(), 0, 0, 0, 0, time.Local),
			StartMinute: started.Hour() * 60,
			Status:      domain.ClassUpcoming,
		}

		mockCourses.EXPECT().GetInstance(gomock.Any(), instance.ID).Return(instance, nil)
		mockCourses.EXPECT().GetByID(gomock.Any(), ownedCourse.ID).Return(ownedCourse, nil)
		mockCourses.EXPECT().UpdateInstanceStatus(gomock.Any(), instance.ID,
			domain.ClassUpcoming, domain.ClassInProgress).Return(true, nil)

		got, err := s.Advance(context.Background(), instance.ID, "teacher-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ClassInProgress, got.Status)
	})

	t.Run("upcoming before start does not move", func(t *testing.T) {
		s, mockCourses := newClassService(t)

		tomorrow := time.Now().AddDate(0, 0, 1)
		instance := &domain.LiveClassInstance{
			ID:          "class-2",
			CourseID:    ownedCourse.ID,
			Date:        time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.Local),
			StartMinute: 540,
			Status:      domain.ClassUpcoming,
		}

		mockCourses.EXPECT().GetInstance(gomock.Any(), instance.ID).Return(instance, nil)
		mockCourses.EXPECT().GetByID(gomock.Any(), ownedCourse.ID).Return(ownedCourse, nil)

		_, err := s.Advance(context.Background(), instance.ID, "teacher-1")
		assert.ErrorIs(t, err, apperrors.ErrNotAdvanceable)
	})

	t.Run("in-progress moves to completed", func(t *testing.T) {
		s, mockCourses := newClassService(t)

		instance := &domain.LiveClassInstance{ID: "class-3", CourseID: ownedCourse.ID, Status: domain.ClassInProgress}

		mockCourses.EXPECT().GetInstance(gomock.Any(), instance.ID).Return(instance, nil)
		mockCourses.EXPECT().GetByID(gomock.Any(), ownedCourse.ID).Return(ownedCourse, nil)
		mockCourses.EXPECT().UpdateInstanceStatus(gomock.Any(), instance.ID,
			domain.ClassInProgress, domain.ClassCompleted).Return(true, nil)

		got, err := s.Advance(context.Background(), instance.ID, "teacher-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ClassCompleted, got.Status)
	})

	t.Run("completed has no next state", func(t *testing.T) {
		s, mockCourses := newClassService(t)

		instance := &domain.LiveClassInstance{ID: "class-4", CourseID: ownedCourse.ID, Status: domain.ClassCompleted}
		mockCourses.EXPECT().GetInstance(gomock.Any(), instance.ID).Return(instance, nil)
		mockCourses.EXPECT().GetByID(gomock.Any(), ownedCourse.ID).Return(ownedCourse, nil)

		_, err := s.Advance(context.Background(), instance.ID, "teacher-1")
		assert.ErrorIs(t, err, apperrors.ErrNotAdvanceable)
	})

	t.Run("another teacher's class is forbidden", func(t *testing.T) {
		s, mockCourses := newClassService(t)

		instance := &domain.LiveClassInstance{ID: "class-5", CourseID: ownedCourse.ID, Status: domain.ClassInProgress}

		// No UpdateInstanceStatus expectation: the transition never runs.
		mockCourses.EXPECT().GetInstance(gomock.Any(), instance.ID).Return(instance, nil)
		mockCourses.EXPECT().GetByID(gomock.Any(), ownedCourse.ID).Return(ownedCourse, nil)

		_, err := s.Advance(context.Background(), instance.ID, "teacher-2")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("concurrent transition wins the guarded update", func(t *testing.T) {
		s, mockCourses := newClassService(t)

		instance := &domain.LiveClassInstance{ID: "class-6", CourseID: ownedCourse.ID, Status: domain.ClassInProgress}

		mockCourses.EXPECT().GetInstance(gomock.Any(), instance.ID).Return(instance, nil)
		mockCourses.EXPECT().GetByID(gomock.Any(), ownedCourse.ID).Return(ownedCourse, nil)
		mockCourses.EXPECT().UpdateInstanceStatus(gomock.Any(), instance.ID,
			domain.ClassInProgress, domain.ClassCompleted).Return(false, nil)

		_, err := s.Advance(context.Background(), instance.ID, "teacher-1")
		assert.ErrorIs(t, err, apperrors.ErrNotAdvanceable)
	})

	t.Run("unknown instance", func(t *testing.T) {
		s, mockCourses := newClassService(t)

		mockCourses.EXPECT().GetInstance(gomock.Any(), "ghost").Return(nil, nil)

		_, err := s.Advance(context.Background(), "ghost", "teacher-1")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestClassService_Complete(t *testing.T) {
	ownedCourse := &domain.Course{ID: "course-1", TeacherID: "teacher-1"}

	t.Run("skips an upcoming class straight to completed", func(t *testing.T) {
		s, mockCourses := newClassService(t)

		instance := &domain.LiveClassInstance{ID: "class-1", CourseID: ownedCourse.ID, Status: domain.ClassUpcoming}

		mockCourses.EXPECT().GetInstance(gomock.Any(), instance.ID).Return(instance, nil)
		mockCourses.EXPECT().GetByID(gomock.Any(), ownedCourse.ID).Return(ownedCourse, nil)
		mockCourses.EXPECT().UpdateInstanceStatus(gomock.Any(), instance.ID,
			domain.ClassUpcoming, domain.ClassCompleted).Return(true, nil)

		got, err := s.Complete(context.Background(), instance.ID, "teacher-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ClassCompleted, got.Status)
	})

	t.Run("already completed is a no-op", func(t *testing.T) {
		s, mockCourses := newClassService(t)

		instance := &domain.LiveClassInstance{ID: "class-2", CourseID: ownedCourse.ID, Status: domain.ClassCompleted}

		// No UpdateInstanceStatus expectation: nothing to write.
		mockCourses.EXPECT().GetInstance(gomock.Any(), instance.ID).Return(instance, nil)
		mockCourses.EXPECT().GetByID(gomock.Any(), ownedCourse.ID).Return(ownedCourse, nil)

		got, err := s.Complete(context.Background(), instance.ID, "teacher-1")
		require.NoError(t, err)
		assert.Equal(t, domain.ClassCompleted, got.Status)
	})

	t.Run("another teacher's class is forbidden", func(t *testing.T) {
		s, mockCourses := newClassService(t)

		instance := &domain.LiveClassInstance{ID: "class-3", CourseID: ownedCourse.ID, Status: domain.ClassUpcoming}

		mockCourses.EXPECT().GetInstance(gomock.Any(), instance.ID).Return(instance, nil)
		mockCourses.EXPECT().GetByID(gomock.Any(), ownedCourse.ID).Return(ownedCourse, nil)

		_, err := s.Complete(context.Background(), instance.ID, "teacher-2")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestClassService_Join(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.ClassStatus
		wantErr error
	}{
		{name: "upcoming", status: domain.ClassUpcoming},
		{name: "in-progress", status: domain.ClassInProgress},
		{name: "completed", status: domain.ClassCompleted, wantErr: apperrors.ErrNotJoinable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mockCourses := newClassService(t)

			instance := &domain.LiveClassInstance{
				ID:     "class-1",
				Status: tt.status,
				Link:   "https://meet.example.com/abc",
			}
			mockCourses.EXPECT().GetInstance(gomock.Any(), instance.ID).Return(instance, nil)

			link, err := s.Join(context.Background(), instance.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, link)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, instance.Link, link)
		})
	}
}

func TestClassService_Join_UnknownInstance(t *testing.T) {
	s, mockCourses := newClassService(t)

	mockCourses.EXPECT().GetInstance(gomock.Any(), "ghost").Return(nil, nil)

	_, err := s.Join(context.Background(), "ghost")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
