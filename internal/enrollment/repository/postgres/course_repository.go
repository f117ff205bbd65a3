package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/learnsphere/enrollment-service/internal/enrollment/domain"
	apperrors "github.com/learnsphere/enrollment-service/internal/errors"
)

const uniqueViolation = "23505"

type CourseRepository struct {
	db PgxIface
}

func NewCourseRepository(db PgxIface) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
        INSERT INTO courses (id, teacher_id, name, capacity, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, course.ID, course.TeacherID, course.Name, course.Capacity, course.CreatedAt)
	if err != nil {
		return err
	}

	for _, slot := range course.Schedule {
		_, err = tx.Exec(ctx, `
			INSERT INTO course_slots (course_id, day, start_minute, end_minute)
			VALUES ($1, $2, $3, $4)
		`, course.ID, slot.Day, slot.StartMinute, slot.EndMinute)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, teacher_id, name, capacity, created_at
		FROM courses
		WHERE id = $1
		LIMIT 1
	`, id)

	var course domain.Course
	err := row.Scan(&course.ID, &course.TeacherID, &course.Name, &course.Capacity, &course.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT day, start_minute, end_minute
		FROM course_slots
		WHERE course_id = $1
		ORDER BY day, start_minute
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var slot domain.Slot
		if err := rows.Scan(&slot.Day, &slot.StartMinute, &slot.EndMinute); err != nil {
			return nil, err
		}
		course.Schedule = append(course.Schedule, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &course, nil
}

func (r *CourseRepository) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	var enrolled bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2
		)
	`, studentID, courseID).Scan(&enrolled)

	return enrolled, err
}

func (r *CourseRepository) EnrolledCount(ctx context.Context, courseID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM enrollments WHERE course_id = $1
	`, courseID).Scan(&count)

	return count, err
}

func (r *CourseRepository) EnrolledSlots(ctx context.Context, studentID string) ([]domain.Slot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT cs.day, cs.start_minute, cs.end_minute
		FROM course_slots cs
		JOIN enrollments e ON e.course_id = cs.course_id
		WHERE e.student_id = $1
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []domain.Slot
	for rows.Next() {
		var slot domain.Slot
		if err := rows.Scan(&slot.Day, &slot.StartMinute, &slot.EndMinute); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// Enroll re-checks capacity under a lock on the course row before inserting
// the membership. Two concurrent attempts for the last seat serialize here;
// the loser sees a full course. A racing duplicate insert trips the unique
// constraint and reports already enrolled.
func (r *CourseRepository) Enroll(ctx context.Context, studentID, courseID string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var capacity int
	err = tx.QueryRow(ctx, `
		SELECT capacity FROM courses WHERE id = $1 FOR UPDATE
	`, courseID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.ErrNotFound
		}
		return false, err
	}

	var count int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM enrollments WHERE course_id = $1
	`, courseID).Scan(&count)
	if err != nil {
		return false, err
	}
	if count >= capacity {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO enrollments (id, student_id, course_id, enrolled_at)
		VALUES ($1, $2, $3, now())
	`, uuid.NewString(), studentID, courseID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return false, apperrors.ErrAlreadyEnrolled
		}
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return true, nil
}

func (r *CourseRepository) CreateInstance(ctx context.Context, instance *domain.LiveClassInstance) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO class_instances (id, course_id, title, date, start_minute, link, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, instance.ID, instance.CourseID, instance.Title, instance.Date, instance.StartMinute,
		instance.Link, instance.Status, instance.CreatedAt)

	return err
}

func (r *CourseRepository) GetInstance(ctx context.Context, id string) (*domain.LiveClassInstance, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, course_id, title, date, start_minute, link, status, created_at
		FROM class_instances
		WHERE id = $1
		LIMIT 1
	`, id)

	var instance domain.LiveClassInstance
	err := row.Scan(&instance.ID, &instance.CourseID, &instance.Title, &instance.Date,
		&instance.StartMinute, &instance.Link, &instance.Status, &instance.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &instance, nil
}

// UpdateInstanceStatus moves the instance between statuses as a guarded
// write, so a transition observed on stale state cannot apply.
func (r *CourseRepository) UpdateInstanceStatus(ctx context.Context, id string,
	from, to domain.ClassStatus) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE class_instances SET status = $3 WHERE id = $1 AND status = $2
	`, id, from, to)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}
