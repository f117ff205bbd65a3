package domain

import (
	"context"
	"time"
)

//go:generate mockgen -destination=../../mocks/mock_repository.go -package=mocks github.com/learnsphere/enrollment-service/internal/enrollment/domain AccountRepository,CourseRepository

type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, account *Account) error
	SetApproval(ctx context.Context, accountID string, state ApprovalState) error

	// SetRefreshToken overwrites the stored refresh token value; nil clears it.
	SetRefreshToken(ctx context.Context, accountID string, token *string) error
	// SwapRefreshToken replaces current with next only if current is still the
	// stored value. Returns false when the compare fails.
	SwapRefreshToken(ctx context.Context, accountID, current, next string) (bool, error)
	GetByRefreshToken(ctx context.Context, token string) (*Account, error)

	SetVerificationToken(ctx context.Context, accountID, token string) error
	// ConsumeVerificationToken marks the matching unverified account as
	// verified and clears the token. Returns false when no row matched.
	ConsumeVerificationToken(ctx context.Context, token string) (bool, error)

	SetResetToken(ctx context.Context, accountID, token string, expiry time.Time) error
	GetByResetToken(ctx context.Context, token string) (*Account, error)
	// ConsumeResetToken updates the credential and clears the reset token and
	// expiry in one guarded write. Returns false when the token no longer
	// matches or has expired.
	ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (bool, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *Course) error
	GetByID(ctx context.Context, id string) (*Course, error)
	IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error)
	EnrolledCount(ctx context.Context, courseID string) (int, error)
	// EnrolledSlots returns the union of weekly slots across every course the
	// student is enrolled in.
	EnrolledSlots(ctx context.Context, studentID string) ([]Slot, error)
	// Enroll inserts the membership row inside a transaction that re-checks
	// capacity under a course-row lock. Returns false when no seat is left.
	Enroll(ctx context.Context, studentID, courseID string) (bool, error)

	CreateInstance(ctx context.Context, instance *LiveClassInstance) error
	GetInstance(ctx context.Context, id string) (*LiveClassInstance, error)
	// UpdateInstanceStatus transitions the instance from one status to another
	// as a guarded write. Returns false when the current status did not match.
	UpdateInstanceStatus(ctx context.Context, id string, from, to ClassStatus) (bool, error)
}
