package domain

import "time"

type AccountKind string

const (
	KindStudent AccountKind = "student"
	KindTeacher AccountKind = "teacher"
	KindAdmin   AccountKind = "admin"
)

type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalReupload ApprovalState = "reupload"
	ApprovalBanned   ApprovalState = "banned"
)

// CanTransition reports whether the admission state machine allows moving
// from s to next. Banned is terminal; reupload re-enters pending on
// resubmission.
func (s ApprovalState) CanTransition(next ApprovalState) bool {
	switch s {
	case ApprovalPending:
		return next == ApprovalApproved || next == ApprovalReupload || next == ApprovalBanned
	case ApprovalReupload:
		return next == ApprovalPending
	default:
		return false
	}
}

type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Kind         AccountKind
	Verified     bool
	Approval     ApprovalState
	// Single active refresh token value; nil when logged out.
	RefreshToken      *string
	VerificationToken *string
	ResetToken        *string
	ResetExpiry       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
