package errors

import (
	"errors"
)

// Credential and token failures.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailAlreadyInUse   = errors.New("email already in use")
	ErrInvalidAccountKind  = errors.New("invalid account kind")
	ErrEmailNotVerified    = errors.New("email is not verified")
	ErrAccountBanned       = errors.New("account is banned")
	ErrRefreshTokenInvalid = errors.New("refresh token invalid")
	ErrResetTokenInvalid   = errors.New("reset token invalid")
	ErrResetTokenExpired   = errors.New("reset token expired")
	ErrTokenExpired        = errors.New("access token expired")
	ErrTokenMalformed      = errors.New("access token malformed")
	ErrTokenSignature      = errors.New("access token signature invalid")
)

// Enrollment and course failures.
var (
	ErrNotFound          = errors.New("not found")
	ErrNotApproved       = errors.New("account is not approved")
	ErrAlreadyEnrolled   = errors.New("already enrolled")
	ErrCourseFull        = errors.New("course is full")
	ErrScheduleConflict  = errors.New("schedule conflict")
	ErrInvalidSlot       = errors.New("invalid schedule slot")
	ErrInvalidTransition = errors.New("invalid approval transition")
	ErrForbidden         = errors.New("forbidden")
)

// Class instance failures.
var (
	ErrInvalidDate     = errors.New("invalid class date")
	ErrPastDate        = errors.New("class date is in the past")
	ErrOutsideSchedule = errors.New("class falls outside the weekly schedule")
	ErrNotJoinable     = errors.New("class is not joinable")
	ErrNotAdvanceable  = errors.New("class status cannot advance")
)
