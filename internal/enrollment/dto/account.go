package dto

import "time"

type AccountOutput struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Kind      string    `json:"kind"`
	Verified  bool      `json:"verified"`
	Approval  string    `json:"approval"`
	CreatedAt time.Time `json:"created_at"`
}

type SetApprovalInput struct {
	State string `json:"state" binding:"required,oneof=pending approved reupload banned"`
}
