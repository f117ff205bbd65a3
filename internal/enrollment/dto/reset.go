package dto

import "time"

type ForgotPasswordInput struct {
	Email string `json:"email"`
}

type ForgotPasswordOutput struct {
	ResetToken string    `json:"reset_token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type ResetPasswordInput struct {
	Token    string `json:"token"`
	Password string `json:"password" binding:"required,min=8"`
}
