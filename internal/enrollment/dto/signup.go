package dto

type SignupInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Kind     string `json:"kind" binding:"required,oneof=student teacher"`
}
