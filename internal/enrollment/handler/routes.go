package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/learnsphere/enrollment-service/pkg/constant"
)

func RegisterRoutes(app *fiber.App, auth *AuthHandler, enrollment *EnrollmentHandler, class *ClassHandler) {
	api := app.Group("/api/v1")

	api.Post("/signup", auth.Signup)
	api.Get("/verify", auth.Verify)
	api.Post("/login", auth.Login)
	api.Post("/refresh", auth.Refresh)
	api.Delete("/session", auth.RequireAuth, auth.Logout)
	api.Post("/password/forgot", auth.ForgotPassword)
	api.Post("/password/reset", auth.ResetPassword)

	api.Post("/courses", auth.RequireRole(constant.RoleTeacher), enrollment.CreateCourse)
	api.Post("/courses/:id/enroll", auth.RequireAuth, enrollment.Enroll)
	api.Get("/courses/:id/eligibility", auth.RequireAuth, enrollment.Eligibility)
	api.Post("/courses/:id/classes", auth.RequireRole(constant.RoleTeacher), class.CreateClass)

	api.Post("/classes/:id/advance", auth.RequireRole(constant.RoleTeacher), class.Advance)
	api.Post("/classes/:id/complete", auth.RequireRole(constant.RoleTeacher), class.Complete)
	api.Post("/classes/:id/join", auth.RequireAuth, class.Join)

	// Admin-only endpoints
	admin := app.Group("/api/v1/admin", auth.RequireRole(constant.RoleAdmin))
	admin.Patch("/accounts/:id/approval", auth.SetApproval)
}
