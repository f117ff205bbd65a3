package constant

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"

	DefaultCourseCapacity  = 20
	DefaultResetExpiryMin  = 15
	DefaultAccessExpiryMin = 15

	OpaqueTokenBytes = 32
)
