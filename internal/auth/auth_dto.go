package auth

type RegisterRequest struct {
	SchoolID  string `json:"school_id" binding:"required,uuid"`
	TeacherID string `json:"teacher_id" binding:"omitempty,uuid"`
	Email     string `json:"email" binding:"required,email"`
	Name      string `json:"name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=ADMIN TEACHER STUDENT PARENT SUPERADMIN"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID        string `json:"id"`
	SchoolID  string `json:"school_id"`
	TeacherID string `json:"teacher_id,omitempty"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}
