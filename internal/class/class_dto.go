package class

type CreateClassRequest struct {
	Grade          string `json:"grade" binding:"required"`
	Section        string `json:"section" binding:"required"`
	AcademicYear   string `json:"academic_year" binding:"required"`
	Name           string `json:"name" binding:"required"`
	ClassTeacherID string `json:"class_teacher_id" binding:"omitempty,uuid"`
}

type UpdateClassRequest struct {
	Name           string `json:"name" binding:"required"`
	ClassTeacherID string `json:"class_teacher_id" binding:"omitempty,uuid"`
	IsActive       *bool  `json:"is_active"`
}

type ClassResponse struct {
	ID             string `json:"id"`
	SchoolID       string `json:"school_id"`
	Grade          string `json:"grade"`
	Section        string `json:"section"`
	AcademicYear   string `json:"academic_year"`
	Name           string `json:"name"`
	ClassTeacherID string `json:"class_teacher_id,omitempty"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}
