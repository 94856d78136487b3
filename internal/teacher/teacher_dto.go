package teacher

type CreateTeacherRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	StaffNumber      string `json:"staff_number"`
	Qualification    string `json:"qualification"`
	Designation      string `json:"designation"`
	JoinDate         string `json:"join_date" binding:"required"`
	EmploymentStatus string `json:"employment_status" binding:"omitempty,oneof=ACTIVE ON_LEAVE RESIGNED RETIRED"`
}

type UpdateTeacherRequest struct {
	FullName         string `json:"full_name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone"`
	StaffNumber      string `json:"staff_number" binding:"required"`
	Qualification    string `json:"qualification"`
	Designation      string `json:"designation"`
	JoinDate         string `json:"join_date" binding:"required"`
	EmploymentStatus string `json:"employment_status" binding:"required,oneof=ACTIVE ON_LEAVE RESIGNED RETIRED"`
}

type TeacherResponse struct {
	ID               string `json:"id"`
	SchoolID         string `json:"school_id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	StaffNumber      string `json:"staff_number"`
	Qualification    string `json:"qualification"`
	Designation      string `json:"designation"`
	JoinDate         string `json:"join_date"`
	EmploymentStatus string `json:"employment_status"`
}
