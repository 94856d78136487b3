package leave

type SubmitLeaveRequest struct {
	TeacherID   string `json:"teacher_id" binding:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	DayType     string `json:"day_type" binding:"omitempty,oneof=full_day first_half second_half"`
	Reason      string `json:"reason"`
}

type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type LeaveApplicationResponse struct {
	ID                string  `json:"id"`
	SchoolID          string  `json:"school_id"`
	TeacherID         string  `json:"teacher_id"`
	LeaveTypeID       string  `json:"leave_type_id"`
	ApplicationNumber string  `json:"application_number"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	DayType           string  `json:"day_type"`
	Days              string  `json:"days"`
	Reason            string  `json:"reason"`
	Status            string  `json:"status"`
	AppliedBy         string  `json:"applied_by"`
	ApprovedBy        *string `json:"approved_by,omitempty"`
	ApprovedAt        *string `json:"approved_at,omitempty"`
	RejectionReason   *string `json:"rejection_reason,omitempty"`
}
