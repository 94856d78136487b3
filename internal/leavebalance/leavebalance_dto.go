package leavebalance

type InitializeBalancesRequest struct {
	TeacherID string `json:"teacher_id" binding:"required,uuid"`
	Year      int    `json:"year" binding:"required,min=2000,max=2100"`
}

type LeaveBalanceResponse struct {
	ID             string `json:"id"`
	SchoolID       string `json:"school_id"`
	TeacherID      string `json:"teacher_id"`
	LeaveTypeID    string `json:"leave_type_id"`
	LeaveTypeCode  string `json:"leave_type_code,omitempty"`
	Year           int    `json:"year"`
	Allocated      string `json:"allocated"`
	Used           string `json:"used"`
	Pending        string `json:"pending"`
	Available      string `json:"available"`
	CarriedForward string `json:"carried_forward"`
}
