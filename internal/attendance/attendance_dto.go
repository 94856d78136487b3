package attendance

type ClockInRequest struct {
	Source string  `json:"source" binding:"omitempty,oneof=MANUAL BIOMETRIC MOBILE"`
	Notes  *string `json:"notes"`
}

type ClockOutRequest struct {
	Notes *string `json:"notes"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	SchoolID       string  `json:"school_id"`
	TeacherID      string  `json:"teacher_id"`
	TeacherName    string  `json:"teacher_name,omitempty"`
	AttendanceDate string  `json:"attendance_date"`
	ClockIn        string  `json:"clock_in"`
	ClockOut       *string `json:"clock_out,omitempty"`
	Status         string  `json:"status"`
	Source         string  `json:"source"`
	Notes          *string `json:"notes,omitempty"`
}

type MonthlySummaryResponse struct {
	TeacherID   string `json:"teacher_id"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	PresentDays int    `json:"present_days"`
	LateDays    int    `json:"late_days"`
	MarkedDays  int    `json:"marked_days"`
}
