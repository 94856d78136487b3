package leavetype

type CreateLeaveTypeRequest struct {
	Name                string `json:"name" binding:"required"`
	Code                string `json:"code" binding:"required"`
	AnnualQuota         string `json:"annual_quota" binding:"required"`
	AllowCarryForward   *bool  `json:"allow_carry_forward"`
	MaxCarryForwardDays string `json:"max_carry_forward_days"`
	IsPaid              *bool  `json:"is_paid"`
	AllowHalfDay        *bool  `json:"allow_half_day"`
	IncludeWeekends     *bool  `json:"include_weekends"`
}

type UpdateLeaveTypeRequest struct {
	Name                string `json:"name" binding:"required"`
	AnnualQuota         string `json:"annual_quota" binding:"required"`
	AllowCarryForward   *bool  `json:"allow_carry_forward"`
	MaxCarryForwardDays string `json:"max_carry_forward_days"`
	IsPaid              *bool  `json:"is_paid"`
	AllowHalfDay        *bool  `json:"allow_half_day"`
	IncludeWeekends     *bool  `json:"include_weekends"`
	IsActive            *bool  `json:"is_active"`
}

type LeaveTypeResponse struct {
	ID                  string `json:"id"`
	SchoolID            string `json:"school_id"`
	Name                string `json:"name"`
	Code                string `json:"code"`
	AnnualQuota         string `json:"annual_quota"`
	AllowCarryForward   bool   `json:"allow_carry_forward"`
	MaxCarryForwardDays string `json:"max_carry_forward_days"`
	IsPaid              bool   `json:"is_paid"`
	AllowHalfDay        bool   `json:"allow_half_day"`
	IncludeWeekends     bool   `json:"include_weekends"`
	IsActive            bool   `json:"is_active"`
	CreatedAt           string `json:"created_at,omitempty"`
	UpdatedAt           string `json:"updated_at,omitempty"`
}
