package school

import "time"

type UpdateSchoolRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active"`
}

type UpdateSchoolSettingsRequest struct {
	MonthlyWorkingDays int `json:"monthly_working_days" binding:"required,min=1,max=31"`
}

type UpsertSchoolAffiliationRequest struct {
	Type     AffiliationType `json:"type" binding:"required,oneof=UDISE BOARD TAX"`
	Number   string          `json:"number" binding:"required"`
	IssuedAt *time.Time      `json:"issued_at"`
}

type SchoolResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Code               string `json:"code"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	IsActive           bool   `json:"is_active"`
	MonthlyWorkingDays int    `json:"monthly_working_days"`
}

type SchoolAffiliationResponse struct {
	ID        string          `json:"id"`
	Type      AffiliationType `json:"type"`
	Number    string          `json:"number"`
	IssuedAt  *time.Time      `json:"issued_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
