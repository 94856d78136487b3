package salary

type CreateSalaryConfigurationRequest struct {
	TeacherID string `json:"teacher_id" binding:"required,uuid"`

	Basic            string `json:"basic" binding:"required"`
	HRA              string `json:"hra"`
	DA               string `json:"da"`
	TA               string `json:"ta"`
	MedicalAllowance string `json:"medical_allowance"`
	OtherAllowances  string `json:"other_allowances"`

	PF              string `json:"pf"`
	ESI             string `json:"esi"`
	ProfessionalTax string `json:"professional_tax"`
	TDS             string `json:"tds"`
	OtherDeductions string `json:"other_deductions"`

	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc"`

	EffectiveFrom string `json:"effective_from" binding:"required"`
}

type SalaryConfigurationResponse struct {
	ID        string `json:"id"`
	SchoolID  string `json:"school_id"`
	TeacherID string `json:"teacher_id"`

	Basic            string `json:"basic"`
	HRA              string `json:"hra"`
	DA               string `json:"da"`
	TA               string `json:"ta"`
	MedicalAllowance string `json:"medical_allowance"`
	OtherAllowances  string `json:"other_allowances"`

	PF              string `json:"pf"`
	ESI             string `json:"esi"`
	ProfessionalTax string `json:"professional_tax"`
	TDS             string `json:"tds"`
	OtherDeductions string `json:"other_deductions"`

	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`

	IsActive      bool    `json:"is_active"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to,omitempty"`
}
