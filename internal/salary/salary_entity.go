package salary

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalaryConfiguration rows are append-only: a new configuration closes
// the previous active one instead of editing it, so payroll history can
// always be traced to the config that produced it.
type SalaryConfiguration struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID  uuid.UUID `gorm:"type:uuid;not null;index:idx_salary_configurations_school"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index:idx_salary_configurations_teacher"`

	Basic            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	HRA              decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	DA               decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TA               decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	MedicalAllowance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	OtherAllowances  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	PF              decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ESI             decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ProfessionalTax decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	TDS             decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	OtherDeductions decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	BankName      string `gorm:"type:varchar(100)"`
	AccountNumber string `gorm:"type:varchar(30)"`
	IFSC          string `gorm:"type:varchar(15)"`

	IsActive      bool       `gorm:"not null;default:true"`
	EffectiveFrom time.Time  `gorm:"type:date;not null"`
	EffectiveTo   *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SalaryConfiguration) TableName() string {
	return "salary_configurations"
}

func (c *SalaryConfiguration) HasBankDetails() bool {
	return c.BankName != "" && c.AccountNumber != "" && c.IFSC != ""
}
