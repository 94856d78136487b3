package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending = "pending"
	StatusPartial = "partial"
	StatusPaid    = "paid"
)

// SalaryPayment is one row per (school, teacher, month, year). Incremental
// payments accumulate paid_amount on the same row; the unique index backstops
// the lookup-then-insert race.
type SalaryPayment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID uuid.UUID `gorm:"type:uuid;not null;index:idx_salary_payments_school"`

	TeacherID    uuid.UUID   `gorm:"type:uuid;not null;index:uq_salary_payments_period,unique"`
	TeacherRef   *TeacherRef `gorm:"foreignKey:TeacherID;references:ID"`
	PaymentMonth int         `gorm:"not null;index:uq_salary_payments_period,unique"`
	PaymentYear  int         `gorm:"not null;index:uq_salary_payments_period,unique"`

	GrossAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	NetAmount       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaidAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	PendingAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	Bonus           decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Penalty         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	WorkingDays     int             `gorm:"not null;default:0"`
	PresentDays     int             `gorm:"not null;default:0"`
	UnpaidLeaveDays decimal.Decimal `gorm:"type:numeric(5,1);not null;default:0"`

	Status         string `gorm:"type:varchar(10);not null;default:'pending';index"`
	RequiresReview bool   `gorm:"not null;default:false"`
	SlipNumber     string `gorm:"type:varchar(30);not null;uniqueIndex:uq_salary_payments_slip"`

	// Frozen snapshot of the computation at record time. Historical slips
	// stay stable even after the salary configuration changes.
	Breakdown SalaryBreakdown `gorm:"type:jsonb;not null"`

	GatewayOrderID   *string `gorm:"type:varchar(64);index"`
	GatewayPaymentID *string `gorm:"type:varchar(64);index"`
	PaymentMethod    string  `gorm:"type:varchar(20)"`
	Notes            *string `gorm:"type:text"`

	PaidAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SalaryPayment) TableName() string {
	return "salary_payments"
}

// statusFor derives the payment status from the money columns.
func statusFor(paid, pending decimal.Decimal) string {
	switch {
	case pending.LessThanOrEqual(decimal.Zero):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

type TeacherRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
}

func (TeacherRef) TableName() string {
	return "teachers"
}
