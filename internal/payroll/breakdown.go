package payroll

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

type BreakdownEarnings struct {
	Basic            decimal.Decimal `json:"basic"`
	HRA              decimal.Decimal `json:"hra"`
	DA               decimal.Decimal `json:"da"`
	TA               decimal.Decimal `json:"ta"`
	MedicalAllowance decimal.Decimal `json:"medical_allowance"`
	OtherAllowances  decimal.Decimal `json:"other_allowances"`
	Bonus            decimal.Decimal `json:"bonus"`
	Total            decimal.Decimal `json:"total"`
}

type BreakdownDeductions struct {
	PF                   decimal.Decimal `json:"pf"`
	ESI                  decimal.Decimal `json:"esi"`
	ProfessionalTax      decimal.Decimal `json:"professional_tax"`
	TDS                  decimal.Decimal `json:"tds"`
	OtherDeductions      decimal.Decimal `json:"other_deductions"`
	Penalty              decimal.Decimal `json:"penalty"`
	UnpaidLeaveDeduction decimal.Decimal `json:"unpaid_leave_deduction"`
	Total                decimal.Decimal `json:"total"`
}

type BreakdownAttendance struct {
	WorkingDays     int             `json:"working_days"`
	PresentDays     int             `json:"present_days"`
	UnpaidLeaveDays decimal.Decimal `json:"unpaid_leave_days"`
}

// SalaryBreakdown is the snapshot persisted with a SalaryPayment. It is
// written once at record time and never recomputed.
type SalaryBreakdown struct {
	Earnings   BreakdownEarnings   `json:"earnings"`
	Deductions BreakdownDeductions `json:"deductions"`
	Attendance BreakdownAttendance `json:"attendance"`
	NetSalary  decimal.Decimal     `json:"net_salary"`
}

func (b SalaryBreakdown) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *SalaryBreakdown) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	case nil:
		*b = SalaryBreakdown{}
		return nil
	}
	return errors.New("unsupported source type for salary breakdown")
}
