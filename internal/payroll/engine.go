package payroll

import (
	"go-sms/internal/salary"

	"github.com/shopspring/decimal"
)

// defaultMonthlyWorkingDays is the divisor used for per-day salary when the
// school has no working-days override and the caller supplied none.
const defaultMonthlyWorkingDays = 26

func GrossSalary(cfg salary.SalaryConfiguration) decimal.Decimal {
	return cfg.Basic.
		Add(cfg.HRA).
		Add(cfg.DA).
		Add(cfg.TA).
		Add(cfg.MedicalAllowance).
		Add(cfg.OtherAllowances)
}

func TotalDeductions(cfg salary.SalaryConfiguration) decimal.Decimal {
	return cfg.PF.
		Add(cfg.ESI).
		Add(cfg.ProfessionalTax).
		Add(cfg.TDS).
		Add(cfg.OtherDeductions)
}

func NetSalary(cfg salary.SalaryConfiguration) decimal.Decimal {
	return GrossSalary(cfg).Sub(TotalDeductions(cfg))
}

// ProRate scales net by presentDays/workingDays. A non-positive workingDays
// leaves net unchanged.
func ProRate(net decimal.Decimal, workingDays, presentDays int) decimal.Decimal {
	if workingDays <= 0 {
		return net
	}
	return net.
		Mul(decimal.NewFromInt(int64(presentDays))).
		Div(decimal.NewFromInt(int64(workingDays)))
}

// ComputeMonthlyNet folds attendance and unpaid leave into the configured
// net salary. presentDaysKnown distinguishes a recorded zero-attendance
// month, which earns nothing, from a month with no attendance data, which
// keeps the configured net. The result may be negative when penalties or
// unpaid days exceed the earned amount; callers record it as-is and flag it
// for review.
func ComputeMonthlyNet(
	cfg salary.SalaryConfiguration,
	workingDays, presentDays int,
	presentDaysKnown bool,
	bonus, penalty, unpaidLeaveDays decimal.Decimal,
) decimal.Decimal {
	net := NetSalary(cfg)

	if workingDays > 0 && presentDaysKnown {
		net = ProRate(net, workingDays, presentDays)
	}

	if unpaidLeaveDays.IsPositive() {
		net = net.Sub(unpaidLeaveDeduction(cfg, workingDays, unpaidLeaveDays))
	}

	return net.Add(bonus).Sub(penalty)
}

func unpaidLeaveDeduction(cfg salary.SalaryConfiguration, workingDays int, unpaidLeaveDays decimal.Decimal) decimal.Decimal {
	divisor := workingDays
	if divisor <= 0 {
		divisor = defaultMonthlyWorkingDays
	}
	perDay := NetSalary(cfg).Div(decimal.NewFromInt(int64(divisor)))
	return perDay.Mul(unpaidLeaveDays)
}

// buildBreakdown freezes the full computation alongside the payment row.
func buildBreakdown(
	cfg salary.SalaryConfiguration,
	workingDays, presentDays int,
	bonus, penalty, unpaidLeaveDays, net decimal.Decimal,
) SalaryBreakdown {
	unpaidDeduction := decimal.Zero
	if unpaidLeaveDays.IsPositive() {
		unpaidDeduction = unpaidLeaveDeduction(cfg, workingDays, unpaidLeaveDays)
	}

	return SalaryBreakdown{
		Earnings: BreakdownEarnings{
			Basic:            cfg.Basic,
			HRA:              cfg.HRA,
			DA:               cfg.DA,
			TA:               cfg.TA,
			MedicalAllowance: cfg.MedicalAllowance,
			OtherAllowances:  cfg.OtherAllowances,
			Bonus:            bonus,
			Total:            GrossSalary(cfg).Add(bonus),
		},
		Deductions: BreakdownDeductions{
			PF:                   cfg.PF,
			ESI:                  cfg.ESI,
			ProfessionalTax:      cfg.ProfessionalTax,
			TDS:                  cfg.TDS,
			OtherDeductions:      cfg.OtherDeductions,
			Penalty:              penalty,
			UnpaidLeaveDeduction: unpaidDeduction,
			Total:                TotalDeductions(cfg).Add(penalty).Add(unpaidDeduction),
		},
		Attendance: BreakdownAttendance{
			WorkingDays:     workingDays,
			PresentDays:     presentDays,
			UnpaidLeaveDays: unpaidLeaveDays,
		},
		NetSalary: net,
	}
}
