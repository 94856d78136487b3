package payroll

import (
	"bytes"
	"fmt"
	"strings"
)

// slipLines renders the frozen breakdown into printable lines. The snapshot
// on the row is authoritative; nothing is recomputed here.
func slipLines(p SalaryPayment) []string {
	b := p.Breakdown
	lines := []string{
		fmt.Sprintf("Salary Slip %s", p.SlipNumber),
		fmt.Sprintf("Period: %02d/%d", p.PaymentMonth, p.PaymentYear),
	}
	if p.TeacherRef != nil {
		lines = append(lines, fmt.Sprintf("Teacher: %s", p.TeacherRef.FullName))
	}

	lines = append(lines,
		"",
		"Earnings",
		fmt.Sprintf("  Basic: %s", b.Earnings.Basic.StringFixed(2)),
		fmt.Sprintf("  HRA: %s", b.Earnings.HRA.StringFixed(2)),
		fmt.Sprintf("  DA: %s", b.Earnings.DA.StringFixed(2)),
		fmt.Sprintf("  TA: %s", b.Earnings.TA.StringFixed(2)),
		fmt.Sprintf("  Medical Allowance: %s", b.Earnings.MedicalAllowance.StringFixed(2)),
		fmt.Sprintf("  Other Allowances: %s", b.Earnings.OtherAllowances.StringFixed(2)),
		fmt.Sprintf("  Bonus: %s", b.Earnings.Bonus.StringFixed(2)),
		fmt.Sprintf("  Total Earnings: %s", b.Earnings.Total.StringFixed(2)),
		"",
		"Deductions",
		fmt.Sprintf("  PF: %s", b.Deductions.PF.StringFixed(2)),
		fmt.Sprintf("  ESI: %s", b.Deductions.ESI.StringFixed(2)),
		fmt.Sprintf("  Professional Tax: %s", b.Deductions.ProfessionalTax.StringFixed(2)),
		fmt.Sprintf("  TDS: %s", b.Deductions.TDS.StringFixed(2)),
		fmt.Sprintf("  Other Deductions: %s", b.Deductions.OtherDeductions.StringFixed(2)),
		fmt.Sprintf("  Penalty: %s", b.Deductions.Penalty.StringFixed(2)),
		fmt.Sprintf("  Unpaid Leave: %s", b.Deductions.UnpaidLeaveDeduction.StringFixed(2)),
		fmt.Sprintf("  Total Deductions: %s", b.Deductions.Total.StringFixed(2)),
		"",
		fmt.Sprintf("Attendance: %d/%d days, unpaid leave %s",
			b.Attendance.PresentDays, b.Attendance.WorkingDays, b.Attendance.UnpaidLeaveDays.String()),
		"",
		fmt.Sprintf("Net Salary: %s", b.NetSalary.StringFixed(2)),
		fmt.Sprintf("Paid: %s  Pending: %s  Status: %s",
			p.PaidAmount.StringFixed(2), p.PendingAmount.StringFixed(2), p.Status),
	)

	return lines
}

func buildSalarySlipPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Salary Slip"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
