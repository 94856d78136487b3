package payroll

type RecordPaymentRequest struct {
	TeacherID   string  `json:"teacher_id" binding:"required,uuid"`
	Month       int     `json:"month" binding:"required,min=1,max=12"`
	Year        int     `json:"year" binding:"required,min=2000,max=2100"`
	PaidAmount  string  `json:"paid_amount" binding:"required"`
	Bonus       string  `json:"bonus"`
	Penalty     string  `json:"penalty"`
	WorkingDays *int    `json:"working_days" binding:"omitempty,min=0"`
	PresentDays *int    `json:"present_days" binding:"omitempty,min=0"`
	Notes       *string `json:"notes"`
}

type SalaryPaymentResponse struct {
	ID           string `json:"id"`
	SchoolID     string `json:"school_id"`
	TeacherID    string `json:"teacher_id"`
	TeacherName  string `json:"teacher_name,omitempty"`
	PaymentMonth int    `json:"payment_month"`
	PaymentYear  int    `json:"payment_year"`

	GrossAmount     string `json:"gross_amount"`
	TotalDeductions string `json:"total_deductions"`
	NetAmount       string `json:"net_amount"`
	PaidAmount      string `json:"paid_amount"`
	PendingAmount   string `json:"pending_amount"`

	Bonus           string `json:"bonus"`
	Penalty         string `json:"penalty"`
	WorkingDays     int    `json:"working_days"`
	PresentDays     int    `json:"present_days"`
	UnpaidLeaveDays string `json:"unpaid_leave_days"`

	Status         string `json:"status"`
	RequiresReview bool   `json:"requires_review"`
	SlipNumber     string `json:"slip_number"`

	Breakdown SalaryBreakdown `json:"breakdown"`

	GatewayOrderID   *string `json:"gateway_order_id,omitempty"`
	GatewayPaymentID *string `json:"gateway_payment_id,omitempty"`
	PaymentMethod    string  `json:"payment_method,omitempty"`
	Notes            *string `json:"notes,omitempty"`

	PaidAt    *string `json:"paid_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// gatewayWebhookEnvelope is the slice of the gateway's webhook body this
// module reads. Amounts arrive in the gateway's minor unit.
type gatewayWebhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Amount  int64  `json:"amount"`
				Status  string `json:"status"`
				Method  string `json:"method"`
			} `json:"entity"`
		} `json:"payment"`
		Refund struct {
			Entity struct {
				ID        string `json:"id"`
				PaymentID string `json:"payment_id"`
				Amount    int64  `json:"amount"`
			} `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
}
