package events

import "time"

const SalaryPaymentRecordedTopic = "sms.payroll.payment.recorded.v1"

type SalaryPaymentRecordedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	PaymentID    string    `json:"payment_id"`
	SchoolID     string    `json:"school_id"`
	TeacherID    string    `json:"teacher_id"`
	PaymentMonth int       `json:"payment_month"`
	PaymentYear  int       `json:"payment_year"`
	SlipNumber   string    `json:"slip_number"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}
