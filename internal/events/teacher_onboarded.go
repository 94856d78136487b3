package events

import "time"

const TeacherOnboardedTopic = "sms.teacher.lifecycle.v1"

type TeacherOnboardedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	TeacherID  string    `json:"teacher_id"`
	SchoolID   string    `json:"school_id"`
	JoinYear   int       `json:"join_year"`
	OccurredAt time.Time `json:"occurred_at"`
}
