package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DayTypeFull       = "full_day"
	DayTypeFirstHalf  = "first_half"
	DayTypeSecondHalf = "second_half"
)

type LeaveApplication struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_applications_school_status"`
	TeacherID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_applications_teacher_dates"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	ApplicationNumber string `gorm:"type:varchar(40);not null;uniqueIndex:uq_leave_application_number"`

	StartDate time.Time       `gorm:"type:date;not null;index:idx_leave_applications_teacher_dates"`
	EndDate   time.Time       `gorm:"type:date;not null;index:idx_leave_applications_teacher_dates"`
	DayType   string          `gorm:"type:varchar(15);not null;default:'full_day'"`
	Days      decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Reason    string          `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_applications_school_status"`
	AppliedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	RejectionReason *string    `gorm:"type:text"`

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index:idx_leave_applications_deleted_at"`
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}
