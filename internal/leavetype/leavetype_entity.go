package leavetype

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LeaveType struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_types_school_code"`

	Name string `gorm:"type:varchar(100);not null"`
	Code string `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_types_school_code"`

	AnnualQuota         decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	AllowCarryForward   bool            `gorm:"not null;default:false"`
	MaxCarryForwardDays decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	IsPaid          bool `gorm:"not null;default:true"`
	AllowHalfDay    bool `gorm:"not null;default:true"`
	IncludeWeekends bool `gorm:"not null;default:true"`
	IsActive        bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveType) TableName() string {
	return "leave_types"
}
