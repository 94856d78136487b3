package school

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type School struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string    `gorm:"type:varchar(150);not null"`
	Code     string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Email    string    `gorm:"type:varchar(255);index"`
	Phone    string    `gorm:"type:varchar(30)"`
	Address  string    `gorm:"type:text"`
	IsActive bool      `gorm:"not null;default:true"`

	// 0 means the school has not overridden the payroll divisor.
	MonthlyWorkingDays int `gorm:"type:int;not null;default:0"`

	CreatedAt    time.Time           `gorm:"not null;default:now()"`
	UpdatedAt    time.Time           `gorm:"not null;default:now()"`
	DeletedAt    gorm.DeletedAt      `gorm:"index"`
	Affiliations []SchoolAffiliation `gorm:"foreignKey:SchoolID"`
}

func (School) TableName() string {
	return "schools"
}
