package teacher

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Teacher struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID uuid.UUID `gorm:"type:uuid;not null;index:idx_teachers_school"`

	FullName      string `gorm:"type:varchar(150);not null"`
	Email         string `gorm:"type:varchar(255);not null;uniqueIndex:uq_teacher_email"`
	Phone         string `gorm:"type:varchar(30)"`
	StaffNumber   string `gorm:"type:varchar(30);not null;uniqueIndex:uq_teacher_staff_number"`
	Qualification string `gorm:"type:varchar(150)"`
	Designation   string `gorm:"type:varchar(100)"`

	JoinDate         time.Time `gorm:"type:date;not null"`
	EmploymentStatus string    `gorm:"type:varchar(30);not null;default:'ACTIVE'"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Teacher) TableName() string {
	return "teachers"
}
