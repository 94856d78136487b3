package class

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Class struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID       uuid.UUID  `gorm:"type:uuid;not null;index:uq_classes_key,unique"`
	Grade          string     `gorm:"type:varchar(20);not null;index:uq_classes_key,unique"`
	Section        string     `gorm:"type:varchar(10);not null;index:uq_classes_key,unique"`
	AcademicYear   string     `gorm:"type:varchar(9);not null;index:uq_classes_key,unique"`
	Name           string     `gorm:"type:varchar(100);not null"`
	ClassTeacherID *uuid.UUID `gorm:"type:uuid;index"`
	IsActive       bool       `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Class) TableName() string {
	return "classes"
}
