package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin      = "ADMIN"
	RoleTeacher    = "TEACHER"
	RoleStudent    = "STUDENT"
	RoleParent     = "PARENT"
	RoleSuperadmin = "SUPERADMIN"
)

// User is a portal account. TeacherID links staff accounts to their teacher
// row; student and parent accounts leave it nil.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	TeacherID *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Name      string     `gorm:"type:varchar(255);not null"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string     `gorm:"type:varchar(255);not null"`
	Role      string     `gorm:"type:varchar(20);not null;default:'STUDENT'"`
	IsActive  bool       `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleParent, RoleSuperadmin:
		return true
	}
	return false
}
