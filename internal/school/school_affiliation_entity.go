package school

import (
	"time"

	"github.com/google/uuid"
)

type AffiliationType string

const (
	AffiliationUDISE AffiliationType = "UDISE"
	AffiliationBoard AffiliationType = "BOARD"
	AffiliationTax   AffiliationType = "TAX"
)

type SchoolAffiliation struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SchoolID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_school_affiliation_type"`
	Type     AffiliationType `gorm:"type:varchar(30);not null;uniqueIndex:uq_school_affiliation_type"`
	Number   string          `gorm:"type:varchar(100);not null"`
	IssuedAt *time.Time      `gorm:"type:date"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (SchoolAffiliation) TableName() string {
	return "school_affiliations"
}
