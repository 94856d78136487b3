package school

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*School, error)
	GetByEmail(ctx context.Context, email string) (*School, error)
	Update(ctx context.Context, s *School) error

	UpsertAffiliation(ctx context.Context, a *SchoolAffiliation) error
	GetAffiliationsBySchoolID(ctx context.Context, schoolID uuid.UUID) ([]SchoolAffiliation, error)
	DeleteAffiliation(ctx context.Context, schoolID uuid.UUID, affType AffiliationType) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*School, error) {
	var s School
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*School, error) {
	var s School
	err := r.db.WithContext(ctx).First(&s, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *School) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) UpsertAffiliation(ctx context.Context, a *SchoolAffiliation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "school_id"}, {Name: "type"}},
			DoUpdates: clause.AssignmentColumns([]string{"number", "issued_at", "updated_at"}),
		}).
		Create(a).Error
}

func (r *repository) GetAffiliationsBySchoolID(ctx context.Context, schoolID uuid.UUID) ([]SchoolAffiliation, error) {
	var affs []SchoolAffiliation
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("type ASC").
		Find(&affs).Error
	return affs, err
}

func (r *repository) DeleteAffiliation(ctx context.Context, schoolID uuid.UUID, affType AffiliationType) error {
	return r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Where("type = ?", affType).
		Delete(&SchoolAffiliation{}).Error
}
