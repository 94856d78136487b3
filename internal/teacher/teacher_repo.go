package teacher

import (
	"context"
	"database/sql"

	"go-sms/internal/shared/connection"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Teacher) error
	FindAllBySchool(ctx context.Context, schoolID string) ([]Teacher, error)
	FindOptionsBySchool(ctx context.Context, schoolID string) ([]Teacher, error)
	FindByIDAndSchool(ctx context.Context, schoolID, id string) (*Teacher, error)
	Update(ctx context.Context, t *Teacher) error
	Delete(ctx context.Context, schoolID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, t *Teacher) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindAllBySchool(ctx context.Context, schoolID string) ([]Teacher, error) {
	var teachers []Teacher
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("full_name ASC").
		Find(&teachers).Error
	return teachers, err
}

func (r *repository) FindOptionsBySchool(ctx context.Context, schoolID string) ([]Teacher, error) {
	var teachers []Teacher
	err := r.db.WithContext(ctx).
		Select("id", "full_name", "staff_number", "school_id").
		Where("school_id = ?", schoolID).
		Where("employment_status = ?", "ACTIVE").
		Order("full_name ASC").
		Find(&teachers).Error
	return teachers, err
}

func (r *repository) FindByIDAndSchool(ctx context.Context, schoolID, id string) (*Teacher, error) {
	var t Teacher
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *repository) Update(ctx context.Context, t *Teacher) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) Delete(ctx context.Context, schoolID, id string) error {
	return r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Delete(&Teacher{}, "id = ?", id).Error
}
