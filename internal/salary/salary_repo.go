package salary

import (
	"context"
	"database/sql"
	"time"

	"go-sms/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cfg *SalaryConfiguration) error
	FindAllBySchool(ctx context.Context, schoolID string) ([]SalaryConfiguration, error)
	FindHistoryByTeacher(ctx context.Context, schoolID, teacherID string) ([]SalaryConfiguration, error)
	FindActiveByTeacher(ctx context.Context, schoolID, teacherID string) (*SalaryConfiguration, error)
	// FindActiveForUpdate locks the active row so deactivate-then-insert
	// cannot race with a concurrent create.
	FindActiveForUpdate(ctx context.Context, schoolID, teacherID string) (*SalaryConfiguration, error)
	Deactivate(ctx context.Context, id string, effectiveTo time.Time) error
	TeacherBelongsToSchool(ctx context.Context, schoolID, teacherID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, cfg *SalaryConfiguration) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *repository) FindAllBySchool(ctx context.Context, schoolID string) ([]SalaryConfiguration, error) {
	var cfgs []SalaryConfiguration
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("teacher_id ASC, effective_from DESC").
		Find(&cfgs).Error
	return cfgs, err
}

func (r *repository) FindHistoryByTeacher(ctx context.Context, schoolID, teacherID string) ([]SalaryConfiguration, error) {
	var cfgs []SalaryConfiguration
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Where("teacher_id = ?", teacherID).
		Order("effective_from DESC, created_at DESC").
		Find(&cfgs).Error
	return cfgs, err
}

func (r *repository) FindActiveByTeacher(ctx context.Context, schoolID, teacherID string) (*SalaryConfiguration, error) {
	var cfg SalaryConfiguration
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Where("teacher_id = ?", teacherID).
		Where("is_active = ?", true).
		First(&cfg).Error
	return &cfg, err
}

func (r *repository) FindActiveForUpdate(ctx context.Context, schoolID, teacherID string) (*SalaryConfiguration, error) {
	var cfg SalaryConfiguration
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("school_id = ?", schoolID).
		Where("teacher_id = ?", teacherID).
		Where("is_active = ?", true).
		First(&cfg).Error
	return &cfg, err
}

func (r *repository) Deactivate(ctx context.Context, id string, effectiveTo time.Time) error {
	return r.db.WithContext(ctx).
		Model(&SalaryConfiguration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":    false,
			"effective_to": effectiveTo,
		}).Error
}

func (r *repository) TeacherBelongsToSchool(ctx context.Context, schoolID, teacherID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("teachers").
		Where("id = ?", teacherID).
		Where("school_id = ?", schoolID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
