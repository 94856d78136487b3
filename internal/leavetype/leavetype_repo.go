package leavetype

import (
	"context"
	"database/sql"

	"go-sms/internal/shared/connection"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lt *LeaveType) error
	FindAllBySchool(ctx context.Context, schoolID string) ([]LeaveType, error)
	FindActiveBySchool(ctx context.Context, schoolID string) ([]LeaveType, error)
	FindByIDAndSchool(ctx context.Context, schoolID, id string) (*LeaveType, error)
	Update(ctx context.Context, lt *LeaveType) error
	Delete(ctx context.Context, schoolID, id string) error
	HasBalanceReferences(ctx context.Context, schoolID, id string) (bool, error)
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

func (r *repository) Create(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Create(lt).Error
}

func (r *repository) FindAllBySchool(ctx context.Context, schoolID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("code ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindActiveBySchool(ctx context.Context, schoolID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByIDAndSchool(ctx context.Context, schoolID, id string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		First(&lt, "id = ?", id).Error
	return &lt, err
}

func (r *repository) Update(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Save(lt).Error
}

func (r *repository) Delete(ctx context.Context, schoolID, id string) error {
	return r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Delete(&LeaveType{}, "id = ?", id).Error
}

func (r *repository) HasBalanceReferences(ctx context.Context, schoolID, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_balances").
		Where("school_id = ?", schoolID).
		Where("leave_type_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
