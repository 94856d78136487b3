package leavebalance

import (
	"context"
	"database/sql"

	"go-sms/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	Update(ctx context.Context, b *LeaveBalance) error
	FindByKey(ctx context.Context, schoolID, teacherID, leaveTypeID string, year int) (*LeaveBalance, error)
	// FindForUpdate locks the ledger row so check-then-reserve stays atomic.
	FindForUpdate(ctx context.Context, schoolID, teacherID, leaveTypeID string, year int) (*LeaveBalance, error)
	FindAllByTeacher(ctx context.Context, schoolID, teacherID string, year int) ([]LeaveBalance, error)
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

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) Update(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) FindByKey(ctx context.Context, schoolID, teacherID, leaveTypeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Where("teacher_id = ?", teacherID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) FindForUpdate(ctx context.Context, schoolID, teacherID, leaveTypeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("school_id = ?", schoolID).
		Where("teacher_id = ?", teacherID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) FindAllByTeacher(ctx context.Context, schoolID, teacherID string, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Where("teacher_id = ?", teacherID).
		Where("year = ?", year).
		Order("leave_type_id ASC").
		Find(&balances).Error
	return balances, err
}
