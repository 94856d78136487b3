package payroll

import (
	"context"
	"database/sql"

	"go-sms/internal/shared/connection"
	"go-sms/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *SalaryPayment) error
	Update(ctx context.Context, p *SalaryPayment) error
	// FindForUpdate locks the period row so concurrent recordPayment calls
	// serialize on accumulate-vs-insert.
	FindForUpdate(ctx context.Context, schoolID, teacherID string, month, year int) (*SalaryPayment, error)
	FindByIDAndSchool(ctx context.Context, schoolID, id string) (*SalaryPayment, error)
	FindByIDForUpdate(ctx context.Context, schoolID, id string) (*SalaryPayment, error)
	FindAllBySchool(ctx context.Context, schoolID string, month, year int) ([]SalaryPayment, error)
	FindByTeacher(ctx context.Context, schoolID, teacherID string) ([]SalaryPayment, error)
	FindByGatewayOrderIDForUpdate(ctx context.Context, orderID string) (*SalaryPayment, error)
	FindByGatewayPaymentIDForUpdate(ctx context.Context, paymentID string) (*SalaryPayment, error)
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

func (r *repository) Create(ctx context.Context, p *SalaryPayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) Update(ctx context.Context, p *SalaryPayment) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) FindForUpdate(ctx context.Context, schoolID, teacherID string, month, year int) (*SalaryPayment, error) {
	var p SalaryPayment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(schoolID)).
		Where("teacher_id = ?", teacherID).
		Where("payment_month = ?", month).
		Where("payment_year = ?", year).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByIDAndSchool(ctx context.Context, schoolID, id string) (*SalaryPayment, error) {
	var p SalaryPayment
	err := r.db.WithContext(ctx).
		Preload("TeacherRef").
		Scopes(tenant.Scope(schoolID)).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, schoolID, id string) (*SalaryPayment, error) {
	var p SalaryPayment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(schoolID)).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindAllBySchool(ctx context.Context, schoolID string, month, year int) ([]SalaryPayment, error) {
	db := r.db.WithContext(ctx).
		Preload("TeacherRef").
		Scopes(tenant.Scope(schoolID))
	if month > 0 {
		db = db.Where("payment_month = ?", month)
	}
	if year > 0 {
		db = db.Where("payment_year = ?", year)
	}

	var rows []SalaryPayment
	err := db.
		Order("payment_year DESC, payment_month DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByTeacher(ctx context.Context, schoolID, teacherID string) ([]SalaryPayment, error) {
	var rows []SalaryPayment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(schoolID)).
		Where("teacher_id = ?", teacherID).
		Order("payment_year DESC, payment_month DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByGatewayOrderIDForUpdate(ctx context.Context, orderID string) (*SalaryPayment, error) {
	var p SalaryPayment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("gateway_order_id = ?", orderID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByGatewayPaymentIDForUpdate(ctx context.Context, paymentID string) (*SalaryPayment, error) {
	var p SalaryPayment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("gateway_payment_id = ?", paymentID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) TeacherBelongsToSchool(ctx context.Context, schoolID, teacherID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("teachers").
		Where("id = ?", teacherID).
		Scopes(tenant.Scope(schoolID)).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
