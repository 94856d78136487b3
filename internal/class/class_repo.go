package class

import (
	"context"
	"database/sql"

	"go-sms/internal/shared/connection"
	"go-sms/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=class_repo.go -destination=mock/class_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cl *Class) error
	FindAllBySchool(ctx context.Context, schoolID string) ([]Class, error)
	FindByIDAndSchool(ctx context.Context, schoolID, id string) (*Class, error)
	Update(ctx context.Context, cl *Class) error
	Delete(ctx context.Context, schoolID, id string) error
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

func (r *repository) Create(ctx context.Context, cl *Class) error {
	return r.db.WithContext(ctx).Create(cl).Error
}

func (r *repository) FindAllBySchool(ctx context.Context, schoolID string) ([]Class, error) {
	var rows []Class
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(schoolID)).
		Order("academic_year DESC, grade, section").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndSchool(ctx context.Context, schoolID, id string) (*Class, error) {
	var cl Class
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(schoolID)).
		First(&cl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

func (r *repository) Update(ctx context.Context, cl *Class) error {
	return r.db.WithContext(ctx).Save(cl).Error
}

func (r *repository) Delete(ctx context.Context, schoolID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(schoolID)).
		Delete(&Class{}, "id = ?", id).Error
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
