package leave

import (
	"context"
	"database/sql"
	"time"

	"go-sms/internal/shared/connection"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, app *LeaveApplication) error
	FindAllBySchool(ctx context.Context, schoolID string) ([]LeaveApplication, error)
	FindByTeacher(ctx context.Context, schoolID, teacherID string) ([]LeaveApplication, error)
	FindByIDAndSchool(ctx context.Context, schoolID, id string) (*LeaveApplication, error)
	Update(ctx context.Context, app *LeaveApplication) error
	TeacherBelongsToSchool(ctx context.Context, schoolID, teacherID string) (bool, error)
	GetSchoolCode(ctx context.Context, schoolID string) (string, error)
	HasOverlappingPeriod(ctx context.Context, schoolID, teacherID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	FindApprovedUnpaidInRange(ctx context.Context, schoolID, teacherID string, from, to time.Time) ([]LeaveApplication, error)
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

func (r *repository) Create(ctx context.Context, app *LeaveApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *repository) FindAllBySchool(ctx context.Context, schoolID string) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("start_date DESC").
		Find(&apps).Error
	return apps, err
}

func (r *repository) FindByTeacher(ctx context.Context, schoolID, teacherID string) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Where("teacher_id = ?", teacherID).
		Order("start_date DESC").
		Find(&apps).Error
	return apps, err
}

func (r *repository) FindByIDAndSchool(ctx context.Context, schoolID, id string) (*LeaveApplication, error) {
	var app LeaveApplication
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		First(&app, "id = ?", id).Error
	return &app, err
}

func (r *repository) Update(ctx context.Context, app *LeaveApplication) error {
	return r.db.WithContext(ctx).Save(app).Error
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

func (r *repository) GetSchoolCode(ctx context.Context, schoolID string) (string, error) {
	var code string
	err := r.db.WithContext(ctx).
		Table("schools").
		Select("code").
		Where("id = ?", schoolID).
		Scan(&code).Error
	return code, err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, schoolID, teacherID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveApplication{}).
		Where("school_id = ?", schoolID).
		Where("teacher_id = ?", teacherID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) FindApprovedUnpaidInRange(ctx context.Context, schoolID, teacherID string, from, to time.Time) ([]LeaveApplication, error) {
	var apps []LeaveApplication
	err := r.db.WithContext(ctx).
		Joins("JOIN leave_types ON leave_types.id = leave_applications.leave_type_id").
		Where("leave_applications.school_id = ?", schoolID).
		Where("leave_applications.teacher_id = ?", teacherID).
		Where("leave_applications.status = ?", StatusApproved).
		Where("leave_types.is_paid = ?", false).
		Where("NOT (leave_applications.end_date < ? OR leave_applications.start_date > ?)", from, to).
		Find(&apps).Error
	return apps, err
}
