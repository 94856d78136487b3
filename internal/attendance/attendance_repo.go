package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-sms/internal/shared/connection"

	"gorm.io/gorm"
)

type MonthlyCounts struct {
	PresentDays int
	LateDays    int
	MarkedDays  int
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	FindByTeacherAndDate(ctx context.Context, schoolID, teacherID string, date time.Time) (*Attendance, error)
	FindAllBySchool(ctx context.Context, schoolID string) ([]Attendance, error)
	FindAllBySchoolAndTeacher(ctx context.Context, schoolID, teacherID string) ([]Attendance, error)
	CountMonthly(ctx context.Context, schoolID, teacherID string, month, year int) (MonthlyCounts, error)
	Update(ctx context.Context, a *Attendance) error
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindByTeacherAndDate(ctx context.Context, schoolID, teacherID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Where("teacher_id = ?", teacherID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		First(&a).Error
	return &a, err
}

func (r *repository) FindAllBySchool(ctx context.Context, schoolID string) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("attendance_date DESC, clock_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllBySchoolAndTeacher(ctx context.Context, schoolID, teacherID string) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Where("teacher_id = ?", teacherID).
		Order("attendance_date DESC, clock_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountMonthly(ctx context.Context, schoolID, teacherID string, month, year int) (MonthlyCounts, error) {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	var counts MonthlyCounts
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Select(
			"COUNT(*) FILTER (WHERE status IN ('PRESENT', 'LATE')) AS present_days",
			"COUNT(*) FILTER (WHERE status = 'LATE') AS late_days",
			"COUNT(*) AS marked_days",
		).
		Where("school_id = ?", schoolID).
		Where("teacher_id = ?", teacherID).
		Where("attendance_date BETWEEN ? AND ?", monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02")).
		Scan(&counts).Error
	return counts, err
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}
