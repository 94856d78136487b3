package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-sms/internal/attendance/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	statusPresent = "PRESENT"
	statusLate    = "LATE"
)

type Service interface {
	ClockIn(ctx context.Context, schoolID, teacherID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, schoolID, teacherID string, req ClockOutRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, schoolID, actorID string, canReadAll bool) ([]AttendanceResponse, error)
	MonthlySummary(ctx context.Context, schoolID, teacherID string, month, year int) (MonthlySummaryResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) ClockIn(ctx context.Context, schoolID, teacherID string, req ClockInRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	existing, err := qtx.FindByTeacherAndDate(ctx, schoolID, teacherID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, err
	}
	if err == nil && existing != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}

	status := statusPresent
	if now.Hour() > 9 || (now.Hour() == 9 && now.Minute() > 15) {
		status = statusLate
	}

	source := req.Source
	if source == "" {
		source = "MANUAL"
	}

	row := &Attendance{
		ID:             uuid.New(),
		SchoolID:       uuid.MustParse(schoolID),
		TeacherID:      uuid.MustParse(teacherID),
		AttendanceDate: today,
		ClockIn:        now,
		Status:         status,
		Source:         source,
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock in recorded",
		zap.String("teacher_id", teacherID),
		zap.String("status", status),
	)
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, schoolID, teacherID string, req ClockOutRequest) (AttendanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	row, err := qtx.FindByTeacherAndDate(ctx, schoolID, teacherID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrClockInNotFound
		}
		return AttendanceResponse{}, err
	}
	if row.ClockOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	row.ClockOut = &now
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, schoolID, actorID string, canReadAll bool) ([]AttendanceResponse, error) {
	var (
		rows []Attendance
		err  error
	)
	if canReadAll {
		rows, err = s.repo.FindAllBySchool(ctx, schoolID)
	} else {
		if _, parseErr := uuid.Parse(actorID); parseErr != nil {
			return nil, attendanceerrors.ErrInvalidActorID
		}
		rows, err = s.repo.FindAllBySchoolAndTeacher(ctx, schoolID, actorID)
	}
	if err != nil {
		return nil, err
	}
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) MonthlySummary(ctx context.Context, schoolID, teacherID string, month, year int) (MonthlySummaryResponse, error) {
	if month < 1 || month > 12 {
		return MonthlySummaryResponse{}, attendanceerrors.ErrInvalidMonth
	}

	counts, err := s.repo.CountMonthly(ctx, schoolID, teacherID, month, year)
	if err != nil {
		return MonthlySummaryResponse{}, err
	}

	return MonthlySummaryResponse{
		TeacherID:   teacherID,
		Month:       month,
		Year:        year,
		PresentDays: counts.PresentDays,
		LateDays:    counts.LateDays,
		MarkedDays:  counts.MarkedDays,
	}, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		SchoolID:       a.SchoolID.String(),
		TeacherID:      a.TeacherID.String(),
		AttendanceDate: a.AttendanceDate.Format("2006-01-02"),
		ClockIn:        a.ClockIn.Format(time.RFC3339),
		Status:         a.Status,
		Source:         a.Source,
		Notes:          a.Notes,
	}
	if a.Teacher != nil {
		resp.TeacherName = a.Teacher.FullName
	}
	if a.ClockOut != nil {
		v := a.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	return resp
}
