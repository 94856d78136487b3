package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	leaveerrors "go-sms/internal/leave/errors"
	"go-sms/internal/leavebalance"
	"go-sms/internal/leavetype"
	leavetypeerrors "go-sms/internal/leavetype/errors"
	"go-sms/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

type Service interface {
	Submit(ctx context.Context, schoolID, actorID string, req SubmitLeaveRequest) (LeaveApplicationResponse, error)
	GetAll(ctx context.Context, schoolID string) ([]LeaveApplicationResponse, error)
	GetByTeacher(ctx context.Context, schoolID, teacherID string) ([]LeaveApplicationResponse, error)
	GetByID(ctx context.Context, schoolID, id string) (LeaveApplicationResponse, error)
	Approve(ctx context.Context, schoolID, actorID, id string) (LeaveApplicationResponse, error)
	Reject(ctx context.Context, schoolID, actorID, id, rejectionReason string) (LeaveApplicationResponse, error)
	Cancel(ctx context.Context, schoolID, actorID, id string) (LeaveApplicationResponse, error)
	UnpaidDaysInMonth(ctx context.Context, schoolID, teacherID string, month, year int) (decimal.Decimal, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	balanceRepo leavebalance.Repository
	typeRepo    leavetype.Repository
	counter     counter.Repository
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	balanceRepo leavebalance.Repository,
	typeRepo leavetype.Repository,
	counterRepo counter.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		balanceRepo: balanceRepo,
		typeRepo:    typeRepo,
		counter:     counterRepo,
		logger:      l,
	}
}

func (s *service) Submit(ctx context.Context, schoolID, actorID string, req SubmitLeaveRequest) (LeaveApplicationResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("school_id", schoolID),
		zap.String("actor_id", actorID),
		zap.String("teacher_id", req.TeacherID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	schoolUUID, teacherUUID, actorUUID, startDate, endDate, err := validateSubmitRequest(schoolID, actorID, req)
	if err != nil {
		s.logger.Warn("submit leave validation failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	lt, err := s.typeRepo.FindByIDAndSchool(ctx, schoolID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveApplicationResponse{}, err
	}
	if !lt.IsActive {
		return LeaveApplicationResponse{}, leavetypeerrors.ErrLeaveTypeInactive
	}

	dayType := req.DayType
	if dayType == "" {
		dayType = DayTypeFull
	}
	if dayType != DayTypeFull && !lt.AllowHalfDay {
		return LeaveApplicationResponse{}, leaveerrors.ErrHalfDayNotAllowed
	}

	days, err := CalculateDays(startDate, endDate, dayType, lt.IncludeWeekends)
	if err != nil {
		return LeaveApplicationResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	btx := s.balanceRepo.WithTx(tx)

	belongs, err := qtx.TeacherBelongsToSchool(ctx, schoolID, req.TeacherID)
	if err != nil {
		s.logger.Error("submit leave teacher school check failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	if !belongs {
		return LeaveApplicationResponse{}, leaveerrors.ErrTeacherNotInSchool
	}

	// Lock first so the availability check and the reservation see the
	// same row state under concurrent submits.
	balance, err := btx.FindForUpdate(ctx, schoolID, req.TeacherID, req.LeaveTypeID, startDate.Year())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrBalanceNotInitialized
		}
		s.logger.Error("submit leave balance lock failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, schoolID, req.TeacherID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit leave overlap detected",
			zap.String("school_id", schoolID),
			zap.String("teacher_id", req.TeacherID),
		)
		return LeaveApplicationResponse{}, leaveerrors.ErrLeaveOverlap
	}

	if balance.Available.LessThan(days) {
		return LeaveApplicationResponse{}, leaveerrors.InsufficientBalance(balance.Available.String(), days.String())
	}

	schoolCode, err := qtx.GetSchoolCode(ctx, schoolID)
	if err != nil {
		s.logger.Error("submit leave school code lookup failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	nextVal, err := s.counter.GetNextValue(ctx, schoolID, "leave_application")
	if err != nil {
		s.logger.Error("submit leave generate number failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	appNumber := fmt.Sprintf("LVE-%d-%s-%04d", startDate.Year(), schoolCode, nextVal)

	app := &LeaveApplication{
		ID:                uuid.New(),
		SchoolID:          schoolUUID,
		TeacherID:         teacherUUID,
		LeaveTypeID:       lt.ID,
		ApplicationNumber: appNumber,
		StartDate:         startDate,
		EndDate:           endDate,
		DayType:           dayType,
		Days:              days,
		Reason:            req.Reason,
		Status:            StatusPending,
		AppliedBy:         actorUUID,
	}

	if err := qtx.Create(ctx, app); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	if err := balance.Reserve(days); err != nil {
		return LeaveApplicationResponse{}, err
	}
	if err := btx.Update(ctx, balance); err != nil {
		s.logger.Error("submit leave reserve persist failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	s.logger.Info("submit leave success",
		zap.String("application_id", app.ID.String()),
		zap.String("application_number", appNumber),
		zap.String("teacher_id", req.TeacherID),
		zap.String("days", days.String()),
	)

	return mapToResponse(*app), nil
}

func (s *service) GetAll(ctx context.Context, schoolID string) ([]LeaveApplicationResponse, error) {
	apps, err := s.repo.FindAllBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(apps), nil
}

func (s *service) GetByTeacher(ctx context.Context, schoolID, teacherID string) ([]LeaveApplicationResponse, error) {
	apps, err := s.repo.FindByTeacher(ctx, schoolID, teacherID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(apps), nil
}

func (s *service) GetByID(ctx context.Context, schoolID, id string) (LeaveApplicationResponse, error) {
	app, err := s.repo.FindByIDAndSchool(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrApplicationNotFound
		}
		return LeaveApplicationResponse{}, err
	}
	return mapToResponse(*app), nil
}

func (s *service) Approve(ctx context.Context, schoolID, actorID, id string) (LeaveApplicationResponse, error) {
	return s.transitionStatus(ctx, schoolID, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, schoolID, actorID, id, rejectionReason string) (LeaveApplicationResponse, error) {
	return s.transitionStatus(ctx, schoolID, actorID, id, StatusRejected, &rejectionReason)
}

func (s *service) Cancel(ctx context.Context, schoolID, actorID, id string) (LeaveApplicationResponse, error) {
	return s.transitionStatus(ctx, schoolID, actorID, id, StatusCancelled, nil)
}

func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusPending:
		return targetStatus == StatusApproved || targetStatus == StatusRejected
	case StatusApproved:
		return targetStatus == StatusCancelled
	default:
		return false
	}
}

// transitionStatus guards the workflow state machine and applies the
// matching ledger movement inside one transaction. A rejected transition
// never touches the ledger.
func (s *service) transitionStatus(ctx context.Context, schoolID, actorID, id, targetStatus string, rejectionReason *string) (LeaveApplicationResponse, error) {
	s.logger.Debug("transition leave status requested",
		zap.String("application_id", id),
		zap.String("school_id", schoolID),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	if _, err := uuid.Parse(schoolID); err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidSchoolID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidActorID
	}
	if targetStatus == StatusRejected && (rejectionReason == nil || *rejectionReason == "") {
		return LeaveApplicationResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave status begin tx failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	btx := s.balanceRepo.WithTx(tx)

	app, err := qtx.FindByIDAndSchool(ctx, schoolID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrApplicationNotFound
		}
		return LeaveApplicationResponse{}, err
	}

	if !isAllowedStatusTransition(app.Status, targetStatus) {
		s.logger.Warn("transition leave status invalid",
			zap.String("application_id", id),
			zap.String("from_status", app.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveApplicationResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	balance, err := btx.FindForUpdate(ctx, schoolID, app.TeacherID.String(), app.LeaveTypeID.String(), app.StartDate.Year())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveApplicationResponse{}, leaveerrors.ErrBalanceNotInitialized
		}
		s.logger.Error("transition leave status balance lock failed", zap.Error(err))
		return LeaveApplicationResponse{}, err
	}

	switch targetStatus {
	case StatusApproved:
		err = balance.Approve(app.Days)
	case StatusRejected:
		err = balance.Reject(app.Days)
	case StatusCancelled:
		err = balance.Cancel(app.Days)
	}
	if err != nil {
		s.logger.Error("transition leave status ledger mutation failed",
			zap.String("application_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	app.Status = targetStatus
	switch targetStatus {
	case StatusApproved:
		app.ApprovedBy = &actorUUID
		now := time.Now().UTC()
		app.ApprovedAt = &now
		app.RejectionReason = nil
	case StatusRejected:
		app.ApprovedBy = nil
		app.ApprovedAt = nil
		app.RejectionReason = rejectionReason
	case StatusCancelled:
		app.RejectionReason = nil
	}

	if err := qtx.Update(ctx, app); err != nil {
		s.logger.Error("transition leave status persist failed",
			zap.String("application_id", id),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}
	if err := btx.Update(ctx, balance); err != nil {
		s.logger.Error("transition leave status balance persist failed",
			zap.String("application_id", id),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave status commit failed",
			zap.String("application_id", id),
			zap.Error(err),
		)
		return LeaveApplicationResponse{}, err
	}

	s.logger.Info("transition leave status success",
		zap.String("application_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*app), nil
}

// UnpaidDaysInMonth sums approved unpaid-type leave inside the month.
// Day counts here always include weekends, matching how salary deducts
// per calendar day of absence.
func (s *service) UnpaidDaysInMonth(ctx context.Context, schoolID, teacherID string, month, year int) (decimal.Decimal, error) {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	apps, err := s.repo.FindApprovedUnpaidInRange(ctx, schoolID, teacherID, monthStart, monthEnd)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, app := range apps {
		start, end, ok := clipToMonth(app.StartDate, app.EndDate, month, year)
		if !ok {
			continue
		}
		days, err := CalculateDays(start, end, app.DayType, true)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(days)
	}

	return total, nil
}

func validateSubmitRequest(schoolID, actorID string, req SubmitLeaveRequest) (uuid.UUID, uuid.UUID, uuid.UUID, time.Time, time.Time, error) {
	schoolUUID, err := uuid.Parse(schoolID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidSchoolID
	}
	teacherUUID, err := uuid.Parse(req.TeacherID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidTeacherID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidActorID
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return schoolUUID, teacherUUID, actorUUID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(app LeaveApplication) LeaveApplicationResponse {
	resp := LeaveApplicationResponse{
		ID:                app.ID.String(),
		SchoolID:          app.SchoolID.String(),
		TeacherID:         app.TeacherID.String(),
		LeaveTypeID:       app.LeaveTypeID.String(),
		ApplicationNumber: app.ApplicationNumber,
		StartDate:         app.StartDate.Format("2006-01-02"),
		EndDate:           app.EndDate.Format("2006-01-02"),
		DayType:           app.DayType,
		Days:              app.Days.String(),
		Reason:            app.Reason,
		Status:            app.Status,
		AppliedBy:         app.AppliedBy.String(),
	}
	if app.ApprovedBy != nil {
		v := app.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if app.ApprovedAt != nil {
		v := app.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	resp.RejectionReason = app.RejectionReason
	return resp
}

func mapToListResponse(apps []LeaveApplication) []LeaveApplicationResponse {
	resp := make([]LeaveApplicationResponse, len(apps))
	for i, app := range apps {
		resp[i] = mapToResponse(app)
	}
	return resp
}
