package leavebalance

import (
	"context"
	"database/sql"
	"errors"

	leavebalanceerrors "go-sms/internal/leavebalance/errors"
	"go-sms/internal/leavetype"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	InitializeBalances(ctx context.Context, schoolID, teacherID string, year int) ([]LeaveBalanceResponse, error)
	GetBalances(ctx context.Context, schoolID, teacherID string, year int) ([]LeaveBalanceResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	typeRepo leavetype.Repository
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, typeRepo leavetype.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{db: db, repo: repo, typeRepo: typeRepo, logger: l}
}

// InitializeBalances creates one ledger row per active leave type for the
// given year. Rows that already exist are left untouched, so re-running
// after late prior-year approvals is safe.
func (s *service) InitializeBalances(ctx context.Context, schoolID, teacherID string, year int) ([]LeaveBalanceResponse, error) {
	schoolUUID, err := uuid.Parse(schoolID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidSchoolID
	}
	teacherUUID, err := uuid.Parse(teacherID)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidTeacherID
	}
	if year < 2000 || year > 2100 {
		return nil, leavebalanceerrors.ErrInvalidYear
	}

	types, err := s.typeRepo.FindActiveBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("initialize balances begin tx failed", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	for _, lt := range types {
		_, err := qtx.FindByKey(ctx, schoolID, teacherID, lt.ID.String(), year)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		carried := decimal.Zero
		if lt.AllowCarryForward {
			prev, err := qtx.FindByKey(ctx, schoolID, teacherID, lt.ID.String(), year-1)
			if err == nil && prev.Available.IsPositive() {
				carried = decimal.Min(prev.Available, lt.MaxCarryForwardDays)
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}

		allocated := lt.AnnualQuota.Add(carried)
		b := &LeaveBalance{
			ID:             uuid.New(),
			SchoolID:       schoolUUID,
			TeacherID:      teacherUUID,
			LeaveTypeID:    lt.ID,
			Year:           year,
			Allocated:      allocated,
			Used:           decimal.Zero,
			Pending:        decimal.Zero,
			Available:      allocated,
			CarriedForward: carried,
		}

		if err := qtx.Create(ctx, b); err != nil {
			if isDuplicateBalance(err) {
				s.logger.Warn("balance row already initialized",
					zap.String("teacher_id", teacherID),
					zap.String("leave_type_id", lt.ID.String()),
					zap.Int("year", year),
				)
				continue
			}
			s.logger.Error("initialize balances persist failed", zap.Error(err))
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("initialize balances commit failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("initialize balances success",
		zap.String("school_id", schoolID),
		zap.String("teacher_id", teacherID),
		zap.Int("year", year),
	)

	return s.GetBalances(ctx, schoolID, teacherID, year)
}

func (s *service) GetBalances(ctx context.Context, schoolID, teacherID string, year int) ([]LeaveBalanceResponse, error) {
	if _, err := uuid.Parse(schoolID); err != nil {
		return nil, leavebalanceerrors.ErrInvalidSchoolID
	}
	if _, err := uuid.Parse(teacherID); err != nil {
		return nil, leavebalanceerrors.ErrInvalidTeacherID
	}

	balances, err := s.repo.FindAllByTeacher(ctx, schoolID, teacherID, year)
	if err != nil {
		return nil, err
	}

	codes := map[string]string{}
	if types, err := s.typeRepo.FindAllBySchool(ctx, schoolID); err == nil {
		for _, lt := range types {
			codes[lt.ID.String()] = lt.Code
		}
	}

	resp := make([]LeaveBalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
		resp[i].LeaveTypeCode = codes[b.LeaveTypeID.String()]
	}
	return resp, nil
}

func isDuplicateBalance(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func mapToResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		ID:             b.ID.String(),
		SchoolID:       b.SchoolID.String(),
		TeacherID:      b.TeacherID.String(),
		LeaveTypeID:    b.LeaveTypeID.String(),
		Year:           b.Year,
		Allocated:      b.Allocated.String(),
		Used:           b.Used.String(),
		Pending:        b.Pending.String(),
		Available:      b.Available.String(),
		CarriedForward: b.CarriedForward.String(),
	}
}
