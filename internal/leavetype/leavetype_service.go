package leavetype

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	leavetypeerrors "go-sms/internal/leavetype/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const LeaveTypeAllKeyPrefix = "leavetypes:all:"

func GetLeaveTypeAllKey(schoolID string) string {
	return LeaveTypeAllKeyPrefix + schoolID
}

type Service interface {
	Create(ctx context.Context, schoolID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context, schoolID string) ([]LeaveTypeResponse, error)
	GetActive(ctx context.Context, schoolID string) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, schoolID, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, schoolID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, schoolID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, schoolID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	schoolUUID, err := uuid.Parse(schoolID)
	if err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidSchoolID
	}

	quota, err := parseNonNegative(req.AnnualQuota)
	if err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidQuota
	}
	carryForward := decimal.Zero
	if req.MaxCarryForwardDays != "" {
		carryForward, err = parseNonNegative(req.MaxCarryForwardDays)
		if err != nil {
			return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidCarryForward
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave type begin tx failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt := &LeaveType{
		ID:                  uuid.New(),
		SchoolID:            schoolUUID,
		Name:                req.Name,
		Code:                strings.ToUpper(req.Code),
		AnnualQuota:         quota,
		AllowCarryForward:   boolOr(req.AllowCarryForward, false),
		MaxCarryForwardDays: carryForward,
		IsPaid:              boolOr(req.IsPaid, true),
		AllowHalfDay:        boolOr(req.AllowHalfDay, true),
		IncludeWeekends:     boolOr(req.IncludeWeekends, true),
		IsActive:            true,
	}

	if err := qtx.Create(ctx, lt); err != nil {
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return LeaveTypeResponse{}, err
	}

	s.invalidateCache(ctx, schoolID)
	s.logger.Info("create leave type success",
		zap.String("leave_type_id", lt.ID.String()),
		zap.String("school_id", schoolID),
		zap.String("code", lt.Code),
	)

	return mapToResponse(*lt), nil
}

func (s *service) GetAll(ctx context.Context, schoolID string) ([]LeaveTypeResponse, error) {
	cacheKey := GetLeaveTypeAllKey(schoolID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []LeaveTypeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		types, err := s.repo.FindAllBySchool(ctx, schoolID)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(types)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 30*time.Minute)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]LeaveTypeResponse), nil
}

func (s *service) GetActive(ctx context.Context, schoolID string) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindActiveBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(types), nil
}

func (s *service) GetByID(ctx context.Context, schoolID, id string) (LeaveTypeResponse, error) {
	lt, err := s.repo.FindByIDAndSchool(ctx, schoolID, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*lt), nil
}

func (s *service) Update(ctx context.Context, schoolID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	quota, err := parseNonNegative(req.AnnualQuota)
	if err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidQuota
	}
	carryForward := decimal.Zero
	if req.MaxCarryForwardDays != "" {
		carryForward, err = parseNonNegative(req.MaxCarryForwardDays)
		if err != nil {
			return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidCarryForward
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := qtx.FindByIDAndSchool(ctx, schoolID, id)
	if err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	lt.Name = req.Name
	lt.AnnualQuota = quota
	lt.MaxCarryForwardDays = carryForward
	if req.AllowCarryForward != nil {
		lt.AllowCarryForward = *req.AllowCarryForward
	}
	if req.IsPaid != nil {
		lt.IsPaid = *req.IsPaid
	}
	if req.AllowHalfDay != nil {
		lt.AllowHalfDay = *req.AllowHalfDay
	}
	if req.IncludeWeekends != nil {
		lt.IncludeWeekends = *req.IncludeWeekends
	}
	if req.IsActive != nil {
		lt.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, lt); err != nil {
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return LeaveTypeResponse{}, err
	}

	s.invalidateCache(ctx, schoolID)
	s.logger.Info("update leave type success", zap.String("leave_type_id", id))

	return mapToResponse(*lt), nil
}

func (s *service) Delete(ctx context.Context, schoolID, id string) error {
	referenced, err := s.repo.HasBalanceReferences(ctx, schoolID, id)
	if err != nil {
		return err
	}
	if referenced {
		return leavetypeerrors.ErrLeaveTypeInUse
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, schoolID, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateCache(ctx, schoolID)
	return nil
}

func (s *service) invalidateCache(ctx context.Context, schoolID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetLeaveTypeAllKey(schoolID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate leave type cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func parseNonNegative(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, leavetypeerrors.ErrInvalidQuota
	}
	return d, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	resp := LeaveTypeResponse{
		ID:                  lt.ID.String(),
		SchoolID:            lt.SchoolID.String(),
		Name:                lt.Name,
		Code:                lt.Code,
		AnnualQuota:         lt.AnnualQuota.String(),
		AllowCarryForward:   lt.AllowCarryForward,
		MaxCarryForwardDays: lt.MaxCarryForwardDays.String(),
		IsPaid:              lt.IsPaid,
		AllowHalfDay:        lt.AllowHalfDay,
		IncludeWeekends:     lt.IncludeWeekends,
		IsActive:            lt.IsActive,
	}
	if !lt.CreatedAt.IsZero() {
		resp.CreatedAt = lt.CreatedAt.Format(time.RFC3339)
	}
	if !lt.UpdatedAt.IsZero() {
		resp.UpdatedAt = lt.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp
}
