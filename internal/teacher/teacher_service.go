package teacher

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go-sms/internal/events"
	"go-sms/internal/messaging/kafka"
	"go-sms/internal/shared/contextutil"
	"go-sms/internal/shared/counter"
	teachererrors "go-sms/internal/teacher/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const TeacherOptionsKeyPrefix = "teachers:options:"

func GetTeacherOptionsKey(schoolID string) string {
	return TeacherOptionsKeyPrefix + schoolID
}

type Service interface {
	Create(ctx context.Context, schoolID string, req CreateTeacherRequest) (TeacherResponse, error)
	GetAll(ctx context.Context, schoolID string) ([]TeacherResponse, error)
	GetOptions(ctx context.Context, schoolID string) ([]TeacherResponse, error)
	GetByID(ctx context.Context, schoolID, id string) (TeacherResponse, error)
	Update(ctx context.Context, schoolID, id string, req UpdateTeacherRequest) (TeacherResponse, error)
	Delete(ctx context.Context, schoolID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("teacher.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("teacher.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l}
}

func (s *service) Create(ctx context.Context, schoolID string, req CreateTeacherRequest) (TeacherResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create teacher requested",
		zap.String("request_id", rid),
		zap.String("school_id", schoolID),
		zap.String("email", req.Email),
	)

	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		s.logger.Warn("create teacher invalid join_date",
			zap.String("join_date", req.JoinDate),
			zap.Error(err),
		)
		return TeacherResponse{}, teachererrors.ErrInvalidJoinDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create teacher begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return TeacherResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.StaffNumber == "" {
		nextVal, err := s.counter.GetNextValue(ctx, schoolID, "staff_number")
		if err != nil {
			s.logger.Error("create teacher generate staff number failed", zap.Error(err))
			return TeacherResponse{}, err
		}
		req.StaffNumber = fmt.Sprintf("TCH-%05d", nextVal)
	}

	status := req.EmploymentStatus
	if status == "" {
		status = "ACTIVE"
	}

	t := &Teacher{
		ID:               uuid.New(),
		SchoolID:         uuid.MustParse(schoolID),
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		StaffNumber:      req.StaffNumber,
		Qualification:    req.Qualification,
		Designation:      req.Designation,
		JoinDate:         joinDate,
		EmploymentStatus: status,
	}

	if err := qtx.Create(ctx, t); err != nil {
		s.logger.Error("create teacher persist failed", zap.Error(err))
		return TeacherResponse{}, mapRepositoryError(err)
	}

	event := events.TeacherOnboardedEvent{
		EventType:  "teacher_onboarded",
		RequestID:  rid,
		TeacherID:  t.ID.String(),
		SchoolID:   schoolID,
		JoinYear:   joinDate.Year(),
		OccurredAt: time.Now().UTC(),
	}
	if s.outbox != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return TeacherResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "teacher",
			AggregateID:   t.ID.String(),
			EventType:     event.EventType,
			Topic:         events.TeacherOnboardedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create teacher outbox persist failed",
				zap.String("teacher_id", t.ID.String()),
				zap.Error(err),
			)
			return TeacherResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return TeacherResponse{}, err
	}

	s.invalidateOptionsCache(ctx, schoolID)

	s.logger.Info("create teacher success",
		zap.String("request_id", rid),
		zap.String("teacher_id", t.ID.String()),
		zap.String("staff_number", t.StaffNumber),
	)

	return mapToResponse(*t), nil
}

func (s *service) GetAll(ctx context.Context, schoolID string) ([]TeacherResponse, error) {
	teachers, err := s.repo.FindAllBySchool(ctx, schoolID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(teachers), nil
}

func (s *service) GetOptions(ctx context.Context, schoolID string) ([]TeacherResponse, error) {
	cacheKey := GetTeacherOptionsKey(schoolID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []TeacherResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		teachers, err := s.repo.FindOptionsBySchool(ctx, schoolID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(teachers)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]TeacherResponse), nil
}

func (s *service) GetByID(ctx context.Context, schoolID, id string) (TeacherResponse, error) {
	t, err := s.repo.FindByIDAndSchool(ctx, schoolID, id)
	if err != nil {
		return TeacherResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*t), nil
}

func (s *service) Update(ctx context.Context, schoolID, id string, req UpdateTeacherRequest) (TeacherResponse, error) {
	joinDate, err := time.Parse("2006-01-02", req.JoinDate)
	if err != nil {
		return TeacherResponse{}, teachererrors.ErrInvalidJoinDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update teacher begin tx failed", zap.Error(err))
		return TeacherResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	t, err := qtx.FindByIDAndSchool(ctx, schoolID, id)
	if err != nil {
		return TeacherResponse{}, mapRepositoryError(err)
	}

	t.FullName = req.FullName
	t.Email = req.Email
	t.Phone = req.Phone
	t.StaffNumber = req.StaffNumber
	t.Qualification = req.Qualification
	t.Designation = req.Designation
	t.JoinDate = joinDate
	t.EmploymentStatus = req.EmploymentStatus

	if err := qtx.Update(ctx, t); err != nil {
		s.logger.Error("update teacher persist failed", zap.Error(err))
		return TeacherResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return TeacherResponse{}, err
	}

	s.invalidateOptionsCache(ctx, schoolID)
	s.logger.Info("update teacher success", zap.String("teacher_id", id))

	return mapToResponse(*t), nil
}

func (s *service) Delete(ctx context.Context, schoolID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, schoolID, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateOptionsCache(ctx, schoolID)
	s.logger.Info("delete teacher success", zap.String("teacher_id", id))
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, schoolID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetTeacherOptionsKey(schoolID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate teacher options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(t Teacher) TeacherResponse {
	return TeacherResponse{
		ID:               t.ID.String(),
		SchoolID:         t.SchoolID.String(),
		FullName:         t.FullName,
		Email:            t.Email,
		Phone:            t.Phone,
		StaffNumber:      t.StaffNumber,
		Qualification:    t.Qualification,
		Designation:      t.Designation,
		JoinDate:         t.JoinDate.Format("2006-01-02"),
		EmploymentStatus: t.EmploymentStatus,
	}
}

func mapToListResponse(teachers []Teacher) []TeacherResponse {
	res := make([]TeacherResponse, len(teachers))
	for i, t := range teachers {
		res[i] = mapToResponse(t)
	}
	return res
}
