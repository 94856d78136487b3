package leavetype_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-sms/internal/leavetype"
	leavetypeerrors "go-sms/internal/leavetype/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveTypeRepository struct {
	createFn               func(ctx context.Context, lt *leavetype.LeaveType) error
	findAllBySchoolFn      func(ctx context.Context, schoolID string) ([]leavetype.LeaveType, error)
	findActiveBySchoolFn   func(ctx context.Context, schoolID string) ([]leavetype.LeaveType, error)
	findByIDAndSchoolFn    func(ctx context.Context, schoolID, id string) (*leavetype.LeaveType, error)
	updateFn               func(ctx context.Context, lt *leavetype.LeaveType) error
	deleteFn               func(ctx context.Context, schoolID, id string) error
	hasBalanceReferencesFn func(ctx context.Context, schoolID, id string) (bool, error)
}

func (f *fakeLeaveTypeRepository) WithTx(tx *sql.Tx) leavetype.Repository { return f }

func (f *fakeLeaveTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.createFn != nil {
		return f.createFn(ctx, lt)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) FindAllBySchool(ctx context.Context, schoolID string) ([]leavetype.LeaveType, error) {
	if f.findAllBySchoolFn != nil {
		return f.findAllBySchoolFn(ctx, schoolID)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) FindActiveBySchool(ctx context.Context, schoolID string) ([]leavetype.LeaveType, error) {
	if f.findActiveBySchoolFn != nil {
		return f.findActiveBySchoolFn(ctx, schoolID)
	}
	return nil, nil
}

func (f *fakeLeaveTypeRepository) FindByIDAndSchool(ctx context.Context, schoolID, id string) (*leavetype.LeaveType, error) {
	if f.findByIDAndSchoolFn != nil {
		return f.findByIDAndSchoolFn(ctx, schoolID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveTypeRepository) Update(ctx context.Context, lt *leavetype.LeaveType) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, lt)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) Delete(ctx context.Context, schoolID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, schoolID, id)
	}
	return nil
}

func (f *fakeLeaveTypeRepository) HasBalanceReferences(ctx context.Context, schoolID, id string) (bool, error) {
	if f.hasBalanceReferencesFn != nil {
		return f.hasBalanceReferencesFn(ctx, schoolID, id)
	}
	return false, nil
}

type leaveTypeServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	service   leavetype.Service
	repo      *fakeLeaveTypeRepository
}

func setupLeaveTypeServiceTest(t *testing.T) *leaveTypeServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	rdb, redisMock := redismock.NewClientMock()
	repo := &fakeLeaveTypeRepository{}
	svc := leavetype.NewService(db, repo, rdb)

	return &leaveTypeServiceDeps{db: db, sqlMock: sqlMock, redisMock: redisMock, service: svc, repo: repo}
}

func TestLeaveTypeService_Create(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()

	t.Run("uppercases code and invalidates cache", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		var created *leavetype.LeaveType
		deps.repo.createFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			created = lt
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.redisMock.ExpectDel(leavetype.GetLeaveTypeAllKey(schoolID)).SetVal(1)

		resp, err := deps.service.Create(ctx, schoolID, leavetype.CreateLeaveTypeRequest{
			Name:        "Casual Leave",
			Code:        "cl",
			AnnualQuota: "12",
		})

		assert.NoError(t, err)
		assert.Equal(t, "CL", resp.Code)
		assert.True(t, resp.IsActive)
		assert.True(t, resp.IsPaid)
		assert.True(t, resp.AllowHalfDay)
		// Weekends count toward leave spans unless the school opts out.
		assert.True(t, resp.IncludeWeekends)
		assert.False(t, resp.AllowCarryForward)
		if assert.NotNil(t, created) {
			assert.True(t, created.AnnualQuota.Equal(decimal.NewFromInt(12)))
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("duplicate code", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		deps.repo.createFn = func(ctx context.Context, lt *leavetype.LeaveType) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_leave_types_school_code"}
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		_, err := deps.service.Create(ctx, schoolID, leavetype.CreateLeaveTypeRequest{
			Name:        "Casual Leave",
			Code:        "CL",
			AnnualQuota: "12",
		})

		assert.ErrorIs(t, err, leavetypeerrors.ErrDuplicateCode)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative quota", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, schoolID, leavetype.CreateLeaveTypeRequest{
			Name:        "Casual Leave",
			Code:        "CL",
			AnnualQuota: "-1",
		})
		assert.ErrorIs(t, err, leavetypeerrors.ErrInvalidQuota)
	})
}

func TestLeaveTypeService_GetAll_Caching(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	cacheKey := leavetype.GetLeaveTypeAllKey(schoolID)

	cached := []leavetype.LeaveTypeResponse{
		{ID: uuid.New().String(), SchoolID: schoolID, Name: "Casual Leave", Code: "CL", AnnualQuota: "12"},
	}

	t.Run("cache hit skips the repository", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		payload, err := json.Marshal(cached)
		assert.NoError(t, err)
		deps.redisMock.ExpectGet(cacheKey).SetVal(string(payload))

		deps.repo.findAllBySchoolFn = func(ctx context.Context, sid string) ([]leavetype.LeaveType, error) {
			t.Fatal("repository must not be hit on cache hit")
			return nil, nil
		}

		resp, err := deps.service.GetAll(ctx, schoolID)
		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		deps.redisMock.ExpectGet(cacheKey).RedisNil()

		deps.repo.findAllBySchoolFn = func(ctx context.Context, sid string) ([]leavetype.LeaveType, error) {
			return []leavetype.LeaveType{{
				ID:          uuid.New(),
				SchoolID:    uuid.MustParse(schoolID),
				Name:        "Casual Leave",
				Code:        "CL",
				AnnualQuota: decimal.NewFromInt(12),
				IsActive:    true,
			}}, nil
		}
		deps.redisMock.Regexp().ExpectSet(cacheKey, `.*`, 30*time.Minute).SetVal("OK")

		resp, err := deps.service.GetAll(ctx, schoolID)
		assert.NoError(t, err)
		if assert.Len(t, resp, 1) {
			assert.Equal(t, "CL", resp[0].Code)
		}
	})

	t.Run("repo error on miss", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		deps.redisMock.ExpectGet(cacheKey).RedisNil()
		deps.repo.findAllBySchoolFn = func(ctx context.Context, sid string) ([]leavetype.LeaveType, error) {
			return nil, errors.New("db connection error")
		}

		_, err := deps.service.GetAll(ctx, schoolID)
		assert.Error(t, err)
	})
}

func TestLeaveTypeService_Delete(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	id := uuid.New().String()

	t.Run("refused while balances reference it", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		deps.repo.hasBalanceReferencesFn = func(ctx context.Context, sid, ltid string) (bool, error) {
			return true, nil
		}

		err := deps.service.Delete(ctx, schoolID, id)
		assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeInUse)
	})

	t.Run("success invalidates cache", func(t *testing.T) {
		deps := setupLeaveTypeServiceTest(t)
		defer deps.db.Close()

		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, sid, ltid string) error {
			deleted = true
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.redisMock.ExpectDel(leavetype.GetLeaveTypeAllKey(schoolID)).SetVal(1)

		err := deps.service.Delete(ctx, schoolID, id)
		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})
}

func TestLeaveTypeService_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	deps := setupLeaveTypeServiceTest(t)
	defer deps.db.Close()

	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectRollback()
	_, err := deps.service.Update(ctx, uuid.New().String(), uuid.New().String(), leavetype.UpdateLeaveTypeRequest{
		Name:        "Casual Leave",
		AnnualQuota: "10",
	})
	assert.ErrorIs(t, err, leavetypeerrors.ErrLeaveTypeNotFound)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}
