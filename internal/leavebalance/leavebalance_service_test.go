package leavebalance_test

import (
	"context"
	"database/sql"
	"testing"

	"go-sms/internal/leavebalance"
	leavebalanceerrors "go-sms/internal/leavebalance/errors"
	"go-sms/internal/leavetype"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeBalanceRepository struct {
	createFn           func(ctx context.Context, b *leavebalance.LeaveBalance) error
	updateFn           func(ctx context.Context, b *leavebalance.LeaveBalance) error
	findByKeyFn        func(ctx context.Context, schoolID, teacherID, leaveTypeID string, year int) (*leavebalance.LeaveBalance, error)
	findAllByTeacherFn func(ctx context.Context, schoolID, teacherID string, year int) ([]leavebalance.LeaveBalance, error)
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) leavebalance.Repository { return f }

func (f *fakeBalanceRepository) Create(ctx context.Context, b *leavebalance.LeaveBalance) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) Update(ctx context.Context, b *leavebalance.LeaveBalance) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) FindByKey(ctx context.Context, schoolID, teacherID, leaveTypeID string, year int) (*leavebalance.LeaveBalance, error) {
	if f.findByKeyFn != nil {
		return f.findByKeyFn(ctx, schoolID, teacherID, leaveTypeID, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBalanceRepository) FindForUpdate(ctx context.Context, schoolID, teacherID, leaveTypeID string, year int) (*leavebalance.LeaveBalance, error) {
	return f.FindByKey(ctx, schoolID, teacherID, leaveTypeID, year)
}

func (f *fakeBalanceRepository) FindAllByTeacher(ctx context.Context, schoolID, teacherID string, year int) ([]leavebalance.LeaveBalance, error) {
	if f.findAllByTeacherFn != nil {
		return f.findAllByTeacherFn(ctx, schoolID, teacherID, year)
	}
	return nil, nil
}

type fakeLeaveTypeRepository struct {
	findActiveBySchoolFn func(ctx context.Context, schoolID string) ([]leavetype.LeaveType, error)
	findAllBySchoolFn    func(ctx context.Context, schoolID string) ([]leavetype.LeaveType, error)
}

func (f *fakeLeaveTypeRepository) WithTx(tx *sql.Tx) leavetype.Repository { return f }

func (f *fakeLeaveTypeRepository) Create(ctx context.Context, lt *leavetype.LeaveType) error {
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
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveTypeRepository) Update(ctx context.Context, lt *leavetype.LeaveType) error {
	return nil
}

func (f *fakeLeaveTypeRepository) Delete(ctx context.Context, schoolID, id string) error { return nil }

func (f *fakeLeaveTypeRepository) HasBalanceReferences(ctx context.Context, schoolID, id string) (bool, error) {
	return false, nil
}

type balanceServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  leavebalance.Service
	repo     *fakeBalanceRepository
	typeRepo *fakeLeaveTypeRepository
}

func setupBalanceServiceTest(t *testing.T) *balanceServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeBalanceRepository{}
	typeRepo := &fakeLeaveTypeRepository{}
	svc := leavebalance.NewService(db, repo, typeRepo)

	return &balanceServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, typeRepo: typeRepo}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestBalanceService_InitializeBalances(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	teacherID := uuid.New().String()

	casual := leavetype.LeaveType{
		ID:          uuid.New(),
		SchoolID:    uuid.MustParse(schoolID),
		Name:        "Casual Leave",
		Code:        "CL",
		AnnualQuota: decimal.NewFromInt(12),
		IsActive:    true,
	}
	earned := leavetype.LeaveType{
		ID:                  uuid.New(),
		SchoolID:            uuid.MustParse(schoolID),
		Name:                "Earned Leave",
		Code:                "EL",
		AnnualQuota:         decimal.NewFromInt(15),
		AllowCarryForward:   true,
		MaxCarryForwardDays: decimal.NewFromInt(5),
		IsActive:            true,
	}

	t.Run("creates one row per active type", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.typeRepo.findActiveBySchoolFn = func(ctx context.Context, sid string) ([]leavetype.LeaveType, error) {
			return []leavetype.LeaveType{casual, earned}, nil
		}

		var created []*leavebalance.LeaveBalance
		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			created = append(created, b)
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.InitializeBalances(ctx, schoolID, teacherID, 2026)

		assert.NoError(t, err)
		assert.Len(t, created, 2)
		for _, b := range created {
			assert.True(t, b.Available.Equal(b.Allocated))
			assert.True(t, b.Used.IsZero())
			assert.True(t, b.Pending.IsZero())
			assert.Equal(t, 2026, b.Year)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("carry forward is capped by the type limit", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.typeRepo.findActiveBySchoolFn = func(ctx context.Context, sid string) ([]leavetype.LeaveType, error) {
			return []leavetype.LeaveType{earned}, nil
		}
		deps.repo.findByKeyFn = func(ctx context.Context, sid, tid, ltid string, year int) (*leavebalance.LeaveBalance, error) {
			if year == 2025 {
				return &leavebalance.LeaveBalance{
					Allocated: decimal.NewFromInt(15),
					Used:      decimal.NewFromInt(7),
					Pending:   decimal.Zero,
					Available: decimal.NewFromInt(8),
				}, nil
			}
			return nil, gorm.ErrRecordNotFound
		}

		var created *leavebalance.LeaveBalance
		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			created = b
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.InitializeBalances(ctx, schoolID, teacherID, 2026)

		assert.NoError(t, err)
		if assert.NotNil(t, created) {
			// min(8 available, 5 cap) = 5 carried onto the 15-day quota
			assert.Equal(t, "5", created.CarriedForward.String())
			assert.Equal(t, "20", created.Allocated.String())
			assert.Equal(t, "20", created.Available.String())
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("re-run leaves existing rows untouched", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.typeRepo.findActiveBySchoolFn = func(ctx context.Context, sid string) ([]leavetype.LeaveType, error) {
			return []leavetype.LeaveType{casual}, nil
		}
		deps.repo.findByKeyFn = func(ctx context.Context, sid, tid, ltid string, year int) (*leavebalance.LeaveBalance, error) {
			if year == 2026 {
				return &leavebalance.LeaveBalance{Allocated: decimal.NewFromInt(12)}, nil
			}
			return nil, gorm.ErrRecordNotFound
		}
		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			t.Fatal("existing row must not be recreated")
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.InitializeBalances(ctx, schoolID, teacherID, 2026)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate insert from a concurrent init is skipped", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		deps.typeRepo.findActiveBySchoolFn = func(ctx context.Context, sid string) ([]leavetype.LeaveType, error) {
			return []leavetype.LeaveType{casual}, nil
		}
		deps.repo.createFn = func(ctx context.Context, b *leavebalance.LeaveBalance) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_leave_balances_key"}
		}

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.InitializeBalances(ctx, schoolID, teacherID, 2026)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("rejects malformed ids and years", func(t *testing.T) {
		deps := setupBalanceServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.InitializeBalances(ctx, "not-a-uuid", teacherID, 2026)
		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidSchoolID)

		_, err = deps.service.InitializeBalances(ctx, schoolID, teacherID, 1500)
		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidYear)
	})
}

func TestBalanceService_GetBalances(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	teacherID := uuid.New().String()
	leaveTypeID := uuid.New()

	deps := setupBalanceServiceTest(t)
	defer deps.db.Close()

	deps.repo.findAllByTeacherFn = func(ctx context.Context, sid, tid string, year int) ([]leavebalance.LeaveBalance, error) {
		return []leavebalance.LeaveBalance{
			{
				ID:          uuid.New(),
				SchoolID:    uuid.MustParse(schoolID),
				TeacherID:   uuid.MustParse(teacherID),
				LeaveTypeID: leaveTypeID,
				Year:        2026,
				Allocated:   decimal.NewFromInt(12),
				Used:        decimal.NewFromInt(3),
				Pending:     decimal.NewFromInt(1),
				Available:   decimal.NewFromInt(8),
			},
		}, nil
	}
	deps.typeRepo.findAllBySchoolFn = func(ctx context.Context, sid string) ([]leavetype.LeaveType, error) {
		return []leavetype.LeaveType{{ID: leaveTypeID, Code: "CL"}}, nil
	}

	resp, err := deps.service.GetBalances(ctx, schoolID, teacherID, 2026)

	assert.NoError(t, err)
	if assert.Len(t, resp, 1) {
		assert.Equal(t, "CL", resp[0].LeaveTypeCode)
		assert.Equal(t, "8", resp[0].Available)
	}
}
