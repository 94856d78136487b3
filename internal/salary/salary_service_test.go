package salary_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-sms/internal/salary"
	salaryerrors "go-sms/internal/salary/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeSalaryRepository struct {
	createFn               func(ctx context.Context, cfg *salary.SalaryConfiguration) error
	findAllBySchoolFn      func(ctx context.Context, schoolID string) ([]salary.SalaryConfiguration, error)
	findHistoryByTeacherFn func(ctx context.Context, schoolID, teacherID string) ([]salary.SalaryConfiguration, error)
	findActiveByTeacherFn  func(ctx context.Context, schoolID, teacherID string) (*salary.SalaryConfiguration, error)
	findActiveForUpdateFn  func(ctx context.Context, schoolID, teacherID string) (*salary.SalaryConfiguration, error)
	deactivateFn           func(ctx context.Context, id string, effectiveTo time.Time) error
	teacherBelongsFn       func(ctx context.Context, schoolID, teacherID string) (bool, error)
}

func (f *fakeSalaryRepository) WithTx(tx *sql.Tx) salary.Repository { return f }

func (f *fakeSalaryRepository) Create(ctx context.Context, cfg *salary.SalaryConfiguration) error {
	if f.createFn != nil {
		return f.createFn(ctx, cfg)
	}
	return nil
}

func (f *fakeSalaryRepository) FindAllBySchool(ctx context.Context, schoolID string) ([]salary.SalaryConfiguration, error) {
	if f.findAllBySchoolFn != nil {
		return f.findAllBySchoolFn(ctx, schoolID)
	}
	return nil, nil
}

func (f *fakeSalaryRepository) FindHistoryByTeacher(ctx context.Context, schoolID, teacherID string) ([]salary.SalaryConfiguration, error) {
	if f.findHistoryByTeacherFn != nil {
		return f.findHistoryByTeacherFn(ctx, schoolID, teacherID)
	}
	return nil, nil
}

func (f *fakeSalaryRepository) FindActiveByTeacher(ctx context.Context, schoolID, teacherID string) (*salary.SalaryConfiguration, error) {
	if f.findActiveByTeacherFn != nil {
		return f.findActiveByTeacherFn(ctx, schoolID, teacherID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) FindActiveForUpdate(ctx context.Context, schoolID, teacherID string) (*salary.SalaryConfiguration, error) {
	if f.findActiveForUpdateFn != nil {
		return f.findActiveForUpdateFn(ctx, schoolID, teacherID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) Deactivate(ctx context.Context, id string, effectiveTo time.Time) error {
	if f.deactivateFn != nil {
		return f.deactivateFn(ctx, id, effectiveTo)
	}
	return nil
}

func (f *fakeSalaryRepository) TeacherBelongsToSchool(ctx context.Context, schoolID, teacherID string) (bool, error) {
	if f.teacherBelongsFn != nil {
		return f.teacherBelongsFn(ctx, schoolID, teacherID)
	}
	return true, nil
}

type salaryServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service salary.Service
	repo    *fakeSalaryRepository
}

func setupSalaryServiceTest(t *testing.T) *salaryServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeSalaryRepository{}
	svc := salary.NewService(db, repo)

	return &salaryServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
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

func TestSalaryService_Create(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	teacherID := uuid.New().String()

	t.Run("first configuration for a teacher", func(t *testing.T) {
		deps := setupSalaryServiceTest(t)
		defer deps.db.Close()

		var created *salary.SalaryConfiguration
		deps.repo.createFn = func(ctx context.Context, cfg *salary.SalaryConfiguration) error {
			created = cfg
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Create(ctx, schoolID, salary.CreateSalaryConfigurationRequest{
			TeacherID:     teacherID,
			Basic:         "25000",
			HRA:           "5000",
			PF:            "1800",
			BankName:      "State Bank",
			AccountNumber: "1234567890",
			IFSC:          "SBIN0001234",
			EffectiveFrom: "2026-04-01",
		})

		assert.NoError(t, err)
		assert.True(t, resp.IsActive)
		assert.Equal(t, "25000", resp.Basic)
		if assert.NotNil(t, created) {
			assert.True(t, created.TA.IsZero())
			assert.Equal(t, "2026-04-01", created.EffectiveFrom.Format("2006-01-02"))
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("closes the previous active configuration", func(t *testing.T) {
		deps := setupSalaryServiceTest(t)
		defer deps.db.Close()

		prevID := uuid.New()
		deps.repo.findActiveForUpdateFn = func(ctx context.Context, sid, tid string) (*salary.SalaryConfiguration, error) {
			return &salary.SalaryConfiguration{
				ID:        prevID,
				SchoolID:  uuid.MustParse(schoolID),
				TeacherID: uuid.MustParse(teacherID),
				Basic:     decimal.NewFromInt(20000),
				IsActive:  true,
			}, nil
		}

		var deactivatedID string
		var deactivatedTo time.Time
		deps.repo.deactivateFn = func(ctx context.Context, id string, effectiveTo time.Time) error {
			deactivatedID = id
			deactivatedTo = effectiveTo
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Create(ctx, schoolID, salary.CreateSalaryConfigurationRequest{
			TeacherID:     teacherID,
			Basic:         "30000",
			EffectiveFrom: "2026-04-01",
		})

		assert.NoError(t, err)
		assert.Equal(t, prevID.String(), deactivatedID)
		assert.Equal(t, "2026-04-01", deactivatedTo.Format("2006-01-02"))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("teacher outside school", func(t *testing.T) {
		deps := setupSalaryServiceTest(t)
		defer deps.db.Close()

		deps.repo.teacherBelongsFn = func(ctx context.Context, sid, tid string) (bool, error) {
			return false, nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Create(ctx, schoolID, salary.CreateSalaryConfigurationRequest{
			TeacherID:     teacherID,
			Basic:         "25000",
			EffectiveFrom: "2026-04-01",
		})
		assert.ErrorIs(t, err, salaryerrors.ErrTeacherNotInSchool)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative component", func(t *testing.T) {
		deps := setupSalaryServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, schoolID, salary.CreateSalaryConfigurationRequest{
			TeacherID:     teacherID,
			Basic:         "-100",
			EffectiveFrom: "2026-04-01",
		})
		assert.ErrorIs(t, err, salaryerrors.ErrInvalidAmount)
	})

	t.Run("malformed effective from", func(t *testing.T) {
		deps := setupSalaryServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, schoolID, salary.CreateSalaryConfigurationRequest{
			TeacherID:     teacherID,
			Basic:         "25000",
			EffectiveFrom: "01-04-2026",
		})
		assert.ErrorIs(t, err, salaryerrors.ErrInvalidEffectiveFrom)
	})
}

func TestSalaryService_GetActive(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	teacherID := uuid.New().String()

	t.Run("found", func(t *testing.T) {
		deps := setupSalaryServiceTest(t)
		defer deps.db.Close()

		deps.repo.findActiveByTeacherFn = func(ctx context.Context, sid, tid string) (*salary.SalaryConfiguration, error) {
			return &salary.SalaryConfiguration{
				ID:        uuid.New(),
				SchoolID:  uuid.MustParse(schoolID),
				TeacherID: uuid.MustParse(teacherID),
				Basic:     decimal.NewFromInt(25000),
				IsActive:  true,
			}, nil
		}

		resp, err := deps.service.GetActive(ctx, schoolID, teacherID)
		assert.NoError(t, err)
		assert.Equal(t, "25000", resp.Basic)
	})

	t.Run("no active configuration", func(t *testing.T) {
		deps := setupSalaryServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetActive(ctx, schoolID, teacherID)
		assert.ErrorIs(t, err, salaryerrors.ErrNoActiveSalaryConfig)
	})

	t.Run("malformed teacher id", func(t *testing.T) {
		deps := setupSalaryServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetActive(ctx, schoolID, "not-a-uuid")
		assert.ErrorIs(t, err, salaryerrors.ErrInvalidTeacherID)
	})
}
