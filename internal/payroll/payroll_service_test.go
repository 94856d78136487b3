package payroll_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-sms/internal/attendance"
	"go-sms/internal/events"
	"go-sms/internal/messaging/kafka"
	"go-sms/internal/paygateway"
	paygatewayerrors "go-sms/internal/paygateway/errors"
	"go-sms/internal/payroll"
	payrollerrors "go-sms/internal/payroll/errors"
	"go-sms/internal/salary"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	withTxFn                          func(tx *sql.Tx) payroll.Repository
	createFn                          func(ctx context.Context, p *payroll.SalaryPayment) error
	updateFn                          func(ctx context.Context, p *payroll.SalaryPayment) error
	findForUpdateFn                   func(ctx context.Context, schoolID, teacherID string, month, year int) (*payroll.SalaryPayment, error)
	findByIDAndSchoolFn               func(ctx context.Context, schoolID, id string) (*payroll.SalaryPayment, error)
	findByIDForUpdateFn               func(ctx context.Context, schoolID, id string) (*payroll.SalaryPayment, error)
	findAllBySchoolFn                 func(ctx context.Context, schoolID string, month, year int) ([]payroll.SalaryPayment, error)
	findByTeacherFn                   func(ctx context.Context, schoolID, teacherID string) ([]payroll.SalaryPayment, error)
	findByGatewayOrderIDForUpdateFn   func(ctx context.Context, orderID string) (*payroll.SalaryPayment, error)
	findByGatewayPaymentIDForUpdateFn func(ctx context.Context, paymentID string) (*payroll.SalaryPayment, error)
	teacherBelongsToSchoolFn          func(ctx context.Context, schoolID, teacherID string) (bool, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.SalaryPayment) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) Update(ctx context.Context, p *payroll.SalaryPayment) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) FindForUpdate(ctx context.Context, schoolID, teacherID string, month, year int) (*payroll.SalaryPayment, error) {
	if f.findForUpdateFn != nil {
		return f.findForUpdateFn(ctx, schoolID, teacherID, month, year)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByIDAndSchool(ctx context.Context, schoolID, id string) (*payroll.SalaryPayment, error) {
	if f.findByIDAndSchoolFn != nil {
		return f.findByIDAndSchoolFn(ctx, schoolID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByIDForUpdate(ctx context.Context, schoolID, id string) (*payroll.SalaryPayment, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, schoolID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindAllBySchool(ctx context.Context, schoolID string, month, year int) ([]payroll.SalaryPayment, error) {
	if f.findAllBySchoolFn != nil {
		return f.findAllBySchoolFn(ctx, schoolID, month, year)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindByTeacher(ctx context.Context, schoolID, teacherID string) ([]payroll.SalaryPayment, error) {
	if f.findByTeacherFn != nil {
		return f.findByTeacherFn(ctx, schoolID, teacherID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindByGatewayOrderIDForUpdate(ctx context.Context, orderID string) (*payroll.SalaryPayment, error) {
	if f.findByGatewayOrderIDForUpdateFn != nil {
		return f.findByGatewayOrderIDForUpdateFn(ctx, orderID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByGatewayPaymentIDForUpdate(ctx context.Context, paymentID string) (*payroll.SalaryPayment, error) {
	if f.findByGatewayPaymentIDForUpdateFn != nil {
		return f.findByGatewayPaymentIDForUpdateFn(ctx, paymentID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) TeacherBelongsToSchool(ctx context.Context, schoolID, teacherID string) (bool, error) {
	if f.teacherBelongsToSchoolFn != nil {
		return f.teacherBelongsToSchoolFn(ctx, schoolID, teacherID)
	}
	return true, nil
}

type fakeSalaryRepository struct {
	findActiveByTeacherFn func(ctx context.Context, schoolID, teacherID string) (*salary.SalaryConfiguration, error)
}

func (f *fakeSalaryRepository) WithTx(tx *sql.Tx) salary.Repository { return f }

func (f *fakeSalaryRepository) Create(ctx context.Context, cfg *salary.SalaryConfiguration) error {
	return nil
}

func (f *fakeSalaryRepository) FindAllBySchool(ctx context.Context, schoolID string) ([]salary.SalaryConfiguration, error) {
	return nil, nil
}

func (f *fakeSalaryRepository) FindHistoryByTeacher(ctx context.Context, schoolID, teacherID string) ([]salary.SalaryConfiguration, error) {
	return nil, nil
}

func (f *fakeSalaryRepository) FindActiveByTeacher(ctx context.Context, schoolID, teacherID string) (*salary.SalaryConfiguration, error) {
	if f.findActiveByTeacherFn != nil {
		return f.findActiveByTeacherFn(ctx, schoolID, teacherID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSalaryRepository) FindActiveForUpdate(ctx context.Context, schoolID, teacherID string) (*salary.SalaryConfiguration, error) {
	return f.FindActiveByTeacher(ctx, schoolID, teacherID)
}

func (f *fakeSalaryRepository) Deactivate(ctx context.Context, id string, effectiveTo time.Time) error {
	return nil
}

func (f *fakeSalaryRepository) TeacherBelongsToSchool(ctx context.Context, schoolID, teacherID string) (bool, error) {
	return true, nil
}

type fakeCounterRepository struct {
	next int64
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, schoolID string, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type fakeGateway struct {
	createOrderFn            func(ctx context.Context, amount decimal.Decimal, currency, receipt string, notes map[string]string) (paygateway.Order, error)
	verifyWebhookSignatureFn func(body []byte, signature string) bool
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string, notes map[string]string) (paygateway.Order, error) {
	if f.createOrderFn != nil {
		return f.createOrderFn(ctx, amount, currency, receipt, notes)
	}
	return paygateway.Order{ID: "order_test", Amount: amount, Currency: currency, Receipt: receipt}, nil
}

func (f *fakeGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool { return true }

func (f *fakeGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	if f.verifyWebhookSignatureFn != nil {
		return f.verifyWebhookSignatureFn(body, signature)
	}
	return true
}

func (f *fakeGateway) FetchPayment(ctx context.Context, paymentID string) (paygateway.PaymentDetails, error) {
	return paygateway.PaymentDetails{}, nil
}

func (f *fakeGateway) Refund(ctx context.Context, paymentID string, amount decimal.Decimal, notes map[string]string) (paygateway.RefundDetails, error) {
	return paygateway.RefundDetails{}, nil
}

type fakeAttendanceSource struct {
	presentDays int
}

func (f *fakeAttendanceSource) MonthlySummary(ctx context.Context, schoolID, teacherID string, month, year int) (attendance.MonthlySummaryResponse, error) {
	return attendance.MonthlySummaryResponse{TeacherID: teacherID, Month: month, Year: year, PresentDays: f.presentDays, MarkedDays: f.presentDays}, nil
}

type fakeLeaveSource struct {
	unpaidDays decimal.Decimal
}

func (f *fakeLeaveSource) UnpaidDaysInMonth(ctx context.Context, schoolID, teacherID string, month, year int) (decimal.Decimal, error) {
	return f.unpaidDays, nil
}

type fakeWorkingDaysSource struct {
	workingDays int
}

func (f *fakeWorkingDaysSource) MonthlyWorkingDays(ctx context.Context, schoolID string) (int, error) {
	return f.workingDays, nil
}

type payrollServiceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    payroll.Service
	repo       *fakePayrollRepository
	salaryRepo *fakeSalaryRepository
	outbox     *fakeOutboxRepository
	gateway    *fakeGateway
	leave      *fakeLeaveSource
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakePayrollRepository{}
	salaryRepo := &fakeSalaryRepository{}
	outbox := &fakeOutboxRepository{}
	gateway := &fakeGateway{}
	leave := &fakeLeaveSource{unpaidDays: decimal.Zero}

	svc := payroll.NewService(
		db,
		repo,
		salaryRepo,
		&fakeCounterRepository{},
		outbox,
		gateway,
		&fakeAttendanceSource{presentDays: 26},
		leave,
		&fakeWorkingDaysSource{workingDays: 26},
	)

	return &payrollServiceDeps{
		db: db, sqlMock: sqlMock, service: svc,
		repo: repo, salaryRepo: salaryRepo, outbox: outbox, gateway: gateway, leave: leave,
	}
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

func activeConfig(schoolID, teacherID string) *salary.SalaryConfiguration {
	return &salary.SalaryConfiguration{
		ID:            uuid.New(),
		SchoolID:      uuid.MustParse(schoolID),
		TeacherID:     uuid.MustParse(teacherID),
		Basic:         decimal.NewFromInt(2500),
		HRA:           decimal.NewFromInt(500),
		DA:            decimal.NewFromInt(200),
		PF:            decimal.NewFromInt(200),
		BankName:      "State Bank",
		AccountNumber: "1234567890",
		IFSC:          "SBIN0001234",
		IsActive:      true,
	}
}

func TestPayrollService_RecordPayment_Create(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	teacherID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.salaryRepo.findActiveByTeacherFn = func(ctx context.Context, sid, tid string) (*salary.SalaryConfiguration, error) {
		return activeConfig(schoolID, teacherID), nil
	}

	var emitted *kafka.OutboxEvent
	deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
		emitted = &event
		return nil
	}

	var created *payroll.SalaryPayment
	deps.repo.createFn = func(ctx context.Context, p *payroll.SalaryPayment) error {
		created = p
		return nil
	}

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.RecordPayment(ctx, schoolID, payroll.RecordPaymentRequest{
		TeacherID:  teacherID,
		Month:      3,
		Year:       2026,
		PaidAmount: "1000",
	})

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, "3000", resp.NetAmount)
	assert.Equal(t, "1000", resp.PaidAmount)
	assert.Equal(t, "2000", resp.PendingAmount)
	assert.Equal(t, payroll.StatusPartial, resp.Status)
	assert.Equal(t, "SLP-202603-0001", resp.SlipNumber)
	assert.False(t, resp.RequiresReview)

	if assert.NotNil(t, emitted) {
		assert.Equal(t, events.SalaryPaymentRecordedTopic, emitted.Topic)
		assert.Equal(t, "salary_payment_recorded", emitted.EventType)
		var payload events.SalaryPaymentRecordedEvent
		assert.NoError(t, json.Unmarshal(emitted.Payload, &payload))
		assert.Equal(t, teacherID, payload.TeacherID)
	}
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_RecordPayment_Accumulates(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	teacherID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	existing := &payroll.SalaryPayment{
		ID:            uuid.New(),
		SchoolID:      uuid.MustParse(schoolID),
		TeacherID:     uuid.MustParse(teacherID),
		PaymentMonth:  3,
		PaymentYear:   2026,
		NetAmount:     decimal.NewFromInt(1500),
		PaidAmount:    decimal.NewFromInt(1000),
		PendingAmount: decimal.NewFromInt(500),
		Status:        payroll.StatusPartial,
		SlipNumber:    "SLP-202603-0001",
	}
	deps.repo.findForUpdateFn = func(ctx context.Context, sid, tid string, month, year int) (*payroll.SalaryPayment, error) {
		return existing, nil
	}

	var updated *payroll.SalaryPayment
	deps.repo.updateFn = func(ctx context.Context, p *payroll.SalaryPayment) error {
		updated = p
		return nil
	}

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.RecordPayment(ctx, schoolID, payroll.RecordPaymentRequest{
		TeacherID:  teacherID,
		Month:      3,
		Year:       2026,
		PaidAmount: "500",
	})

	assert.NoError(t, err)
	if assert.NotNil(t, updated) {
		assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(1500)))
		assert.True(t, updated.PendingAmount.IsZero())
		assert.NotNil(t, updated.PaidAt)
	}
	assert.Equal(t, payroll.StatusPaid, resp.Status)
	// slip number is frozen from first creation
	assert.Equal(t, "SLP-202603-0001", resp.SlipNumber)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_RecordPayment_RetriesOnPeriodConflict(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	teacherID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.salaryRepo.findActiveByTeacherFn = func(ctx context.Context, sid, tid string) (*salary.SalaryConfiguration, error) {
		return activeConfig(schoolID, teacherID), nil
	}

	// First attempt loses the insert race; the retry finds the winner's row.
	lookups := 0
	deps.repo.findForUpdateFn = func(ctx context.Context, sid, tid string, month, year int) (*payroll.SalaryPayment, error) {
		lookups++
		if lookups == 1 {
			return nil, gorm.ErrRecordNotFound
		}
		return &payroll.SalaryPayment{
			ID:            uuid.New(),
			SchoolID:      uuid.MustParse(schoolID),
			TeacherID:     uuid.MustParse(teacherID),
			PaymentMonth:  3,
			PaymentYear:   2026,
			NetAmount:     decimal.NewFromInt(3000),
			PaidAmount:    decimal.NewFromInt(1000),
			PendingAmount: decimal.NewFromInt(2000),
			Status:        payroll.StatusPartial,
			SlipNumber:    "SLP-202603-0007",
		}, nil
	}
	deps.repo.createFn = func(ctx context.Context, p *payroll.SalaryPayment) error {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_salary_payments_period"}
	}

	expectTx(t, deps.sqlMock, false)
	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.RecordPayment(ctx, schoolID, payroll.RecordPaymentRequest{
		TeacherID:  teacherID,
		Month:      3,
		Year:       2026,
		PaidAmount: "500",
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, lookups)
	assert.Equal(t, "1500", resp.PaidAmount)
	assert.Equal(t, "SLP-202603-0007", resp.SlipNumber)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_RecordPayment_Validation(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	teacherID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	t.Run("negative paid amount", func(t *testing.T) {
		_, err := deps.service.RecordPayment(ctx, schoolID, payroll.RecordPaymentRequest{
			TeacherID: teacherID, Month: 3, Year: 2026, PaidAmount: "-100",
		})
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidPaidAmount)
	})

	t.Run("malformed bonus", func(t *testing.T) {
		_, err := deps.service.RecordPayment(ctx, schoolID, payroll.RecordPaymentRequest{
			TeacherID: teacherID, Month: 3, Year: 2026, PaidAmount: "100", Bonus: "abc",
		})
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidMoneyValue)
	})

	t.Run("teacher outside school", func(t *testing.T) {
		deps.repo.teacherBelongsToSchoolFn = func(ctx context.Context, sid, tid string) (bool, error) {
			return false, nil
		}
		t.Cleanup(func() { deps.repo.teacherBelongsToSchoolFn = nil })

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.RecordPayment(ctx, schoolID, payroll.RecordPaymentRequest{
			TeacherID: teacherID, Month: 3, Year: 2026, PaidAmount: "100",
		})
		assert.ErrorIs(t, err, payrollerrors.ErrTeacherNotInSchool)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_RecordPayment_NegativeNetFlagsReview(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	teacherID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.salaryRepo.findActiveByTeacherFn = func(ctx context.Context, sid, tid string) (*salary.SalaryConfiguration, error) {
		return activeConfig(schoolID, teacherID), nil
	}

	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.RecordPayment(ctx, schoolID, payroll.RecordPaymentRequest{
		TeacherID:  teacherID,
		Month:      3,
		Year:       2026,
		PaidAmount: "0",
		Penalty:    "5000",
	})

	assert.NoError(t, err)
	assert.Equal(t, "-2000", resp.NetAmount)
	assert.True(t, resp.RequiresReview)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_RecordPayment_ExplicitZeroPresentDays(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	teacherID := uuid.New().String()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.salaryRepo.findActiveByTeacherFn = func(ctx context.Context, sid, tid string) (*salary.SalaryConfiguration, error) {
		return activeConfig(schoolID, teacherID), nil
	}

	var created *payroll.SalaryPayment
	deps.repo.createFn = func(ctx context.Context, p *payroll.SalaryPayment) error {
		created = p
		return nil
	}

	zero := 0
	thirty := 30
	expectTx(t, deps.sqlMock, true)
	resp, err := deps.service.RecordPayment(ctx, schoolID, payroll.RecordPaymentRequest{
		TeacherID:   teacherID,
		Month:       3,
		Year:        2026,
		PaidAmount:  "0",
		WorkingDays: &thirty,
		PresentDays: &zero,
	})

	assert.NoError(t, err)
	// A teacher explicitly recorded with zero present days earns nothing.
	assert.Equal(t, "0", resp.NetAmount)
	assert.Equal(t, "0", resp.PendingAmount)
	assert.Equal(t, payroll.StatusPaid, resp.Status)
	if assert.NotNil(t, created) {
		assert.Equal(t, 0, created.PresentDays)
		assert.Equal(t, 30, created.WorkingDays)
	}
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Disburse(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	teacherID := uuid.New().String()
	paymentID := uuid.New().String()

	pendingRow := func() *payroll.SalaryPayment {
		return &payroll.SalaryPayment{
			ID:            uuid.MustParse(paymentID),
			SchoolID:      uuid.MustParse(schoolID),
			TeacherID:     uuid.MustParse(teacherID),
			PaymentMonth:  3,
			PaymentYear:   2026,
			NetAmount:     decimal.NewFromInt(3000),
			PendingAmount: decimal.NewFromInt(3000),
			Status:        payroll.StatusPending,
			SlipNumber:    "SLP-202603-0001",
		}
	}

	t.Run("creates gateway order for pending amount", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, sid, id string) (*payroll.SalaryPayment, error) {
			return pendingRow(), nil
		}
		deps.salaryRepo.findActiveByTeacherFn = func(ctx context.Context, sid, tid string) (*salary.SalaryConfiguration, error) {
			return activeConfig(schoolID, teacherID), nil
		}
		deps.gateway.createOrderFn = func(ctx context.Context, amount decimal.Decimal, currency, receipt string, notes map[string]string) (paygateway.Order, error) {
			assert.True(t, amount.Equal(decimal.NewFromInt(3000)))
			assert.Equal(t, "INR", currency)
			assert.Equal(t, "SLP-202603-0001", receipt)
			return paygateway.Order{ID: "order_abc123", Amount: amount, Currency: currency, Receipt: receipt}, nil
		}

		expectTx(t, deps.sqlMock, true)
		resp, err := deps.service.Disburse(ctx, schoolID, paymentID)

		assert.NoError(t, err)
		if assert.NotNil(t, resp.GatewayOrderID) {
			assert.Equal(t, "order_abc123", *resp.GatewayOrderID)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("nothing pending", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, sid, id string) (*payroll.SalaryPayment, error) {
			row := pendingRow()
			row.PaidAmount = row.NetAmount
			row.PendingAmount = decimal.Zero
			row.Status = payroll.StatusPaid
			return row, nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Disburse(ctx, schoolID, paymentID)
		assert.ErrorIs(t, err, payrollerrors.ErrNothingToDisburse)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("bank details missing", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, sid, id string) (*payroll.SalaryPayment, error) {
			return pendingRow(), nil
		}
		deps.salaryRepo.findActiveByTeacherFn = func(ctx context.Context, sid, tid string) (*salary.SalaryConfiguration, error) {
			cfg := activeConfig(schoolID, teacherID)
			cfg.AccountNumber = ""
			return cfg, nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Disburse(ctx, schoolID, paymentID)
		assert.ErrorIs(t, err, payrollerrors.ErrBankDetailsMissing)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("gateway failure leaves row untouched", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, sid, id string) (*payroll.SalaryPayment, error) {
			return pendingRow(), nil
		}
		deps.salaryRepo.findActiveByTeacherFn = func(ctx context.Context, sid, tid string) (*salary.SalaryConfiguration, error) {
			return activeConfig(schoolID, teacherID), nil
		}
		deps.gateway.createOrderFn = func(ctx context.Context, amount decimal.Decimal, currency, receipt string, notes map[string]string) (paygateway.Order, error) {
			return paygateway.Order{}, paygatewayerrors.ErrGatewayFailure
		}
		updates := 0
		deps.repo.updateFn = func(ctx context.Context, p *payroll.SalaryPayment) error {
			updates++
			return nil
		}

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Disburse(ctx, schoolID, paymentID)
		assert.ErrorIs(t, err, paygatewayerrors.ErrGatewayFailure)
		assert.Equal(t, 0, updates)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestPayrollService_HandleWebhook(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New().String()
	teacherID := uuid.New().String()

	orderID := "order_abc123"
	row := func() *payroll.SalaryPayment {
		return &payroll.SalaryPayment{
			ID:             uuid.New(),
			SchoolID:       uuid.MustParse(schoolID),
			TeacherID:      uuid.MustParse(teacherID),
			NetAmount:      decimal.NewFromInt(3000),
			PendingAmount:  decimal.NewFromInt(3000),
			Status:         payroll.StatusPending,
			GatewayOrderID: &orderID,
		}
	}

	capturedBody := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_x1","order_id":"order_abc123","amount":300000,"status":"captured","method":"upi"}}}}`)

	t.Run("invalid signature", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.gateway.verifyWebhookSignatureFn = func(body []byte, signature string) bool { return false }

		err := deps.service.HandleWebhook(ctx, capturedBody, "bad-sig")
		assert.ErrorIs(t, err, paygatewayerrors.ErrInvalidWebhookSignature)
	})

	t.Run("payment captured settles the row", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByGatewayOrderIDForUpdateFn = func(ctx context.Context, oid string) (*payroll.SalaryPayment, error) {
			assert.Equal(t, orderID, oid)
			return row(), nil
		}
		var updated *payroll.SalaryPayment
		deps.repo.updateFn = func(ctx context.Context, p *payroll.SalaryPayment) error {
			updated = p
			return nil
		}

		expectTx(t, deps.sqlMock, true)
		err := deps.service.HandleWebhook(ctx, capturedBody, "sig")

		assert.NoError(t, err)
		if assert.NotNil(t, updated) {
			assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(3000)))
			assert.Equal(t, payroll.StatusPaid, updated.Status)
			assert.Equal(t, "upi", updated.PaymentMethod)
			if assert.NotNil(t, updated.GatewayPaymentID) {
				assert.Equal(t, "pay_x1", *updated.GatewayPaymentID)
			}
			assert.NotNil(t, updated.PaidAt)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown order is swallowed", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByGatewayOrderIDForUpdateFn = func(ctx context.Context, oid string) (*payroll.SalaryPayment, error) {
			return nil, gorm.ErrRecordNotFound
		}

		expectTx(t, deps.sqlMock, false)
		err := deps.service.HandleWebhook(ctx, capturedBody, "sig")
		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("payment failed keeps money columns", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByGatewayOrderIDForUpdateFn = func(ctx context.Context, oid string) (*payroll.SalaryPayment, error) {
			return row(), nil
		}
		var updated *payroll.SalaryPayment
		deps.repo.updateFn = func(ctx context.Context, p *payroll.SalaryPayment) error {
			updated = p
			return nil
		}

		failedBody := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_x2","order_id":"order_abc123","amount":300000,"status":"failed"}}}}`)

		expectTx(t, deps.sqlMock, true)
		err := deps.service.HandleWebhook(ctx, failedBody, "sig")

		assert.NoError(t, err)
		if assert.NotNil(t, updated) {
			assert.True(t, updated.PaidAmount.IsZero())
			assert.Equal(t, payroll.StatusPending, updated.Status)
			if assert.NotNil(t, updated.GatewayPaymentID) {
				assert.Equal(t, "pay_x2", *updated.GatewayPaymentID)
			}
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("refund subtracts and flags review", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		paymentID := "pay_x1"
		deps.repo.findByGatewayPaymentIDForUpdateFn = func(ctx context.Context, pid string) (*payroll.SalaryPayment, error) {
			assert.Equal(t, paymentID, pid)
			r := row()
			r.PaidAmount = decimal.NewFromInt(3000)
			r.PendingAmount = decimal.Zero
			r.Status = payroll.StatusPaid
			r.GatewayPaymentID = &paymentID
			return r, nil
		}
		var updated *payroll.SalaryPayment
		deps.repo.updateFn = func(ctx context.Context, p *payroll.SalaryPayment) error {
			updated = p
			return nil
		}

		refundBody := []byte(`{"event":"refund.created","payload":{"refund":{"entity":{"id":"rfnd_1","payment_id":"pay_x1","amount":100000}}}}`)

		expectTx(t, deps.sqlMock, true)
		err := deps.service.HandleWebhook(ctx, refundBody, "sig")

		assert.NoError(t, err)
		if assert.NotNil(t, updated) {
			assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(2000)))
			assert.True(t, updated.PendingAmount.Equal(decimal.NewFromInt(1000)))
			assert.Equal(t, payroll.StatusPartial, updated.Status)
			assert.True(t, updated.RequiresReview)
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unrelated event ignored", func(t *testing.T) {
		deps := setupPayrollServiceTest(t)
		defer deps.db.Close()

		err := deps.service.HandleWebhook(ctx, []byte(`{"event":"order.paid","payload":{}}`), "sig")
		assert.NoError(t, err)
	})
}

func TestPayrollService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.GetByID(ctx, uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, payrollerrors.ErrPaymentNotFound)
}
