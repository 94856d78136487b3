package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-sms/internal/attendance"
	"go-sms/internal/events"
	"go-sms/internal/messaging/kafka"
	"go-sms/internal/paygateway"
	paygatewayerrors "go-sms/internal/paygateway/errors"
	payrollerrors "go-sms/internal/payroll/errors"
	"go-sms/internal/salary"
	salaryerrors "go-sms/internal/salary/errors"
	"go-sms/internal/shared/contextutil"
	"go-sms/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	gatewayEventPaymentCaptured = "payment.captured"
	gatewayEventPaymentFailed   = "payment.failed"
	gatewayEventRefundCreated   = "refund.created"
)

// AttendanceSource supplies present-day counts when the caller omits them.
// Satisfied by attendance.Service.
type AttendanceSource interface {
	MonthlySummary(ctx context.Context, schoolID, teacherID string, month, year int) (attendance.MonthlySummaryResponse, error)
}

// LeaveSource supplies approved unpaid leave days for the payment month.
type LeaveSource interface {
	UnpaidDaysInMonth(ctx context.Context, schoolID, teacherID string, month, year int) (decimal.Decimal, error)
}

// WorkingDaysSource supplies the school's working-days override, 0 when unset.
type WorkingDaysSource interface {
	MonthlyWorkingDays(ctx context.Context, schoolID string) (int, error)
}

type Service interface {
	RecordPayment(ctx context.Context, schoolID string, req RecordPaymentRequest) (SalaryPaymentResponse, error)
	Disburse(ctx context.Context, schoolID, paymentID string) (SalaryPaymentResponse, error)
	GetAll(ctx context.Context, schoolID string, month, year int) ([]SalaryPaymentResponse, error)
	GetByTeacher(ctx context.Context, schoolID, teacherID string) ([]SalaryPaymentResponse, error)
	GetByID(ctx context.Context, schoolID, id string) (SalaryPaymentResponse, error)
	Payslip(ctx context.Context, schoolID, id string) ([]byte, string, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

type service struct {
	db         *sql.DB
	repo       Repository
	salaryRepo salary.Repository
	counter    counter.Repository
	outbox     kafka.OutboxRepository
	gateway    paygateway.Gateway
	attendance AttendanceSource
	leave      LeaveSource
	school     WorkingDaysSource
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	salaryRepo salary.Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	gateway paygateway.Gateway,
	attendanceSource AttendanceSource,
	leaveSource LeaveSource,
	workingDaysSource WorkingDaysSource,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		salaryRepo: salaryRepo,
		counter:    counterRepo,
		outbox:     outboxRepo,
		gateway:    gateway,
		attendance: attendanceSource,
		leave:      leaveSource,
		school:     workingDaysSource,
		logger:     l,
	}
}

func (s *service) RecordPayment(ctx context.Context, schoolID string, req RecordPaymentRequest) (SalaryPaymentResponse, error) {
	resp, err := s.recordPaymentOnce(ctx, schoolID, req)
	if isPeriodConflict(err) {
		// A concurrent call won the insert; the retry folds this payment
		// into the existing row.
		return s.recordPaymentOnce(ctx, schoolID, req)
	}
	return resp, err
}

func (s *service) recordPaymentOnce(ctx context.Context, schoolID string, req RecordPaymentRequest) (SalaryPaymentResponse, error) {
	paid, err := parseMoney(req.PaidAmount)
	if err != nil || paid.IsNegative() {
		return SalaryPaymentResponse{}, payrollerrors.ErrInvalidPaidAmount
	}
	bonus, err := parseMoney(req.Bonus)
	if err != nil || bonus.IsNegative() {
		return SalaryPaymentResponse{}, payrollerrors.ErrInvalidMoneyValue
	}
	penalty, err := parseMoney(req.Penalty)
	if err != nil || penalty.IsNegative() {
		return SalaryPaymentResponse{}, payrollerrors.ErrInvalidMoneyValue
	}
	if (req.WorkingDays != nil && *req.WorkingDays < 0) || (req.PresentDays != nil && *req.PresentDays < 0) {
		return SalaryPaymentResponse{}, payrollerrors.ErrInvalidDayCounts
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryPaymentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.TeacherBelongsToSchool(ctx, schoolID, req.TeacherID)
	if err != nil {
		s.logger.Error("record payment teacher school check failed", zap.Error(err))
		return SalaryPaymentResponse{}, err
	}
	if !belongs {
		return SalaryPaymentResponse{}, payrollerrors.ErrTeacherNotInSchool
	}

	existing, err := qtx.FindForUpdate(ctx, schoolID, req.TeacherID, req.Month, req.Year)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("record payment period lock failed", zap.Error(err))
		return SalaryPaymentResponse{}, err
	}

	var row *SalaryPayment
	if existing != nil && err == nil {
		row = s.accumulatePayment(existing, paid, req.Notes)
		if err := qtx.Update(ctx, row); err != nil {
			s.logger.Error("record payment accumulate persist failed", zap.Error(err))
			return SalaryPaymentResponse{}, err
		}
	} else {
		row, err = s.createPayment(ctx, tx, qtx, schoolID, req, paid, bonus, penalty)
		if err != nil {
			return SalaryPaymentResponse{}, err
		}
	}

	if err := s.emitPaymentRecorded(ctx, tx, row); err != nil {
		return SalaryPaymentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("record payment commit failed", zap.Error(err))
		return SalaryPaymentResponse{}, err
	}

	s.logger.Info("record payment success",
		zap.String("payment_id", row.ID.String()),
		zap.String("teacher_id", req.TeacherID),
		zap.String("slip_number", row.SlipNumber),
		zap.String("paid_amount", row.PaidAmount.String()),
		zap.String("status", row.Status),
	)

	return mapToResponse(*row), nil
}

// accumulatePayment applies an incremental payment against the locked row.
// Net, breakdown and slip number stay frozen from first creation.
func (s *service) accumulatePayment(p *SalaryPayment, paid decimal.Decimal, notes *string) *SalaryPayment {
	p.PaidAmount = p.PaidAmount.Add(paid)
	p.PendingAmount = p.NetAmount.Sub(p.PaidAmount)
	p.Status = statusFor(p.PaidAmount, p.PendingAmount)
	if notes != nil {
		p.Notes = notes
	}
	if p.Status == StatusPaid && p.PaidAt == nil {
		now := time.Now().UTC()
		p.PaidAt = &now
	}
	return p
}

func (s *service) createPayment(
	ctx context.Context,
	tx *sql.Tx,
	qtx Repository,
	schoolID string,
	req RecordPaymentRequest,
	paid, bonus, penalty decimal.Decimal,
) (*SalaryPayment, error) {
	cfg, err := s.salaryRepo.WithTx(tx).FindActiveByTeacher(ctx, schoolID, req.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salaryerrors.ErrNoActiveSalaryConfig
		}
		s.logger.Error("record payment config lookup failed", zap.Error(err))
		return nil, err
	}

	workingDays, presentDays, presentKnown, err := s.resolveDayCounts(ctx, schoolID, req)
	if err != nil {
		return nil, err
	}

	unpaidLeaveDays := decimal.Zero
	if s.leave != nil {
		unpaidLeaveDays, err = s.leave.UnpaidDaysInMonth(ctx, schoolID, req.TeacherID, req.Month, req.Year)
		if err != nil {
			s.logger.Error("record payment unpaid leave lookup failed", zap.Error(err))
			return nil, err
		}
	}

	net := ComputeMonthlyNet(*cfg, workingDays, presentDays, presentKnown, bonus, penalty, unpaidLeaveDays)
	pending := net.Sub(paid)
	status := statusFor(paid, pending)

	nextVal, err := s.counter.GetNextValue(ctx, schoolID, "salary_slip")
	if err != nil {
		s.logger.Error("record payment generate slip number failed", zap.Error(err))
		return nil, err
	}

	row := &SalaryPayment{
		ID:              uuid.New(),
		SchoolID:        uuid.MustParse(schoolID),
		TeacherID:       uuid.MustParse(req.TeacherID),
		PaymentMonth:    req.Month,
		PaymentYear:     req.Year,
		GrossAmount:     GrossSalary(*cfg),
		TotalDeductions: TotalDeductions(*cfg),
		NetAmount:       net,
		PaidAmount:      paid,
		PendingAmount:   pending,
		Bonus:           bonus,
		Penalty:         penalty,
		WorkingDays:     workingDays,
		PresentDays:     presentDays,
		UnpaidLeaveDays: unpaidLeaveDays,
		Status:          status,
		RequiresReview:  net.IsNegative(),
		SlipNumber:      fmt.Sprintf("SLP-%d%02d-%04d", req.Year, req.Month, nextVal),
		Breakdown:       buildBreakdown(*cfg, workingDays, presentDays, bonus, penalty, unpaidLeaveDays, net),
		Notes:           req.Notes,
	}
	if status == StatusPaid {
		now := time.Now().UTC()
		row.PaidAt = &now
	}

	if err := qtx.Create(ctx, row); err != nil {
		if !isPeriodConflict(err) {
			s.logger.Error("record payment persist failed", zap.Error(err))
		}
		return nil, err
	}

	return row, nil
}

// resolveDayCounts also reports whether a present-day figure was actually
// supplied. A caller's explicit value always counts; attendance records
// count only when the month has marked days, so an untracked month is not
// mistaken for a fully absent one.
func (s *service) resolveDayCounts(ctx context.Context, schoolID string, req RecordPaymentRequest) (int, int, bool, error) {
	workingDays := 0
	if req.WorkingDays != nil {
		workingDays = *req.WorkingDays
	} else if s.school != nil {
		override, err := s.school.MonthlyWorkingDays(ctx, schoolID)
		if err != nil {
			s.logger.Error("record payment working days lookup failed", zap.Error(err))
			return 0, 0, false, err
		}
		workingDays = override
	}
	if workingDays <= 0 {
		workingDays = defaultMonthlyWorkingDays
	}

	presentDays := 0
	presentKnown := false
	if req.PresentDays != nil {
		presentDays = *req.PresentDays
		presentKnown = true
	} else if s.attendance != nil {
		summary, err := s.attendance.MonthlySummary(ctx, schoolID, req.TeacherID, req.Month, req.Year)
		if err != nil {
			s.logger.Error("record payment attendance lookup failed", zap.Error(err))
			return 0, 0, false, err
		}
		presentDays = summary.PresentDays
		presentKnown = summary.MarkedDays > 0
	}

	return workingDays, presentDays, presentKnown, nil
}

func (s *service) emitPaymentRecorded(ctx context.Context, tx *sql.Tx, row *SalaryPayment) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.SalaryPaymentRecordedEvent{
		EventType:    "salary_payment_recorded",
		RequestID:    rid,
		PaymentID:    row.ID.String(),
		SchoolID:     row.SchoolID.String(),
		TeacherID:    row.TeacherID.String(),
		PaymentMonth: row.PaymentMonth,
		PaymentYear:  row.PaymentYear,
		SlipNumber:   row.SlipNumber,
		Status:       row.Status,
		OccurredAt:   time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "salary_payment",
		AggregateID:   row.ID.String(),
		EventType:     event.EventType,
		Topic:         events.SalaryPaymentRecordedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("record payment outbox persist failed",
			zap.String("payment_id", row.ID.String()),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// Disburse pushes the pending amount through the payment gateway. A gateway
// failure leaves the local row untouched so the call can be retried.
func (s *service) Disburse(ctx context.Context, schoolID, paymentID string) (SalaryPaymentResponse, error) {
	if _, err := uuid.Parse(paymentID); err != nil {
		return SalaryPaymentResponse{}, payrollerrors.ErrPaymentNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryPaymentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDForUpdate(ctx, schoolID, paymentID)
	if err != nil {
		return SalaryPaymentResponse{}, mapRepositoryError(err)
	}
	if p.PendingAmount.LessThanOrEqual(decimal.Zero) {
		return SalaryPaymentResponse{}, payrollerrors.ErrNothingToDisburse
	}

	cfg, err := s.salaryRepo.WithTx(tx).FindActiveByTeacher(ctx, schoolID, p.TeacherID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalaryPaymentResponse{}, salaryerrors.ErrNoActiveSalaryConfig
		}
		s.logger.Error("disburse config lookup failed", zap.Error(err))
		return SalaryPaymentResponse{}, err
	}
	if !cfg.HasBankDetails() {
		return SalaryPaymentResponse{}, payrollerrors.ErrBankDetailsMissing
	}
	if s.gateway == nil {
		return SalaryPaymentResponse{}, paygatewayerrors.ErrGatewayFailure
	}

	order, err := s.gateway.CreateOrder(ctx, p.PendingAmount, "INR", p.SlipNumber, map[string]string{
		"payment_id": p.ID.String(),
		"teacher_id": p.TeacherID.String(),
		"school_id":  schoolID,
	})
	if err != nil {
		s.logger.Warn("disburse gateway order failed",
			zap.String("payment_id", p.ID.String()),
			zap.Error(err),
		)
		return SalaryPaymentResponse{}, err
	}

	p.GatewayOrderID = &order.ID
	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("disburse persist failed", zap.Error(err))
		return SalaryPaymentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("disburse commit failed", zap.Error(err))
		return SalaryPaymentResponse{}, err
	}

	s.logger.Info("disburse order created",
		zap.String("payment_id", p.ID.String()),
		zap.String("gateway_order_id", order.ID),
		zap.String("amount", p.PendingAmount.String()),
	)

	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, schoolID string, month, year int) ([]SalaryPaymentResponse, error) {
	rows, err := s.repo.FindAllBySchool(ctx, schoolID, month, year)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByTeacher(ctx context.Context, schoolID, teacherID string) ([]SalaryPaymentResponse, error) {
	if _, err := uuid.Parse(teacherID); err != nil {
		return nil, payrollerrors.ErrInvalidTeacherID
	}
	rows, err := s.repo.FindByTeacher(ctx, schoolID, teacherID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, schoolID, id string) (SalaryPaymentResponse, error) {
	p, err := s.repo.FindByIDAndSchool(ctx, schoolID, id)
	if err != nil {
		return SalaryPaymentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) Payslip(ctx context.Context, schoolID, id string) ([]byte, string, error) {
	p, err := s.repo.FindByIDAndSchool(ctx, schoolID, id)
	if err != nil {
		return nil, "", mapRepositoryError(err)
	}

	pdf, err := buildSalarySlipPDF(slipLines(*p))
	if err != nil {
		return nil, "", err
	}
	return pdf, p.SlipNumber + ".pdf", nil
}

// HandleWebhook applies a gateway event to the matching local payment.
// Records are matched only by the identifiers the gateway issued.
func (s *service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if s.gateway == nil || !s.gateway.VerifyWebhookSignature(body, signature) {
		return paygatewayerrors.ErrInvalidWebhookSignature
	}

	var envelope gatewayWebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return payrollerrors.ErrInvalidWebhookBody
	}

	switch envelope.Event {
	case gatewayEventPaymentCaptured:
		return s.applyPaymentCaptured(ctx, envelope)
	case gatewayEventPaymentFailed:
		return s.applyPaymentFailed(ctx, envelope)
	case gatewayEventRefundCreated:
		return s.applyRefundCreated(ctx, envelope)
	default:
		s.logger.Debug("webhook event ignored", zap.String("event", envelope.Event))
		return nil
	}
}

func (s *service) applyPaymentCaptured(ctx context.Context, envelope gatewayWebhookEnvelope) error {
	entity := envelope.Payload.Payment.Entity

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	p, err := qtx.FindByGatewayOrderIDForUpdate(ctx, entity.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("webhook capture for unknown order",
				zap.String("gateway_order_id", entity.OrderID),
			)
			return nil
		}
		return err
	}

	captured := decimal.NewFromInt(entity.Amount).Div(decimal.NewFromInt(100))
	p.GatewayPaymentID = &entity.ID
	p.PaymentMethod = entity.Method
	p.PaidAmount = p.PaidAmount.Add(captured)
	p.PendingAmount = p.NetAmount.Sub(p.PaidAmount)
	p.Status = statusFor(p.PaidAmount, p.PendingAmount)
	if p.Status == StatusPaid && p.PaidAt == nil {
		now := time.Now().UTC()
		p.PaidAt = &now
	}

	if err := qtx.Update(ctx, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("webhook capture applied",
		zap.String("payment_id", p.ID.String()),
		zap.String("gateway_payment_id", entity.ID),
		zap.String("captured", captured.String()),
	)
	return nil
}

func (s *service) applyPaymentFailed(ctx context.Context, envelope gatewayWebhookEnvelope) error {
	entity := envelope.Payload.Payment.Entity

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	p, err := qtx.FindByGatewayOrderIDForUpdate(ctx, entity.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("webhook failure for unknown order",
				zap.String("gateway_order_id", entity.OrderID),
			)
			return nil
		}
		return err
	}

	// Keep the attempt id for reconciliation; the money columns stay as
	// they were so the disbursement can be retried.
	p.GatewayPaymentID = &entity.ID
	if err := qtx.Update(ctx, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Warn("webhook payment failed",
		zap.String("payment_id", p.ID.String()),
		zap.String("gateway_payment_id", entity.ID),
	)
	return nil
}

func (s *service) applyRefundCreated(ctx context.Context, envelope gatewayWebhookEnvelope) error {
	entity := envelope.Payload.Refund.Entity

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	p, err := qtx.FindByGatewayPaymentIDForUpdate(ctx, entity.PaymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("webhook refund for unknown payment",
				zap.String("gateway_payment_id", entity.PaymentID),
			)
			return nil
		}
		return err
	}

	refunded := decimal.NewFromInt(entity.Amount).Div(decimal.NewFromInt(100))
	p.PaidAmount = p.PaidAmount.Sub(refunded)
	p.PendingAmount = p.NetAmount.Sub(p.PaidAmount)
	p.Status = statusFor(p.PaidAmount, p.PendingAmount)
	p.RequiresReview = true

	if err := qtx.Update(ctx, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("webhook refund applied",
		zap.String("payment_id", p.ID.String()),
		zap.String("refund_id", entity.ID),
		zap.String("refunded", refunded.String()),
	)
	return nil
}

func parseMoney(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(v)
}

func mapToResponse(p SalaryPayment) SalaryPaymentResponse {
	resp := SalaryPaymentResponse{
		ID:               p.ID.String(),
		SchoolID:         p.SchoolID.String(),
		TeacherID:        p.TeacherID.String(),
		PaymentMonth:     p.PaymentMonth,
		PaymentYear:      p.PaymentYear,
		GrossAmount:      p.GrossAmount.String(),
		TotalDeductions:  p.TotalDeductions.String(),
		NetAmount:        p.NetAmount.String(),
		PaidAmount:       p.PaidAmount.String(),
		PendingAmount:    p.PendingAmount.String(),
		Bonus:            p.Bonus.String(),
		Penalty:          p.Penalty.String(),
		WorkingDays:      p.WorkingDays,
		PresentDays:      p.PresentDays,
		UnpaidLeaveDays:  p.UnpaidLeaveDays.String(),
		Status:           p.Status,
		RequiresReview:   p.RequiresReview,
		SlipNumber:       p.SlipNumber,
		Breakdown:        p.Breakdown,
		GatewayOrderID:   p.GatewayOrderID,
		GatewayPaymentID: p.GatewayPaymentID,
		PaymentMethod:    p.PaymentMethod,
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
	if p.TeacherRef != nil {
		resp.TeacherName = p.TeacherRef.FullName
	}
	if p.PaidAt != nil {
		v := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	return resp
}

func mapToListResponse(rows []SalaryPayment) []SalaryPaymentResponse {
	resp := make([]SalaryPaymentResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp
}
