package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-sms/internal/events"
	"go-sms/internal/leavebalance"
	"go-sms/internal/salary"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeTeacherLifecycle provisions payroll and leave state for newly
// onboarded teachers: current-year leave balances plus a zeroed salary
// configuration that HR fills in later. Both writes are idempotent, so
// replays of the same event settle as no-ops.
func ConsumeTeacherLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	balanceService leavebalance.Service,
	salaryService salary.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.teacher_lifecycle")
	log.Info("teacher lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("teacher lifecycle consumer stopped")
				return
			}
			log.Error("fetch teacher lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.TeacherOnboardedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode teacher_onboarded event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		year := event.JoinYear
		if year == 0 {
			year = time.Now().UTC().Year()
		}

		if _, err := balanceService.InitializeBalances(ctx, event.SchoolID, event.TeacherID, year); err != nil {
			log.Error("initialize leave balances failed",
				zap.String("teacher_id", event.TeacherID),
				zap.String("school_id", event.SchoolID),
				zap.Error(err),
			)
			continue
		}

		effectiveFrom := time.Now().UTC().Format("2006-01-02")
		_, err = salaryService.Create(ctx, event.SchoolID, salary.CreateSalaryConfigurationRequest{
			TeacherID:     event.TeacherID,
			Basic:         "0",
			EffectiveFrom: effectiveFrom,
		})
		if err != nil && !isUniqueConfigViolation(err) {
			log.Error("create draft salary configuration failed",
				zap.String("teacher_id", event.TeacherID),
				zap.String("school_id", event.SchoolID),
				zap.Error(err),
			)
			continue
		}
		if err != nil {
			log.Warn("salary configuration already exists for event, skipping",
				zap.String("teacher_id", event.TeacherID),
				zap.String("school_id", event.SchoolID),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit teacher lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("teacher provisioned from teacher_onboarded event",
			zap.String("teacher_id", event.TeacherID),
			zap.String("school_id", event.SchoolID),
			zap.Int("year", year),
		)
	}
}

func isUniqueConfigViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "salary_configurations")
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "salary_configurations")
}
