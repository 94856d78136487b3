package payroll

import (
	"errors"
	"strings"

	payrollerrors "go-sms/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPaymentNotFound
	}

	return err
}

// isPeriodConflict reports whether err is the unique violation on the
// (teacher, month, year) key. recordPayment retries as an update when a
// concurrent call won the first insert.
func isPeriodConflict(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_salary_payments_period"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_salary_payments_period")
}
