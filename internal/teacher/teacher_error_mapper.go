package teacher

import (
	"errors"
	"strings"

	teachererrors "go-sms/internal/teacher/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return teachererrors.ErrTeacherNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_teacher_staff_number":
				return teachererrors.ErrStaffNumberAlreadyExists
			case "uq_teacher_email":
				return teachererrors.ErrTeacherAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_teacher_staff_number") {
		return teachererrors.ErrStaffNumberAlreadyExists
	}
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_teacher_email") {
		return teachererrors.ErrTeacherAlreadyExists
	}

	return err
}
