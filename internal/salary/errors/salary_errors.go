package salaryerrors

import (
	"net/http"

	"go-sms/internal/shared/apperror"
)

var (
	ErrInvalidTeacherID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid teacher id",
		http.StatusBadRequest,
	)
	ErrTeacherNotInSchool = apperror.New(
		apperror.CodeInvalidInput,
		"teacher does not belong to this school",
		http.StatusBadRequest,
	)
	ErrSalaryConfigNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary configuration not found",
		http.StatusNotFound,
	)
	ErrNoActiveSalaryConfig = apperror.New(
		apperror.CodeInvalidState,
		"no active salary configuration for this teacher",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"salary components must be non-negative numbers",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveFrom = apperror.New(
		apperror.CodeInvalidInput,
		"invalid effective_from format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
