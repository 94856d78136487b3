package schoolerrors

import (
	"net/http"

	"go-sms/internal/shared/apperror"
)

var (
	ErrInvalidSchoolID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid school id",
		http.StatusBadRequest,
	)
	ErrSchoolNotFound = apperror.New(
		apperror.CodeNotFound,
		"school not found",
		http.StatusNotFound,
	)
	ErrInvalidAffiliationType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid affiliation type",
		http.StatusBadRequest,
	)
	ErrMissingRequiredFields = apperror.New(
		apperror.CodeInvalidInput,
		"missing required fields",
		http.StatusBadRequest,
	)
	ErrInvalidWorkingDays = apperror.New(
		apperror.CodeInvalidInput,
		"monthly_working_days must be between 1 and 31",
		http.StatusBadRequest,
	)
)
