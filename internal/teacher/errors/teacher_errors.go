package teachererrors

import (
	"net/http"

	"go-sms/internal/shared/apperror"
)

var (
	ErrTeacherNotFound = apperror.New(
		apperror.CodeNotFound,
		"teacher not found",
		http.StatusNotFound,
	)
	ErrTeacherAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"teacher with this email already exists",
		http.StatusConflict,
	)
	ErrStaffNumberAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"staff number already exists",
		http.StatusConflict,
	)
	ErrInvalidJoinDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid join_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
