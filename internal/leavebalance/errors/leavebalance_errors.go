package leavebalanceerrors

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
	ErrInvalidTeacherID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid teacher id",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year",
		http.StatusBadRequest,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found",
		http.StatusNotFound,
	)
	ErrLedgerCorrupt = apperror.New(
		apperror.CodeInternalError,
		"leave balance ledger is inconsistent",
		http.StatusInternalServerError,
	)
)
