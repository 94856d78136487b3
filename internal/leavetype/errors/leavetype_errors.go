package leavetypeerrors

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
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type not found",
		http.StatusNotFound,
	)
	ErrDuplicateCode = apperror.New(
		apperror.CodeConflict,
		"leave type code already exists for this school",
		http.StatusConflict,
	)
	ErrInvalidQuota = apperror.New(
		apperror.CodeInvalidInput,
		"annual_quota must be a non-negative number",
		http.StatusBadRequest,
	)
	ErrInvalidCarryForward = apperror.New(
		apperror.CodeInvalidInput,
		"max_carry_forward_days must be a non-negative number",
		http.StatusBadRequest,
	)
	ErrLeaveTypeInactive = apperror.New(
		apperror.CodeInvalidState,
		"leave type is inactive",
		http.StatusBadRequest,
	)
	ErrLeaveTypeInUse = apperror.New(
		apperror.CodeInvalidState,
		"leave type is referenced by existing balances",
		http.StatusBadRequest,
	)
)
