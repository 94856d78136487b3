package payrollerrors

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
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"month must be between 1 and 12",
		http.StatusBadRequest,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payment year",
		http.StatusBadRequest,
	)
	ErrInvalidPaidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"paid amount must be zero or positive",
		http.StatusBadRequest,
	)
	ErrInvalidMoneyValue = apperror.New(
		apperror.CodeInvalidInput,
		"bonus and penalty cannot be negative",
		http.StatusBadRequest,
	)
	ErrInvalidDayCounts = apperror.New(
		apperror.CodeInvalidInput,
		"working and present day counts cannot be negative",
		http.StatusBadRequest,
	)
	ErrTeacherNotInSchool = apperror.New(
		apperror.CodeInvalidInput,
		"teacher does not belong to this school",
		http.StatusBadRequest,
	)
	ErrPaymentNotFound = apperror.New(
		apperror.CodeNotFound,
		"salary payment not found",
		http.StatusNotFound,
	)
	ErrBankDetailsMissing = apperror.New(
		apperror.CodeInvalidState,
		"teacher has no bank details on file for online disbursement",
		http.StatusBadRequest,
	)
	ErrInvalidWebhookBody = apperror.New(
		apperror.CodeInvalidInput,
		"webhook body could not be parsed",
		http.StatusBadRequest,
	)
	ErrNothingToDisburse = apperror.New(
		apperror.CodeInvalidState,
		"salary payment has no pending amount to disburse",
		http.StatusBadRequest,
	)
)
