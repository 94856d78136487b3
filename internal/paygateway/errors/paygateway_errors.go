package paygatewayerrors

import (
	"net/http"

	"go-sms/internal/shared/apperror"
)

var (
	ErrGatewayFailure = apperror.New(
		apperror.CodeServiceUnavailable,
		"payment gateway request failed",
		http.StatusServiceUnavailable,
	)
	ErrSignatureMismatch = apperror.New(
		apperror.CodeUnauthorized,
		"payment signature verification failed",
		http.StatusUnauthorized,
	)
	ErrInvalidWebhookSignature = apperror.New(
		apperror.CodeUnauthorized,
		"webhook signature verification failed",
		http.StatusUnauthorized,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"payment amount must be positive",
		http.StatusBadRequest,
	)
)
