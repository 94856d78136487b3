package classerrors

import (
	"net/http"

	"go-sms/internal/shared/apperror"
)

var (
	ErrClassNotFound = apperror.New(
		apperror.CodeNotFound,
		"class not found",
		http.StatusNotFound,
	)
	ErrDuplicateClass = apperror.New(
		apperror.CodeConflict,
		"a class with this grade and section already exists for the academic year",
		http.StatusConflict,
	)
	ErrInvalidClassTeacher = apperror.New(
		apperror.CodeInvalidInput,
		"class teacher must be an existing teacher in this school",
		http.StatusBadRequest,
	)
)
