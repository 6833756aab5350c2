package httpx

import (
	"errors"
	"net/http"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrInsufficientStock):
		Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	case errors.Is(err, shared.ErrInvalidTransition):
		Problem(w, http.StatusConflict, "Invalid Transition", err.Error())
	case errors.Is(err, shared.ErrDuplicateRecordNumber):
		Problem(w, http.StatusConflict, "Duplicate Record Number", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
