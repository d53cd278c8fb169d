package handler

import (
	"errors"
	"net/http"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

const internalErrorMessage = "the server encountered a problem and could not process your request"

func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	// If writing fails there is nothing better left than an empty 500.
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(500)
	}
}

// failedValidationResponse returns 422 UnprocessableEntity status.
// The request was well-formed but its values can not be processed; repeating it
// unchanged fails the same way.
func failedValidationResponse(w http.ResponseWriter, errors map[string]string) {
	errorResponse(w, http.StatusUnprocessableEntity, errors)
}

// badRequestResponse returns 400 BadRequest status, used for bodies and parameters
// that can not be decoded at all.
func badRequestResponse(w http.ResponseWriter, message any) {
	errorResponse(w, http.StatusBadRequest, message)
}

// internalErrorResponse returns 500 InternalServerError status without leaking details.
func internalErrorResponse(w http.ResponseWriter) {
	errorResponse(w, http.StatusInternalServerError, internalErrorMessage)
}

// serviceErrorResponse maps a service error to its status. Validation errors carry the
// offending field.
func serviceErrorResponse(w http.ResponseWriter, err error) {
	code := GetCode(err)

	var ve *types.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, code, envelope{"error": ve.Message, "field": ve.Field}, nil)
	case code == http.StatusInternalServerError:
		internalErrorResponse(w)
	default:
		errorResponse(w, code, rootMessage(err))
	}
}

// rootMessage returns the message of the first domain sentinel found in err, so clients
// see "rescue already assigned" rather than the internal wrapping chain.
func rootMessage(err error) string {
	for _, target := range sentinels {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

var sentinels = []error{
	types.ErrAlreadyResolved,
	types.ErrAlreadyAssigned,
	types.ErrRescueClosed,
	types.ErrInvalidCandidate,
	types.ErrDuplicateCandidate,
	types.ErrSelfCandidacy,
	types.ErrStaleLocation,
	types.ErrInvalidState,
	types.ErrEmptyContent,
	types.ErrContentTooLong,
	types.ErrRescueNotFound,
	types.ErrCandidateNotFound,
	types.ErrNotificationNotFound,
	types.ErrForbidden,
	types.ErrUnauthorized,
	types.ErrConnectionLost,
}

// GetCode maps domain errors to HTTP status codes. State errors are checked before
// Forbidden so that a report on a resolved rescue reads as a conflict.
func GetCode(err error) int {
	switch {
	case IsOneOf(err, types.ErrValidation, types.ErrEmptyContent, types.ErrContentTooLong):
		return http.StatusUnprocessableEntity
	case IsOneOf(err, types.ErrUnauthorized):
		return http.StatusUnauthorized
	case IsOneOf(err,
		types.ErrInvalidState, types.ErrAlreadyAssigned, types.ErrAlreadyResolved, types.ErrRescueClosed,
		types.ErrDuplicateCandidate, types.ErrSelfCandidacy, types.ErrInvalidCandidate, types.ErrStaleLocation):
		return http.StatusConflict
	case IsOneOf(err, types.ErrForbidden):
		return http.StatusForbidden
	case IsOneOf(err, types.ErrRescueNotFound, types.ErrCandidateNotFound, types.ErrNotificationNotFound):
		return http.StatusNotFound
	case IsOneOf(err, types.ErrConnectionLost):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func IsOneOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
