package apperrors

import (
	"fmt"
	"net/http"
)

// Factories for the error taxonomy used by the customization subsystem.
//
// NotFound and Invalid conditions are surfaced to the caller and never
// retried. IOFailure aborts the current finalization call and is safe to
// retry. Sanitization residue is never raised as an error at all; it is
// reported through the finalize result.

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// NewNotFoundError builds a 404 for a named entity.
func NewNotFoundError(domain, entity, id string) *AppError {
	return New(CodeNotFound, domain, fmt.Sprintf("%s %q not found", entity, id), http.StatusNotFound)
}

// ErrInvalidOperation builds a 400 for an operation the current state
// does not allow.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus builds a 400 for a state-machine violation.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrIOFailure wraps a disk or network failure during upload or file
// reads. Finalization aborts on these so the idempotency flag is never
// persisted for a partially uploaded order.
func ErrIOFailure(err error, domain, message string) *AppError {
	return Wrap(err, CodeIOFailure, domain, message, http.StatusBadGateway)
}

// ErrConflict builds a generic 409.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// --- Uploads & files ---

// ErrFileTooLarge rejects an upload above the configured per-file limit.
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType rejects a MIME type outside the allow list.
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// ErrUnsupportedAssetScheme rejects an asset reference whose URL scheme
// the uploader does not handle.
var ErrUnsupportedAssetScheme = New(
	CodeValidationFailed,
	"finalize",
	"Asset reference uses an unsupported URL scheme",
	http.StatusBadRequest,
)

