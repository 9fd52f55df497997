package dto

import (
	"errors"
	"net/http"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/sellerdesk/backend/internal/domain/marketplace"
	"github.com/sellerdesk/backend/internal/domain/shared"
)

// Error codes returned by the API. Domain errors are translated here so the
// services never need to know about HTTP.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"

	ErrCodeAlreadyExists         = "ALREADY_EXISTS"
	ErrCodeDuplicateLink         = "DUPLICATE_LINK"
	ErrCodeEmptyResult           = "EMPTY_RESULT"
	ErrCodeTargetRequired        = "TARGET_REQUIRED"
	ErrCodeInvalidOperation      = "INVALID_OPERATION"
	ErrCodeRemoteIDMissing       = "REMOTE_ID_MISSING"
	ErrCodeCredentialsIncomplete = "CREDENTIALS_INCOMPLETE"
	ErrCodeVendorError           = "VENDOR_ERROR"
	ErrCodeRequestTooLarge       = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeNotFound:     http.StatusNotFound,

	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeDuplicateLink: http.StatusConflict,

	// Shared domain error codes
	"INVALID_INPUT":        http.StatusBadRequest,
	"FORBIDDEN":            http.StatusForbidden,
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	ErrCodeEmptyResult:           http.StatusUnprocessableEntity,
	ErrCodeTargetRequired:        http.StatusUnprocessableEntity,
	ErrCodeInvalidOperation:      http.StatusUnprocessableEntity,
	ErrCodeRemoteIDMissing:       http.StatusUnprocessableEntity,
	ErrCodeCredentialsIncomplete: http.StatusUnprocessableEntity,

	// Upstream vendor failures -> 502 Bad Gateway
	ErrCodeVendorError: http.StatusBadGateway,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code, defaulting
// to 500 for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// sentinelCodes maps domain sentinel errors to API error codes. DomainError
// values carry their own code and bypass this table.
var sentinelCodes = []struct {
	err  error
	code string
}{
	{catalog.ErrProductNotFound, ErrCodeNotFound},
	{marketplace.ErrAccountNotFound, ErrCodeNotFound},
	{marketplace.ErrListingNotFound, ErrCodeNotFound},
	{marketplace.ErrQuestionNotFound, ErrCodeNotFound},

	{catalog.ErrProductBarcodeTaken, ErrCodeAlreadyExists},
	{marketplace.ErrListingAlreadyExists, ErrCodeDuplicateLink},
	{marketplace.ErrQuestionDuplicate, ErrCodeAlreadyExists},

	{marketplace.ErrQuestionRemoteIDMissing, ErrCodeRemoteIDMissing},
	{marketplace.ErrAccountCredentialsNeeded, ErrCodeCredentialsIncomplete},
	{marketplace.ErrListingInvalidRemoteID, ErrCodeBadRequest},
	{catalog.ErrProductInvalidName, ErrCodeBadRequest},
	{catalog.ErrProductInvalidBarcode, ErrCodeBadRequest},
	{catalog.ErrProductNegativeStock, ErrCodeBadRequest},
	{marketplace.ErrAccountInvalidPlatform, ErrCodeBadRequest},
	{marketplace.ErrAccountInvalidStoreName, ErrCodeBadRequest},

	{marketplace.ErrVendorUnavailable, ErrCodeVendorError},
	{marketplace.ErrVendorRequestFailed, ErrCodeVendorError},
	{marketplace.ErrVendorInvalidResponse, ErrCodeVendorError},
}

// MapError resolves any error to an API error code and message. Unrecognized
// errors collapse to INTERNAL_ERROR without leaking their text.
func MapError(err error) (code, message string) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code, domainErr.Message
	}
	for _, m := range sentinelCodes {
		if errors.Is(err, m.err) {
			return m.code, err.Error()
		}
	}
	return ErrCodeInternal, "An unexpected error occurred"
}
