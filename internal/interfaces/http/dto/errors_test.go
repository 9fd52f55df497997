package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/sellerdesk/backend/internal/domain/marketplace"
	"github.com/sellerdesk/backend/internal/domain/shared"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "product not found",
			err:        catalog.ErrProductNotFound,
			wantCode:   ErrCodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrapped account not found",
			err:        fmt.Errorf("resolving account: %w", marketplace.ErrAccountNotFound),
			wantCode:   ErrCodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "duplicate listing",
			err:        marketplace.ErrListingAlreadyExists,
			wantCode:   ErrCodeDuplicateLink,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "vendor rejection",
			err:        marketplace.ErrVendorRequestFailed,
			wantCode:   ErrCodeVendorError,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "missing remote question id",
			err:        marketplace.ErrQuestionRemoteIDMissing,
			wantCode:   ErrCodeRemoteIDMissing,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "domain error keeps its own code",
			err:        shared.NewDomainError("EMPTY_RESULT", "no usable rows found, check the file format"),
			wantCode:   ErrCodeEmptyResult,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "unknown error collapses to internal",
			err:        errors.New("pq: connection refused"),
			wantCode:   ErrCodeInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := MapError(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, GetHTTPStatus(code))
			assert.NotEmpty(t, message)
		})
	}
}

func TestMapError_InternalErrorDoesNotLeak(t *testing.T) {
	_, message := MapError(errors.New("password authentication failed for user postgres"))
	assert.NotContains(t, message, "postgres")
}
