package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"docextract/internal/domain"
	"docextract/internal/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{fmt.Errorf("wrapped: %w", domain.ErrProductNotFound), http.StatusNotFound, "PRODUCT_NOT_FOUND"},
		{domain.ErrCustomerNotFound, http.StatusNotFound, "CUSTOMER_NOT_FOUND"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrEmptyFile, http.StatusBadRequest, "EMPTY_FILE"},
		{domain.ErrInvalidDocument, http.StatusBadRequest, "INVALID_DOCUMENT"},
		{domain.ErrNoProviderConfigured, http.StatusServiceUnavailable, "NO_PROVIDER_CONFIGURED"},
		{domain.ErrExtractionFailed, http.StatusUnprocessableEntity, "EXTRACTION_FAILED"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestMapDomainError_ExtractionFailedKeepsDetail(t *testing.T) {
	err := fmt.Errorf("%w: All providers failed. Primary (openai): timeout; Fallback (gemini): HTTP 500", domain.ErrExtractionFailed)
	_, _, msg := handler.MapDomainError(err)
	assert.Contains(t, msg, "Primary (openai): timeout")
}

func TestNewPagMeta(t *testing.T) {
	assert.Equal(t, handler.PagMeta{Page: 1, PerPage: 20, Total: 45, TotalPages: 3, HasNext: true, HasPrev: false},
		handler.NewPagMeta(1, 20, 45))
	assert.Equal(t, handler.PagMeta{Page: 3, PerPage: 20, Total: 45, TotalPages: 3, HasNext: false, HasPrev: true},
		handler.NewPagMeta(3, 20, 45))
	assert.Equal(t, handler.PagMeta{Page: 1, PerPage: 20, Total: 0, TotalPages: 0},
		handler.NewPagMeta(1, 20, 0))
}
