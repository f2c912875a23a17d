package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeValidationRequired, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeSessionExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Domain codes should be normalized
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"CONFLICT", ErrCodeConflict},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"UNAUTHORIZED", ErrCodeUnauthorized},
		{"VALIDATION_ERROR", ErrCodeValidation},
		{"BAD_REQUEST", ErrCodeBadRequest},
		{"INTERNAL_ERROR", ErrCodeInternal},
		// API codes should pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		{ErrCodeValidation, ErrCodeValidation},
		// Unknown codes should pass through unchanged
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestErrorCodeConstants(t *testing.T) {
	// Ensure all error codes are in the HTTP status map
	allCodes := []string{
		ErrCodeUnknown,
		ErrCodeInternal,
		ErrCodeValidation,
		ErrCodeValidationRequired,
		ErrCodeValidationFormat,
		ErrCodeValidationRange,
		ErrCodeUnauthorized,
		ErrCodeSessionExpired,
		ErrCodeNotFound,
		ErrCodeAlreadyExists,
		ErrCodeConflict,
		ErrCodeConcurrencyConflict,
		ErrCodeInvalidState,
		ErrCodeBusinessRule,
		ErrCodeBadRequest,
		ErrCodeInvalidInput,
		ErrCodeInvalidJSON,
	}

	for _, code := range allCodes {
		t.Run(code, func(t *testing.T) {
			status, ok := ErrorCodeHTTPStatus[code]
			assert.True(t, ok, "Error code %s should be in ErrorCodeHTTPStatus map", code)
			assert.Greater(t, status, 0, "Status code should be positive")
		})
	}
}

func TestErrorCodeFormat(t *testing.T) {
	// All error codes should follow ERR_ prefix convention
	allCodes := []string{
		ErrCodeUnknown,
		ErrCodeInternal,
		ErrCodeValidation,
		ErrCodeUnauthorized,
		ErrCodeNotFound,
		ErrCodeInvalidState,
	}

	for _, code := range allCodes {
		t.Run(code, func(t *testing.T) {
			assert.Contains(t, code, "ERR_", "Error code should start with ERR_")
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrCodeNotFound, "Resource not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Resource not found", resp.Error.Message)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	requestID := "req-123-456"
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Resource not found", requestID)

	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Resource not found", resp.Error.Message)
	assert.Equal(t, requestID, resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "amount", Message: "Must be positive"},
		{Field: "justification", Message: "Required"},
	}
	requestID := "req-789"

	resp := NewValidationErrorResponse("Validation failed", requestID, details)

	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Validation failed", resp.Error.Message)
	assert.Equal(t, requestID, resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "amount", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be positive", resp.Error.Details[0].Message)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Sale not found", "req-test-123")

	data, err := json.Marshal(resp)
	assert.NoError(t, err)

	var decoded Response
	err = json.Unmarshal(data, &decoded)
	assert.NoError(t, err)

	assert.False(t, decoded.Success)
	assert.NotNil(t, decoded.Error)
	assert.Equal(t, ErrCodeNotFound, decoded.Error.Code)
	assert.Equal(t, "Sale not found", decoded.Error.Message)
	assert.Equal(t, "req-test-123", decoded.Error.RequestID)
}

func TestNewSuccessResponse(t *testing.T) {
	data := map[string]string{"name": "test"}
	resp := NewSuccessResponse(data)

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	data := []string{"item1", "item2"}
	resp := NewSuccessResponseWithMeta(data, 100, 1, 10)

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Meta)
	assert.Equal(t, int64(100), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PageSize)
	assert.Equal(t, 10, resp.Meta.TotalPages)
}

func TestNewSuccessResponseWithMetaPagination(t *testing.T) {
	tests := []struct {
		total         int64
		page          int
		pageSize      int
		expectedPages int
		expectedSize  int
	}{
		{100, 1, 10, 10, 10},
		{101, 1, 10, 11, 10}, // Partial page
		{0, 1, 10, 0, 10},
		{9, 1, 10, 1, 10},
		{10, 1, 10, 1, 10},
		{11, 1, 10, 2, 10},
		// Edge case: zero pageSize should default to 20
		{100, 1, 0, 5, 20},
		{100, 1, -1, 5, 20},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, tt.page, tt.pageSize)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
		assert.Equal(t, tt.expectedSize, resp.Meta.PageSize)
	}
}

func TestListRequestToFilter(t *testing.T) {
	t.Run("applies defaults for zero values", func(t *testing.T) {
		filter := ListRequest{}.ToFilter()
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 20, filter.PageSize)
		assert.Equal(t, "created_at", filter.OrderBy)
		assert.Equal(t, "desc", filter.OrderDir)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		req := ListRequest{Page: 3, PageSize: 50, OrderBy: "name", OrderDir: "asc", Search: "arroz"}
		filter := req.ToFilter()
		assert.Equal(t, 3, filter.Page)
		assert.Equal(t, 50, filter.PageSize)
		assert.Equal(t, "name", filter.OrderBy)
		assert.Equal(t, "asc", filter.OrderDir)
		assert.Equal(t, "arroz", filter.Search)
	})
}
