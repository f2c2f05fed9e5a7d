package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewInvariantError("duplicate canonical key"),
			want: "[INVARIANT_VIOLATION] duplicate canonical key",
		},
		{
			name: "with cause",
			err:  NewDataFormatError("cannot parse value column", fmt.Errorf("strconv: bad syntax")),
			want: "[DATA_FORMAT] cannot parse value column: strconv: bad syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewDataFormatError("wrapping", cause)

	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeDataFormat, appErr.Type)
}

func TestIsType(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{"matching type", NewInsufficientDataError(1, 2), ErrTypeInsufficientData, true},
		{"wrapped matching type", fmt.Errorf("forecast: %w", NewInvalidParameterError("alpha", 1.5)), ErrTypeInvalidParameter, true},
		{"different type", NewNotFoundError("dataset"), ErrTypeInvariant, false},
		{"plain error", errors.New("plain"), ErrTypeDataFormat, false},
		{"nil error", nil, ErrTypeDataFormat, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsType(tt.err, tt.errType))
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	err := NewUnknownCountryError("Atlantis")

	assert.Equal(t, "Atlantis", err.Context["country"])

	err.WithContext("row", 42)
	assert.Equal(t, 42, err.Context["row"])
}

func TestFromAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"data format maps to 422", NewDataFormatError("bad header", nil), 422, "DATA_FORMAT"},
		{"invalid parameter maps to 400", NewInvalidParameterError("horizon", -1), 400, "INVALID_PARAMETER"},
		{"insufficient data maps to 400", NewInsufficientDataError(1, 2), 400, "INSUFFICIENT_DATA"},
		{"not found maps to 404", NewNotFoundError("series"), 404, "NOT_FOUND"},
		{"invariant maps to 500", NewInvariantError("dup"), 500, "INVARIANT_VIOLATION"},
		{"plain error maps to 500", errors.New("boom"), 500, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromAppError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}
}
