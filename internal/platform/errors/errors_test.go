package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("dial tcp: timeout")

	tests := []struct {
		name       string
		err        *Error
		wantType   ErrorType
		wantStatus int
		userFacing bool
	}{
		{"validation", ValidationError("Please upload a CSV file"), TypeValidation, http.StatusBadRequest, true},
		{"not found", NotFoundError("No map data for this id"), TypeNotFound, http.StatusNotFound, true},
		{"conflict", ConflictError("Username already exists"), TypeConflict, http.StatusConflict, true},
		{"internal", InternalError("Stored records could not be read", cause), TypeInternal, http.StatusInternalServerError, false},
		{"external", ExternalError("A required model is currently unavailable", cause), TypeExternal, http.StatusBadGateway, false},
		{"unknown type", &Error{Type: "weird", Message: "?"}, "weird", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus())
			assert.Equal(t, tt.userFacing, tt.err.UserFacing())
		})
	}
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "validation: Please enter a search term", ValidationError("Please enter a search term").Error())

	err := ExternalError("News search failed", errors.New("status 429"))
	assert.Equal(t, "external: News search failed: status 429", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	sentinel := errors.New("model loading")
	err := ExternalError("A required model is currently unavailable", fmt.Errorf("summarize: %w", sentinel))

	assert.ErrorIs(t, err, sentinel)
}

func TestWithField(t *testing.T) {
	err := ValidationError("Please correct the highlighted fields").
		WithField("Email", "must be a valid email address").
		WithField("Rating", "must be between 1 and 5")

	assert.Equal(t, map[string]any{
		"Email":  "must be a valid email address",
		"Rating": "must be between 1 and 5",
	}, err.Context)
}

func TestWithField_OverwritesAndInitialisesNilContext(t *testing.T) {
	err := &Error{Type: TypeNotFound, Message: "No map data for this id"}

	err.WithContext("id", "a1").WithContext("id", "b2")

	assert.Equal(t, "b2", err.Context["id"])
}

func TestToResponse(t *testing.T) {
	resp := ConflictError("Username already exists").WithField("Username", "taken").ToResponse()

	assert.Equal(t, ErrorResponse{
		Error:   "Username already exists",
		Type:    TypeConflict,
		Context: map[string]any{"Username": "taken"},
	}, resp)
}

func TestAsStructuredError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, AsStructuredError(nil))
	})

	t.Run("wrapped structured error", func(t *testing.T) {
		inner := NotFoundError("No map data for this id")
		got := AsStructuredError(fmt.Errorf("markers: %w", inner))
		assert.Same(t, inner, got)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		plain := errors.New("csv: wrong number of fields")
		got := AsStructuredError(plain)
		require.NotNil(t, got)
		assert.Equal(t, TypeInternal, got.Type)
		assert.Equal(t, "internal server error", got.Message)
		assert.ErrorIs(t, got, plain)
	})
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("register: %w", ConflictError("Username already exists"))

	assert.True(t, Is(err, TypeConflict))
	assert.False(t, Is(err, TypeValidation))
	assert.False(t, Is(errors.New("plain"), TypeInternal))
	assert.False(t, Is(nil, TypeInternal))
}
