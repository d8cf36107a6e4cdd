package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApiErr_Sentinels(t *testing.T) {
	err := NewNotFound("lead")
	assert.Equal(t, "lead not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.Equal(t, KindNotFound, KindOf(err))

	wrapped := fmt.Errorf("handler: %w", NewBadRequestError("bad slug"))
	assert.Equal(t, "handler: bad slug", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrBadRequest)
	assert.Equal(t, KindRejected, KindOf(wrapped))
}

func TestApiErr_Details(t *testing.T) {
	err := NewMissingRequiredFieldError("email")
	assert.Equal(t, "missing required field: Missing required field: email", err.Error())
	assert.Equal(t, "missing required field", err.Message())
	assert.Equal(t, "email", err.Field)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}

func TestApiErr_GetFullError(t *testing.T) {
	inner := NewServiceUnreachableError("resend", errors.New("dial tcp: timeout"))
	outer := NewInternalErrorWithCause("notify failed", inner)
	assert.Equal(t,
		"notify failed -> service unavailable: Service resend is unreachable -> dial tcp: timeout",
		outer.GetFullError())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError(map[string]string{"email": "Please enter a valid email address"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Len(t, err.FieldErrors, 1)
}

func TestNewDatabaseError(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
		kind   Kind
		is     error
	}{
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, KindNotFound, ErrNotFound},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, KindUnavailable, ErrDatabaseTimeout},
		{"pg unique", &pgconn.PgError{Code: "23505", ColumnName: "slug"}, http.StatusConflict, KindRejected, ErrAlreadyExists},
		{"pg foreign key", &pgconn.PgError{Code: "23503"}, http.StatusBadRequest, KindRejected, ErrForeignKeyConstraint},
		{"pg not null", &pgconn.PgError{Code: "23502"}, http.StatusBadRequest, KindRejected, ErrConstraintViolation},
		{"pg too many connections", &pgconn.PgError{Code: "53300"}, http.StatusServiceUnavailable, KindUnavailable, ErrDatabaseConnection},
		{"pg connection class", &pgconn.PgError{Code: "08006"}, http.StatusServiceUnavailable, KindUnavailable, ErrDatabaseConnection},
		{"sqlite unique", errors.New("UNIQUE constraint failed: products.slug"), http.StatusConflict, KindRejected, ErrAlreadyExists},
		{"closed", errors.New("sql: database is closed"), http.StatusServiceUnavailable, KindUnavailable, ErrDatabaseConnection},
		{"other", errors.New("syntax error at or near"), http.StatusInternalServerError, KindUnknown, ErrDatabaseQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("create", "product", tt.cause)
			require.NotNil(t, err)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.Equal(t, tt.kind, err.Kind)
			assert.ErrorIs(t, err, tt.is)
			assert.Equal(t, tt.cause, err.Cause)
		})
	}
}

func TestNewDatabaseError_UniqueField(t *testing.T) {
	err := NewDatabaseError("create", "product", &pgconn.PgError{Code: "23505", ColumnName: "slug"})
	assert.Equal(t, "slug", err.Field)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestNewDatabaseError_PassesThrough(t *testing.T) {
	assert.Nil(t, NewDatabaseError("find", "lead", nil))

	notFound := NewNotFound("lead")
	assert.Same(t, notFound, NewDatabaseError("find", "lead", notFound))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.Equal(t, KindNotFound, KindOf(gorm.ErrRecordNotFound))
	assert.Equal(t, KindUnavailable, KindOf(context.Canceled))
	assert.Equal(t, KindUnavailable, KindOf(NewServiceUnreachableError("resend", nil)))
	assert.Equal(t, "not_found", KindNotFound.String())
}

func TestNewUpstreamError(t *testing.T) {
	tests := []struct {
		msg       string
		is        error
		retryable bool
	}{
		{"googleapi: Error 429: RESOURCE_EXHAUSTED", ErrRateLimitExceeded, true},
		{"Error 503: The model is overloaded", ErrModelOverloaded, true},
		{"prompt blocked by safety filters", ErrContentPolicyViolation, false},
		{"API key not valid", ErrInvalidAPIKey, false},
		{"dial tcp 10.0.0.1:443: i/o timeout", ErrServiceUnavailable, true},
		{"Error 400, Message: Image size is invalid, Status: INVALID_ARGUMENT", ErrUpstreamFailed, false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			cause := errors.New(tt.msg)
			err := NewUpstreamError("imagen", cause)
			require.NotNil(t, err)
			assert.ErrorIs(t, err, tt.is)
			assert.Equal(t, tt.retryable, IsRetryable(err))
			assert.Same(t, cause, err.Cause)
		})
	}

	assert.Nil(t, NewUpstreamError("imagen", nil))
	existing := NewEmptyResponseError("imagen")
	assert.Same(t, existing, NewUpstreamError("imagen", existing))
}

func TestNewUpstreamStatusError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		msg       string
		is        error
		code      int
		retryable bool
	}{
		{"rate limited", 429, "RESOURCE_EXHAUSTED", ErrRateLimitExceeded, http.StatusTooManyRequests, true},
		{"overloaded", 503, "UNAVAILABLE", ErrModelOverloaded, http.StatusServiceUnavailable, true},
		{"internal", 500, "INTERNAL", ErrServiceUnavailable, http.StatusServiceUnavailable, true},
		{"gateway timeout", 504, "DEADLINE_EXCEEDED", ErrServiceUnavailable, http.StatusServiceUnavailable, true},
		{"bad key", 403, "PERMISSION_DENIED", ErrInvalidAPIKey, http.StatusBadGateway, false},
		{"invalid argument", 400, "INVALID_ARGUMENT: aspect ratio not supported", ErrUpstreamRejected, http.StatusBadRequest, false},
		{"safety", 400, "prompt was blocked by safety settings", ErrContentPolicyViolation, http.StatusBadRequest, false},
		{"not found", 404, "model not found", ErrUpstreamRejected, http.StatusBadRequest, false},
		{"odd status", 501, "NOT_IMPLEMENTED", ErrUpstreamFailed, http.StatusBadGateway, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cause := errors.New(tt.msg)
			err := NewUpstreamStatusError("imagen", tt.status, cause)
			assert.ErrorIs(t, err, tt.is)
			assert.Equal(t, tt.code, err.StatusCode)
			assert.Equal(t, tt.retryable, IsRetryable(err))
			assert.Same(t, cause, err.Cause)
		})
	}
}
