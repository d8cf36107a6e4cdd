package errs

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

var (
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrForeignKeyConstraint      = errors.New("foreign key constraint violation")
	ErrConstraintViolation       = errors.New("constraint violation")
	ErrDatabaseTimeout           = errors.New("database timeout")
)

// Kind tells callers what went wrong with a storage call without exposing
// driver details.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUnavailable
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// KindOf returns the Kind of err. Errors that are not *ApiErr are classified
// as if they came straight from the database driver.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return classify(err).Kind
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		Kind:       KindNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

// Postgres SQLSTATE codes we map explicitly.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
	pgQueryCanceled       = "57014"
	pgAdminShutdown       = "57P01"
	pgTooManyConnections  = "53300"
)

// NewDatabaseError creates a new database error with details about the operation
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	if cause == nil {
		return nil
	}
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	c := classify(cause)
	details := fmt.Sprintf("Failed to %s %s", operation, entity)

	switch {
	case errors.Is(c.sentinel, ErrNotFound):
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			Kind:       KindNotFound,
			err:        fmt.Errorf("%s %w", entity, ErrNotFound),
			Details:    details,
			Cause:      cause,
		}
	case errors.Is(c.sentinel, ErrUniqueConstraintViolation):
		return &ApiErr{
			StatusCode: http.StatusConflict,
			Kind:       KindRejected,
			err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
			Details:    details,
			Field:      c.field,
			Cause:      cause,
		}
	case errors.Is(c.sentinel, ErrForeignKeyConstraint):
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			Kind:       KindRejected,
			err:        fmt.Errorf("invalid reference in %s: %w", entity, ErrForeignKeyConstraint),
			Details:    "The referenced resource does not exist or cannot be linked",
			Cause:      cause,
		}
	case errors.Is(c.sentinel, ErrConstraintViolation):
		return &ApiErr{
			StatusCode: http.StatusBadRequest,
			Kind:       KindRejected,
			err:        fmt.Errorf("invalid %s: %w", entity, ErrConstraintViolation),
			Details:    details,
			Field:      c.field,
			Cause:      cause,
		}
	case errors.Is(c.sentinel, ErrDatabaseTimeout):
		return &ApiErr{
			StatusCode: http.StatusGatewayTimeout,
			Kind:       KindUnavailable,
			err:        ErrDatabaseTimeout,
			Details:    details,
			Cause:      cause,
		}
	case errors.Is(c.sentinel, ErrDatabaseConnection):
		return &ApiErr{
			StatusCode: http.StatusServiceUnavailable,
			Kind:       KindUnavailable,
			err:        ErrDatabaseConnection,
			Details:    "Unable to connect to database",
			Cause:      cause,
		}
	}

	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		Kind:       KindUnknown,
		err:        ErrDatabaseQuery,
		Details:    details,
		Cause:      cause,
	}
}

type classification struct {
	Kind     Kind
	sentinel error
	field    string
}

func classify(err error) classification {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound) {
		return classification{Kind: KindNotFound, sentinel: ErrNotFound}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return classification{Kind: KindUnavailable, sentinel: ErrDatabaseTimeout}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation:
			return classification{Kind: KindRejected, sentinel: ErrUniqueConstraintViolation, field: pgErr.ColumnName}
		case pgErr.Code == pgForeignKeyViolation:
			return classification{Kind: KindRejected, sentinel: ErrForeignKeyConstraint}
		case pgErr.Code == pgNotNullViolation, pgErr.Code == pgCheckViolation, pgErr.Code == pgInvalidText:
			return classification{Kind: KindRejected, sentinel: ErrConstraintViolation, field: pgErr.ColumnName}
		case pgErr.Code == pgQueryCanceled:
			return classification{Kind: KindUnavailable, sentinel: ErrDatabaseTimeout}
		case pgErr.Code == pgAdminShutdown, pgErr.Code == pgTooManyConnections, strings.HasPrefix(pgErr.Code, "08"):
			return classification{Kind: KindUnavailable, sentinel: ErrDatabaseConnection}
		}
		return classification{Kind: KindUnknown, sentinel: ErrDatabaseQuery}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return classification{Kind: KindUnavailable, sentinel: ErrDatabaseConnection}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return classification{Kind: KindRejected, sentinel: ErrUniqueConstraintViolation}
	}

	// Drivers without typed errors (sqlite, simple protocol fallbacks)
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "unique constraint"):
		return classification{Kind: KindRejected, sentinel: ErrUniqueConstraintViolation}
	case strings.Contains(errStr, "foreign key constraint"):
		return classification{Kind: KindRejected, sentinel: ErrForeignKeyConstraint}
	case strings.Contains(errStr, "not null constraint"), strings.Contains(errStr, "check constraint"):
		return classification{Kind: KindRejected, sentinel: ErrConstraintViolation}
	case strings.Contains(errStr, "connection"), strings.Contains(errStr, "database is closed"):
		return classification{Kind: KindUnavailable, sentinel: ErrDatabaseConnection}
	}
	return classification{Kind: KindUnknown, sentinel: ErrDatabaseQuery}
}
