package errs

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Third-party API errors (Gemini, Vertex AI, storage, messaging)
var (
	ErrRateLimitExceeded      = errors.New("rate limit exceeded")
	ErrModelOverloaded        = errors.New("model overloaded")
	ErrContentPolicyViolation = errors.New("content policy violation")
	ErrInvalidAPIKey          = errors.New("invalid API key")
	ErrServiceUnavailable     = errors.New("service unavailable")
	ErrEmptyResponse          = errors.New("empty response")
	ErrUpstreamRejected       = errors.New("upstream rejected request")
	ErrUpstreamFailed         = errors.New("upstream request failed")
)

// Configuration & environment errors
var (
	ErrConfigMissing       = errors.New("configuration missing")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

func NewRateLimitError(service string, retryAfter time.Duration) *ApiErr {
	details := fmt.Sprintf("Rate limit exceeded for %s service", service)
	if retryAfter > 0 {
		details = fmt.Sprintf("%s, retry after %s", details, retryAfter)
	}
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		Kind:       KindUnavailable,
		err:        ErrRateLimitExceeded,
		Details:    details,
		Field:      "rate_limit",
	}
}

func NewModelOverloadedError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		Kind:       KindUnavailable,
		err:        ErrModelOverloaded,
		Details:    fmt.Sprintf("Model overloaded for %s service", service),
		Field:      "model_capacity",
	}
}

func NewContentPolicyError(service string, violation string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Kind:       KindRejected,
		err:        ErrContentPolicyViolation,
		Details:    fmt.Sprintf("Content policy violation in %s service: %s", service, violation),
		Field:      "content_policy",
	}
}

func NewEmptyResponseError(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		Kind:       KindUnknown,
		err:        ErrEmptyResponse,
		Details:    fmt.Sprintf("%s returned no results", service),
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		Kind:       KindUnknown,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		Kind:       KindUnknown,
		err:        ErrEnvironmentVariable,
		Details:    fmt.Sprintf("Environment variable %s is not set or invalid", varName),
		Field:      varName,
	}
}

func NewServiceUnreachableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		Kind:       KindUnavailable,
		err:        ErrServiceUnavailable,
		Details:    fmt.Sprintf("Service %s is unreachable", service),
		Cause:      cause,
	}
}

// NewUpstreamStatusError maps a third-party failure that carries an HTTP
// status code. Only 429 and 5xx are retryable.
func NewUpstreamStatusError(service string, status int, cause error) *ApiErr {
	msg := ""
	if cause != nil {
		msg = strings.ToLower(cause.Error())
	}

	var e *ApiErr
	switch {
	case status == http.StatusTooManyRequests:
		e = NewRateLimitError(service, 0)
	case status == http.StatusServiceUnavailable:
		e = NewModelOverloadedError(service)
	case status == http.StatusInternalServerError, status == http.StatusBadGateway, status == http.StatusGatewayTimeout:
		e = NewServiceUnreachableError(service, cause)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		e = invalidAPIKey(service)
	case status >= 400 && status < 500 && mentionsPolicy(msg):
		e = NewContentPolicyError(service, cause.Error())
	case status >= 400 && status < 500:
		e = &ApiErr{
			StatusCode: http.StatusBadRequest,
			Kind:       KindRejected,
			err:        ErrUpstreamRejected,
			Details:    fmt.Sprintf("%s rejected the request with status %d", service, status),
		}
	default:
		e = upstreamFailed(service, status)
	}
	e.Cause = cause
	return e
}

// NewUpstreamError maps a failed third-party call with no status code onto
// one of the errors above by looking at its message. Anything unrecognized
// is reported as a failed, non-retryable call.
func NewUpstreamError(service string, cause error) *ApiErr {
	if cause == nil {
		return nil
	}
	var apiErr *ApiErr
	if errors.As(cause, &apiErr) {
		return apiErr
	}

	msg := strings.ToLower(cause.Error())
	var netErr net.Error
	var e *ApiErr
	switch {
	case errors.As(cause, &netErr), mentionsNetwork(msg):
		e = NewServiceUnreachableError(service, cause)
	case strings.Contains(msg, "429"), strings.Contains(msg, "resource_exhausted"), strings.Contains(msg, "quota"):
		e = NewRateLimitError(service, 0)
	case strings.Contains(msg, "503"), strings.Contains(msg, "overloaded"), strings.Contains(msg, "unavailable"):
		e = NewModelOverloadedError(service)
	case mentionsPolicy(msg):
		e = NewContentPolicyError(service, cause.Error())
	case strings.Contains(msg, "api key"), strings.Contains(msg, "401"), strings.Contains(msg, "403"), strings.Contains(msg, "permission"):
		e = invalidAPIKey(service)
	default:
		e = upstreamFailed(service, 0)
	}
	e.Cause = cause
	return e
}

func invalidAPIKey(service string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		Kind:       KindRejected,
		err:        ErrInvalidAPIKey,
		Details:    fmt.Sprintf("%s rejected our credentials", service),
	}
}

func upstreamFailed(service string, status int) *ApiErr {
	details := fmt.Sprintf("%s request failed", service)
	if status > 0 {
		details = fmt.Sprintf("%s with status %d", details, status)
	}
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		Kind:       KindUnknown,
		err:        ErrUpstreamFailed,
		Details:    details,
	}
}

func mentionsPolicy(msg string) bool {
	return strings.Contains(msg, "safety") || strings.Contains(msg, "blocked") || strings.Contains(msg, "policy")
}

func mentionsNetwork(msg string) bool {
	for _, s := range []string{"dial tcp", "connection refused", "connection reset", "no such host", "i/o timeout", "tls handshake"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

func IsModelOverloadedError(err error) bool {
	return errors.Is(err, ErrModelOverloaded)
}

func IsContentPolicyError(err error) bool {
	return errors.Is(err, ErrContentPolicyViolation)
}

// IsRetryable reports whether a third-party call may succeed if repeated.
func IsRetryable(err error) bool {
	return IsRateLimitError(err) || IsModelOverloadedError(err) || errors.Is(err, ErrServiceUnavailable)
}
