package procedure

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-procedure/retry"
)

// Failure kind discriminants. Every taxonomy error exposes its kind through
// Kind(), so a catch-all consumer can classify without message matching.
const (
	KindHTTP          = "http_error"
	KindTimeout       = "timeout_error"
	KindValidation    = "validation_error"
	KindRetry         = retry.ErrorKind
	KindTokenRefresh  = "token_refresh_error"
	KindNetwork       = "network_error"
	KindConfiguration = "configuration_error"
)

// Validation targets carried by ValidationError.
const (
	ValidationInput  = "input"
	ValidationOutput = "output"
)

// RetryError reports an exhausted retry budget around the handler.
type RetryError = retry.Error

// HTTPError is a non-2xx response already classified by a transport client.
type HTTPError struct {
	Status  int
	Data    any
	Headers http.Header
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d", e.Status)
}

func (e *HTTPError) Kind() string { return KindHTTP }

// IsClientError reports whether the status is in the 4xx range.
func (e *HTTPError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// IsServerError reports whether the status is in the 5xx range.
func (e *HTTPError) IsServerError() bool {
	return e.Status >= 500 && e.Status < 600
}

// HasStatus reports whether the response carried the given status code.
func (e *HTTPError) HasStatus(code int) bool {
	return e.Status == code
}

// TimeoutError is raised by a transport client when the configured deadline
// elapsed before a response arrived.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s", e.Timeout)
}

func (e *TimeoutError) Kind() string { return KindTimeout }

// ValidationError normalizes a schema failure from the input or output
// processor, wrapping the validator's own error.
type ValidationError struct {
	ValidationType string
	Err            error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %v", e.ValidationType, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Kind() string { return KindValidation }

// TokenRefreshError is raised by a transport client whose credential
// refresh callback failed.
type TokenRefreshError struct {
	Err error
}

func (e *TokenRefreshError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token refresh failed: %v", e.Err)
	}
	return "token refresh failed"
}

func (e *TokenRefreshError) Unwrap() error { return e.Err }

func (e *TokenRefreshError) Kind() string { return KindTokenRefresh }

// NetworkError is a connection-level failure detected by a transport client.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network failure: %v", e.Err)
	}
	return "network failure"
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Kind() string { return KindNetwork }

// ConfigurationError reports builder misuse: a single-use slot set twice or
// a procedure finalized or invoked without a handler. It is raised as a
// panic, outside the Result channel, because it marks a programming error.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
	return fmt.Sprintf("configuration error: field %s", e.Field)
}

func (e *ConfigurationError) Kind() string { return KindConfiguration }

// Kinder is implemented by every taxonomy error.
type Kinder interface {
	error
	Kind() string
}

// KindOf returns the discriminant of the first taxonomy error in err's
// chain, or the empty string when none is found.
func KindOf(err error) string {
	var k Kinder
	if stderrors.As(err, &k) {
		return k.Kind()
	}
	return ""
}

// IsHTTPError reports whether err's chain contains an HTTPError.
func IsHTTPError(err error) bool {
	var target *HTTPError
	return stderrors.As(err, &target)
}

// IsTimeoutError reports whether err's chain contains a TimeoutError.
func IsTimeoutError(err error) bool {
	var target *TimeoutError
	return stderrors.As(err, &target)
}

// IsValidationError reports whether err's chain contains a ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return stderrors.As(err, &target)
}

// IsRetryError reports whether err's chain contains a retry exhaustion error.
func IsRetryError(err error) bool {
	var target *RetryError
	return stderrors.As(err, &target)
}

// IsTokenRefreshError reports whether err's chain contains a TokenRefreshError.
func IsTokenRefreshError(err error) bool {
	var target *TokenRefreshError
	return stderrors.As(err, &target)
}

// IsNetworkError reports whether err's chain contains a NetworkError.
func IsNetworkError(err error) bool {
	var target *NetworkError
	return stderrors.As(err, &target)
}

// IsConfigurationError reports whether err's chain contains a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return stderrors.As(err, &target)
}

// StatusOf extracts an HTTP status from err's chain. It checks the taxonomy
// HTTPError first, then foreign errors exposing StatusCode() or HTTPStatus().
func StatusOf(err error) (int, bool) {
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr.Status, true
	}
	var sc interface{ StatusCode() int }
	if stderrors.As(err, &sc) {
		return sc.StatusCode(), true
	}
	var hs interface{ HTTPStatus() int }
	if stderrors.As(err, &hs) {
		return hs.HTTPStatus(), true
	}
	return 0, false
}

// RetryEligible is the default retry classification: client errors
// (status in [400,500)) are never retried, everything else is.
func RetryEligible(err error) bool {
	if status, ok := StatusOf(err); ok && status >= 400 && status < 500 {
		return false
	}
	return true
}

// Categorize maps a pipeline failure to a classified application error so
// hosts built on go-errors get categories, text codes, and metadata without
// re-inspecting the taxonomy.
func Categorize(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var (
		httpErr    *HTTPError
		timeoutErr *TimeoutError
		validErr   *ValidationError
		retryErr   *RetryError
		tokenErr   *TokenRefreshError
		netErr     *NetworkError
		configErr  *ConfigurationError
	)

	switch {
	case stderrors.As(err, &validErr):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "procedure validation failed").
			WithTextCode("PROC_VALIDATION_FAILED").
			WithMetadata(map[string]any{
				"validation_type": validErr.ValidationType,
			})
	case stderrors.As(err, &configErr):
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "procedure misconfigured").
			WithTextCode("PROC_MISCONFIGURED").
			WithMetadata(map[string]any{
				"field": configErr.Field,
			})
	case stderrors.As(err, &httpErr):
		category := goerrors.CategoryExternal
		if httpErr.IsClientError() {
			category = goerrors.CategoryBadInput
		}
		return goerrors.Wrap(err, category, "procedure request rejected").
			WithTextCode("PROC_HTTP_ERROR").
			WithMetadata(map[string]any{
				"status": httpErr.Status,
			})
	case stderrors.As(err, &timeoutErr):
		return goerrors.Wrap(err, goerrors.CategoryExternal, "procedure request timed out").
			WithTextCode("PROC_TIMEOUT").
			WithMetadata(map[string]any{
				"timeout_ms": timeoutErr.Timeout.Milliseconds(),
			})
	case stderrors.As(err, &retryErr):
		return goerrors.Wrap(err, goerrors.CategoryExternal, "procedure retry budget exhausted").
			WithTextCode("PROC_RETRY_EXHAUSTED").
			WithMetadata(map[string]any{
				"attempts": retryErr.Attempts,
			})
	case stderrors.As(err, &tokenErr):
		return goerrors.Wrap(err, goerrors.CategoryExternal, "procedure credential refresh failed").
			WithTextCode("PROC_TOKEN_REFRESH_FAILED")
	case stderrors.As(err, &netErr):
		return goerrors.Wrap(err, goerrors.CategoryExternal, "procedure transport failed").
			WithTextCode("PROC_NETWORK_FAILURE")
	default:
		return goerrors.Wrap(err, goerrors.CategoryHandler, "procedure failed").
			WithTextCode("PROC_FAILED")
	}
}
