package wherelib

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	ErrLocatorShutdown      = errors.New("locator instance was shutdown")
	ErrContextIsClosed      = errors.New("context is closed")
	ErrIncorrectIP          = errors.New("incorrect ip address")
	ErrCircuitBreakerOpened = errors.New("circuit breaker is opened")
	ErrCircuitBreakerIgnore = errors.New("this error should be ignored by circuit breaker")
)

type jsonHTTPError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type httpError struct {
	message    string
	err        error
	statusCode int
}

func (h *httpError) Message() string {
	if h == nil {
		return ""
	}

	return h.message
}

func (h *httpError) Err() string {
	if err := errors.Unwrap(h); err != nil {
		return err.Error()
	}

	return ""
}

func (h *httpError) StatusCode() int {
	if h != nil && h.statusCode != 0 {
		return h.statusCode
	}

	return http.StatusInternalServerError
}

func (h *httpError) Unwrap() error {
	if h == nil {
		return nil
	}

	return h.err
}

func (h *httpError) Error() string {
	switch {
	case h == nil:
		return ""
	case h.err != nil && h.message != "":
		return h.message + ": " + h.err.Error()
	case h.err != nil:
		return h.err.Error()
	}

	return h.message
}

// MarshalJSON renders only a public message. Wrapped errors can carry
// connection strings or file paths so they go to logs only.
func (h *httpError) MarshalJSON() ([]byte, error) {
	value := jsonHTTPError{
		Status:  "error",
		Message: h.Message(),
	}

	return json.Marshal(&value)
}
