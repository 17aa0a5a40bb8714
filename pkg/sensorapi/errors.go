package sensorapi

import (
	"errors"
	"fmt"
)

// ErrBodyTooLarge is wrapped by RequestError when a response exceeds the
// configured body size.
var ErrBodyTooLarge = errors.New("response body too large")

// AuthError means no identity token could be obtained.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return "No ID token found" }

func (e *AuthError) Unwrap() error { return e.Err }

// ConfigError means the base URL was not configured.
type ConfigError struct {
	Var string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("Missing %s environment variable", e.Var)
}

// HTTPError carries a non-2xx response and its body verbatim.
type HTTPError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// RequestError is a transport failure before any response arrived.
type RequestError struct {
	Endpoint string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// DecodeError means a 2xx body was not valid JSON.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s response is not valid JSON: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
