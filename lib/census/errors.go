package census

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidYear   = errors.New("year is outside the supported range")
	ErrEmptyDataset  = errors.New("dataset must not be empty")
	ErrNoVariables   = errors.New("at least one variable is required")
	ErrGroupNotAlone = errors.New("a group() request must be the only variable")
	ErrBadGeography  = errors.New("geography must be a 'key:value' pair with a recognized key")
)

// ParseError reports a url that could not be turned into an Endpoint,
// wrapping whatever went wrong underneath.
type ParseError struct {
	Url string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse url %q: %s", e.Url, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// TransportError is a network or http-level failure. It is fatal to the
// pipeline run of the endpoint that produced it.
type TransportError struct {
	Url        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed for %s: %s", e.Url, e.Err)
	}
	return fmt.Sprintf("request failed for %s: status %d: %s", e.Url, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is a response body that could not be decoded as the
// expected json. Same abort policy as TransportError.
type DecodeError struct {
	Url string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %s", e.Url, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
