package krakenspot

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTooManyArgs          = errors.New("too many arguments passed")
	ErrUnknownEndpoint      = errors.New("unknown kraken endpoint")
	ErrMissingCredentials   = errors.New("private endpoint called on a client without api credentials")
	ErrNoInternetConnection = errors.New("no internet connection")
	ErrForbidden            = errors.New("403 forbidden")
	ErrMalformedResponse    = errors.New("malformed kraken response envelope")

	// Kind sentinels, matched with errors.Is against the typed errors below.
	ErrValidation = errors.New("kraken: invalid option")
	ErrSigning    = errors.New("kraken: signing failed")
	ErrTransport  = errors.New("kraken: transport failed")
	ErrExchange   = errors.New("kraken: exchange returned an error")
)

// ValidationError is returned before any network activity when an option
// fails its endpoint's rule. Error returns Message verbatim.
type ValidationError struct {
	Endpoint string
	Param    string
	Message  string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// SigningError reports a credentials problem. It is never worth retrying.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing error | %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

func (e *SigningError) Is(target error) bool {
	return target == ErrSigning
}

// TransportError wraps the failure returned by the Transport unmodified.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error sending request to %s | %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// ExchangeError carries the non-empty error list of a response envelope.
type ExchangeError struct {
	Endpoint string
	Messages []string
}

func (e *ExchangeError) Error() string {
	return strings.Join(e.Messages, ", ")
}

func (e *ExchangeError) Is(target error) bool {
	return target == ErrExchange
}

// StatusError is returned by HTTPTransport for any non-200 response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status code not OK; status code | %d", e.StatusCode)
}
