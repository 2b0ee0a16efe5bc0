package importer

import (
	"errors"
	"fmt"

	"golang.org/x/text/message"
)

var (
	// ErrInvalidURL is returned when the source is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL format")
	// ErrInvalidSource rejects import requests without an http:// or https:// source.
	ErrInvalidSource = errors.New("a source URL starting with http:// or https:// is required")
	// ErrUpstreamUnreachable wraps transport failures.
	ErrUpstreamUnreachable = errors.New("could not reach the upstream API")
	// ErrUpstreamHTTP is matched by *HTTPStatusError.
	ErrUpstreamHTTP = errors.New("upstream request failed")
	// ErrUnexpectedContentType is returned before the body is parsed.
	ErrUnexpectedContentType = errors.New("upstream response is not in JSON format")
	// ErrInvalidJSONBody is returned when the body cannot be decoded.
	ErrInvalidJSONBody = errors.New("upstream response is not valid JSON")
	// ErrPayloadTooLarge is returned when the body exceeds the configured cap.
	ErrPayloadTooLarge = errors.New("upstream response is too large")
	// ErrUpstreamApplication is matched by *ApplicationError.
	ErrUpstreamApplication = errors.New("upstream response unsuccessful")
	// ErrEmptyImportPayload is returned when the upstream data array is empty.
	ErrEmptyImportPayload = errors.New("no data found to import")
	// ErrEmptyImportData rejects confirmations without import data.
	ErrEmptyImportData = errors.New("import data is required")
	// ErrNoItemsToProcess is returned when the selection resolves to nothing.
	ErrNoItemsToProcess = errors.New("no selected items to process")
)

// HTTPStatusError reports a non-2xx upstream response.
type HTTPStatusError struct {
	StatusCode int
	StatusText string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("upstream request failed: %d - %s", e.StatusCode, e.StatusText)
}

// Is makes the error match ErrUpstreamHTTP.
func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrUpstreamHTTP
}

// Localize renders the error in the printer's language.
func (e *HTTPStatusError) Localize(p *message.Printer) string {
	return p.Sprintf("upstream request failed: %d - %s", e.StatusCode, e.StatusText)
}

// ApplicationError reports an upstream envelope whose success flag is not true.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Sprintf("upstream response unsuccessful: %s", msg)
}

// Is makes the error match ErrUpstreamApplication.
func (e *ApplicationError) Is(target error) bool {
	return target == ErrUpstreamApplication
}

// Localize renders the error in the printer's language. The upstream message
// itself is passed through untranslated.
func (e *ApplicationError) Localize(p *message.Printer) string {
	msg := e.Message
	if msg == "" {
		msg = p.Sprintf("unknown error")
	}
	return p.Sprintf("upstream response unsuccessful: %s", msg)
}
