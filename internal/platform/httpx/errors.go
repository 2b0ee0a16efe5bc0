package httpx

import (
	"errors"
	"net/http"

	"golang.org/x/text/message"
)

// Sentinel errors shared by handlers.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrBadRequest   = errors.New("invalid request body")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal server error")
)

// Localizer is implemented by errors that render their own user-facing text,
// typically because they carry values such as an upstream status code.
type Localizer interface {
	Localize(p *message.Printer) string
}

// StatusMapping binds a sentinel error to the HTTP status it produces.
type StatusMapping struct {
	Err    error
	Status int
}

var defaultMappings = []StatusMapping{
	{Err: ErrNotFound, Status: http.StatusNotFound},
	{Err: ErrDuplicate, Status: http.StatusConflict},
	{Err: ErrValidation, Status: http.StatusBadRequest},
	{Err: ErrBadRequest, Status: http.StatusBadRequest},
	{Err: ErrUnauthorized, Status: http.StatusUnauthorized},
}

// RespondError writes a failure envelope for err. Package specific mappings are
// consulted before the defaults. It reports false when err matched nothing and
// a generic 500 was written, so callers know to log the cause.
func RespondError(w http.ResponseWriter, p *message.Printer, err error, mappings ...StatusMapping) bool {
	all := make([]StatusMapping, 0, len(mappings)+len(defaultMappings))
	all = append(all, mappings...)
	all = append(all, defaultMappings...)
	for _, m := range all {
		if !errors.Is(err, m.Err) {
			continue
		}
		var l Localizer
		if errors.As(err, &l) {
			Fail(w, m.Status, l.Localize(p))
			return true
		}
		Fail(w, m.Status, p.Sprintf(m.Err.Error()))
		return true
	}
	Fail(w, http.StatusInternalServerError, p.Sprintf(ErrInternal.Error()))
	return false
}
