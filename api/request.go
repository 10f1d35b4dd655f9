package api

import (
	"fmt"
	"net/http"

	"github.com/safing/osicons/log"
)

// Request is passed to endpoint functions.
type Request struct {
	*http.Request

	// InputData holds the body of POST and PUT requests.
	InputData []byte
	// URLVars holds the variables of the endpoint path, eg. {key}.
	URLVars map[string]string
}

// StatusError is an error with an HTTP status code.
type StatusError struct {
	Err  error
	Code int
}

func (e *StatusError) Error() string { return e.Err.Error() }
func (e *StatusError) Unwrap() error { return e.Err }

// ErrorWithStatus makes the API answer err with the given status code.
func ErrorWithStatus(err error, code int) error {
	return &StatusError{Err: err, Code: code}
}

// TextResponse writes text as a plain response.
func TextResponse(w http.ResponseWriter, r *http.Request, text string) {
	w.Header().Set("Content-Type", MimeTypeText+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintln(w, text); err != nil {
		log.Warningf("api: failed to write response to %s: %s", r.RemoteAddr, err)
	}
}
