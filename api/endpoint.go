package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/safing/osicons/formats/dsd"
	"github.com/safing/osicons/log"
	"github.com/safing/osicons/modules"
)

// Mime types.
const (
	MimeTypeJSON = "application/json"
	MimeTypeText = "text/plain"

	apiV1Path    = "/api/v1/"
	maxInputSize = 1 << 20
)

var (
	// ErrInvalidEndpoint is returned for endpoints that fail the checks.
	ErrInvalidEndpoint = errors.New("endpoint is invalid")
	// ErrAlreadyRegistered is returned if the path is taken.
	ErrAlreadyRegistered = errors.New("an endpoint for this path is already registered")

	endpoints     = make(map[string]*Endpoint)
	endpointsLock sync.RWMutex
)

type (
	// ActionFunc returns a message for the user.
	ActionFunc func(ar *Request) (msg string, err error)
	// DataFunc returns raw data.
	DataFunc func(ar *Request) (data []byte, err error)
	// StructFunc returns a value that is encoded as requested by the client.
	StructFunc func(ar *Request) (i interface{}, err error)
)

// Endpoint is an API endpoint. Path and exactly one function are required.
type Endpoint struct {
	// Path is relative to /api/v1/ and may hold gorilla/mux variables.
	Path string
	// Method defaults to GET.
	Method string
	// MimeType of DataFunc and ActionFunc responses.
	MimeType string
	// BelongsTo makes the endpoint unavailable while the module is offline.
	BelongsTo *modules.Module `json:"-"`

	ActionFunc  ActionFunc       `json:"-"`
	DataFunc    DataFunc         `json:"-"`
	StructFunc  StructFunc       `json:"-"`
	HandlerFunc http.HandlerFunc `json:"-"`

	Name        string
	Description string
	Parameters  []Parameter `json:",omitempty"`
}

// Parameter documents a query parameter or similar of an endpoint.
type Parameter struct {
	Method      string
	Field       string
	Value       string
	Description string
}

// RegisterEndpoint checks and registers an endpoint.
func RegisterEndpoint(e Endpoint) error {
	if err := e.check(); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidEndpoint, e.Path, err)
	}

	endpointsLock.Lock()
	if _, ok := endpoints[e.Path]; ok {
		endpointsLock.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, e.Path)
	}
	endpoints[e.Path] = &e
	endpointsLock.Unlock()

	RegisterHandler(apiV1Path+e.Path, &e).Methods(e.Method, http.MethodHead, http.MethodOptions)

	return nil
}

func (e *Endpoint) check() error {
	switch {
	case strings.TrimSpace(e.Path) == "":
		return errors.New("path is missing")
	case strings.HasPrefix(e.Path, "/"):
		return errors.New("path must be relative")
	}

	switch e.Method {
	case "":
		e.Method = http.MethodGet
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return fmt.Errorf("unsupported method %q", e.Method)
	}

	set := 0
	defaultMimeType := MimeTypeText
	for _, isSet := range []bool{e.ActionFunc != nil, e.DataFunc != nil, e.HandlerFunc != nil} {
		if isSet {
			set++
		}
	}
	if e.StructFunc != nil {
		set++
		defaultMimeType = MimeTypeJSON
	}
	if set != 1 {
		return errors.New("exactly one function must be set")
	}

	if e.MimeType == "" {
		e.MimeType = defaultMimeType
	}
	return nil
}

// ExportEndpoints returns all endpoints sorted by path.
func ExportEndpoints() []*Endpoint {
	endpointsLock.RLock()
	defer endpointsLock.RUnlock()

	eps := make([]*Endpoint, 0, len(endpoints))
	for _, e := range endpoints {
		eps = append(eps, e)
	}
	sort.Slice(eps, func(i, j int) bool {
		return eps[i].Path < eps[j].Path
	})
	return eps
}

// ServeHTTP runs the endpoint function and writes its response.
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if e.BelongsTo != nil && !e.BelongsTo.Online() {
		http.Error(w, "The endpoint is not available right now. Please try again later.", http.StatusServiceUnavailable)
		return
	}

	ar := &Request{
		Request: r,
		URLVars: mux.Vars(r),
	}
	if ar.URLVars == nil {
		ar.URLVars = make(map[string]string)
	}

	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost, http.MethodPut:
		data, err := io.ReadAll(io.LimitReader(r.Body, maxInputSize+1))
		if err != nil {
			http.Error(w, "Failed to read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(data) > maxInputSize {
			http.Error(w, "Too much input data.", http.StatusRequestEntityTooLarge)
			return
		}
		ar.InputData = data
	}

	var (
		data     []byte
		mimeType = e.MimeType + "; charset=utf-8"
		err      error
	)
	switch {
	case e.HandlerFunc != nil:
		e.HandlerFunc(w, r)
		return

	case e.ActionFunc != nil:
		var msg string
		msg, err = e.ActionFunc(ar)
		data = []byte(strings.TrimSuffix(msg, "\n") + "\n")

	case e.DataFunc != nil:
		data, err = e.DataFunc(ar)

	case e.StructFunc != nil:
		var v interface{}
		v, err = e.StructFunc(ar)
		if err == nil {
			data, mimeType, _, err = dsd.MimeDump(v, r.Header.Get("Accept"))
			if errors.Is(err, dsd.ErrIncompatibleFormat) {
				err = ErrorWithStatus(err, http.StatusNotAcceptable)
			}
		}
	}

	if err != nil {
		code := http.StatusInternalServerError
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			code = statusErr.Code
		}
		http.Error(w, err.Error(), code)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Warningf("api: failed to write response: %s", err)
	}
}
