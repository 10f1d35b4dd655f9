package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/pprof"

	"github.com/tidwall/gjson"

	"github.com/safing/osicons/config"
	"github.com/safing/osicons/formats/dsd"
	"github.com/safing/osicons/info"
	"github.com/safing/osicons/utils/osdetail"
)

func registerEndpoints(eps ...Endpoint) error {
	for _, e := range eps {
		if err := RegisterEndpoint(e); err != nil {
			return err
		}
	}
	return nil
}

func registerMetaEndpoints() error {
	return registerEndpoints(
		Endpoint{
			Path:        "endpoints",
			MimeType:    MimeTypeJSON,
			DataFunc:    func(*Request) ([]byte, error) { return json.Marshal(ExportEndpoints()) },
			Name:        "List API Endpoints",
			Description: "Returns all registered endpoints and their documentation.",
		},
		Endpoint{
			Path:        "ping",
			ActionFunc:  func(*Request) (string, error) { return "Pong.", nil },
			Name:        "Ping",
			Description: "Pong.",
		},
		Endpoint{
			Path:        "version",
			StructFunc:  func(*Request) (interface{}, error) { return info.GetInfo(), nil },
			Name:        "Get Version",
			Description: "Returns the version and build details of the service.",
		},
	)
}

func registerDebugEndpoints() error {
	return registerEndpoints(
		Endpoint{
			Path: "debug/stack",
			DataFunc: func(*Request) ([]byte, error) {
				var buf bytes.Buffer
				if err := pprof.Lookup("goroutine").WriteTo(&buf, 1); err != nil {
					return nil, err
				}
				return buf.Bytes(), nil
			},
			Name:        "Get Goroutine Stack",
			Description: "Returns the stacks of all goroutines.",
		},
		Endpoint{
			Path:        "debug/info",
			DataFunc:    debugInfo,
			Name:        "Get Debug Information",
			Description: "Returns the version, platform, detected host OS, last errors and warnings and the goroutine stacks, formatted as markdown.",
			Parameters: []Parameter{{
				Method:      http.MethodGet,
				Field:       "style",
				Value:       "github",
				Description: "Wrap sections in collapsible blocks for GitHub issues.",
			}},
		},
	)
}

func debugInfo(ar *Request) ([]byte, error) {
	di := &osdetail.DebugInfo{Style: ar.URL.Query().Get("style")}
	di.AddVersionInfo()
	di.AddPlatformInfo(ar.Context())
	di.AddHostOS(ar.Context())
	di.AddLastReportedModuleError()
	di.AddLastUnexpectedLogs()
	di.AddGoroutineStack()
	return di.Bytes(), nil
}

func registerConfigEndpoints() error {
	return registerEndpoints(
		Endpoint{
			Path:        "config/options",
			StructFunc:  listConfig,
			Name:        "List Config Options",
			Description: "Returns all config options with their documentation and current value.",
		},
		Endpoint{
			Path:        "config/options/{key:.+}",
			Method:      http.MethodPost,
			ActionFunc:  setConfig,
			Name:        "Set Config Option",
			Description: "Sets a config option to the value in the body, encoded as given by the Content-Type. Null resets the option to its default.",
		},
	)
}

func listConfig(*Request) (interface{}, error) {
	opts := config.ExportOptions()
	exported := make([]interface{}, 0, len(opts))
	for _, opt := range opts {
		data, err := opt.Export()
		if err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", opt.Key, err)
		}
		exported = append(exported, gjson.ParseBytes(data).Value())
	}
	return exported, nil
}

func setConfig(ar *Request) (string, error) {
	key := ar.URLVars["key"]

	contentType := ar.Header.Get("Content-Type")
	if contentType == "" {
		contentType = MimeTypeJSON
	}
	var value interface{}
	if _, err := dsd.MimeLoad(ar.InputData, contentType, &value); err != nil {
		return "", ErrorWithStatus(fmt.Errorf("failed to parse value: %w", err), http.StatusBadRequest)
	}

	err := config.SetConfigOption(key, value)
	switch {
	case err == nil:
		return key + " updated", nil
	case errors.Is(err, config.ErrUnknownOption):
		return "", ErrorWithStatus(err, http.StatusNotFound)
	case errors.Is(err, config.ErrInvalidData):
		return "", ErrorWithStatus(err, http.StatusBadRequest)
	default:
		return "", err
	}
}
