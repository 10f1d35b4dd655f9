package dsd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrMissingContentType is returned when a response does not say what it holds.
var ErrMissingContentType = errors.New("dsd: missing http content type")

// FormatToMimeType maps formats to their mime types.
var FormatToMimeType = func() map[Format]string {
	m := make(map[Format]string, len(codecs))
	for f, c := range codecs {
		m[f] = c.mimeType
	}
	return m
}()

// subtypes maps the subtype of a mime type, eg. "yaml" from
// "application/yaml", to a format.
var subtypes = map[string]Format{
	"cbor":    CBOR,
	"json":    JSON,
	"msgpack": MsgPack,
	"yaml":    YAML,
	"yml":     YAML,
}

// FormatFromAccept returns the first supported format in an Accept header.
// An empty header or a wildcard selects DefaultFormat. AUTO is returned if
// nothing matches.
func FormatFromAccept(accept string) Format {
	if strings.TrimSpace(accept) == "" {
		return DefaultFormat
	}

	wildcard := false
	for _, entry := range strings.Split(accept, ",") {
		subtype := mimeSubtype(entry)
		if f, ok := subtypes[subtype]; ok {
			return f
		}
		if subtype == "*" {
			wildcard = true
		}
	}
	if wildcard {
		return DefaultFormat
	}
	return AUTO
}

// mimeSubtype returns the lowercased subtype of a mime type without
// parameters: " application/JSON; q=0.9" becomes "json".
func mimeSubtype(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	if _, sub, ok := strings.Cut(mimeType, "/"); ok {
		mimeType = sub
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// MimeLoad loads data into v using the format of the given mime type.
func MimeLoad(data []byte, mimeType string, v interface{}) (Format, error) {
	f, ok := subtypes[mimeSubtype(mimeType)]
	if !ok {
		return AUTO, ErrIncompatibleFormat
	}
	return f, LoadAsFormat(data, f, v)
}

// MimeDump serializes v in the format requested by the Accept header.
func MimeDump(v interface{}, accept string) (data []byte, mimeType string, f Format, err error) {
	f = FormatFromAccept(accept)
	if f == AUTO {
		return nil, "", AUTO, ErrIncompatibleFormat
	}
	data, err = DumpWithoutIdentifier(v, f, "")
	if err != nil {
		return nil, "", f, err
	}
	return data, FormatToMimeType[f], f, nil
}

// LoadFromHTTPResponse loads the response body into v, using its
// Content-Type. The caller closes the body.
func LoadFromHTTPResponse(resp *http.Response, v interface{}) (Format, error) {
	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" {
		return AUTO, ErrMissingContentType
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return AUTO, fmt.Errorf("dsd: failed to read http body: %w", err)
	}
	return MimeLoad(data, mimeType, v)
}
