// Package dsd serializes data in one of several formats. Data dumped with
// an identifier starts with a single byte naming its format, so it can be
// loaded without knowing the format in advance.
package dsd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/ghodss/yaml"
	"github.com/vmihailenco/msgpack/v5"
)

// Format is a serialization format. Its value doubles as the identifier byte.
type Format uint8

// Formats.
const (
	AUTO    Format = 0
	CBOR    Format = 'C'
	JSON    Format = 'J'
	MsgPack Format = 'M'
	YAML    Format = 'Y'
)

// DefaultFormat is used for AUTO.
const DefaultFormat = JSON

// ErrIncompatibleFormat is returned for unknown formats and mime types.
var ErrIncompatibleFormat = errors.New("dsd: format is incompatible with operation")

type codec struct {
	name      string
	mimeType  string
	marshal   func(v interface{}, indent string) ([]byte, error)
	unmarshal func(data []byte, v interface{}) error
}

var codecs = map[Format]codec{
	CBOR: {
		name:     "cbor",
		mimeType: "application/cbor",
		marshal: func(v interface{}, _ string) ([]byte, error) {
			return cbor.Marshal(v)
		},
		unmarshal: cbor.Unmarshal,
	},
	JSON: {
		name:     "json",
		mimeType: "application/json",
		marshal: func(v interface{}, indent string) ([]byte, error) {
			if indent != "" {
				return json.MarshalIndent(v, "", indent)
			}
			return json.Marshal(v)
		},
		unmarshal: json.Unmarshal,
	},
	MsgPack: {
		name:     "msgpack",
		mimeType: "application/msgpack",
		marshal: func(v interface{}, _ string) ([]byte, error) {
			return msgpack.Marshal(v)
		},
		unmarshal: msgpack.Unmarshal,
	},
	YAML: {
		name:     "yaml",
		mimeType: "application/yaml",
		marshal: func(v interface{}, _ string) ([]byte, error) {
			return yaml.Marshal(v)
		},
		unmarshal: func(data []byte, v interface{}) error {
			return yaml.Unmarshal(data, v)
		},
	},
}

func (f Format) String() string {
	if f == AUTO {
		return "auto"
	}
	if c, ok := codecs[f]; ok {
		return c.name
	}
	return fmt.Sprintf("unknown(%d)", uint8(f))
}

func lookupCodec(f Format) (Format, codec, error) {
	if f == AUTO {
		f = DefaultFormat
	}
	c, ok := codecs[f]
	if !ok {
		return f, codec{}, ErrIncompatibleFormat
	}
	return f, c, nil
}

// Dump serializes v and prepends the format identifier.
func Dump(v interface{}, f Format) ([]byte, error) {
	f, c, err := lookupCodec(f)
	if err != nil {
		return nil, err
	}
	data, err := c.marshal(v, "")
	if err != nil {
		return nil, fmt.Errorf("dsd: failed to dump %s: %w", c.name, err)
	}
	return append([]byte{byte(f)}, data...), nil
}

// DumpWithoutIdentifier serializes v. The indent is only used by JSON.
func DumpWithoutIdentifier(v interface{}, f Format, indent string) ([]byte, error) {
	_, c, err := lookupCodec(f)
	if err != nil {
		return nil, err
	}
	data, err := c.marshal(v, indent)
	if err != nil {
		return nil, fmt.Errorf("dsd: failed to dump %s: %w", c.name, err)
	}
	return data, nil
}

// Load loads data created by Dump into v and returns its format.
func Load(data []byte, v interface{}) (Format, error) {
	if len(data) < 2 {
		return AUTO, fmt.Errorf("dsd: data too short (%d bytes)", len(data))
	}
	f := Format(data[0])
	if f == AUTO {
		return AUTO, ErrIncompatibleFormat
	}
	return f, LoadAsFormat(data[1:], f, v)
}

// LoadAsFormat loads data without an identifier into v.
func LoadAsFormat(data []byte, f Format, v interface{}) error {
	_, c, err := lookupCodec(f)
	if err != nil {
		return err
	}
	if err := c.unmarshal(data, v); err != nil {
		return fmt.Errorf("dsd: failed to load %s starting with %q: %w", c.name, preview(data), err)
	}
	return nil
}

func preview(data []byte) []byte {
	if len(data) > 16 {
		return data[:16]
	}
	return data
}
