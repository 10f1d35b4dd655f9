package dsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type iconEntry struct {
	Key        string   `json:"key" yaml:"key" cbor:"key" msgpack:"key"`
	Image      string   `json:"image" yaml:"image" cbor:"image" msgpack:"image"`
	Aliases    []string `json:"aliases" yaml:"aliases" cbor:"aliases" msgpack:"aliases"`
	Monochrome bool     `json:"monochrome" yaml:"monochrome" cbor:"monochrome" msgpack:"monochrome"`
}

var ubuntu = &iconEntry{
	Key:        "ubuntu",
	Image:      "/assets/os-ubuntu.svg",
	Aliases:    []string{"kubuntu", "xubuntu"},
	Monochrome: false,
}

func TestDumpAndLoad(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{JSON, YAML, CBOR, MsgPack} {
		f := f
		t.Run(f.String(), func(t *testing.T) {
			t.Parallel()

			data, err := Dump(ubuntu, f)
			require.NoError(t, err)
			assert.Equal(t, byte(f), data[0])

			loaded := &iconEntry{}
			loadedFormat, err := Load(data, loaded)
			require.NoError(t, err)
			assert.Equal(t, f, loadedFormat)
			assert.Equal(t, ubuntu, loaded)
		})
	}
}

func TestDumpFormats(t *testing.T) {
	t.Parallel()

	data, err := Dump(ubuntu, AUTO)
	require.NoError(t, err)
	assert.Equal(t, byte(JSON), data[0])

	_, err = Dump(ubuntu, Format(42))
	assert.ErrorIs(t, err, ErrIncompatibleFormat)

	data, err = DumpWithoutIdentifier(ubuntu, JSON, "  ")
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"key\": \"ubuntu\"")

	data, err = DumpWithoutIdentifier(ubuntu, YAML, "")
	require.NoError(t, err)
	assert.Contains(t, string(data), "key: ubuntu")

	assert.Equal(t, "msgpack", MsgPack.String())
	assert.Equal(t, "unknown(42)", Format(42).String())
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(nil, &iconEntry{})
	assert.Error(t, err)

	_, err = Load([]byte{byte(JSON)}, &iconEntry{})
	assert.Error(t, err)

	_, err = Load([]byte{42, '{', '}'}, &iconEntry{})
	assert.ErrorIs(t, err, ErrIncompatibleFormat)

	_, err = Load([]byte{0, '{', '}'}, &iconEntry{})
	assert.ErrorIs(t, err, ErrIncompatibleFormat)

	_, err = Load([]byte(`J{"key": "ubuntu", "image": `), &iconEntry{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `{\"key\": \"ubunt`)
}
