package osapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/osicons/api"
	"github.com/safing/osicons/config"
	"github.com/safing/osicons/osimage"
)

const apiPath = "/api/v1/"

var registerOnce sync.Once

func testHandler(t *testing.T) http.HandlerFunc {
	t.Helper()

	registerOnce.Do(func() {
		require.NoError(t, registerConfig())
		require.NoError(t, registerEndpoints(nil))
	})
	return api.Handler().ServeHTTP
}

func get(t *testing.T, handler http.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, apiPath+path, nil))
	return rec
}

func TestTextEndpoints(t *testing.T) {
	handler := testHandler(t)

	tests := []struct {
		path string
		want string
	}{
		{"os/image?os=Ubuntu+22.04", "/assets/os-ubuntu.svg\n"},
		{"os/image?os=OpenWrt+23.05", "/assets/os-openwrt.svg\n"},
		{"os/image", "/assets/TablerHelp.svg\n"},
		{"os/monochrome?os=OpenWrt+23.05", "true\n"},
		{"os/monochrome?os=Debian", "false\n"},
		{"os/monochrome", "true\n"},
		{"os/name?os=WINDOWS+11", "Windows\n"},
		{"os/name?os=FreeDOS+1.3", "FreeDOS\n"},
		{"os/name", "Unknown\n"},
		{"os/supported?os=Rocky+Linux+9", "true\n"},
		{"os/supported?os=FreeDOS", "false\n"},
		{"os/supported", "false\n"},
	}
	for _, tt := range tests {
		rec := get(t, handler, tt.path)
		assert.Equal(t, http.StatusOK, rec.Code, tt.path)
		assert.Equal(t, tt.want, rec.Body.String(), tt.path)
	}
}

func TestLookupEndpoint(t *testing.T) {
	handler := testHandler(t)

	rec := get(t, handler, "os/lookup?os=Ubuntu+22.04")
	require.Equal(t, http.StatusOK, rec.Code)

	var result osimage.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, osimage.Result{
		Key:        "ubuntu",
		Name:       "Ubuntu",
		Image:      "/assets/os-ubuntu.svg",
		Monochrome: false,
		Supported:  true,
	}, result)

	rec = get(t, handler, "os/lookup")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, osimage.Lookup(""), result)
}

func TestListEndpoints(t *testing.T) {
	handler := testHandler(t)

	rec := get(t, handler, "os/images")
	require.Equal(t, http.StatusOK, rec.Code)
	var images map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &images))
	assert.Equal(t, osimage.AllImages(), images)

	rec = get(t, handler, "os/catalog")
	require.Equal(t, http.StatusOK, rec.Code)
	var descriptors []osimage.Descriptor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &descriptors))
	assert.Equal(t, osimage.Catalog(), descriptors)
}

func TestHostEndpoint(t *testing.T) {
	handler := testHandler(t)

	rec := get(t, handler, "os/host")
	require.Equal(t, http.StatusOK, rec.Code)

	var result HostResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.Key)
	assert.NotEmpty(t, result.Image)
	assert.Equal(t, osimage.Lookup(result.Banner), result.Result)
}

func TestImageBaseURL(t *testing.T) {
	handler := testHandler(t)

	require.NoError(t, config.SetConfigOption(CfgImageBaseURLKey, "https://cdn.example.com/"))
	defer func() {
		require.NoError(t, config.SetConfigOption(CfgImageBaseURLKey, nil))
	}()

	assert.Equal(t, "https://cdn.example.com/assets/os-ubuntu.svg", imageURL("/assets/os-ubuntu.svg"))
	assert.HTTPBodyContains(t, handler, http.MethodGet, apiPath+"os/image?os=ubuntu", nil, "https://cdn.example.com/assets/os-ubuntu.svg")
	assert.HTTPBodyContains(t, handler, http.MethodGet, apiPath+"os/lookup?os=ubuntu", nil, `"image":"https://cdn.example.com/assets/os-ubuntu.svg"`)
	assert.HTTPBodyContains(t, handler, http.MethodGet, apiPath+"os/images", nil, `"unknown":"https://cdn.example.com/assets/TablerHelp.svg"`)

	assert.Error(t, config.SetConfigOption(CfgImageBaseURLKey, "not a url"))
}
