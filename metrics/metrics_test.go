package metrics

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/osicons/config"
)

func resetRegistry(opened bool) {
	registryLock.Lock()
	registry = make(map[string]*metric)
	open = opened
	globalLabels = make(map[string]string)
	labelsFrozen = false
	sets = newSets()
	registryLock.Unlock()

	stateLock.Lock()
	statePath = ""
	state = nil
	persisted = nil
	stateLock.Unlock()
}

func writeMetrics(lvl config.ExpertiseLevel) string {
	var buf bytes.Buffer
	WriteMetrics(&buf, lvl)
	return buf.String()
}

func TestMetricNames(t *testing.T) {
	resetRegistry(true)

	_, err := NewCounter("1invalid", nil, nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)
	_, err = NewCounter("osimage/lookups/total", map[string]string{"in-valid": "x"}, nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	c, err := NewCounter("osimage/lookups/total", map[string]string{"result": "matched"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "osimage/lookups/total", c.ID())
	assert.Equal(t, `osimage_lookups_total{result="matched"}`, c.LabeledID())
}

func TestRegistration(t *testing.T) {
	resetRegistry(false)

	_, err := NewCounter("osimage/early/total", nil, nil)
	assert.Error(t, err, "registering before start must fail")

	resetRegistry(true)

	_, err = NewCounter("osimage/dup/total", nil, nil)
	require.NoError(t, err)
	_, err = NewCounter("osimage/dup/total", nil, nil)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = NewCounter("osimage/a/total", nil, &Options{InternalID: "a"})
	require.NoError(t, err)
	_, err = NewCounter("osimage/b/total", nil, &Options{InternalID: "a"})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	assert.ErrorIs(t, AddGlobalLabel("instance", "test"), ErrAlreadyStarted)
}

func TestGlobalLabels(t *testing.T) {
	resetRegistry(true)

	assert.ErrorIs(t, AddGlobalLabel("in-valid", "x"), ErrInvalidOptions)
	require.NoError(t, AddGlobalLabel("instance", "edge1"))

	c, err := NewCounter("osimage/lookups/total", map[string]string{"result": "default"}, nil)
	require.NoError(t, err)
	assert.Equal(t, `osimage_lookups_total{instance="edge1",result="default"}`, c.LabeledID())

	c, err = NewCounter("osimage/other/total", map[string]string{"instance": "own"}, nil)
	require.NoError(t, err)
	assert.Equal(t, `osimage_other_total{instance="own"}`, c.LabeledID())
}

func TestMetricKinds(t *testing.T) {
	resetRegistry(true)

	c, err := NewCounter("osimage/lookups/total", nil, &Options{InternalID: "lookups"})
	require.NoError(t, err)
	c.Inc()
	c.Add(2)
	assert.Equal(t, uint64(3), c.CurrentValue())

	_, err = NewFetchingCounter("osimage/fetched/total", nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)
	fc, err := NewFetchingCounter("osimage/fetched/total", nil, func() uint64 { return 42 }, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), fc.CurrentValue())

	_, err = NewGauge("osimage/catalog/entries", nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)
	g, err := NewGauge("osimage/catalog/entries", nil, func() float64 { return 28 }, &Options{
		ExpertiseLevel: config.ExpertiseLevelExpert,
	})
	require.NoError(t, err)
	assert.InDelta(t, 28, g.CurrentValue(), 0.0001)

	all := writeMetrics(config.ExpertiseLevelDeveloper)
	assert.Contains(t, all, "osimage_lookups_total 3")
	assert.Contains(t, all, "osimage_fetched_total 42")
	assert.Contains(t, all, "osimage_catalog_entries 28")
	assert.NotContains(t, writeMetrics(config.ExpertiseLevelUser), "osimage_catalog_entries")

	exports := ExportMetrics(config.ExpertiseLevelDeveloper)
	require.Len(t, exports, 3)
	assert.Equal(t, "osimage_catalog_entries", exports[0].LabeledID)
	assert.Len(t, ExportMetrics(config.ExpertiseLevelUser), 2)

	assert.Equal(t, map[string]interface{}{"lookups": uint64(3)}, ExportValues(true))
	values := ExportValues(false)
	assert.Len(t, values, 3)
	assert.Equal(t, uint64(42), values["osimage_fetched_total"])
}

func TestBuiltinMetrics(t *testing.T) {
	resetRegistry(true)
	require.NoError(t, registerBuiltinMetrics())

	out := writeMetrics(config.ExpertiseLevelUser)
	assert.Contains(t, out, "logs_warning_total ")
	assert.Contains(t, out, "logs_critical_total ")
	assert.Contains(t, out, `info{build_date="unknown"`)
}

func TestMetricsHandler(t *testing.T) {
	resetRegistry(true)

	c, err := NewCounter("osimage/http/total", nil, nil)
	require.NoError(t, err)
	c.Inc()
	_, err = NewGauge("osimage/http/expert", nil, func() float64 { return 7 }, &Options{
		ExpertiseLevel: config.ExpertiseLevelDeveloper,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	serveMetrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "osimage_http_total 1")
	assert.Contains(t, rec.Body.String(), "osimage_http_expert 7")

	rec = httptest.NewRecorder()
	serveMetrics(rec, httptest.NewRequest(http.MethodGet, "/metrics?level=user", nil))
	assert.Contains(t, rec.Body.String(), "osimage_http_total 1")
	assert.NotContains(t, rec.Body.String(), "osimage_http_expert")
}

func TestPush(t *testing.T) {
	resetRegistry(true)

	c, err := NewCounter("osimage/pushed/total", nil, nil)
	require.NoError(t, err)
	c.Add(4)

	received := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- string(body)
	}))
	defer server.Close()

	require.NoError(t, pushMetricsTo(context.Background(), server.URL))
	assert.Contains(t, <-received, "osimage_pushed_total 4")

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "read only", http.StatusForbidden)
	}))
	defer failing.Close()

	err = pushMetricsTo(context.Background(), failing.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read only")
}

func TestPersistence(t *testing.T) {
	resetRegistry(true)
	defer resetRegistry(false)

	path := filepath.Join(t.TempDir(), "metrics.state")

	require.NoError(t, EnableMetricPersistence(path), "a missing state file is fine")
	assert.ErrorIs(t, EnableMetricPersistence(path), ErrAlreadyInitialized)

	matched, err := NewCounter("osimage/lookups/total", map[string]string{"result": "matched"}, &Options{Persist: true})
	require.NoError(t, err)
	matched.Add(5)
	volatile, err := NewCounter("osimage/volatile/total", nil, nil)
	require.NoError(t, err)
	volatile.Add(3)

	require.NoError(t, saveState())

	// Restart with the counter registered before persistence is enabled.
	resetRegistry(true)
	matched, err = NewCounter("osimage/lookups/total", map[string]string{"result": "matched"}, &Options{Persist: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), matched.CurrentValue())
	require.NoError(t, EnableMetricPersistence(path))
	assert.Equal(t, uint64(5), matched.CurrentValue())

	volatile, err = NewCounter("osimage/volatile/total", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), volatile.CurrentValue())

	// Registered after persistence is enabled.
	resetRegistry(true)
	require.NoError(t, EnableMetricPersistence(path))
	matched, err = NewCounter("osimage/lookups/total", map[string]string{"result": "matched"}, &Options{Persist: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), matched.CurrentValue())

	// Broken state files are reported.
	resetRegistry(true)
	require.NoError(t, os.WriteFile(path, []byte("Mbroken"), 0o600))
	assert.Error(t, EnableMetricPersistence(path))
}
