package osdetail

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/bluele/gcache"
	"github.com/shirou/gopsutil/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeHost(t *testing.T, hi *host.InfoStat, err error) *atomic.Int32 {
	t.Helper()

	calls := new(atomic.Int32)
	original := getHostInfo
	getHostInfo = func(context.Context) (*host.InfoStat, error) {
		calls.Add(1)
		return hi, err
	}
	ResetHostInfo()

	t.Cleanup(func() {
		getHostInfo = original
		ResetHostInfo()
	})
	return calls
}

func TestHostBanner(t *testing.T) {
	calls := fakeHost(t, &host.InfoStat{
		OS:              "linux",
		Platform:        "ubuntu",
		PlatformFamily:  "debian",
		PlatformVersion: "22.04",
	}, nil)

	banner, err := HostBanner(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ubuntu 22.04", banner)

	_, err = HostBanner(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load(), "second call is served from the cache")

	banner, result, err := HostOS(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ubuntu 22.04", banner)
	assert.Equal(t, "Ubuntu", result.Name)
	assert.True(t, result.Supported)
}

func TestHostInfoUncached(t *testing.T) {
	calls := fakeHost(t, &host.InfoStat{OS: "linux", Platform: "debian", PlatformVersion: "12"}, nil)

	original := hostInfoCache
	hostInfoCache = gcache.New(1).LRU().
		SerializeFunc(func(interface{}, interface{}) (interface{}, error) {
			return nil, errors.New("cache refuses entries")
		}).
		Build()
	t.Cleanup(func() {
		hostInfoCache = original
	})

	for i := 0; i < 2; i++ {
		hi, err := HostInfo(context.Background())
		require.NoError(t, err, "a failing cache must not fail the detection")
		assert.Equal(t, "debian", hi.Platform)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestMakeBanner(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		hi     host.InfoStat
		banner string
	}{
		{host.InfoStat{OS: "darwin", Platform: "darwin", PlatformVersion: "14.1"}, "macOS 14.1"},
		{host.InfoStat{OS: "windows", Platform: "Microsoft Windows 11 Pro", PlatformVersion: "10.0.22621"}, "Microsoft Windows 11 Pro 10.0.22621"},
		{host.InfoStat{OS: "freebsd"}, "freebsd"},
		{host.InfoStat{}, ""},
	} {
		hi := tc.hi
		assert.Equal(t, tc.banner, makeBanner(&hi))
	}
}

func TestHostOSFallbacks(t *testing.T) {
	fakeHost(t, &host.InfoStat{}, nil)

	banner, result, err := HostOS(context.Background())
	require.NoError(t, err)
	assert.Empty(t, banner)
	assert.Equal(t, "Unknown", result.Name)
	assert.False(t, result.Supported)

	fakeHost(t, nil, errors.New("no procfs"))
	_, _, err = HostOS(context.Background())
	assert.Error(t, err)

	di := new(DebugInfo)
	di.AddHostOS(context.Background())
	assert.Contains(t, di.String(), "Failed to get: failed to get host info: no procfs")
}

func TestDebugInfo(t *testing.T) {
	fakeHost(t, &host.InfoStat{
		OS:                 "linux",
		Platform:           "openwrt",
		PlatformVersion:    "23.05",
		VirtualizationRole: "guest",
	}, nil)

	di := &DebugInfo{Style: "github"}
	di.AddVersionInfo()
	di.AddPlatformInfo(context.Background())
	di.AddHostOS(context.Background())
	di.AddLastReportedModuleError()
	di.AddLastUnexpectedLogs()
	di.AddGoroutineStack()

	report := di.String()
	assert.Contains(t, report, "<summary>Platform: openwrt 23.05</summary>")
	assert.Contains(t, report, "VM: unidentified")
	assert.Contains(t, report, "<summary>Host OS: OpenWrt</summary>")
	assert.Contains(t, report, "Monochrome: true")
	assert.Contains(t, report, "goroutine")
	assert.Contains(t, report, "</details>")

	plain := new(DebugInfo)
	plain.AddHostOS(context.Background())
	assert.Contains(t, plain.String(), "**Host OS: OpenWrt**:\n\n```\nBanner: \"openwrt 23.05\"\n")
}
