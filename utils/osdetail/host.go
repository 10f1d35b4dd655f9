// Package osdetail detects the host operating system and builds debug
// reports about it.
package osdetail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bluele/gcache"
	"github.com/shirou/gopsutil/host"

	"github.com/safing/osicons/log"
	"github.com/safing/osicons/osimage"
)

const (
	hostInfoCacheKey = "host"
	hostInfoTTL      = 10 * time.Minute
)

// ErrEmptyOutput is returned when host detection gives no usable banner.
var ErrEmptyOutput = errors.New("host detection succeeded with empty output")

var (
	hostInfoCache gcache.Cache = gcache.New(1).LRU().Build()

	// getHostInfo is replaced in tests.
	getHostInfo = host.InfoWithContext
)

// HostInfo returns details about the host. They are cached for a while.
func HostInfo(ctx context.Context) (*host.InfoStat, error) {
	if cached, err := hostInfoCache.GetIFPresent(hostInfoCacheKey); err == nil {
		if hi, ok := cached.(*host.InfoStat); ok {
			return hi, nil
		}
	}

	hi, err := getHostInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get host info: %w", err)
	}
	if hi == nil {
		return nil, ErrEmptyOutput
	}

	if err := hostInfoCache.SetWithExpire(hostInfoCacheKey, hi, hostInfoTTL); err != nil {
		log.Debugf("osdetail: failed to cache host info: %s", err)
	}
	return hi, nil
}

// ResetHostInfo drops the cached host details.
func ResetHostInfo() {
	hostInfoCache.Purge()
}

// HostBanner returns an OS string for the host, like "ubuntu 22.04".
func HostBanner(ctx context.Context) (string, error) {
	hi, err := HostInfo(ctx)
	if err != nil {
		return "", err
	}

	banner := makeBanner(hi)
	if banner == "" {
		return "", ErrEmptyOutput
	}
	return banner, nil
}

func makeBanner(hi *host.InfoStat) string {
	name := hi.Platform
	switch {
	case hi.OS == "darwin":
		// gopsutil reports the platform as "darwin" as well.
		name = "macOS"
	case name == "":
		name = hi.OS
	}
	return strings.TrimSpace(name + " " + hi.PlatformVersion)
}

// HostOS looks up the icon of the host. A host without a usable banner gets
// the default result.
func HostOS(ctx context.Context) (banner string, result osimage.Result, err error) {
	banner, err = HostBanner(ctx)
	switch {
	case errors.Is(err, ErrEmptyOutput):
		return "", osimage.Lookup(""), nil
	case err != nil:
		return "", osimage.Result{}, err
	}
	return banner, osimage.Lookup(banner), nil
}
