package metrics

import (
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/safing/osicons/info"
	"github.com/safing/osicons/log"
)

var infoReported atomic.Bool

func registerBuiltinMetrics() error {
	meta := info.GetInfo()
	_, err := NewGauge(
		"info",
		map[string]string{
			"version":      known(meta.Version),
			"commit":       known(meta.Commit),
			"build_date":   known(meta.BuildTime),
			"build_source": known(meta.Source),
			"go_os":        runtime.GOOS,
			"go_arch":      runtime.GOARCH,
			"go_version":   runtime.Version(),
		},
		func() float64 {
			// 0 on the first scrape marks a restart.
			if infoReported.CompareAndSwap(false, true) {
				return 0
			}
			return 1
		},
		&Options{Name: "Build Info"},
	)
	if err != nil {
		return err
	}

	for _, lc := range []struct {
		severity string
		fn       func() uint64
	}{
		{"warning", log.TotalWarningLogLines},
		{"error", log.TotalErrorLogLines},
		{"critical", log.TotalCriticalLogLines},
	} {
		_, err := NewFetchingCounter(
			"logs/"+lc.severity+"/total",
			nil,
			lc.fn,
			&Options{Name: "Total " + strings.ToUpper(lc.severity[:1]) + lc.severity[1:] + " Log Lines"},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func known(s string) string {
	if s == "" || strings.Contains(s, "unknown") {
		return "unknown"
	}
	return s
}
