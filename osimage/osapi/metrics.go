package osapi

import (
	"github.com/safing/osicons/metrics"
)

var (
	matchedLookups *metrics.Counter
	defaultLookups *metrics.Counter
)

func registerMetrics() (err error) {
	matchedLookups, err = metrics.NewCounter(
		"osimage/lookups/total",
		map[string]string{"result": "matched"},
		&metrics.Options{
			Name:       "Total Matched OS Lookups",
			InternalID: "osimage_lookups_matched",
			Persist:    true,
		},
	)
	if err != nil {
		return err
	}

	defaultLookups, err = metrics.NewCounter(
		"osimage/lookups/total",
		map[string]string{"result": "default"},
		&metrics.Options{
			Name:       "Total Unmatched OS Lookups",
			InternalID: "osimage_lookups_default",
			Persist:    true,
		},
	)
	return err
}

func countLookup(matched bool) {
	switch {
	case matched && matchedLookups != nil:
		matchedLookups.Inc()
	case !matched && defaultLookups != nil:
		defaultLookups.Inc()
	}
}
