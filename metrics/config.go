package metrics

import (
	"flag"
	"os"
	"strings"

	"github.com/safing/osicons/config"
)

// Config keys.
const (
	CfgOptionInstanceKey = "core/metrics/instance"
	CfgOptionPushKey     = "core/metrics/push"
)

var (
	instanceOption config.StringOption
	pushOption     config.StringOption

	instanceFlag  string
	pushFlag      string
	stateFileFlag string
)

func init() {
	defaultInstance, _ := os.Hostname()
	defaultInstance = strings.ReplaceAll(defaultInstance, "-", "")
	if !prometheusNameFormat.MatchString(defaultInstance) {
		defaultInstance = ""
	}

	flag.StringVar(&instanceFlag, "metrics-instance", defaultInstance, "set the instance label of all metrics")
	flag.StringVar(&pushFlag, "push-metrics", "", "push metrics to this URL every minute")
	flag.StringVar(&stateFileFlag, "metrics-state", "", "keep lookup counters in this file across restarts")
}

func registerConfig() error {
	err := config.Register(&config.Option{
		Name:            "Metrics Instance Name",
		Key:             CfgOptionInstanceKey,
		Description:     "The instance label of all metrics. Persisted counters are tied to it.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		DefaultValue:    instanceFlag,
		RequiresRestart: true,
		ValidationRegex: "^(" + prometheusName + ")?$",
		Annotations: config.Annotations{
			config.CategoryAnnotation: "Metrics",
		},
	})
	if err != nil {
		return err
	}
	instanceOption = config.Concurrent.GetAsString(CfgOptionInstanceKey, instanceFlag)

	err = config.Register(&config.Option{
		Name:            "Push Metrics",
		Key:             CfgOptionPushKey,
		Description:     "Push all metrics in the Prometheus format to this URL, eg. a VictoriaMetrics import endpoint.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		DefaultValue:    pushFlag,
		RequiresRestart: true,
		ValidationRegex: `^(https?://\S+)?$`,
		Annotations: config.Annotations{
			config.CategoryAnnotation: "Metrics",
		},
	})
	if err != nil {
		return err
	}
	pushOption = config.Concurrent.GetAsString(CfgOptionPushKey, pushFlag)

	return nil
}
