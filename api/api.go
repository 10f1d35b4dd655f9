// Package api serves the HTTP API of osicons. Modules register endpoints
// below /api/v1/; structured responses are encoded in the format the client
// asks for with its Accept header.
package api

import (
	"errors"
	"flag"

	"github.com/safing/osicons/config"
	"github.com/safing/osicons/modules"
)

// Config keys.
const (
	CfgDefaultListenAddressKey = "core/listenAddress"
	CfgAllowedOriginsKey       = "core/api/allowedOrigins"
)

var (
	module *modules.Module

	// EnableServer can be unset to only use Handler, eg. in tests.
	EnableServer = true

	listenAddressFlag    string
	defaultListenAddress = "127.0.0.1:8817"
	listenAddress        config.StringOption

	defaultAllowedOrigins = []string{"127.0.0.1", "localhost"}
	allowedOrigins        config.StringArrayOption
)

func init() {
	flag.StringVar(&listenAddressFlag, "api-address", "", "set the api listen address, overriding the config")

	module = modules.Register("api", prep, start, nil, "config")
}

// SetDefaultAPIListenAddress sets the listen address used when neither the
// flag nor the config set one.
func SetDefaultAPIListenAddress(address string) {
	defaultListenAddress = address
}

func prep() error {
	if listenAddressFlag != "" {
		defaultListenAddress = listenAddressFlag
	}
	if defaultListenAddress == "" {
		return errors.New("api: no listen address")
	}

	for _, register := range []func() error{
		registerConfig,
		registerMetaEndpoints,
		registerConfigEndpoints,
		registerDebugEndpoints,
	} {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

func start() error {
	if EnableServer {
		startServer()
	}
	return nil
}

func registerConfig() error {
	err := config.Register(&config.Option{
		Name:            "API Address",
		Key:             CfgDefaultListenAddressKey,
		Description:     "IP address and port the API listens on.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		DefaultValue:    defaultListenAddress,
		ValidationRegex: `^([0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}|\[[:0-9A-Fa-f]+\]):[0-9]{1,5}$`,
		RequiresRestart: true,
		Annotations: config.Annotations{
			config.DisplayOrderAnnotation: 513,
			config.CategoryAnnotation:     "Development",
		},
	})
	if err != nil {
		return err
	}
	listenAddress = config.Concurrent.GetAsString(CfgDefaultListenAddressKey, defaultListenAddress)

	err = config.Register(&config.Option{
		Name:           "Allowed Cross-Origin Hosts",
		Key:            CfgAllowedOriginsKey,
		Description:    "Hostnames that may use the API from a different origin, eg. a web UI served elsewhere.",
		OptType:        config.OptTypeStringArray,
		ExpertiseLevel: config.ExpertiseLevelDeveloper,
		DefaultValue:   defaultAllowedOrigins,
		Annotations: config.Annotations{
			config.DisplayOrderAnnotation: 514,
			config.CategoryAnnotation:     "Development",
		},
	})
	if err != nil {
		return err
	}
	allowedOrigins = config.Concurrent.GetAsStringArray(CfgAllowedOriginsKey, defaultAllowedOrigins)

	return nil
}

func getAllowedOrigins() []string {
	if allowedOrigins == nil {
		return defaultAllowedOrigins
	}
	return allowedOrigins()
}
