// Package info holds the name, version and build details of the program.
package info

import (
	"errors"
	"flag"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/safing/osicons/modules"
)

var (
	name    string
	version = "dev build"
	license string

	// Set with -ldflags "-X github.com/safing/osicons/info.buildSource=...".
	buildSource = "[source unknown]"
	buildTime   = "[build time unknown]"

	info     *Info
	infoOnce sync.Once

	showVersion bool
)

func init() {
	flag.BoolVar(&showVersion, "version", false, "print the version and exit")

	modules.Register("info", prep, nil, nil)
}

// Info describes the running program.
type Info struct {
	Name    string
	Version string
	License string

	Source    string
	BuildTime string
	GoVersion string
	Platform  string

	Commit     string
	CommitTime string
	Dirty      bool
}

// Set sets the name, version and license of the program. It must be called
// before anything reads the info, usually first thing in main.
func Set(setName, setVersion, setLicense string) {
	name = setName
	license = setLicense
	if setVersion != "" {
		version = setVersion
	}
}

// GetInfo returns the program info. The first call freezes it.
func GetInfo() *Info {
	infoOnce.Do(func() {
		info = &Info{
			Name:       name,
			Version:    version,
			License:    license,
			Source:     buildSource,
			BuildTime:  buildTime,
			GoVersion:  runtime.Version(),
			Platform:   runtime.GOOS + "/" + runtime.GOARCH,
			Commit:     "[commit unknown]",
			CommitTime: "[commit time unknown]",
		}

		buildInfo, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, s := range buildInfo.Settings {
			switch s.Key {
			case "vcs.revision":
				info.Commit = s.Value
			case "vcs.time":
				info.CommitTime = s.Value
			case "vcs.modified":
				info.Dirty = s.Value == "true"
			}
		}
	})

	return info
}

// Version returns the version. Builds from a modified tree get a "*".
func Version() string {
	i := GetInfo()
	if i.Dirty {
		return i.Version + "*"
	}
	return i.Version
}

// FullVersion returns a multi-line description of the build.
func FullVersion() string {
	i := GetInfo()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", i.Name, Version())
	fmt.Fprintf(&b, "\nbuilt with %s (%s) %s\n", i.GoVersion, runtime.Compiler, i.Platform)
	fmt.Fprintf(&b, "  at %s\n", i.BuildTime)
	fmt.Fprintf(&b, "\ncommit %s\n", i.Commit)
	fmt.Fprintf(&b, "  at %s\n", i.CommitTime)
	fmt.Fprintf(&b, "  from %s\n", i.Source)
	fmt.Fprintf(&b, "\nLicensed under the %s license.", i.License)
	return b.String()
}

func prep() error {
	if name == "" || license == "" {
		return errors.New("info: Set must be called before starting")
	}

	if showVersion {
		fmt.Println(FullVersion())
		return modules.ErrCleanExit
	}
	return nil
}
