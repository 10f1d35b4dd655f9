// Package config holds the runtime options of osicons. Options are
// registered by the modules that use them and can be changed through the
// API or a JSON file given with -config.
package config

import (
	"errors"
	"flag"
	"io/fs"

	"github.com/safing/osicons/modules"
)

var (
	// ErrInvalidData is returned when a value does not fit an option.
	ErrInvalidData = errors.New("invalid data")
	// ErrUnknownOption is returned for keys nobody registered.
	ErrUnknownOption = errors.New("unknown option")
)

func init() {
	flag.StringVar(&configFilePath, "config", "", "load and save options in this JSON file")

	modules.Register("config", nil, start, nil)
}

func start() error {
	err := loadConfigFile()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ExpertiseLevel tells user interfaces whom an option is meant for.
type ExpertiseLevel uint8

// Expertise levels.
const (
	ExpertiseLevelUser ExpertiseLevel = iota
	ExpertiseLevelExpert
	ExpertiseLevelDeveloper
)

func (lvl ExpertiseLevel) String() string {
	switch lvl {
	case ExpertiseLevelUser:
		return "user"
	case ExpertiseLevelExpert:
		return "expert"
	default:
		return "developer"
	}
}

// ParseExpertiseLevel returns the level with the given name.
// Unknown names are treated as "developer".
func ParseExpertiseLevel(name string) ExpertiseLevel {
	for _, lvl := range []ExpertiseLevel{ExpertiseLevelUser, ExpertiseLevelExpert} {
		if lvl.String() == name {
			return lvl
		}
	}
	return ExpertiseLevelDeveloper
}
