package config

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/tidwall/sjson"
)

// OptionType is the type of the values an option holds.
type OptionType uint8

// Option types.
const (
	OptTypeString OptionType = iota + 1
	OptTypeStringArray
	OptTypeInt
	OptTypeBool
)

func (t OptionType) String() string {
	switch t {
	case OptTypeString:
		return "string"
	case OptTypeStringArray:
		return "[]string"
	case OptTypeInt:
		return "int"
	case OptTypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Annotations carry hints for user interfaces.
type Annotations map[string]interface{}

// Well known annotations.
const (
	DisplayOrderAnnotation = "osicons:ui:order"
	CategoryAnnotation     = "osicons:ui:category"
)

// Option describes a configuration option. Keys look like paths, eg.
// "osimage/imageBaseURL".
type Option struct {
	Name            string
	Key             string
	Description     string
	OptType         OptionType
	ExpertiseLevel  ExpertiseLevel
	RequiresRestart bool
	DefaultValue    interface{}
	ValidationRegex string      `json:",omitempty"`
	Annotations     Annotations `json:",omitempty"`

	regex *regexp.Regexp
	// defaultValue and value are normalized and guarded by registryLock.
	defaultValue interface{}
	value        interface{}
}

func (opt *Option) String() string {
	return fmt.Sprintf("<Option %s (%s)>", opt.Key, opt.OptType)
}

// Export returns the option as JSON, with its type name and the value
// currently in use.
func (opt *Option) Export() ([]byte, error) {
	registryLock.RLock()
	defer registryLock.RUnlock()

	data, err := json.Marshal(opt)
	if err != nil {
		return nil, err
	}
	data, err = sjson.SetBytes(data, "Type", opt.OptType.String())
	if err != nil {
		return nil, err
	}
	if opt.value != nil {
		return sjson.SetBytes(data, "Value", opt.value)
	}
	return data, nil
}

func (opt *Option) activeValue() interface{} {
	if opt.value != nil {
		return opt.value
	}
	return opt.defaultValue
}
