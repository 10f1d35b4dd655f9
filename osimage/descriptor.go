package osimage

// DefaultKey is the AllImages key of the fallback icon.
const DefaultKey = "unknown"

// Descriptor describes how an operating system is presented.
type Descriptor struct {
	// Name is the human readable name of the operating system.
	Name string `json:"name" yaml:"name"`

	// Image references the icon. It is resolved by the client, eg. a web UI.
	Image string `json:"image" yaml:"image"`

	// Keywords trigger a match if the normalized input contains any of them.
	// All keywords are lowercase. The first keyword is the key of the
	// descriptor.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Monochrome is set if the icon has a single color and must be inverted
	// on dark backgrounds.
	Monochrome bool `json:"monochrome" yaml:"monochrome"`
}

// Key returns the stable key of the descriptor.
func (d Descriptor) Key() string {
	if len(d.Keywords) == 0 {
		return ""
	}
	return d.Keywords[0]
}

// Result bundles everything known about an OS string.
type Result struct {
	Key        string `json:"key" yaml:"key"`
	Name       string `json:"name" yaml:"name"`
	Image      string `json:"image" yaml:"image"`
	Monochrome bool   `json:"monochrome" yaml:"monochrome"`
	Supported  bool   `json:"supported" yaml:"supported"`
}

var defaultDescriptor = Descriptor{
	Name:       "Unknown",
	Image:      "/assets/TablerHelp.svg",
	Keywords:   []string{DefaultKey},
	Monochrome: true,
}

// Default returns the descriptor used when nothing matches.
func Default() Descriptor {
	return copyDescriptor(defaultDescriptor)
}

func copyDescriptor(d Descriptor) Descriptor {
	d.Keywords = append([]string(nil), d.Keywords...)
	return d
}
