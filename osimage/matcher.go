package osimage

import (
	"strings"
	"unicode"
)

// Find returns the first catalog descriptor with a keyword contained in the
// given OS string. Matching is case insensitive and ignores surrounding
// whitespace. If nothing matches, the default descriptor is returned and
// matched is false.
func Find(osString string) (d Descriptor, matched bool) {
	if i := find(osString); i >= 0 {
		return copyDescriptor(catalog[i]), true
	}
	return Default(), false
}

// find returns the catalog index of the match or -1.
func find(osString string) int {
	if osString == "" {
		return -1
	}

	normalized := strings.TrimFunc(toLower(osString), isSpace)
	for i := range catalog {
		for _, keyword := range catalog[i].Keywords {
			if strings.Contains(normalized, keyword) {
				return i
			}
		}
	}

	return -1
}

// get returns the matched descriptor without copying. It must not be
// modified.
func get(osString string) (d *Descriptor, matched bool) {
	if i := find(osString); i >= 0 {
		return &catalog[i], true
	}
	return &defaultDescriptor, false
}

// Image returns the icon reference for the given OS string.
func Image(osString string) string {
	d, _ := get(osString)
	return d.Image
}

// IsMonochrome returns whether the icon for the given OS string is
// monochrome and needs to be inverted on dark backgrounds.
func IsMonochrome(osString string) bool {
	d, _ := get(osString)
	return d.Monochrome
}

// AllImages returns all icon references, keyed by the first keyword of
// their descriptor. The fallback icon is keyed by DefaultKey.
func AllImages() map[string]string {
	images := make(map[string]string, len(catalog)+1)
	for i := range catalog {
		images[catalog[i].Key()] = catalog[i].Image
	}
	images[DefaultKey] = defaultDescriptor.Image

	return images
}

// Name returns the display name for the given OS string. If no descriptor
// matches, the first word of the input is used instead.
func Name(osString string) string {
	d, matched := get(osString)
	if matched {
		return d.Name
	}

	if osString == "" {
		return defaultDescriptor.Name
	}

	// Only the first segment counts, even if it is empty.
	trimmed := strings.TrimFunc(osString, isSpace)
	if end := strings.IndexFunc(trimmed, isNameDelimiter); end >= 0 {
		trimmed = trimmed[:end]
	}
	if trimmed == "" {
		return defaultDescriptor.Name
	}
	return trimmed
}

func isNameDelimiter(r rune) bool {
	return r == '/' || isSpace(r)
}

// isSpace reports whitespace and line terminators as browsers define them.
// Unlike unicode.IsSpace, it includes U+FEFF and excludes U+0085.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\uFEFF', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// toLower lowercases s like browsers do. Go maps U+0130 to a plain "i",
// browsers keep the dot as a combining character.
func toLower(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "\u0130", "i\u0307"))
}

// IsSupported returns whether the given OS string matches a known
// descriptor.
func IsSupported(osString string) bool {
	if osString == "" {
		return false
	}

	_, matched := get(osString)
	return matched
}

// Lookup returns everything known about the given OS string.
func Lookup(osString string) Result {
	d, matched := get(osString)
	return Result{
		Key:        d.Key(),
		Name:       Name(osString),
		Image:      d.Image,
		Monochrome: d.Monochrome,
		Supported:  matched && osString != "",
	}
}
