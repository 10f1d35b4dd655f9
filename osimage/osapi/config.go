package osapi

import (
	"strings"

	"github.com/safing/osicons/config"
	"github.com/safing/osicons/osimage"
)

// CfgImageBaseURLKey is the config key of the image base URL.
const CfgImageBaseURLKey = "osimage/imageBaseURL"

var imageBaseURL config.StringOption

func registerConfig() error {
	err := config.Register(&config.Option{
		Name:            "Icon Base URL",
		Key:             CfgImageBaseURLKey,
		Description:     "Prefix for all icon paths returned by the API, eg. the origin of a CDN. Leave empty to return the plain icon paths.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		DefaultValue:    "",
		ValidationRegex: `^(https?://[^\s]+)?$`,
		Annotations: config.Annotations{
			config.DisplayOrderAnnotation: 128,
			config.CategoryAnnotation:     "Icons",
		},
	})
	if err != nil {
		return err
	}
	imageBaseURL = config.Concurrent.GetAsString(CfgImageBaseURLKey, "")

	return nil
}

// imageURL prefixes the given icon path with the configured base URL.
func imageURL(image string) string {
	if imageBaseURL == nil {
		return image
	}
	base := imageBaseURL()
	if base == "" {
		return image
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(image, "/")
}

func withImageURL(result osimage.Result) osimage.Result {
	result.Image = imageURL(result.Image)
	return result
}
