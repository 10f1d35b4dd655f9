package osapi

import (
	"net/http"
	"strconv"

	"github.com/safing/osicons/api"
	"github.com/safing/osicons/modules"
	"github.com/safing/osicons/osimage"
	"github.com/safing/osicons/utils/osdetail"
)

// osParam is the query parameter holding the OS string.
const osParam = "os"

var osParameter = []api.Parameter{{
	Method:      http.MethodGet,
	Field:       osParam,
	Description: "Specify the OS string to look up, eg. a device's OS banner.",
}}

// HostResult is the lookup result for the local host.
type HostResult struct {
	Banner string `json:"banner" yaml:"banner"`
	osimage.Result
}

func registerEndpoints(owner *modules.Module) error {
	for _, ep := range []api.Endpoint{
		{
			Name:        "Get OS Image",
			Description: "Returns the icon path for the given OS string.",
			Path:        "os/image",
			BelongsTo:   owner,
			Parameters:  osParameter,
			ActionFunc:  getImage,
		},
		{
			Name:        "Get OS Icon Monochrome",
			Description: "Returns whether the icon of the given OS string is monochrome.",
			Path:        "os/monochrome",
			BelongsTo:   owner,
			Parameters:  osParameter,
			ActionFunc:  getMonochrome,
		},
		{
			Name:        "Get OS Name",
			Description: "Returns the display name for the given OS string.",
			Path:        "os/name",
			BelongsTo:   owner,
			Parameters:  osParameter,
			ActionFunc:  getName,
		},
		{
			Name:        "Check OS Support",
			Description: "Returns whether the given OS string matches a known OS.",
			Path:        "os/supported",
			BelongsTo:   owner,
			Parameters:  osParameter,
			ActionFunc:  getSupported,
		},
		{
			Name:        "Look Up OS",
			Description: "Returns all presentation attributes for the given OS string.",
			Path:        "os/lookup",
			BelongsTo:   owner,
			Parameters:  osParameter,
			StructFunc:  lookup,
		},
		{
			Name:        "List OS Images",
			Description: "Returns the icon path of every known OS by its key.",
			Path:        "os/images",
			BelongsTo:   owner,
			StructFunc:  listImages,
		},
		{
			Name:        "Export OS Catalog",
			Description: "Returns all known OS descriptors in match order.",
			Path:        "os/catalog",
			BelongsTo:   owner,
			StructFunc:  exportCatalog,
		},
		{
			Name:        "Look Up Host OS",
			Description: "Returns the presentation attributes of the OS this service runs on.",
			Path:        "os/host",
			BelongsTo:   owner,
			StructFunc:  lookupHost,
		},
	} {
		if err := api.RegisterEndpoint(ep); err != nil {
			return err
		}
	}

	return nil
}

func osString(ar *api.Request) string {
	return ar.URL.Query().Get(osParam)
}

func getImage(ar *api.Request) (msg string, err error) {
	d, matched := osimage.Find(osString(ar))
	countLookup(matched)
	return imageURL(d.Image), nil
}

func getMonochrome(ar *api.Request) (msg string, err error) {
	return strconv.FormatBool(osimage.IsMonochrome(osString(ar))), nil
}

func getName(ar *api.Request) (msg string, err error) {
	return osimage.Name(osString(ar)), nil
}

func getSupported(ar *api.Request) (msg string, err error) {
	return strconv.FormatBool(osimage.IsSupported(osString(ar))), nil
}

func lookup(ar *api.Request) (i interface{}, err error) {
	result := osimage.Lookup(osString(ar))
	countLookup(result.Supported)
	return withImageURL(result), nil
}

func listImages(_ *api.Request) (i interface{}, err error) {
	images := osimage.AllImages()
	for key, image := range images {
		images[key] = imageURL(image)
	}
	return images, nil
}

func exportCatalog(_ *api.Request) (i interface{}, err error) {
	descriptors := osimage.Catalog()
	for idx := range descriptors {
		descriptors[idx].Image = imageURL(descriptors[idx].Image)
	}
	return descriptors, nil
}

func lookupHost(ar *api.Request) (i interface{}, err error) {
	banner, result, err := osdetail.HostOS(ar.Context())
	if err != nil {
		return nil, api.ErrorWithStatus(err, http.StatusInternalServerError)
	}
	return &HostResult{
		Banner: banner,
		Result: withImageURL(result),
	}, nil
}
