package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/safing/osicons/formats/dsd"
	"github.com/safing/osicons/osimage"
)

// Output formats.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// writeOutput writes v in the selected output format. Text output is
// rendered by writeText.
func writeOutput(w io.Writer, v any, writeText func(tw *tabwriter.Writer)) error {
	var (
		data []byte
		err  error
	)
	switch outputFormat {
	case outputJSON:
		data, err = dsd.DumpWithoutIdentifier(v, dsd.JSON, "  ")
		data = append(data, '\n')
	case outputYAML:
		data, err = dsd.DumpWithoutIdentifier(v, dsd.YAML, "")
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		writeText(tw)
		return tw.Flush()
	}
	if err != nil {
		return fmt.Errorf("failed to serialize output: %w", err)
	}

	_, err = w.Write(data)
	return err
}

func writeResults(w io.Writer, results []lookupResult) error {
	return writeOutput(w, results, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "INPUT\tNAME\tKEY\tIMAGE\tMONOCHROME\tSUPPORTED")
		for _, r := range results {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%t\n", r.Input, r.Name, r.Key, r.Image, r.Monochrome, r.Supported)
		}
	})
}

func writeImages(w io.Writer, images map[string]string) error {
	return writeOutput(w, images, func(tw *tabwriter.Writer) {
		keys := make([]string, 0, len(images))
		for key := range images {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Fprintln(tw, "KEY\tIMAGE")
		for _, key := range keys {
			fmt.Fprintf(tw, "%s\t%s\n", key, images[key])
		}
	})
}

func writeCatalog(w io.Writer, descriptors []osimage.Descriptor) error {
	return writeOutput(w, descriptors, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "NAME\tIMAGE\tMONOCHROME\tKEYWORDS")
		for _, d := range descriptors {
			fmt.Fprintf(tw, "%s\t%s\t%t\t%v\n", d.Name, d.Image, d.Monochrome, d.Keywords)
		}
	})
}
