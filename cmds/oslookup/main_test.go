package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safing/osicons/osimage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	outputFormat = outputText
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestLookupCommand(t *testing.T) {
	out, err := execute(t, "lookup", "Ubuntu 22.04", "FreeDOS")
	require.NoError(t, err)
	assert.Contains(t, out, "INPUT")
	assert.Contains(t, out, "/assets/os-ubuntu.svg")
	assert.Contains(t, out, "FreeDOS")
	assert.Contains(t, out, "/assets/TablerHelp.svg")

	out, err = execute(t, "lookup", "--output", "json", "OpenWrt 23.05")
	require.NoError(t, err)
	var results []lookupResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "OpenWrt 23.05", results[0].Input)
	assert.Equal(t, osimage.Lookup("OpenWrt 23.05"), results[0].Result)
	assert.True(t, results[0].Monochrome)

	out, err = execute(t, "lookup", "-o", "yaml", "WINDOWS 11")
	require.NoError(t, err)
	results = nil
	require.NoError(t, yaml.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Windows", results[0].Name)

	_, err = execute(t, "lookup")
	assert.Error(t, err, "lookup requires an argument")

	_, err = execute(t, "lookup", "-o", "xml", "ubuntu")
	assert.Error(t, err)
}

func TestImagesCommand(t *testing.T) {
	out, err := execute(t, "images", "-o", "json")
	require.NoError(t, err)

	var images map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &images))
	assert.Equal(t, osimage.AllImages(), images)

	out, err = execute(t, "images")
	require.NoError(t, err)
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, "/assets/os-android.svg")
}

func TestCatalogCommand(t *testing.T) {
	out, err := execute(t, "catalog", "-o", "yaml")
	require.NoError(t, err)

	var descriptors []osimage.Descriptor
	require.NoError(t, yaml.Unmarshal([]byte(out), &descriptors))
	assert.Equal(t, osimage.Catalog(), descriptors)

	out, err = execute(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "Synology DSM")
}
