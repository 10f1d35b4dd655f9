package info

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	Set("OS Icons Test", "1.2.3", "GPLv3")
	require.NoError(t, prep())

	i := GetInfo()
	assert.Equal(t, "OS Icons Test", i.Name)
	assert.Equal(t, "GPLv3", i.License)
	assert.Contains(t, i.Platform, "/")
	assert.Contains(t, Version(), "1.2.3")

	full := FullVersion()
	assert.Contains(t, full, "OS Icons Test 1.2.3")
	assert.Contains(t, full, "Licensed under the GPLv3 license.")

	// Info is frozen after the first read.
	Set("Other", "9.9.9", "MIT")
	assert.Equal(t, "OS Icons Test", GetInfo().Name)
	Set("OS Icons Test", "1.2.3", "GPLv3")
}
