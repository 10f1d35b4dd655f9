package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/safing/osicons/log"
)

var (
	configFilePath string
	saveLock       sync.Mutex
)

func loadConfigFile() error {
	if configFilePath == "" {
		return nil
	}

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		return err
	}
	values, err := ParseJSON(data)
	if err != nil {
		return fmt.Errorf("config: failed to parse %s: %w", configFilePath, err)
	}
	if err := replaceValues(values); err != nil {
		log.Warningf("config: some values in %s were ignored: %s", configFilePath, err)
	}
	return nil
}

func saveConfigFile() error {
	if configFilePath == "" {
		return nil
	}

	saveLock.Lock()
	defer saveLock.Unlock()

	data, err := FormatJSON(setValues())
	if err != nil {
		return fmt.Errorf("config: failed to format config: %w", err)
	}
	return os.WriteFile(configFilePath, data, 0o600)
}

// ParseJSON reads nested JSON objects into a map of option keys. The object
// {"osimage": {"imageBaseURL": "x"}} yields the key "osimage/imageBaseURL".
func ParseJSON(data []byte) (map[string]interface{}, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidData)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidData)
	}

	values := make(map[string]interface{})
	collectValues(values, root, "")
	return values, nil
}

func collectValues(values map[string]interface{}, obj gjson.Result, prefix string) {
	obj.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if prefix != "" {
			key = prefix + "/" + key
		}
		if v.IsObject() {
			collectValues(values, v, key)
		} else {
			values[key] = v.Value()
		}
		return true
	})
}

// FormatJSON is the reverse of ParseJSON.
func FormatJSON(values map[string]interface{}) ([]byte, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	data := []byte("{}")
	for _, key := range keys {
		var err error
		data, err = sjson.SetBytes(data, jsonPath(key), values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return data, nil
}

// jsonPath turns an option key into an sjson path.
func jsonPath(key string) string {
	key = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`).Replace(key)
	return strings.ReplaceAll(key, "/", ".")
}
