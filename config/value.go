package config

import (
	"fmt"
	"math"
)

// normalize checks value against the option and converts it to the type
// getters expect: string, []string, int64 or bool. JSON numbers arrive as
// float64 and JSON arrays as []interface{}.
func normalize(opt *Option, value interface{}) (interface{}, error) {
	var normalized interface{}

	switch opt.OptType {
	case OptTypeString:
		s, ok := value.(string)
		if !ok {
			return nil, invalidValue(opt, value, "expected a string")
		}
		normalized = s

	case OptTypeStringArray:
		switch v := value.(type) {
		case []string:
			normalized = append([]string(nil), v...)
		case []interface{}:
			list := make([]string, 0, len(v))
			for i, entry := range v {
				s, ok := entry.(string)
				if !ok {
					return nil, invalidValue(opt, value, fmt.Sprintf("entry %d is not a string", i))
				}
				list = append(list, s)
			}
			normalized = list
		default:
			return nil, invalidValue(opt, value, "expected a list of strings")
		}

	case OptTypeInt:
		n, ok := toInt64(value)
		if !ok {
			return nil, invalidValue(opt, value, "expected an integer")
		}
		normalized = n

	case OptTypeBool:
		b, ok := value.(bool)
		if !ok {
			return nil, invalidValue(opt, value, "expected a boolean")
		}
		normalized = b

	default:
		return nil, invalidValue(opt, value, "option has an unknown type")
	}

	if opt.regex != nil {
		checks := []string{fmt.Sprint(normalized)}
		if list, ok := normalized.([]string); ok {
			checks = list
		}
		for _, s := range checks {
			if !opt.regex.MatchString(s) {
				return nil, invalidValue(opt, s, "does not match "+opt.ValidationRegex)
			}
		}
	}

	return normalized, nil
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

func invalidValue(opt *Option, value interface{}, msg string) error {
	return fmt.Errorf("%w: %s: %+v: %s", ErrInvalidData, opt.Key, value, msg)
}
