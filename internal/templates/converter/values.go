package converter

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"appforms/internal/templates/component"
)

// RequireKeys fails when obj lacks any of the required keys. A key holding
// null counts as present. The error lists the full required set.
func RequireKeys(t component.Type, obj Object, required ...string) error {
	var missing []string
	for _, k := range required {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return component.MissingKeys(t, missing, required)
	}
	return nil
}

// LongString reads a text field that may be a single string or a list of
// strings concatenated without separator. Null reads as empty.
func LongString(t component.Type, field string, v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case []string:
		return strings.Join(s, ""), nil
	case []any:
		var b strings.Builder
		for _, part := range s {
			str, ok := part.(string)
			if !ok {
				return "", component.FieldError(t, field, "must be a string or a list of strings, found a %s element", describe(part))
			}
			b.WriteString(str)
		}
		return b.String(), nil
	default:
		return "", component.FieldError(t, field, "must be a string or a list of strings, got %s", describe(v))
	}
}

func stringField(t component.Type, obj Object, key string) (string, error) {
	switch v := obj[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", component.FieldError(t, key, "must be a string, got %s", describe(v))
	}
}

func optionalString(t component.Type, obj Object, key string) (*string, error) {
	if obj[key] == nil {
		return nil, nil
	}
	s, err := stringField(t, obj, key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func boolField(t component.Type, obj Object, key string, def bool) (bool, error) {
	switch v := obj[key].(type) {
	case nil:
		return def, nil
	case bool:
		return v, nil
	default:
		return false, component.FieldError(t, key, "must be a boolean, got %s", describe(v))
	}
}

func intField(t component.Type, obj Object, key string) (int, error) {
	n, ok := toInt64(obj[key])
	if !ok || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, component.FieldError(t, key, "must be an integer, got %s", describe(obj[key]))
	}
	return int(n), nil
}

func listField(t component.Type, obj Object, key string) ([]any, error) {
	switch v := obj[key].(type) {
	case []any:
		return v, nil
	default:
		return nil, component.FieldError(t, key, "must be a list, got %s", describe(v))
	}
}

func objectField(t component.Type, obj Object, key string) (Object, error) {
	switch v := obj[key].(type) {
	case Object:
		return v, nil
	default:
		return nil, component.FieldError(t, key, "must be a map, got %s", describe(v))
	}
}

// DatabaseID reads a storage id. Anything that is not an integer reads as
// absent; persistence owns these values.
func DatabaseID(v any) *int64 {
	n, ok := toInt64(v)
	if !ok {
		return nil
	}
	return &n
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case []any:
		return "a list"
	case Object:
		return "a map"
	case json.Number, int, int32, int64, uint64, float64:
		return "a number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
