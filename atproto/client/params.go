package client

import (
	"encoding"
	"fmt"
	"net/url"
)

// Flexibly converts an input map to URL query params. Nil values and empty strings are skipped.
func ParseParams(raw map[string]any) (url.Values, error) {
	out := make(url.Values)
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			if val != "" {
				out.Set(k, val)
			}
		case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			out.Set(k, fmt.Sprint(val))
		case encoding.TextMarshaler:
			b, err := val.MarshalText()
			if err != nil {
				return nil, fmt.Errorf("query param '%s': %w", k, err)
			}
			if len(b) > 0 {
				out.Set(k, string(b))
			}
		case []string:
			for _, elem := range val {
				out.Add(k, elem)
			}
		default:
			return nil, fmt.Errorf("can't marshal query param '%s' with type: %T", k, v)
		}
	}
	return out, nil
}
