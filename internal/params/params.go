// Package params canonicalizes request parameter values before encoding.
// Servers in this API family expect literal "true"/"false" strings, never
// native JSON booleans, so normalization is an explicit step kept independent
// of the transport.
package params

import (
	"fmt"
	"strconv"
)

// Normalize converts every value in the map to its canonical string form.
// Booleans become "true"/"false"; integers and floats use their shortest
// decimal form; strings pass through unchanged.
func Normalize(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = Canonical(v)
	}
	return out
}

// Canonical returns the canonical string form of a single scalar value.
func Canonical(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
