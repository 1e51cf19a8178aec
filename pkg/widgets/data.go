package widgets

import "maps"

func field(data any, key string) any {
	m, _ := data.(map[string]any)
	return m[key]
}

func str(data any, key string) string {
	s, _ := field(data, key).(string)
	return s
}

// num reads a number. Decoded JSON has float64; trees built in Go may use
// ints.
func num(data any, key string) float64 {
	switch v := field(data, key).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// with returns a copy of the data object with key set to v. Data that is not
// an object is replaced.
func with(data any, key string, v any) map[string]any {
	m, _ := data.(map[string]any)
	m = maps.Clone(m)
	if m == nil {
		m = make(map[string]any)
	}
	m[key] = v
	return m
}
