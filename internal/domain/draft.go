package domain

// Draft is one phase's in-progress edits. Values are limited to what JSON
// can carry: strings, booleans, numbers, slices and nested maps.
type Draft map[string]any

// Clone returns a shallow copy of d. A nil draft clones to nil.
func (d Draft) Clone() Draft {
	if d == nil {
		return nil
	}
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge returns a copy of d with every key of patch applied on top.
func (d Draft) Merge(patch Draft) Draft {
	out := make(Draft, len(d)+len(patch))
	for k, v := range d {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// String returns the value at key when it is a string.
func (d Draft) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Bool returns the value at key when it is a bool.
func (d Draft) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// IsBlank reports whether the value at key is missing, an empty string,
// false, or an empty list.
func (d Draft) IsBlank(key string) bool {
	v, ok := d[key]
	if !ok || v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case bool:
		return !t
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}
