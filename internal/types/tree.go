package types

// Tree is a nested mapping/sequence structure. Raw trees come from the report parser,
// flat trees from the normalizer. Values are strings, ints, float64s (after a JSON
// round trip), bools, nil, []any, and nested maps.
type Tree = map[string]any

// MapAt returns the nested mapping stored under key, if any.
func MapAt(t Tree, key string) (Tree, bool) {
	if t == nil {
		return nil, false
	}
	m, ok := t[key].(map[string]any)
	return m, ok
}

// SliceAt returns the sequence stored under key, if any.
func SliceAt(t Tree, key string) ([]any, bool) {
	if t == nil {
		return nil, false
	}
	s, ok := t[key].([]any)
	return s, ok
}

// StringAt returns the string stored under key, if any.
func StringAt(t Tree, key string) (string, bool) {
	if t == nil {
		return "", false
	}
	s, ok := t[key].(string)
	return s, ok
}
