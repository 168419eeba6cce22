// Package profile holds the flat key/value data the matcher draws fill
// values from.
package profile

import "sort"

// Data is a flat profile: key to saved value. Keys are unique and kept as-is
// at rest; normalization happens at match time.
type Data map[string]string

// SortedKeys returns the profile keys in lexicographic order. Every loop over
// a profile in this module goes through SortedKeys so identical inputs always
// produce identical results.
func (d Data) SortedKeys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value returns the saved value for key, or "" when the key is absent.
func (d Data) Value(key string) string {
	return d[key]
}

// Clone returns an independent copy of the profile.
func (d Data) Clone() Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
