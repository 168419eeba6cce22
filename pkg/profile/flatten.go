package profile

import (
	"fmt"
	"sort"
	"strconv"
)

// RowsKey is the reserved profile key whose value holds an ordered list of
// row objects, as captured from multi-entry forms.
const RowsKey = "rows"

// Flatten converts a raw decoded profile document into flat Data. Values
// under the reserved "rows" list are lifted to the top level in order, so a
// later row overrides an earlier one; top-level keys override anything a row
// provided. Non-scalar values and malformed rows are skipped.
func Flatten(raw map[string]any) Data {
	out := make(Data, len(raw))

	if rows, ok := raw[RowsKey].([]any); ok {
		for _, entry := range rows {
			row, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			for _, k := range sortedRawKeys(row) {
				if s, ok := stringify(row[k]); ok {
					out[k] = s
				}
			}
		}
	}

	for _, k := range sortedRawKeys(raw) {
		if k == RowsKey {
			continue
		}
		if s, ok := stringify(raw[k]); ok {
			out[k] = s
		}
	}
	return out
}

func sortedRawKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return "", false
	}
}
