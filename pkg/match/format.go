package match

import (
	"strings"

	"github.com/goliatone/go-autofill/pkg/field"
	"github.com/goliatone/go-autofill/pkg/profile"
)

// FormatValue renders the profile value for a matched key. Phone, ZIP, and
// card numbers get category-specific shapes; every other category passes the
// raw value through. The target descriptor decides phone styling: a
// placeholder containing parentheses selects the "(xxx) xxx-xxxx" form.
// Returns "" when key is empty or the profile holds no value for it.
func FormatValue(category field.Category, key string, target field.Descriptor, data profile.Data) string {
	if key == "" {
		return ""
	}
	value := data.Value(key)
	if value == "" {
		return ""
	}
	switch category {
	case field.CategoryPhone:
		return formatPhone(value, target.Placeholder)
	case field.CategoryZipCode:
		return formatZip(value)
	case field.CategoryCardNumber:
		return formatCard(value)
	default:
		return value
	}
}

func formatPhone(value, placeholder string) string {
	d := digits(value)
	if len(d) != 10 {
		return value
	}
	if strings.ContainsAny(placeholder, "()") {
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	}
	return d[:3] + "-" + d[3:6] + "-" + d[6:]
}

func formatZip(value string) string {
	d := digits(value)
	if len(d) == 9 {
		return d[:5] + "-" + d[5:]
	}
	if len(d) > 5 {
		return d[:5]
	}
	return d
}

func formatCard(value string) string {
	d := digits(value)
	if d == "" {
		return value
	}
	groups := make([]string, 0, len(d)/4+1)
	for len(d) > 4 {
		groups = append(groups, d[:4])
		d = d[4:]
	}
	groups = append(groups, d)
	return strings.Join(groups, " ")
}

func digits(s string) string {
	var out strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out.WriteRune(r)
		}
	}
	return out.String()
}
