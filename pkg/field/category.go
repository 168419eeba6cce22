package field

// Category is the semantic classification of a field. Classification happens
// outside this module; the matcher treats categories as opaque tags except for
// the canonical-key tables it is configured with. The set is open: callers may
// introduce categories beyond the constants below.
type Category string

const (
	CategoryUnknown      Category = "unknown"
	CategoryPassword     Category = "password"
	CategoryEmail        Category = "email"
	CategoryFirstName    Category = "firstName"
	CategoryLastName     Category = "lastName"
	CategoryFullName     Category = "fullName"
	CategoryPhone        Category = "phone"
	CategoryAddress      Category = "address"
	CategoryCity         Category = "city"
	CategoryState        Category = "state"
	CategoryZipCode      Category = "zipCode"
	CategoryCountry      Category = "country"
	CategoryOrganization Category = "organization"
	CategoryJobTitle     Category = "jobTitle"
	CategoryWebsite      Category = "website"
	CategoryUsername     Category = "username"
	CategoryCardNumber   Category = "cardNumber"
	CategoryDate         Category = "date"
	CategoryFile         Category = "file"
)

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }

// Known reports whether the category carries a semantic tag, i.e. it is
// neither empty nor unknown.
func (c Category) Known() bool {
	return c != "" && c != CategoryUnknown
}
