package dategroup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParsedDate carries every representation downstream selectors need: the
// four-digit year, the full English month name, and zero-padded numeric
// month and day.
type ParsedDate struct {
	Year        string `json:"year"`
	Month       string `json:"month"`
	MonthNumber string `json:"monthNumber"`
	Day         string `json:"day"`
}

// ISO renders the date back as YYYY-MM-DD.
func (p ParsedDate) ISO() string {
	return p.Year + "-" + p.MonthNumber + "-" + p.Day
}

// Value returns the component value filled for a role: the year, the numeric
// month, or the day.
func (p ParsedDate) Value(role Role) string {
	switch role {
	case RoleYear:
		return p.Year
	case RoleMonth:
		return p.MonthNumber
	case RoleDay:
		return p.Day
	}
	return ""
}

var (
	isoPattern        = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	usPattern         = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	usShortPattern    = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{2})$`)
	slashedISOPattern = regexp.MustCompile(`^(\d{4})/(\d{2})/(\d{2})$`)
	looseUSPattern    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// genericLayouts are tried in order when no structural pattern matches.
var genericLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
	"2006-1-2",
}

// Parse interprets text as a calendar date. Structural patterns are tried
// most specific first: YYYY-MM-DD, MM/DD/YYYY, MM/DD/YY, YYYY/MM/DD, then
// M/D/YYYY, then the generic layouts. Two-digit years pivot at 50, so 49
// lands in 2049 and 50 in 1950. Returns false when no interpretation yields
// a valid calendar date.
func Parse(text string) (ParsedDate, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ParsedDate{}, false
	}

	if m := isoPattern.FindStringSubmatch(trimmed); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	if m := usPattern.FindStringSubmatch(trimmed); m != nil {
		return buildDate(m[3], m[1], m[2])
	}
	if m := usShortPattern.FindStringSubmatch(trimmed); m != nil {
		return buildDate(pivotYear(m[3]), m[1], m[2])
	}
	if m := slashedISOPattern.FindStringSubmatch(trimmed); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	if m := looseUSPattern.FindStringSubmatch(trimmed); m != nil {
		return buildDate(m[3], m[1], m[2])
	}
	for _, layout := range genericLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return fromTime(ts), true
		}
	}
	return ParsedDate{}, false
}

func buildDate(year, month, day string) (ParsedDate, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return ParsedDate{}, false
	}
	// time.Date normalizes overflow (Feb 30 becomes Mar 2); a changed
	// component means the input was not a real date.
	ts := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if ts.Year() != y || ts.Month() != time.Month(m) || ts.Day() != d {
		return ParsedDate{}, false
	}
	return fromTime(ts), true
}

func fromTime(ts time.Time) ParsedDate {
	return ParsedDate{
		Year:        fmt.Sprintf("%04d", ts.Year()),
		Month:       ts.Month().String(),
		MonthNumber: fmt.Sprintf("%02d", int(ts.Month())),
		Day:         fmt.Sprintf("%02d", ts.Day()),
	}
}

func pivotYear(two string) string {
	v, _ := strconv.Atoi(two)
	if v < 50 {
		return strconv.Itoa(2000 + v)
	}
	return strconv.Itoa(1900 + v)
}
