package recipients

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Recipient is a person eligible for a birthday notification
type Recipient struct {
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birthDate"`
}

// IsBirthday reports whether the recipient's birthday falls on today.
// The year component of both dates is ignored.
func (r Recipient) IsBirthday(today time.Time) bool {
	return r.BirthDate.Day() == today.Day() && r.BirthDate.Month() == today.Month()
}

// Filter returns the recipients whose birthday is today, preserving order
func Filter(all []Recipient, today time.Time) []Recipient {
	matched := make([]Recipient, 0)
	for _, r := range all {
		if r.IsBirthday(today) {
			matched = append(matched, r)
		}
	}
	return matched
}

// dayFirstLayouts are the accepted textual date formats (DD/MM/YYYY)
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
}

// ParseBirthDate parses a spreadsheet cell holding a birth date. Text cells
// must be day-first (DD/MM/YYYY); numeric cells are Excel date serials and
// are only accepted when they land on a past day.
func ParseBirthDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial < 1 {
		return time.Time{}, false
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil || t.After(time.Now()) {
		return time.Time{}, false
	}
	return t, true
}
