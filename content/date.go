package content

import (
	"fmt"
	"time"
)

var dateLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
	"2006-01-02",
}

var monthAbbr = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// ParseDate parses an API timestamp such as 2021-03-25T19:25:28+0000.
func ParseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders raw as "25 mar 2021". Unset dates give "" and
// unparseable ones are returned unchanged.
func FormatDate(raw string) string {
	if raw == "" {
		return ""
	}
	t, ok := ParseDate(raw)
	if !ok {
		return raw
	}
	return fmt.Sprintf("%02d %s %d", t.Day(), monthAbbr[t.Month()-1], t.Year())
}
