package projection

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// ParseDate reads a YYYY-MM-DD calendar date. The zero time and false are
// returned for empty or malformed input.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders YYYY-MM-DD as dd/MM/yyyy, returning the input untouched
// when it is not a date.
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("02/01/2006")
}

// LongDate renders "1 de marzo".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d de %s", t.Day(), monthNames[t.Month()-1])
}
