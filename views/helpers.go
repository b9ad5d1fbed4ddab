package views

import (
	"fmt"
	"time"
)

func tagClass(active bool) string {
	if active {
		return "tag active"
	}
	return "tag"
}

// FormatDate renders a YYYY-MM-DD date in the reader's locale convention.
// Unparseable input is returned unchanged.
func FormatDate(date, lang string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	if lang == "ko" {
		return fmt.Sprintf("%d년 %d월 %d일", t.Year(), int(t.Month()), t.Day())
	}
	return t.Format("Jan 2, 2006")
}
