package dbtime

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

// DateOf membuang jam & zona: hasilnya selalu tengah malam UTC
// supaya perbandingan tanggal di Go dan di DB konsisten.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today: tanggal kalender `now` dilihat dari loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

// ParseDate menerima "YYYY-MM-DD" (atau RFC3339, diambil tanggalnya saja).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

func ToDate(t time.Time) datatypes.Date {
	return datatypes.Date(DateOf(t))
}

func FromDate(d datatypes.Date) time.Time {
	return DateOf(time.Time(d))
}

func FormatDate(d datatypes.Date) string {
	return FromDate(d).Format(DateLayout)
}

func FormatDatePtr(d *datatypes.Date) *string {
	if d == nil {
		return nil
	}
	s := FormatDate(*d)
	return &s
}
