// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package lineage

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format of every civil date in a collection.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time of day or zone. The zero value means unset.
type Date struct {
	value time.Time // midnight UTC
}

// NewDate builds a Date. Out-of-range days and months normalise like [time.Date].
func NewDate(year int, month time.Month, day int) Date {
	return Date{value: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t as seen in t's own location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return NewDate(year, month, day)
}

// ParseDate parses "YYYY-MM-DD". An empty string yields the unset Date.
func ParseDate(raw string) (Date, error) {
	if raw == "" {
		return Date{}, nil
	}
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", raw)
	}
	return Date{value: parsed}, nil
}

// MustDate is ParseDate for literals known to be valid.
func MustDate(raw string) Date {
	date, err := ParseDate(raw)
	if err != nil {
		panic(err)
	}
	return date
}

func (d Date) IsZero() bool { return d.value.IsZero() }

// String returns "YYYY-MM-DD", or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.value.Format(DateLayout)
}

// AddMonths advances the date by n calendar months. Day overflow rolls into
// the following month: Jan 31 + 1 month is Mar 3, or Mar 2 in a leap year.
func (d Date) AddMonths(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{value: d.value.AddDate(0, n, 0)}
}

// AddDays advances the date by n days.
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{value: d.value.AddDate(0, 0, n)}
}

// Compare orders dates; the unset date sorts before every set date.
func (d Date) Compare(other Date) int {
	return d.value.Compare(other.value)
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// Equal reports whether both values name the same day.
func (d Date) Equal(other Date) bool { return d.value.Equal(other.value) }

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return d.value }

// MarshalJSON writes "YYYY-MM-DD" or null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", "" and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
