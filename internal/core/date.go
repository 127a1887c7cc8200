package core

import "time"

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

type (
	// Date is a calendar date in canonical YYYY-MM-DD form. The string
	// form is the on-disk representation and must round-trip exactly.
	Date string

	// Month is a year-month key in canonical YYYY-MM form, used to
	// group and filter by calendar month.
	Month string
)

// ParseDate validates a raw date string. The re-format check rejects
// unpadded forms like "2025-9-1" that time.Parse would accept.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil || t.Format(dateLayout) != s {
		return "", ErrInvalidDate
	}
	return Date(s), nil
}

func (d Date) Validate() error {
	_, err := ParseDate(string(d))
	return err
}

// MonthKey returns the YYYY-MM prefix of the date.
func (d Date) MonthKey() Month {
	if len(d) < len(monthLayout) {
		return ""
	}
	return Month(d[:len(monthLayout)])
}

// ParseMonth validates a raw year-month string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil || t.Format(monthLayout) != s {
		return "", ErrInvalidMonth
	}
	return Month(s), nil
}

func (m Month) Validate() error {
	_, err := ParseMonth(string(m))
	return err
}

// Today returns the current date in the canonical form.
func Today() Date {
	return Date(time.Now().Format(dateLayout))
}

// CurrentMonth returns the current year-month key.
func CurrentMonth() Month {
	return Month(time.Now().Format(monthLayout))
}

// ValidateYear bounds a report year to the representable calendar range.
func ValidateYear(year int) error {
	if year < 1 || year > 9999 {
		return ErrInvalidYear
	}
	return nil
}
