package addressbook

import (
	"time"
)

const (
	// DateLayout is the user-facing birthday format, DD.MM.YYYY.
	DateLayout = "02.01.2006"

	phoneLength = 10
)

// Phone is a validated phone number: exactly ten decimal digits.
type Phone struct {
	value string
}

// ValidatePhone checks that raw is exactly ten ASCII digits.
func ValidatePhone(raw string) (Phone, error) {
	if len(raw) != phoneLength {
		return Phone{}, validationError(phoneFormatMessage)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return Phone{}, validationError(phoneFormatMessage)
		}
	}
	return Phone{value: raw}, nil
}

// String returns the ten digits.
func (p Phone) String() string {
	return p.value
}

// Birthday is a calendar date with no time of day, stored at UTC midnight.
type Birthday struct {
	date time.Time
}

// ValidateBirthday parses raw as DD.MM.YYYY and rejects dates that do not
// exist on the calendar (30.02.2020, 01.13.2000).
func ValidateBirthday(raw string) (time.Time, error) {
	if len(raw) != len(DateLayout) {
		return time.Time{}, validationError(birthdayFormatMessage)
	}
	date, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, validationError(birthdayFormatMessage)
	}
	return date, nil
}

// NewBirthday validates raw and wraps it as a Birthday.
func NewBirthday(raw string) (Birthday, error) {
	date, err := ValidateBirthday(raw)
	if err != nil {
		return Birthday{}, err
	}
	return Birthday{date: date}, nil
}

// BirthdayFromDate keeps only the year, month and day of t.
func BirthdayFromDate(t time.Time) Birthday {
	return Birthday{date: civilDate(t)}
}

// Date returns the birthday at UTC midnight.
func (b Birthday) Date() time.Time {
	return b.date
}

// String formats the birthday as DD.MM.YYYY.
func (b Birthday) String() string {
	return b.date.Format(DateLayout)
}

// In returns the month and day of the birthday placed in year. A 29 February
// birthday falls on 1 March in years that are not leap years.
func (b Birthday) In(year int) time.Time {
	month, day := b.date.Month(), b.date.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		month, day = time.March, 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// civilDate drops the time of day and location of t, keeping the date as seen
// in t's own location.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
