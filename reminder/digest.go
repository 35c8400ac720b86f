package reminder

import (
	"strings"
	"time"

	"github.com/spachava753/assistant/addressbook"
)

// Digest lists the contacts with a birthday in the coming week.
type Digest struct {
	Date     time.Time
	Upcoming []addressbook.Upcoming
}

// NewDigest collects the upcoming birthdays in book as of today.
func NewDigest(book *addressbook.Book, today time.Time) Digest {
	return Digest{Date: today, Upcoming: book.Upcoming(today)}
}

// Empty reports whether there is nobody to remind about.
func (d Digest) Empty() bool {
	return len(d.Upcoming) == 0
}

// Subject returns the mail subject line.
func (d Digest) Subject() string {
	return "Upcoming birthdays (" + d.Date.Format(addressbook.DateLayout) + ")"
}

// Body returns one "Name: DD.MM.YYYY" line per contact, using the date the
// birthday falls on this year.
func (d Digest) Body() string {
	if d.Empty() {
		return "No upcoming birthdays."
	}
	lines := make([]string, 0, len(d.Upcoming))
	for _, u := range d.Upcoming {
		lines = append(lines, u.Name+": "+u.Date.Format(addressbook.DateLayout))
	}
	return strings.Join(lines, "\n")
}
