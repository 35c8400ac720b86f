package addressbook

import "time"

// UpcomingWindow is how many days, today included, count as upcoming.
const UpcomingWindow = 7

// Book is the contact directory: records keyed by exact name, kept in the
// order their names were first added.
//
// A Book is not safe for concurrent use.
type Book struct {
	records map[string]*Record
	order   []string
}

// New returns an empty book.
func New() *Book {
	return &Book{records: make(map[string]*Record)}
}

// AddRecord stores r under its name. An existing record with the same name is
// replaced outright, phones and birthday included, but keeps its position.
func (b *Book) AddRecord(r *Record) {
	if r == nil {
		return
	}
	if _, exists := b.records[r.name]; !exists {
		b.order = append(b.order, r.name)
	}
	b.records[r.name] = r
}

// Find returns the record with exactly this name (case-sensitive) or
// [ErrNotFound].
func (b *Book) Find(name string) (*Record, error) {
	r, ok := b.records[name]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// Len returns the number of records.
func (b *Book) Len() int {
	return len(b.order)
}

// Records returns every record in insertion order.
func (b *Book) Records() []*Record {
	out := make([]*Record, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.records[name])
	}
	return out
}

// Upcoming is a contact whose birthday falls inside the upcoming window.
type Upcoming struct {
	Name string
	// Date is the birthday projected onto the year of the query date.
	Date time.Time
}

// UpcomingBirthdays returns the names of contacts whose birthday, moved into
// today's year, is between today and six days ahead inclusive. See
// [Book.Upcoming] for the rules.
func (b *Book) UpcomingBirthdays(today time.Time) []string {
	upcoming := b.Upcoming(today)
	names := make([]string, 0, len(upcoming))
	for _, u := range upcoming {
		names = append(names, u.Name)
	}
	return names
}

// Upcoming lists contacts with a birthday in the window starting today, in
// insertion order. Only the calendar date of today matters; its time of day
// is ignored.
//
// The birthday is placed in today's year only, so a birthday that has
// already passed this year is not found by wrapping into next year: on
// 30 December a 2 January birthday is not reported.
func (b *Book) Upcoming(today time.Time) []Upcoming {
	start := civilDate(today)
	var out []Upcoming
	for _, name := range b.order {
		r := b.records[name]
		birthday, ok := r.Birthday()
		if !ok {
			continue
		}
		thisYear := birthday.In(start.Year())
		diff := daysBetween(start, thisYear)
		if diff >= 0 && diff < UpcomingWindow {
			out = append(out, Upcoming{Name: name, Date: thisYear})
		}
	}
	return out
}

// daysBetween counts whole days from a to b, both UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
