// Package addressbook is the in-memory contact directory: validated field
// values, contact records, and the upcoming-birthday query.
//
// # Model
//
//   - Phone: exactly ten ASCII digits, built by ValidatePhone.
//   - Birthday: a calendar date parsed from DD.MM.YYYY by NewBirthday.
//   - Record: a name, phones in insertion order, an optional Birthday.
//   - Book: records keyed by exact, case-sensitive name.
//
// Validation failures are returned as *Error with Code ErrorCodeValidation.
// Error.Message holds text fit for the user ("Invalid date format. Use
// DD.MM.YYYY"); Error.Error adds the package and code prefix for logs.
//
// # Upcoming Birthdays
//
// Book.Upcoming places every birthday in the year of the query date and keeps
// the ones 0 to 6 days ahead. 29 February becomes 1 March in non-leap years.
//
// Known limitation: there is no wraparound into the next year. On 30 December
// a 2 January birthday is not reported.
//
// # Composition Example
//
//	book := addressbook.New()
//	rec, err := book.Find("Ann")
//	if errors.Is(err, addressbook.ErrNotFound) {
//		rec, _ = addressbook.NewRecord("Ann")
//		book.AddRecord(rec)
//	}
//	if err := rec.AddPhone("0123456789"); err != nil {
//		// show err.(*addressbook.Error).Message
//	}
//	names := book.UpcomingBirthdays(time.Now())
//
// Book.AddRecord replaces any record stored under the same name, so look a
// contact up with Find before creating one.
package addressbook
