package addressbook_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/spachava753/assistant/addressbook"
)

func Example() {
	book := addressbook.New()

	for _, entry := range []struct{ name, phone, birthday string }{
		{"Ann", "1234567890", "12.06.1990"},
		{"Bob", "0987654321", "20.06.1985"},
		{"Ann", "1112223333", ""},
	} {
		rec, err := book.Find(entry.name)
		if errors.Is(err, addressbook.ErrNotFound) {
			rec, _ = addressbook.NewRecord(entry.name)
			book.AddRecord(rec)
		}
		_ = rec.AddPhone(entry.phone)
		if entry.birthday != "" {
			_ = rec.AddBirthday(entry.birthday)
		}
	}

	for _, rec := range book.Records() {
		fmt.Println(rec)
	}

	today := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	fmt.Println(book.UpcomingBirthdays(today))

	// Output:
	// Contact name: Ann, phones: 1234567890; 1112223333, birthday: 12.06.1990
	// Contact name: Bob, phones: 0987654321, birthday: 20.06.1985
	// [Ann]
}

func ExampleValidatePhone() {
	_, err := addressbook.ValidatePhone("12345abcde")

	var bookErr *addressbook.Error
	if errors.As(err, &bookErr) {
		fmt.Println(bookErr.Code)
		fmt.Println(bookErr.Message)
	}

	// Output:
	// validation
	// Invalid phone number format. Must be 10 digits.
}
