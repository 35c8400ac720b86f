package commands

import (
	"errors"
	"strings"
	"time"

	"github.com/spachava753/assistant/addressbook"
)

// Replies returned by the handlers.
const (
	MsgContactAdded     = "Contact added."
	MsgContactUpdated   = "Contact updated."
	MsgContactNotFound  = "Contact not found."
	MsgBirthdayNotFound = "Birthday not found."
	MsgNameRequired     = "Write name for search."
	MsgNoUpcoming       = "No upcoming birthdays."
	MsgInternalError    = "Something went wrong."
)

const (
	usageAdd         = "add <name> <phone>"
	usageAddBirthday = "add-birthday <name> <DD.MM.YYYY>"
)

// Handler runs one command against the book and returns the reply. Handlers
// never fail: every error, and any panic, comes back as reply text.
type Handler func(args []string, book *addressbook.Book) string

type handlerFunc func(args []string, book *addressbook.Book) (string, error)

// inputError turns a fallible handler into a [Handler].
func inputError(fn handlerFunc) Handler {
	return func(args []string, book *addressbook.Book) (reply string) {
		defer func() {
			if recover() != nil {
				reply = MsgInternalError
			}
		}()
		reply, err := fn(args, book)
		if err != nil {
			return Message(err)
		}
		return reply
	}
}

// AddContact adds a phone to the named contact, creating the contact first if
// needed. args must be exactly [name, phone].
func AddContact(args []string, book *addressbook.Book) string {
	return inputError(addContact)(args, book)
}

func addContact(args []string, book *addressbook.Book) (string, error) {
	if len(args) != 2 {
		return "", &ArityError{Usage: usageAdd}
	}
	name, phone := args[0], args[1]

	// A rejected phone must not leave an empty new contact behind.
	if _, err := addressbook.ValidatePhone(phone); err != nil {
		return "", err
	}

	record, err := book.Find(name)
	message := MsgContactUpdated
	if errors.Is(err, addressbook.ErrNotFound) {
		record, err = addressbook.NewRecord(name)
		if err != nil {
			return "", err
		}
		book.AddRecord(record)
		message = MsgContactAdded
	}
	if err := record.AddPhone(phone); err != nil {
		return "", err
	}
	return message, nil
}

// AddBirthday sets the birthday of an existing contact. args must be exactly
// [name, DD.MM.YYYY].
func AddBirthday(args []string, book *addressbook.Book) string {
	return inputError(addBirthday)(args, book)
}

func addBirthday(args []string, book *addressbook.Book) (string, error) {
	if len(args) != 2 {
		return "", &ArityError{Usage: usageAddBirthday}
	}
	name, birthday := args[0], args[1]

	record, err := book.Find(name)
	if err != nil {
		return MsgContactNotFound, nil
	}
	if err := record.AddBirthday(birthday); err != nil {
		return "", err
	}
	return "Birthday added for " + name, nil
}

// ShowBirthday replies with the contact's birthday as DD.MM.YYYY. Extra
// arguments are ignored.
func ShowBirthday(args []string, book *addressbook.Book) string {
	return inputError(showBirthday)(args, book)
}

func showBirthday(args []string, book *addressbook.Book) (string, error) {
	if len(args) < 1 {
		return MsgNameRequired, nil
	}
	record, err := book.Find(args[0])
	if err != nil {
		return MsgBirthdayNotFound, nil
	}
	birthday, ok := record.Birthday()
	if !ok {
		return MsgBirthdayNotFound, nil
	}
	return birthday.String(), nil
}

// ListBirthdays replies with the contacts whose birthday is in the coming
// week, one name per line. Arguments are ignored.
func ListBirthdays(args []string, book *addressbook.Book) string {
	return ListBirthdaysAt(time.Now)(args, book)
}

// ListBirthdaysAt is [ListBirthdays] reading the current date from now.
func ListBirthdaysAt(now func() time.Time) Handler {
	return inputError(func(_ []string, book *addressbook.Book) (string, error) {
		upcoming := book.UpcomingBirthdays(now())
		if len(upcoming) == 0 {
			return MsgNoUpcoming, nil
		}
		return strings.Join(upcoming, "\n"), nil
	})
}
