package addressbook

import "fmt"

// ErrorCode classifies address book errors.
type ErrorCode string

const (
	// ErrorCodeValidation indicates a phone or birthday value failed validation.
	ErrorCodeValidation ErrorCode = "validation"
	// ErrorCodeInvalidName indicates an empty contact name.
	ErrorCodeInvalidName ErrorCode = "invalid_name"
	// ErrorCodeNotFound indicates a referenced contact does not exist.
	ErrorCodeNotFound ErrorCode = "not_found"
)

// Error is a typed package error. Message is safe to show to the user as is.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error returns the formatted error message.
func (e *Error) Error() string {
	if e == nil {
		return "addressbook: <nil>"
	}
	if e.Message == "" {
		return fmt.Sprintf("addressbook: %s", e.Code)
	}
	return fmt.Sprintf("addressbook: %s: %s", e.Code, e.Message)
}

// Is reports whether target is an *Error with the same code, so callers can
// match on [ErrNotFound] and friends with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// ErrNotFound is returned by [Book.Find] when no contact has the given name.
var ErrNotFound = &Error{Code: ErrorCodeNotFound, Message: "Contact not found."}

const (
	phoneFormatMessage    = "Invalid phone number format. Must be 10 digits."
	birthdayFormatMessage = "Invalid date format. Use DD.MM.YYYY"
	emptyNameMessage      = "Contact name is required."
)

func validationError(message string) *Error {
	return &Error{Code: ErrorCodeValidation, Message: message}
}
