package commands

import (
	"errors"

	"github.com/spachava753/assistant/addressbook"
)

// ArityError reports a command called with the wrong number of arguments.
type ArityError struct {
	Usage string
}

// Error returns the usage hint.
func (e *ArityError) Error() string {
	if e == nil || e.Usage == "" {
		return "Invalid number of arguments."
	}
	return "Invalid number of arguments. Usage: " + e.Usage
}

// Message converts a handler error into the text shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var bookErr *addressbook.Error
	if errors.As(err, &bookErr) && bookErr.Message != "" {
		return bookErr.Message
	}
	return err.Error()
}
