package addressbook

import (
	"strings"
	"time"
)

// Record is one contact: a name, the phones added to it in order, and an
// optional birthday. The name never changes after creation.
type Record struct {
	name     string
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates a contact with no phones and no birthday.
func NewRecord(name string) (*Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &Error{Code: ErrorCodeInvalidName, Message: emptyNameMessage}
	}
	return &Record{name: name}, nil
}

// RestoreRecord rebuilds a contact from previously persisted values without
// running the phone and birthday validators. Only the name is checked.
func RestoreRecord(name string, phones []string, birthday *time.Time) (*Record, error) {
	r, err := NewRecord(name)
	if err != nil {
		return nil, err
	}
	if len(phones) > 0 {
		r.phones = make([]Phone, 0, len(phones))
		for _, p := range phones {
			r.phones = append(r.phones, Phone{value: p})
		}
	}
	if birthday != nil {
		b := BirthdayFromDate(*birthday)
		r.birthday = &b
	}
	return r, nil
}

// Name returns the contact name, which is also its key in a [Book].
func (r *Record) Name() string {
	return r.name
}

// Phones returns a copy of the phone numbers in the order they were added.
func (r *Record) Phones() []Phone {
	out := make([]Phone, len(r.phones))
	copy(out, r.phones)
	return out
}

// Birthday returns the birthday and whether one is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone validates raw and appends it. Duplicates are kept.
func (r *Record) AddPhone(raw string) error {
	phone, err := ValidatePhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, phone)
	return nil
}

// AddBirthday validates raw and replaces any existing birthday.
func (r *Record) AddBirthday(raw string) error {
	birthday, err := NewBirthday(raw)
	if err != nil {
		return err
	}
	r.birthday = &birthday
	return nil
}

// String renders the contact on one line.
func (r *Record) String() string {
	var b strings.Builder
	b.WriteString("Contact name: ")
	b.WriteString(r.name)
	b.WriteString(", phones: ")
	for i, p := range r.phones {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(p.value)
	}
	if r.birthday != nil {
		b.WriteString(", birthday: ")
		b.WriteString(r.birthday.String())
	}
	return b.String()
}
