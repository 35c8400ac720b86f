package commands

import (
	"maps"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/spachava753/assistant/addressbook"
)

// MsgInvalidCommand is shown for a command name with no handler.
const MsgInvalidCommand = "Invalid command."

// Dispatcher routes a parsed command to its handler and sends the reply to an
// Output.
type Dispatcher struct {
	book     *addressbook.Book
	out      Output
	logger   *zap.Logger
	now      func() time.Time
	handlers map[string]Handler
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for command tracing. The default discards.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithClock sets the source of the current date for the birthdays command.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDispatcher wires the built-in commands: add, add-birthday,
// show-birthday and birthdays.
func NewDispatcher(book *addressbook.Book, out Output, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		book:   book,
		out:    out,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.handlers = map[string]Handler{
		"add":           AddContact,
		"add-birthday":  AddBirthday,
		"show-birthday": ShowBirthday,
		"birthdays":     ListBirthdaysAt(d.now),
	}
	return d
}

// Commands lists the registered command names in sorted order.
func (d *Dispatcher) Commands() []string {
	return slices.Sorted(maps.Keys(d.handlers))
}

// Handle runs command and displays its reply. It reports whether the command
// was known; unknown commands are displayed as errors.
func (d *Dispatcher) Handle(command string, args []string) bool {
	handler, ok := d.handlers[command]
	if !ok {
		d.logger.Info("unknown command", zap.String("command", command))
		d.out.DisplayError(MsgInvalidCommand)
		return false
	}

	start := time.Now()
	reply := handler(args, d.book)
	d.logger.Debug("command handled",
		zap.String("command", command),
		zap.Int("args", len(args)),
		zap.Int("contacts", d.book.Len()),
		zap.Duration("dur", time.Since(start)),
	)
	d.out.DisplayMessage(reply)
	return true
}
