package commands

import (
	"fmt"
	"io"
)

// Output receives handler replies for display.
type Output interface {
	DisplayMessage(message string)
	DisplayError(message string)
}

// Console writes replies as plain lines.
type Console struct {
	w io.Writer
}

var _ Output = (*Console)(nil)

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// DisplayMessage writes message on its own line.
func (c *Console) DisplayMessage(message string) {
	fmt.Fprintln(c.w, message)
}

// DisplayError writes message prefixed with "Error: ".
func (c *Console) DisplayError(message string) {
	fmt.Fprintln(c.w, "Error: "+message)
}
