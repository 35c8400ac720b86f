package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Session banner and prompt texts.
const (
	MsgWelcome = "Welcome to the assistant bot!"
	MsgGoodbye = "Good bye!"
	Prompt     = "Enter a command: "
)

// Session is the interactive loop: read a line, dispatch it, repeat until an
// exit word, end of input, or context cancellation.
type Session struct {
	in         io.Reader
	prompt     io.Writer
	out        Output
	dispatcher *Dispatcher
}

// NewSession reads commands from in and writes prompts to prompt. Replies go
// through the dispatcher's Output.
func NewSession(in io.Reader, prompt io.Writer, dispatcher *Dispatcher) *Session {
	return &Session{
		in:         in,
		prompt:     prompt,
		out:        dispatcher.out,
		dispatcher: dispatcher,
	}
}

// Run blocks until the session ends. It returns nil on an exit word or end of
// input, the read error if reading fails, and ctx.Err() when ctx is done.
func (s *Session) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	s.out.DisplayMessage(MsgWelcome)
	for {
		fmt.Fprint(s.prompt, Prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.prompt)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.prompt)
				s.out.DisplayMessage(MsgGoodbye)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			command, args := ParseInput(line)
			if command == "" {
				continue
			}
			if IsExit(command) {
				s.out.DisplayMessage(MsgGoodbye)
				return nil
			}
			s.dispatcher.Handle(command, args)
		}
	}
}
