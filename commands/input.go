package commands

import "strings"

// ParseInput splits a line on whitespace into a command name and its
// arguments. The command name is lower-cased; arguments are kept verbatim.
// A blank line yields an empty command.
func ParseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// IsExit reports whether command ends the session.
func IsExit(command string) bool {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "close", "exit", "goodbye":
		return true
	default:
		return false
	}
}
