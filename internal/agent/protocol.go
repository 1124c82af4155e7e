package agent

import (
	"strings"
)

// CommandQuit terminates the agent
const CommandQuit = "QUIT"

// Command is one parsed input line: COMMAND [ARGS]
type Command struct {
	Name string
	Args string
}

// ParseLine splits a line at its first space after trimming surrounding
// whitespace. Blank lines carry no command.
func ParseLine(line string) (Command, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, false
	}

	name, args, _ := strings.Cut(line, " ")
	return Command{Name: name, Args: args}, true
}
