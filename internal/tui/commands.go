package tui

import "strings"

// slashCommand is a parsed "/name arg" line from the input box.
type slashCommand struct {
	Name string
	Arg  string
}

// parseSlashCommand returns ok=false when the input is a regular chat
// message.
func parseSlashCommand(input string) (slashCommand, bool) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return slashCommand{}, false
	}
	fields := strings.SplitN(trimmed[1:], " ", 2)
	cmd := slashCommand{Name: strings.ToLower(strings.TrimSpace(fields[0]))}
	if cmd.Name == "" {
		return slashCommand{}, false
	}
	if len(fields) == 2 {
		cmd.Arg = strings.TrimSpace(fields[1])
	}
	return cmd, true
}
