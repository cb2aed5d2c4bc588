package shell

import (
	"github.com/jedib0t/go-pretty/v6/text"
)

// Outcome tells what Dispatch did with a line.
type Outcome int

const (
	// OutcomeEmpty means the line held no tokens.
	OutcomeEmpty Outcome = iota
	// OutcomeBuiltin means help, ? or exit ran.
	OutcomeBuiltin
	// OutcomeCommand means a registered handler ran.
	OutcomeCommand
	// OutcomeUnknown means no command matched and an error was printed.
	OutcomeUnknown
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeBuiltin:
		return "builtin"
	case OutcomeCommand:
		return "command"
	case OutcomeUnknown:
		return "unknown"
	}
	return "invalid"
}

// Dispatch tokenizes line in place and runs the matching command. Built-ins
// are resolved first, then the registry; anything else prints
// "Unknown command: <name>". line is destroyed by tokenizing.
func (s *Session) Dispatch(line []byte) Outcome {
	argv := newEditorArguments(s.editor, line)
	argc := argv.Count()
	if argc == 0 {
		return OutcomeEmpty
	}
	name, _ := argv.At(0)

	switch name {
	case "help", "?":
		s.Help()
		return OutcomeBuiltin
	case "exit":
		s.Exit()
		return OutcomeBuiltin
	}

	if cmd, ok := s.registry.Lookup(name); ok {
		s.log.Debug("Running %s with %d arguments", name, argc)
		cmd.handler(s, cmd, argc, argv)
		return OutcomeCommand
	}

	s.Printf("Unknown command: %s\r\n", name)
	return OutcomeUnknown
}

// Help lists every registered command in registration order, with the help
// strings aligned in a column two spaces past the longest name.
func (s *Session) Help() {
	commands := s.registry.All()
	width := 0
	for _, cmd := range commands {
		width = max(width, len(cmd.Name()))
	}
	for _, cmd := range commands {
		s.Printf("%s%s\r\n", text.Pad(cmd.Name(), width+2, ' '), cmd.Help())
	}
}
