package shell

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// HandlerFunc executes a registered command. argv.At(0) is the command name
// and argc equals argv.Count(). Output goes to the session.
type HandlerFunc func(s *Session, cmd *Command, argc int, argv *Arguments)

// Command is the immutable descriptor of one registered command.
type Command struct {
	name    string
	help    string
	handler HandlerFunc
}

// NewCommand builds a descriptor. It is validated when registered.
func NewCommand(name, help string, handler HandlerFunc) *Command {
	return &Command{name: name, help: help, handler: handler}
}

// Name returns the name the first token must match exactly.
func (c *Command) Name() string { return c.name }

// Help returns the one-line help text shown by the help built-in.
func (c *Command) Help() string { return c.help }

// builtinNames are resolved before the registry and therefore cannot be registered.
var builtinNames = []string{"help", "?", "exit"}

func isBuiltin(name string) bool {
	for _, b := range builtinNames {
		if b == name {
			return true
		}
	}
	return false
}

// Registry is the append-only table of commands shared by every session of a
// process. It is filled at start-up and frozen when the first session begins;
// after that it is only read, so it needs no locking.
type Registry struct {
	commands []*Command
	index    map[string]int
	frozen   atomic.Bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends cmd. Names are case-sensitive, must be a single token and
// must be unique; a duplicate is rejected rather than silently shadowed.
func (r *Registry) Register(cmd *Command) error {
	if cmd == nil || cmd.handler == nil {
		return fmt.Errorf("register: %w: missing handler", ErrInvalidCommand)
	}
	if r.frozen.Load() {
		return fmt.Errorf("register %q: %w", cmd.name, ErrRegistryFrozen)
	}
	if cmd.name == "" || strings.ContainsAny(cmd.name, " \t") {
		return fmt.Errorf("register %q: %w: name must be a single non-empty token", cmd.name, ErrInvalidCommand)
	}
	if isBuiltin(cmd.name) {
		return fmt.Errorf("register %q: %w: shadowed by built-in", cmd.name, ErrDuplicateCommand)
	}
	if _, exists := r.index[cmd.name]; exists {
		return fmt.Errorf("register %q: %w", cmd.name, ErrDuplicateCommand)
	}
	r.index[cmd.name] = len(r.commands)
	r.commands = append(r.commands, cmd)
	return nil
}

// MustRegister builds and registers a command, panicking on error. It is
// meant for start-up code where a bad registration is a programming error.
func (r *Registry) MustRegister(name, help string, handler HandlerFunc) *Command {
	cmd := NewCommand(name, help, handler)
	if err := r.Register(cmd); err != nil {
		panic(err)
	}
	return cmd
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.commands[i], true
}

// All returns the commands in registration order.
func (r *Registry) All() []*Command {
	out := make([]*Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.commands)
}

// Freeze stops further registration. It is idempotent.
func (r *Registry) Freeze() {
	r.frozen.Store(true)
}

// Frozen reports whether the registry no longer accepts commands.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}
