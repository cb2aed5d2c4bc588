package shell

import "errors"

var (
	// ErrSessionActive is returned by Begin when a transport is already bound.
	ErrSessionActive = errors.New("session already active")

	// ErrSessionInactive is returned by writes on a session that has ended.
	ErrSessionInactive = errors.New("session not active")

	// ErrNilTransport is returned by Begin when no transport is given.
	ErrNilTransport = errors.New("nil transport")

	// ErrRegistryFrozen is returned when registering after the first session began.
	ErrRegistryFrozen = errors.New("command registry is frozen")

	// ErrDuplicateCommand is returned when a name is already registered or
	// would be shadowed by a built-in.
	ErrDuplicateCommand = errors.New("duplicate command name")

	// ErrInvalidCommand is returned for empty names, names containing
	// whitespace and missing handlers.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrStaleArguments is returned by Arguments.Err once the line it was
	// split from has been edited.
	ErrStaleArguments = errors.New("arguments refer to a line that has since changed")

	// ErrLineFull is returned when a character does not fit in the line buffer.
	ErrLineFull = errors.New("line buffer full")
)
