// Package shell implements a small interactive command shell for serial
// consoles and telnet clients.
//
// A Session binds one byte stream at a time. It is driven cooperatively:
// the owner calls Loop as often as it likes and each call does a bounded
// amount of work without blocking, so a session can share a goroutine with
// other polling work. Input goes through a line editor with a fixed-size
// buffer; a completed line is recorded in a bounded history and dispatched
// to the help, ? and exit built-ins or to a command from the Registry.
//
// Commands receive an Arguments view that tokenizes the line in place.
// The view borrows the editor's buffer and must not be kept after the
// handler returns; copy tokens out with Strings if they are needed later.
//
// Behaviour around the prompt and line execution can be replaced through
// Hooks, which is how the login flow in package login is built.
package shell
