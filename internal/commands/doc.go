// Package commands holds the command set termshell registers at start-up.
package commands
