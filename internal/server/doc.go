// Package server drives shell sessions from the outside: a telnet server
// that hands its single session to one client at a time, and a console
// driver for a local terminal.
//
// Both drivers own their session on one goroutine and call Loop at the
// configured poll interval. Configuration reloads reach the session through
// a channel so the session itself never needs locking.
//
// Listen accepts a socket from systemd socket activation when the process
// was started that way, and NotifyReady reports readiness to systemd.
package server
