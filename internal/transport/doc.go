// Package transport provides the byte streams shell sessions are bound to:
// a generic adapter over any io.Reader and io.Writer pair, and a network
// connection wrapper used by the telnet server.
package transport
