// Package terminal decodes the raw byte stream of a serial line or telnet
// connection into key events for the shell's line editor.
//
// The Decoder is a small state machine: it folds the three line ending
// conventions into one return key, maps the VT100 cursor and function key
// escape sequences, and in telnet mode removes IAC commands from the stream
// while answering option negotiation the way a minimal telnet server does.
// Only ASCII is recognised; bytes outside 0x20..0x7E that are not part of a
// known sequence are dropped.
package terminal
