package terminal

// Telnet command and option codes (RFC 854, RFC 857, RFC 858).
const (
	TelnetSE   byte = 240
	TelnetNOP  byte = 241
	TelnetEOR  byte = 239
	TelnetIP   byte = 244 // interrupt process
	TelnetEC   byte = 247 // erase character
	TelnetEL   byte = 248 // erase line
	TelnetSB   byte = 250
	TelnetWILL byte = 251
	TelnetWONT byte = 252
	TelnetDO   byte = 253
	TelnetDONT byte = 254
	TelnetIAC  byte = 255
	TelnetEOF  byte = 236

	OptionEcho            byte = 1
	OptionSuppressGoAhead byte = 3
	OptionWindowSize      byte = 31
	OptionFlowControl     byte = 33
)

// ServerGreeting is sent when a remote session begins: the server takes over
// echoing and suppresses go-ahead so the client switches to character mode.
var ServerGreeting = []byte{
	TelnetIAC, TelnetWILL, OptionEcho,
	TelnetIAC, TelnetWILL, OptionSuppressGoAhead,
}
