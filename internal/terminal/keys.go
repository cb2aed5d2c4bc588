package terminal

// Kind identifies a decoded input event.
type Kind uint8

const (
	KindNone Kind = iota
	KindChar      // printable ASCII character in Key.Char
	KindBackspace
	KindDelete
	KindLeft
	KindRight
	KindUp
	KindDown
	KindHome
	KindEnd
	KindReturn
	KindKillLine  // CTRL-U, telnet Erase Line
	KindInterrupt // CTRL-C, telnet Interrupt Process
	KindEOF       // CTRL-D, telnet EOF
	KindF1
)

// String returns a short name, mostly for test failure messages and debug logs.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindChar:
		return "char"
	case KindBackspace:
		return "backspace"
	case KindDelete:
		return "delete"
	case KindLeft:
		return "left"
	case KindRight:
		return "right"
	case KindUp:
		return "up"
	case KindDown:
		return "down"
	case KindHome:
		return "home"
	case KindEnd:
		return "end"
	case KindReturn:
		return "return"
	case KindKillLine:
		return "kill-line"
	case KindInterrupt:
		return "interrupt"
	case KindEOF:
		return "eof"
	case KindF1:
		return "f1"
	default:
		return "unknown"
	}
}

// Key is one decoded input event.
type Key struct {
	Kind Kind
	Char byte
}

// Char returns a KindChar key for c.
func Char(c byte) Key {
	return Key{Kind: KindChar, Char: c}
}

// Control bytes and output sequences shared by the shell and the decoder.
const (
	Bell      = 0x07
	Backspace = 0x08
	Escape    = 0x1B
	Del       = 0x7F
)

// CRLF terminates every output line; both serial terminals and telnet
// clients expect it.
const CRLF = "\r\n"

// IsPrintable reports whether c is a visible ASCII character or space.
func IsPrintable(c byte) bool {
	return c >= 0x20 && c <= 0x7E
}
