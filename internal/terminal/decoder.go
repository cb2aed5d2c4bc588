package terminal

type decodeState uint8

const (
	stateInit decodeState = iota
	stateCR               // last byte was CR, swallow a following LF or NUL
	stateEsc              // last byte was ESC
	stateCSI              // inside ESC [ ... sequence
	stateSS3              // after ESC O
	stateIAC              // after telnet IAC
	stateWill
	stateWont
	stateDo
	stateDont
	stateSB
	stateSBIAC
)

// maxReplies bounds the queue of pending telnet negotiation replies. Each
// reply is three bytes; a client flooding options simply loses replies.
const maxReplies = 8

// Decoder turns a raw byte stream into key events. It recognises VT100
// cursor and function key sequences, folds CR, LF and CRLF into a single
// return, and in telnet mode strips IAC commands while queueing the option
// negotiation replies the server owes the client.
//
// A Decoder holds no heap state; the zero value is ready for serial use.
type Decoder struct {
	telnet bool
	state  decodeState
	param  int

	// echoOffered is set once WILL ECHO was sent in reply to a client WILL.
	echoOffered bool

	replies [maxReplies * 3]byte
	nreply  int
}

// NewDecoder returns a decoder; telnet enables IAC processing.
func NewDecoder(telnet bool) Decoder {
	return Decoder{telnet: telnet}
}

// Reset clears any partial sequence and pending replies.
func (d *Decoder) Reset() {
	telnet := d.telnet
	*d = Decoder{telnet: telnet}
}

// Telnet reports whether IAC processing is enabled.
func (d *Decoder) Telnet() bool {
	return d.telnet
}

// Feed consumes one byte. It returns the decoded key and true when the byte
// completed an event, or false when the byte was swallowed or is part of an
// unfinished sequence.
func (d *Decoder) Feed(b byte) (Key, bool) {
	switch d.state {
	case stateCR:
		d.state = stateInit
		if b == '\n' || b == 0 {
			return Key{}, false
		}
		return d.initial(b)

	case stateEsc:
		switch b {
		case '[':
			d.state = stateCSI
			d.param = 0
			return Key{}, false
		case 'O':
			d.state = stateSS3
			return Key{}, false
		}
		// Not a sequence we understand: drop the ESC, keep the byte.
		d.state = stateInit
		return d.initial(b)

	case stateCSI:
		if b >= '0' && b <= '9' {
			if d.param < 1000 {
				d.param = d.param*10 + int(b-'0')
			}
			return Key{}, false
		}
		if b == ';' {
			return Key{}, false
		}
		d.state = stateInit
		return csiKey(b, d.param)

	case stateSS3:
		d.state = stateInit
		switch b {
		case 'A':
			return Key{Kind: KindUp}, true
		case 'B':
			return Key{Kind: KindDown}, true
		case 'C':
			return Key{Kind: KindRight}, true
		case 'D':
			return Key{Kind: KindLeft}, true
		case 'H':
			return Key{Kind: KindHome}, true
		case 'F':
			return Key{Kind: KindEnd}, true
		case 'P':
			return Key{Kind: KindF1}, true
		}
		return Key{}, false

	case stateIAC:
		return d.command(b)

	case stateWill:
		d.state = stateInit
		if b == OptionWindowSize || b == OptionFlowControl {
			d.reply(TelnetDO, b)
		} else {
			d.reply(TelnetDONT, b)
		}
		if !d.echoOffered {
			d.echoOffered = true
			d.reply(TelnetWILL, OptionEcho)
		}
		return Key{}, false

	case stateWont, stateDont:
		d.state = stateInit
		return Key{}, false

	case stateDo:
		d.state = stateInit
		switch b {
		case OptionEcho:
			// Acknowledgement of our WILL ECHO; replying again would loop.
		case OptionSuppressGoAhead:
			d.reply(TelnetWILL, b)
		default:
			d.reply(TelnetWONT, b)
		}
		return Key{}, false

	case stateSB:
		if b == TelnetIAC {
			d.state = stateSBIAC
		}
		return Key{}, false

	case stateSBIAC:
		if b == TelnetSE {
			d.state = stateInit
		} else {
			d.state = stateSB
		}
		return Key{}, false
	}

	return d.initial(b)
}

func (d *Decoder) initial(b byte) (Key, bool) {
	switch {
	case b == '\r':
		d.state = stateCR
		return Key{Kind: KindReturn}, true
	case b == '\n':
		return Key{Kind: KindReturn}, true
	case b == Backspace || b == Del:
		return Key{Kind: KindBackspace}, true
	case b == Escape:
		d.state = stateEsc
		return Key{}, false
	case b == 0x15:
		return Key{Kind: KindKillLine}, true
	case b == 0x03:
		return Key{Kind: KindInterrupt}, true
	case b == 0x04:
		return Key{Kind: KindEOF}, true
	case b == 0x01:
		return Key{Kind: KindHome}, true
	case b == 0x05:
		return Key{Kind: KindEnd}, true
	case b == TelnetIAC && d.telnet:
		d.state = stateIAC
		return Key{}, false
	case IsPrintable(b):
		return Char(b), true
	}
	// Other control bytes and anything outside ASCII are dropped.
	return Key{}, false
}

func (d *Decoder) command(b byte) (Key, bool) {
	d.state = stateInit
	switch b {
	case TelnetEOF:
		return Key{Kind: KindEOF}, true
	case TelnetEOR:
		return Key{Kind: KindReturn}, true
	case TelnetIP:
		return Key{Kind: KindInterrupt}, true
	case TelnetEC:
		return Key{Kind: KindBackspace}, true
	case TelnetEL:
		return Key{Kind: KindKillLine}, true
	case TelnetSB:
		d.state = stateSB
	case TelnetWILL:
		d.state = stateWill
	case TelnetWONT:
		d.state = stateWont
	case TelnetDO:
		d.state = stateDo
	case TelnetDONT:
		d.state = stateDont
	}
	// IAC IAC is a literal 0xFF, which is not ASCII, so it is dropped along
	// with NOP and anything unrecognised.
	return Key{}, false
}

func csiKey(final byte, param int) (Key, bool) {
	switch final {
	case 'A':
		return Key{Kind: KindUp}, true
	case 'B':
		return Key{Kind: KindDown}, true
	case 'C':
		return Key{Kind: KindRight}, true
	case 'D':
		return Key{Kind: KindLeft}, true
	case 'H':
		return Key{Kind: KindHome}, true
	case 'F':
		return Key{Kind: KindEnd}, true
	case '~':
		switch param {
		case 1, 7:
			return Key{Kind: KindHome}, true
		case 3:
			return Key{Kind: KindDelete}, true
		case 4, 8:
			return Key{Kind: KindEnd}, true
		case 11:
			return Key{Kind: KindF1}, true
		}
	}
	return Key{}, false
}

func (d *Decoder) reply(command, option byte) {
	if d.nreply+3 > len(d.replies) {
		return
	}
	d.replies[d.nreply] = TelnetIAC
	d.replies[d.nreply+1] = command
	d.replies[d.nreply+2] = option
	d.nreply += 3
}

// PendingReplies returns negotiation bytes waiting to be sent to the client.
// The slice aliases the decoder and is only valid until ClearReplies or the
// next Feed.
func (d *Decoder) PendingReplies() []byte {
	return d.replies[:d.nreply]
}

// ClearReplies discards the pending negotiation replies.
func (d *Decoder) ClearReplies() {
	d.nreply = 0
}
