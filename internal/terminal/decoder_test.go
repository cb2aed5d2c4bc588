package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feedAll(d *Decoder, in []byte) []Key {
	var keys []Key
	for _, b := range in {
		if k, ok := d.Feed(b); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestDecoder_Sequences(t *testing.T) {
	tests := []struct {
		name     string
		telnet   bool
		input    []byte
		expected []Key
	}{
		{"printable", false, []byte("ab"), []Key{Char('a'), Char('b')}},
		{"cr", false, []byte("\r"), []Key{{Kind: KindReturn}}},
		{"lf", false, []byte("\n"), []Key{{Kind: KindReturn}}},
		{"crlf folds", false, []byte("\r\n"), []Key{{Kind: KindReturn}}},
		{"cr nul folds", false, []byte{'\r', 0}, []Key{{Kind: KindReturn}}},
		{"lf lf is two lines", false, []byte("\n\n"), []Key{{Kind: KindReturn}, {Kind: KindReturn}}},
		{"cr then char", false, []byte("\rx"), []Key{{Kind: KindReturn}, Char('x')}},
		{"backspace", false, []byte{0x08, 0x7F}, []Key{{Kind: KindBackspace}, {Kind: KindBackspace}}},
		{"ctrl keys", false, []byte{0x15, 0x03, 0x04}, []Key{{Kind: KindKillLine}, {Kind: KindInterrupt}, {Kind: KindEOF}}},
		{"arrows", false, []byte("\x1b[A\x1b[B\x1b[C\x1b[D"), []Key{{Kind: KindUp}, {Kind: KindDown}, {Kind: KindRight}, {Kind: KindLeft}}},
		{"delete", false, []byte("\x1b[3~"), []Key{{Kind: KindDelete}}},
		{"home end", false, []byte("\x1b[H\x1b[F\x1b[1~\x1b[4~"), []Key{{Kind: KindHome}, {Kind: KindEnd}, {Kind: KindHome}, {Kind: KindEnd}}},
		{"f1 ss3", false, []byte("\x1bOP"), []Key{{Kind: KindF1}}},
		{"f1 csi", false, []byte("\x1b[11~"), []Key{{Kind: KindF1}}},
		{"unknown esc keeps byte", false, []byte("\x1bx"), []Key{Char('x')}},
		{"non ascii dropped", false, []byte{0xC3, 0xA9, 'a'}, []Key{Char('a')}},
		{"iac ignored in serial", false, []byte{TelnetIAC, 'a'}, []Key{Char('a')}},
		{"iac nop stripped", true, []byte{TelnetIAC, TelnetNOP, 'a'}, []Key{Char('a')}},
		{"iac iac dropped", true, []byte{TelnetIAC, TelnetIAC, 'a'}, []Key{Char('a')}},
		{"iac erase line", true, []byte{TelnetIAC, TelnetEL}, []Key{{Kind: KindKillLine}}},
		{"iac interrupt", true, []byte{TelnetIAC, TelnetIP}, []Key{{Kind: KindInterrupt}}},
		{"subnegotiation stripped", true, []byte{TelnetIAC, TelnetSB, OptionWindowSize, 0, 80, 0, 24, TelnetIAC, TelnetSE, 'z'}, []Key{Char('z')}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(tt.telnet)
			assert.Equal(t, tt.expected, feedAll(&d, tt.input))
		})
	}
}

func TestDecoder_TelnetReplies(t *testing.T) {
	d := NewDecoder(true)

	feedAll(&d, []byte{TelnetIAC, TelnetWILL, OptionWindowSize})
	assert.Equal(t, []byte{
		TelnetIAC, TelnetDO, OptionWindowSize,
		TelnetIAC, TelnetWILL, OptionEcho,
	}, d.PendingReplies())
	d.ClearReplies()

	// Second WILL does not offer echo again.
	feedAll(&d, []byte{TelnetIAC, TelnetWILL, 24})
	assert.Equal(t, []byte{TelnetIAC, TelnetDONT, 24}, d.PendingReplies())
	d.ClearReplies()

	feedAll(&d, []byte{TelnetIAC, TelnetDO, OptionEcho})
	assert.Empty(t, d.PendingReplies())

	feedAll(&d, []byte{TelnetIAC, TelnetDO, OptionSuppressGoAhead, TelnetIAC, TelnetDO, 5})
	assert.Equal(t, []byte{
		TelnetIAC, TelnetWILL, OptionSuppressGoAhead,
		TelnetIAC, TelnetWONT, 5,
	}, d.PendingReplies())
}

func TestDecoder_ReplyQueueIsBounded(t *testing.T) {
	d := NewDecoder(true)
	for i := 0; i < 50; i++ {
		feedAll(&d, []byte{TelnetIAC, TelnetDO, 40})
	}
	assert.Len(t, d.PendingReplies(), maxReplies*3)
}

func TestDecoder_Reset(t *testing.T) {
	d := NewDecoder(true)
	feedAll(&d, []byte{Escape, '['})
	d.Reset()
	assert.True(t, d.Telnet())
	assert.Equal(t, []Key{Char('A')}, feedAll(&d, []byte("A")))
}
