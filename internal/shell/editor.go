package shell

import (
	"io"

	"termshell/internal/terminal"
)

// Editor owns the fixed-size line buffer of a session and applies edit keys
// to it. Editing happens inside an active region [start, max) of the buffer;
// the login flow uses two regions so the user name survives while the
// password is typed.
//
// Every change is echoed to the attached writer unless echo is off. Nothing
// beyond the region bound is ever written.
type Editor struct {
	buf    []byte
	start  int
	length int // absolute index one past the last character
	max    int
	cursor int

	echo bool
	out  io.Writer

	// gen is bumped on every mutation so Arguments can detect that the
	// line they were split from is gone.
	gen uint64

	scratch []byte
}

// NewEditor creates an editor with a buffer of size bytes.
func NewEditor(size int, out io.Writer) *Editor {
	return &Editor{
		buf:     make([]byte, size),
		max:     size,
		echo:    true,
		out:     out,
		scratch: make([]byte, 0, 3*size+4),
	}
}

// Size returns the full buffer size.
func (e *Editor) Size() int { return len(e.buf) }

// Len returns the length of the current line.
func (e *Editor) Len() int { return e.length - e.start }

// Cap returns how many characters fit in the active region.
func (e *Editor) Cap() int { return e.max - e.start }

// Cursor returns the cursor position relative to the start of the line.
func (e *Editor) Cursor() int { return e.cursor - e.start }

// String returns a copy of the current line.
func (e *Editor) String() string { return string(e.buf[e.start:e.length]) }

// Echo reports whether edits are echoed.
func (e *Editor) Echo() bool { return e.echo }

// SetEcho turns echo on or off.
func (e *Editor) SetEcho(on bool) { e.echo = on }

// SetRegion restricts editing to buf[start:end] and empties the line. Out of
// range bounds are clamped to the buffer.
func (e *Editor) SetRegion(start, end int) {
	end = min(max(end, 0), len(e.buf))
	start = min(max(start, 0), end)
	e.start, e.max = start, end
	e.length, e.cursor = start, start
	e.gen++
}

// Reset selects the whole buffer and empties the line.
func (e *Editor) Reset() {
	e.SetRegion(0, len(e.buf))
}

// Wipe zeroes the whole buffer, including text outside the active region.
func (e *Editor) Wipe() {
	clear(e.buf)
	e.length, e.cursor = e.start, e.start
	e.gen++
}

func (e *Editor) emit(p []byte) {
	if e.echo && e.out != nil && len(p) > 0 {
		_, _ = e.out.Write(p)
	}
}

func (e *Editor) emitByte(c byte) {
	if e.echo {
		e.emit(append(e.scratch[:0], c))
	}
}

func (e *Editor) bell() {
	if e.out != nil {
		_, _ = e.out.Write([]byte{terminal.Bell})
	}
}

// redraw echoes the text from the cursor to the end of the line, erases
// trailing cells left by a deletion and moves the terminal cursor back.
func (e *Editor) redraw(erase int) {
	if !e.echo {
		return
	}
	p := e.scratch[:0]
	p = append(p, e.buf[e.cursor:e.length]...)
	for i := 0; i < erase; i++ {
		p = append(p, ' ')
	}
	for i := e.cursor; i < e.length+erase; i++ {
		p = append(p, terminal.Backspace)
	}
	e.emit(p)
}

// Insert puts c at the cursor. A full line rings the bell and returns ErrLineFull.
func (e *Editor) Insert(c byte) error {
	if e.length >= e.max {
		e.bell()
		return ErrLineFull
	}
	copy(e.buf[e.cursor+1:e.length+1], e.buf[e.cursor:e.length])
	e.buf[e.cursor] = c
	e.length++
	e.cursor++
	e.gen++

	e.emit(e.buf[e.cursor-1 : e.cursor])
	e.redraw(0)
	return nil
}

// Backspace removes the character before the cursor.
func (e *Editor) Backspace() bool {
	if e.cursor == e.start {
		return false
	}
	e.cursor--
	copy(e.buf[e.cursor:], e.buf[e.cursor+1:e.length])
	e.length--
	e.gen++

	e.emitByte(terminal.Backspace)
	e.redraw(1)
	return true
}

// Delete removes the character under the cursor.
func (e *Editor) Delete() bool {
	if e.cursor == e.length {
		return false
	}
	copy(e.buf[e.cursor:], e.buf[e.cursor+1:e.length])
	e.length--
	e.gen++

	e.redraw(1)
	return true
}

// Left moves the cursor one character left.
func (e *Editor) Left() bool {
	if e.cursor == e.start {
		return false
	}
	e.cursor--
	e.emitByte(terminal.Backspace)
	return true
}

// Right moves the cursor one character right.
func (e *Editor) Right() bool {
	if e.cursor == e.length {
		return false
	}
	e.emit(e.buf[e.cursor : e.cursor+1])
	e.cursor++
	return true
}

// Home moves the cursor to the start of the line.
func (e *Editor) Home() {
	for e.Left() {
	}
}

// End moves the cursor to the end of the line.
func (e *Editor) End() {
	if e.cursor == e.length {
		return
	}
	e.emit(e.buf[e.cursor:e.length])
	e.cursor = e.length
}

// Kill empties the line and erases it from the terminal.
func (e *Editor) Kill() {
	if e.echo && e.length > e.start {
		p := e.scratch[:0]
		for i := e.start; i < e.cursor; i++ {
			p = append(p, terminal.Backspace)
		}
		for i := e.start; i < e.length; i++ {
			p = append(p, ' ')
		}
		for i := e.start; i < e.length; i++ {
			p = append(p, terminal.Backspace)
		}
		e.emit(p)
	}
	e.length, e.cursor = e.start, e.start
	e.gen++
}

// Discard empties the line without touching the terminal.
func (e *Editor) Discard() {
	e.length, e.cursor = e.start, e.start
	e.gen++
}

// Replace kills the current line and types text in its place, truncated to
// the region. It returns ErrLineFull if text was truncated.
func (e *Editor) Replace(text string) error {
	e.Kill()
	n := min(len(text), e.max-e.start)
	copy(e.buf[e.start:], text[:n])
	e.length = e.start + n
	e.cursor = e.length
	e.emit(e.buf[e.start:e.length])
	if n < len(text) {
		return ErrLineFull
	}
	return nil
}

// Submit ends the line and returns its bytes. The slice aliases the buffer:
// it stays intact until the next mutation of the editor.
func (e *Editor) Submit() []byte {
	line := e.buf[e.start:e.length]
	e.length, e.cursor = e.start, e.start
	return line
}
