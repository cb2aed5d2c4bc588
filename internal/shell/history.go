package shell

import "bytes"

// History is a bounded circular store of previously submitted lines. Lines
// are kept NUL-delimited in one fixed byte ring sized for maxLines lines of
// the editor's line size, so recording a line never allocates. When the ring
// is full, or already holds maxLines lines, the oldest lines are evicted.
//
// A recall cursor walks the stored lines for the Up and Down keys. It rests
// on the in-progress position after the newest line until RecallUp moves it.
type History struct {
	ring     []byte
	start    int // ring index of the oldest byte
	used     int // bytes in use, terminators included
	lines    int
	maxLines int

	// read is a logical offset in [0, used]; used means "past the newest line".
	read int
}

// NewHistory creates a store for maxLines lines of up to lineSize bytes. A
// zero maxLines disables history: nothing is recorded or recalled.
func NewHistory(maxLines, lineSize int) *History {
	if maxLines <= 0 || lineSize <= 0 {
		return &History{}
	}
	return &History{
		ring:     make([]byte, maxLines*(lineSize+1)),
		maxLines: maxLines,
	}
}

// Enabled reports whether the store has any capacity.
func (h *History) Enabled() bool {
	return len(h.ring) > 0
}

// Len returns the number of stored lines.
func (h *History) Len() int {
	return h.lines
}

// Cap returns the maximum number of stored lines.
func (h *History) Cap() int {
	return h.maxLines
}

func (h *History) at(logical int) byte {
	return h.ring[(h.start+logical)%len(h.ring)]
}

func (h *History) set(logical int, c byte) {
	h.ring[(h.start+logical)%len(h.ring)] = c
}

// lineEnd returns the logical offset of the terminator of the line starting at pos.
func (h *History) lineEnd(pos int) int {
	for pos < h.used && h.at(pos) != 0 {
		pos++
	}
	return pos
}

// lineStart returns the logical offset of the line whose terminator precedes end.
func (h *History) lineStart(end int) int {
	pos := end - 2
	for pos >= 0 && h.at(pos) != 0 {
		pos--
	}
	return pos + 1
}

func (h *History) copyLine(pos int) string {
	end := h.lineEnd(pos)
	out := make([]byte, end-pos)
	for i := range out {
		out[i] = h.at(pos + i)
	}
	return string(out)
}

func (h *History) newestEquals(line []byte) bool {
	if h.lines == 0 {
		return false
	}
	pos := h.lineStart(h.used)
	if h.used-1-pos != len(line) {
		return false
	}
	for i, c := range line {
		if h.at(pos+i) != c {
			return false
		}
	}
	return true
}

func (h *History) evictOldest() {
	n := h.lineEnd(0) + 1
	h.start = (h.start + n) % len(h.ring)
	h.used -= n
	h.lines--
	h.read = max(h.read-n, 0)
}

// Push records line as the newest entry and resets the recall cursor. Empty
// lines and a repeat of the newest line are not recorded. Lines longer than
// the ring can hold are truncated. Push never allocates.
func (h *History) Push(line []byte) {
	if !h.Enabled() {
		return
	}
	defer h.ResetCursor()

	if i := bytes.IndexByte(line, 0); i >= 0 {
		line = line[:i]
	}
	if len(line) == 0 || h.newestEquals(line) {
		return
	}
	if len(line) > len(h.ring)-1 {
		line = line[:len(h.ring)-1]
	}

	for h.lines > 0 && (h.lines >= h.maxLines || len(h.ring)-h.used < len(line)+1) {
		h.evictOldest()
	}

	for i, c := range line {
		h.set(h.used+i, c)
	}
	h.set(h.used+len(line), 0)
	h.used += len(line) + 1
	h.lines++
}

// RecallUp moves the cursor one line older and returns that line. It
// reports false when the cursor is already on the oldest line.
func (h *History) RecallUp() (string, bool) {
	if !h.Enabled() || h.read == 0 {
		return "", false
	}
	h.read = h.lineStart(h.read)
	return h.copyLine(h.read), true
}

// RecallDown moves the cursor one line newer. Stepping past the newest line
// returns to the in-progress position and yields an empty line. It reports
// false when the cursor already rests there.
func (h *History) RecallDown() (string, bool) {
	if !h.Enabled() || h.read >= h.used {
		return "", false
	}
	h.read = h.lineEnd(h.read) + 1
	if h.read >= h.used {
		return "", true
	}
	return h.copyLine(h.read), true
}

// ResetCursor moves the recall cursor past the newest line.
func (h *History) ResetCursor() {
	h.read = h.used
}

// Clear forgets every stored line.
func (h *History) Clear() {
	clear(h.ring)
	h.start, h.used, h.lines, h.read = 0, 0, 0, 0
}

// Lines returns a copy of the stored lines, oldest first.
func (h *History) Lines() []string {
	out := make([]string, 0, h.lines)
	for pos := 0; pos < h.used; {
		out = append(out, h.copyLine(pos))
		pos = h.lineEnd(pos) + 1
	}
	return out
}
