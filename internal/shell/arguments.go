package shell

import "bytes"

// isSeparator reports whether c separates tokens.
func isSeparator(c byte) bool {
	return c == ' ' || c == '\t'
}

// Arguments is a tokenized view over a submitted line. Tokenizing is
// destructive: the line's bytes are rewritten in place so that tokens are
// packed at the front of the region, each followed by a single NUL. No
// memory is allocated for the split itself.
//
// The view borrows the line editor's buffer. Once the editor is mutated
// again (the next key stroke, a history recall, a new session) the view is
// stale: At then reports no token and Valid returns false.
type Arguments struct {
	buf []byte

	owner *Editor
	gen   uint64

	split bool
	count int
	size  int // bytes of buf in use after splitting

	// cursor caches the last token located by At, so forward iteration
	// does not rescan the line.
	curIndex int
	curPos   int
}

// NewArguments tokenizes buf in place. The caller gives up the contents of
// buf; after the first call to Count or At it holds NUL-separated tokens.
func NewArguments(buf []byte) *Arguments {
	return &Arguments{buf: buf}
}

func newEditorArguments(ed *Editor, buf []byte) *Arguments {
	return &Arguments{buf: buf, owner: ed, gen: ed.gen}
}

// Valid reports whether the underlying line is still intact.
func (a *Arguments) Valid() bool {
	return a.owner == nil || a.owner.gen == a.gen
}

// Err returns ErrStaleArguments if the view is stale.
func (a *Arguments) Err() error {
	if !a.Valid() {
		return ErrStaleArguments
	}
	return nil
}

func (a *Arguments) doSplit() {
	if a.split {
		return
	}
	a.split = true

	out := 0
	inToken := false
	for in := 0; in < len(a.buf); in++ {
		c := a.buf[in]
		if c == 0 || isSeparator(c) {
			if inToken {
				a.buf[out] = 0
				out++
				inToken = false
			}
			continue
		}
		if !inToken {
			a.count++
			inToken = true
		}
		a.buf[out] = c
		out++
	}
	// The last token has no trailing separator to overwrite. If the line
	// was packed tighter than it started there is room for a terminator,
	// otherwise the end of the region terminates it.
	if inToken && out < len(a.buf) {
		a.buf[out] = 0
		out++
	}
	a.size = out
	for i := out; i < len(a.buf); i++ {
		a.buf[i] = 0
	}
}

// Count returns the number of tokens, or 0 once the view is stale. It is
// computed once and cached.
func (a *Arguments) Count() int {
	a.doSplit()
	if !a.Valid() {
		return 0
	}
	return a.count
}

// At returns token i. It reports false when i is out of range or the view
// is stale.
func (a *Arguments) At(i int) (string, bool) {
	a.doSplit()
	if i < 0 || i >= a.count || !a.Valid() {
		return "", false
	}
	if i < a.curIndex {
		a.curIndex = 0
		a.curPos = 0
	}
	for a.curIndex < i {
		end := bytes.IndexByte(a.buf[a.curPos:a.size], 0)
		a.curPos += end + 1
		a.curIndex++
	}
	return string(a.token(a.curPos)), true
}

func (a *Arguments) token(pos int) []byte {
	rest := a.buf[pos:a.size]
	if end := bytes.IndexByte(rest, 0); end >= 0 {
		return rest[:end]
	}
	return rest
}

// Strings copies all tokens out of the line. The result stays usable after
// the view becomes stale.
func (a *Arguments) Strings() []string {
	n := a.Count()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s, ok := a.At(i)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}
