package shell

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termshell/internal/terminal"
)

func typeInto(t *testing.T, ed *Editor, s string) {
	t.Helper()
	for i := 0; i < len(s); i++ {
		require.NoError(t, ed.Insert(s[i]))
	}
}

func TestEditor_InsertEchoes(t *testing.T) {
	var out bytes.Buffer
	ed := NewEditor(16, &out)

	typeInto(t, ed, "abc")
	assert.Equal(t, "abc", out.String())
	assert.Equal(t, "abc", ed.String())
	assert.Equal(t, 3, ed.Cursor())
}

func TestEditor_MidLineEditing(t *testing.T) {
	var out bytes.Buffer
	ed := NewEditor(16, &out)
	typeInto(t, ed, "abc")

	out.Reset()
	assert.True(t, ed.Left())
	assert.True(t, ed.Left())
	assert.Equal(t, "\b\b", out.String())

	out.Reset()
	require.NoError(t, ed.Insert('X'))
	assert.Equal(t, "aXbc", ed.String())
	assert.Equal(t, "Xbc\b\b", out.String())

	out.Reset()
	assert.True(t, ed.Backspace())
	assert.Equal(t, "abc", ed.String())
	assert.Equal(t, "\bbc \b\b\b", out.String())

	out.Reset()
	assert.True(t, ed.Delete())
	assert.Equal(t, "ac", ed.String())
	assert.Equal(t, "c \b\b", out.String())

	out.Reset()
	ed.End()
	assert.Equal(t, "c", out.String())
	assert.False(t, ed.Right())
	assert.False(t, ed.Delete())

	ed.Home()
	assert.Equal(t, 0, ed.Cursor())
	assert.False(t, ed.Backspace())
}

func TestEditor_FullBufferRingsBell(t *testing.T) {
	var out bytes.Buffer
	ed := NewEditor(4, &out)
	typeInto(t, ed, "abcd")

	out.Reset()
	err := ed.Insert('e')
	assert.ErrorIs(t, err, ErrLineFull)
	assert.Equal(t, []byte{terminal.Bell}, out.Bytes())
	assert.Equal(t, "abcd", ed.String())
	assert.Equal(t, 4, ed.Size())

	// Mid-line insert into a full buffer must not push the tail past the end.
	ed.Home()
	assert.ErrorIs(t, ed.Insert('z'), ErrLineFull)
	assert.Equal(t, "abcd", ed.String())
}

func TestEditor_NoEcho(t *testing.T) {
	var out bytes.Buffer
	ed := NewEditor(16, &out)
	ed.SetEcho(false)

	typeInto(t, ed, "secret")
	ed.Backspace()
	ed.Left()
	ed.Kill()
	assert.Empty(t, out.String())
}

func TestEditor_KillAndReplace(t *testing.T) {
	var out bytes.Buffer
	ed := NewEditor(8, &out)
	typeInto(t, ed, "abc")
	ed.Left()

	out.Reset()
	ed.Kill()
	assert.Equal(t, "", ed.String())
	assert.Equal(t, "\b\b   \b\b\b", out.String())

	out.Reset()
	require.NoError(t, ed.Replace("led"))
	assert.Equal(t, "led", ed.String())
	assert.Equal(t, "led", out.String())

	assert.ErrorIs(t, ed.Replace("much too long"), ErrLineFull)
	assert.Equal(t, "much too", ed.String())
}

func TestEditor_RegionsAndSubmit(t *testing.T) {
	ed := NewEditor(8, nil)
	ed.SetRegion(0, 4)
	assert.Equal(t, 4, ed.Cap())
	typeInto(t, ed, "user")
	assert.ErrorIs(t, ed.Insert('x'), ErrLineFull)
	user := ed.Submit()
	assert.Equal(t, 0, ed.Len())

	ed.SetRegion(4, 8)
	typeInto(t, ed, "pass")
	pass := ed.Submit()

	assert.Equal(t, "user", string(user), "first region survives editing the second")
	assert.Equal(t, "pass", string(pass))

	ed.Wipe()
	assert.Equal(t, make([]byte, 4), user)
	assert.Equal(t, make([]byte, 4), pass)
}

func TestEditor_SetRegionClamps(t *testing.T) {
	ed := NewEditor(8, nil)
	ed.SetRegion(-3, 100)
	assert.Equal(t, 8, ed.Cap())
	ed.SetRegion(10, 5)
	assert.Equal(t, 0, ed.Cap())
}
