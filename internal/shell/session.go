package shell

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"

	"termshell/internal/terminal"
	"termshell/pkg/logging"
)

// Transport is the byte stream a session is bound to. ReadByte must not
// block: it reports false when no byte is available right now.
type Transport interface {
	ReadByte() (byte, bool)
	Write(p []byte) (int, error)
	Connected() bool
}

// Mode selects how a session treats its transport.
type Mode int

const (
	// ModeLocal is a directly attached console. Exit restarts the session.
	ModeLocal Mode = iota
	// ModeRemote is a network client. Telnet commands are decoded and exit
	// ends the session.
	ModeRemote
)

// String returns the mode name used in logs.
func (m Mode) String() string {
	if m == ModeRemote {
		return "remote"
	}
	return "local"
}

// UnauthenticatedUID is the user ID of a session nobody has logged in to.
const UnauthenticatedUID = -1

const (
	DefaultLineSize        = 64
	DefaultMaxBytesPerLoop = 32
	DefaultPrompt          = "$ "
)

// Config tunes a Session. Zero fields take the package defaults.
type Config struct {
	// LineSize is the capacity of the line buffer in bytes.
	LineSize int
	// MaxBytesPerLoop bounds how many input bytes one Loop call consumes.
	MaxBytesPerLoop int
	// IdleTimeout ends the session after this long without input. Zero disables it.
	IdleTimeout time.Duration
	// Prompt is the initial prompt text.
	Prompt string
	// Hooks specialise session behaviour. Defaults to DefaultHooks.
	Hooks Hooks
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// OnExit is called after the exit built-in has run.
	OnExit func(s *Session)
}

// Session is one interactive shell bound to at most one transport at a time.
// It is driven by calling Loop repeatedly from a single goroutine; each call
// does a bounded amount of work and never blocks on input.
type Session struct {
	registry *Registry
	hooks    Hooks
	cfg      Config
	now      func() time.Time

	transport Transport
	mode      Mode
	active    bool

	editor  *Editor
	history *History
	decoder terminal.Decoder

	prompt        string
	promptPending bool
	normal        bool

	uid           int
	id            string
	lastInput     time.Time
	suppressUntil time.Time
	lastByte      byte

	log logging.Scoped
}

// New creates an idle session that dispatches to registry.
func New(registry *Registry, cfg Config) *Session {
	if cfg.LineSize <= 0 {
		cfg.LineSize = DefaultLineSize
	}
	if cfg.MaxBytesPerLoop <= 0 {
		cfg.MaxBytesPerLoop = DefaultMaxBytesPerLoop
	}
	if cfg.Prompt == "" {
		cfg.Prompt = DefaultPrompt
	}
	if cfg.Hooks == nil {
		cfg.Hooks = DefaultHooks{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Session{
		registry: registry,
		hooks:    cfg.Hooks,
		cfg:      cfg,
		now:      cfg.Now,
		prompt:   cfg.Prompt,
		history:  NewHistory(0, 0),
		uid:      UnauthenticatedUID,
		log:      logging.For("Shell", "session", "idle"),
	}
	s.editor = NewEditor(cfg.LineSize, rawWriter{s})
	return s
}

// Begin binds the session to t and starts it. historySize is the number of
// lines kept for recall; zero disables history. It fails with
// ErrSessionActive if the session is already running.
func (s *Session) Begin(t Transport, historySize int, mode Mode) error {
	if s.active {
		return ErrSessionActive
	}
	if t == nil {
		return ErrNilTransport
	}
	s.registry.Freeze()

	s.transport = t
	s.mode = mode
	s.active = true
	s.decoder = terminal.NewDecoder(mode == ModeRemote)
	s.editor.Reset()
	if s.history.Cap() != historySize {
		s.history = NewHistory(historySize, s.cfg.LineSize)
	} else {
		s.history.Clear()
	}
	s.uid = UnauthenticatedUID
	s.id = uuid.NewString()
	s.lastInput = s.now()
	s.suppressUntil = time.Time{}
	s.lastByte = 0
	s.log = logging.For("Shell", "session", s.id)

	if mode == ModeRemote {
		_, _ = s.writeRaw(terminal.ServerGreeting)
	}
	s.log.Info("Session started in %s mode with %d history lines", mode, historySize)
	s.hooks.BeginSession(s)
	return nil
}

// End unbinds the transport and clears all line and history state. It is
// safe to call on an idle session. The transport is not closed; that is up
// to whoever created it.
func (s *Session) End() {
	if !s.active {
		return
	}
	s.active = false
	s.transport = nil
	s.history.Clear()
	s.editor.Wipe()
	s.editor.Reset()
	s.decoder.Reset()
	s.promptPending = false
	s.normal = false
	s.uid = UnauthenticatedUID
	s.suppressUntil = time.Time{}
	s.prompt = s.cfg.Prompt
	s.log.Info("Session ended")
}

// Loop performs one bounded step: it prints a pending prompt and processes
// at most MaxBytesPerLoop input bytes, stopping early after a line is
// dispatched. It does nothing on an idle session.
func (s *Session) Loop() {
	if !s.active {
		return
	}

	now := s.now()
	if s.cfg.IdleTimeout > 0 && now.Sub(s.lastInput) >= s.cfg.IdleTimeout {
		s.log.Info("No input for %s, ending session", s.cfg.IdleTimeout)
		s.WriteString("\r\nIdle timeout\r\n")
		s.End()
		return
	}

	if now.Before(s.suppressUntil) {
		for i := 0; i < s.cfg.MaxBytesPerLoop; i++ {
			if _, ok := s.transport.ReadByte(); !ok {
				break
			}
		}
		return
	}
	s.suppressUntil = time.Time{}

	s.flushPrompt()
	for i := 0; i < s.cfg.MaxBytesPerLoop && s.active; i++ {
		b, ok := s.transport.ReadByte()
		if !ok {
			break
		}
		s.lastInput = now

		key, ok := s.decoder.Feed(b)
		s.flushReplies()
		if !ok {
			continue
		}
		if s.handleKey(key) {
			break
		}
	}

	if s.active && !s.now().Before(s.suppressUntil) {
		s.flushPrompt()
	}
}

func (s *Session) flushPrompt() {
	if s.promptPending {
		s.promptPending = false
		s.hooks.PrintPrompt(s)
	}
}

func (s *Session) flushReplies() {
	if replies := s.decoder.PendingReplies(); len(replies) > 0 {
		_, _ = s.writeRaw(replies)
		s.decoder.ClearReplies()
	}
}

// handleKey applies one key and reports whether a line was completed.
func (s *Session) handleKey(key terminal.Key) bool {
	switch key.Kind {
	case terminal.KindChar:
		if err := s.editor.Insert(key.Char); err != nil {
			s.log.Debug("Dropped %q: %v", key.Char, err)
		}
	case terminal.KindBackspace:
		s.editor.Backspace()
	case terminal.KindDelete:
		s.editor.Delete()
	case terminal.KindLeft:
		s.editor.Left()
	case terminal.KindRight:
		s.editor.Right()
	case terminal.KindHome:
		s.editor.Home()
	case terminal.KindEnd:
		s.editor.End()
	case terminal.KindKillLine:
		s.editor.Kill()
	case terminal.KindInterrupt:
		s.editor.Discard()
		s.history.ResetCursor()
		s.WriteString("^C\r\n")
		s.RequestPrompt()
		return true
	case terminal.KindUp:
		if s.normal {
			if line, ok := s.history.RecallUp(); ok {
				_ = s.editor.Replace(line)
			}
		}
	case terminal.KindDown:
		if s.normal {
			if line, ok := s.history.RecallDown(); ok {
				_ = s.editor.Replace(line)
			}
		}
	case terminal.KindReturn:
		s.submit()
		return true
	case terminal.KindEOF:
		if s.normal {
			s.runBuiltin("exit")
			return true
		}
	case terminal.KindF1:
		if s.normal {
			s.runBuiltin("help")
			return true
		}
	}
	return false
}

func (s *Session) submit() {
	_, _ = s.writeRaw([]byte(terminal.CRLF))
	line := s.editor.Submit()
	s.hooks.Execute(s, line)
	if s.active {
		s.promptPending = true
	}
}

// runBuiltin types name into the line, as if the user had, and submits it.
func (s *Session) runBuiltin(name string) {
	_ = s.editor.Replace(name)
	s.submit()
}

// ExecuteLine records line in history and dispatches it. It is the default
// Execute behaviour and is exported for hooks that wrap it.
func (s *Session) ExecuteLine(line []byte) Outcome {
	s.history.Push(line)
	return s.Dispatch(line)
}

// Exit runs the exit built-in. A remote session ends; a local session
// forgets its history and starts over.
func (s *Session) Exit() {
	s.uid = UnauthenticatedUID
	if s.mode == ModeRemote {
		s.log.Info("Exit requested, disconnecting")
		s.End()
	} else {
		s.log.Info("Exit requested, restarting session")
		s.history.Clear()
		s.WriteString(terminal.CRLF)
		s.hooks.BeginSession(s)
	}
	if s.cfg.OnExit != nil {
		s.cfg.OnExit(s)
	}
}

// Active reports whether a transport is bound.
func (s *Session) Active() bool { return s.active }

// Mode returns the mode given to Begin.
func (s *Session) Mode() Mode { return s.mode }

// ID returns the identifier of the current session, used in logs.
func (s *Session) ID() string { return s.id }

// Registry returns the command registry.
func (s *Session) Registry() *Registry { return s.registry }

// Editor returns the line editor.
func (s *Session) Editor() *Editor { return s.editor }

// History returns the history store.
func (s *Session) History() *History { return s.history }

// Prompt returns the prompt text.
func (s *Session) Prompt() string { return s.prompt }

// SetPrompt changes the prompt used from the next prompt on.
func (s *Session) SetPrompt(prompt string) { s.prompt = prompt }

// UserID returns the authenticated user, or UnauthenticatedUID.
func (s *Session) UserID() int { return s.uid }

// SetUserID records the authenticated user.
func (s *Session) SetUserID(uid int) { s.uid = uid }

// Echo reports whether typed characters are echoed.
func (s *Session) Echo() bool { return s.editor.Echo() }

// SetEcho turns echo of typed characters on or off.
func (s *Session) SetEcho(on bool) { s.editor.SetEcho(on) }

// Normal reports whether the session is in normal command mode, where
// history recall and the F1 and CTRL-D shortcuts are available.
func (s *Session) Normal() bool { return s.normal }

// SetNormal switches normal command mode on or off.
func (s *Session) SetNormal(on bool) { s.normal = on }

// RequestPrompt schedules PrintPrompt for the next Loop.
func (s *Session) RequestPrompt() { s.promptPending = true }

// SuppressInput discards all input for d, and delays the next prompt until
// it has passed.
func (s *Session) SuppressInput(d time.Duration) {
	s.suppressUntil = s.now().Add(d)
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time { return s.now() }

type rawWriter struct{ s *Session }

func (w rawWriter) Write(p []byte) (int, error) { return w.s.writeRaw(p) }

func (s *Session) writeRaw(p []byte) (int, error) {
	if !s.active || s.transport == nil {
		return 0, ErrSessionInactive
	}
	n, err := s.transport.Write(p)
	if n > 0 {
		s.lastByte = p[n-1]
	}
	if err != nil {
		s.log.Debug("Write failed: %v", err)
	}
	return n, err
}

var carriageReturn = []byte{'\r'}

// Write sends p to the transport, expanding bare LF to CRLF so output
// from fmt and friends lines up on a raw terminal.
func (s *Session) Write(p []byte) (int, error) {
	if !s.active {
		return 0, ErrSessionInactive
	}
	written := 0
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			n, err := s.writeRaw(p)
			return written + n, err
		}
		if i > 0 {
			n, err := s.writeRaw(p[:i])
			written += n
			if err != nil {
				return written, err
			}
		}
		if s.lastByte != '\r' {
			if _, err := s.writeRaw(carriageReturn); err != nil {
				return written, err
			}
		}
		n, err := s.writeRaw(p[i : i+1])
		written += n
		if err != nil {
			return written, err
		}
		p = p[i+1:]
	}
	return written, nil
}

// WriteString writes str like Write.
func (s *Session) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Print formats like fmt.Print and writes the result to the session.
func (s *Session) Print(a ...any) {
	_, _ = fmt.Fprint(s, a...)
}

// Println formats like fmt.Println, ending the line with CRLF.
func (s *Session) Println(a ...any) {
	_, _ = fmt.Fprintln(s, a...)
}

// Printf formats like fmt.Printf and writes the result to the session.
func (s *Session) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s, format, a...)
}
