package shell

// Hooks are the points at which a session's behaviour can be specialised.
// A session calls BeginSession when it binds a transport (and again after a
// local exit), PrintPrompt when a new prompt is due, and Execute with each
// submitted line. The line passed to Execute aliases the editor buffer and
// is only valid until the editor is next mutated.
type Hooks interface {
	BeginSession(s *Session)
	PrintPrompt(s *Session)
	Execute(s *Session, line []byte)
}

// DefaultHooks is the plain command shell: echo on, the configured prompt,
// history recording and dispatch of every line.
type DefaultHooks struct{}

// BeginSession enters normal mode and schedules the first prompt.
func (DefaultHooks) BeginSession(s *Session) {
	s.Editor().Reset()
	s.SetEcho(true)
	s.SetNormal(true)
	s.RequestPrompt()
}

// PrintPrompt writes the session prompt.
func (DefaultHooks) PrintPrompt(s *Session) {
	s.WriteString(s.Prompt())
}

// Execute records the line in history and dispatches it.
func (DefaultHooks) Execute(s *Session, line []byte) {
	s.ExecuteLine(line)
}
