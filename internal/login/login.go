package login

import (
	"crypto/subtle"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"termshell/internal/shell"
	"termshell/pkg/logging"
)

// DefaultFailureDelay is how long input is ignored after a failed login.
const DefaultFailureDelay = 3 * time.Second

// CheckFunc validates a user name and password and returns the user ID, or
// a negative value when the credentials are wrong.
type CheckFunc func(username, password string) int

type state int

const (
	stateUsername state = iota
	statePassword
	stateShell
)

// Hooks put a login prompt in front of the shell. The user name is read with
// echo into the first half of the line buffer and the password without echo
// into the second half, so both are bounded by half the line size and are
// wiped from the buffer as soon as they have been checked.
//
// Hooks keep per-session state; give every session its own.
type Hooks struct {
	machineName  string
	check        CheckFunc
	failureDelay time.Duration

	state    state
	username []byte
}

var _ shell.Hooks = (*Hooks)(nil)

// New creates login hooks. A nil check rejects every login. A zero delay
// uses DefaultFailureDelay.
func New(machineName string, check CheckFunc, failureDelay time.Duration) *Hooks {
	if check == nil {
		check = func(string, string) int { return shell.UnauthenticatedUID }
	}
	if failureDelay <= 0 {
		failureDelay = DefaultFailureDelay
	}
	return &Hooks{
		machineName:  machineName,
		check:        check,
		failureDelay: failureDelay,
	}
}

// BeginSession starts at the user name prompt.
func (h *Hooks) BeginSession(s *shell.Session) {
	h.state = stateUsername
	h.username = nil
	s.SetNormal(false)
	s.SetEcho(true)
	s.RequestPrompt()
}

// PrintPrompt prints the login, password or shell prompt and selects the
// matching part of the line buffer.
func (h *Hooks) PrintPrompt(s *shell.Session) {
	ed := s.Editor()
	half := ed.Size() / 2
	switch h.state {
	case stateUsername:
		ed.SetRegion(0, half)
		if h.machineName != "" {
			s.WriteString(h.machineName + " ")
		}
		s.WriteString("login: ")
	case statePassword:
		ed.SetRegion(half, ed.Size())
		s.SetEcho(false)
		s.WriteString("Password: ")
	default:
		ed.Reset()
		s.WriteString(s.Prompt())
	}
}

// Execute collects the credentials, or runs the line once logged in.
func (h *Hooks) Execute(s *shell.Session, line []byte) {
	log := logging.For("Login", "session", s.ID())

	switch h.state {
	case stateUsername:
		// line aliases the first half of the buffer, which the password
		// prompt leaves alone.
		h.username = line
		h.state = statePassword

	case statePassword:
		uid := h.check(string(h.username), string(line))
		user := string(h.username)
		s.Editor().Wipe()
		h.username = nil
		s.SetEcho(true)

		if uid < 0 {
			log.Warn("Login failed for %q", user)
			h.state = stateUsername
			s.SuppressInput(h.failureDelay)
			return
		}
		log.Info("User %q logged in as uid %d", user, uid)
		s.SetUserID(uid)
		s.SetNormal(true)
		h.state = stateShell

	default:
		s.ExecuteLine(line)
	}
}

// LoggedIn reports whether the hooks have passed the user to the shell.
func (h *Hooks) LoggedIn() bool {
	return h.state == stateShell
}

// BcryptCheck returns a CheckFunc accepting username with the password
// whose bcrypt hash is passwordHash, logging in as uid. The hash is always
// compared, even for an unknown user name, so both failures take as long.
func BcryptCheck(username, passwordHash string, uid int) (CheckFunc, error) {
	if uid < 0 {
		return nil, fmt.Errorf("uid must not be negative, got %d", uid)
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	hash := []byte(passwordHash)
	want := []byte(username)

	return func(user, password string) int {
		hashErr := bcrypt.CompareHashAndPassword(hash, []byte(password))
		userOK := subtle.ConstantTimeCompare([]byte(user), want) == 1
		if hashErr != nil || !userOK {
			return shell.UnauthenticatedUID
		}
		return uid
	}, nil
}
