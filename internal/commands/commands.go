package commands

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"termshell/internal/shell"
	"termshell/pkg/logging"
)

// LED is a simulated on/off output, standing in for a status light.
type LED struct {
	on atomic.Bool
}

// Set switches the LED.
func (l *LED) Set(on bool) { l.on.Store(on) }

// On reports the LED state.
func (l *LED) On() bool { return l.on.Load() }

// Environment is the process state the demo commands report on.
type Environment struct {
	// Started is when the process came up, for uptime.
	Started time.Time
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// LED is switched by the led command. A fresh LED is used if nil.
	LED *LED
}

// Register adds the demo command set to r in the order help lists it.
func Register(r *shell.Registry, env Environment) error {
	if env.Now == nil {
		env.Now = time.Now
	}
	if env.Started.IsZero() {
		env.Started = env.Now()
	}
	if env.LED == nil {
		env.LED = &LED{}
	}

	cmds := []*shell.Command{
		shell.NewCommand("led", "Turns the status LED on or off", ledCommand(env.LED)),
		shell.NewCommand("echo", "Prints its arguments", echoCommand),
		shell.NewCommand("prompt", "Shows or changes the prompt", promptCommand),
		shell.NewCommand("whoami", "Shows the logged in user ID", whoamiCommand),
		shell.NewCommand("history", "Lists the command history", historyCommand),
		shell.NewCommand("uptime", "Shows how long the shell has been running", uptimeCommand(env)),
	}

	var errs []error
	for _, cmd := range cmds {
		if err := r.Register(cmd); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// args copies the tokens after the command name.
func args(argv *shell.Arguments) []string {
	all := argv.Strings()
	if len(all) == 0 {
		return nil
	}
	return all[1:]
}

func ledCommand(led *LED) shell.HandlerFunc {
	return func(s *shell.Session, cmd *shell.Command, argc int, argv *shell.Arguments) {
		if argc < 2 {
			s.Printf("LED is %s\n", onOff(led.On()))
			return
		}
		arg, _ := argv.At(1)
		switch strings.ToLower(arg) {
		case "on", "1":
			led.Set(true)
		case "off", "0":
			led.Set(false)
		default:
			s.Printf("Usage: %s on|off\n", cmd.Name())
			return
		}
		logging.Debug("Commands", "LED switched %s by session %s", onOff(led.On()), s.ID())
		s.Printf("LED is %s\n", onOff(led.On()))
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func echoCommand(s *shell.Session, _ *shell.Command, _ int, argv *shell.Arguments) {
	s.Println(strings.Join(args(argv), " "))
}

func promptCommand(s *shell.Session, _ *shell.Command, argc int, argv *shell.Arguments) {
	if argc < 2 {
		s.Printf("Prompt is %q\n", s.Prompt())
		return
	}
	s.SetPrompt(strings.Join(args(argv), " ") + " ")
}

func whoamiCommand(s *shell.Session, _ *shell.Command, _ int, _ *shell.Arguments) {
	if uid := s.UserID(); uid >= 0 {
		s.Printf("uid=%d\n", uid)
		return
	}
	s.Println("not logged in")
}

func historyCommand(s *shell.Session, _ *shell.Command, _ int, _ *shell.Arguments) {
	h := s.History()
	if !h.Enabled() {
		s.Println("history is disabled")
		return
	}
	for i, line := range h.Lines() {
		s.Printf("%3d  %s\n", i+1, line)
	}
}

func uptimeCommand(env Environment) shell.HandlerFunc {
	return func(s *shell.Session, _ *shell.Command, _ int, _ *shell.Arguments) {
		up := env.Now().Sub(env.Started).Truncate(time.Second)
		s.Printf("up %s\n", up)
	}
}
