package server

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"termshell/internal/shell"
	"termshell/internal/transport"
	"termshell/pkg/logging"
)

const busyMessage = "Another session is active, try again later.\r\n"

// TelnetServer serves the shell to telnet clients, one at a time. A client
// arriving while another is connected is told so and disconnected.
type TelnetServer struct {
	opts     Options
	listener net.Listener
	newHooks func() shell.Hooks

	conns   chan net.Conn
	prompts promptUpdates
	busy    atomic.Bool
}

// NewTelnetServer creates a server accepting on listener.
func NewTelnetServer(listener net.Listener, opts Options) (*TelnetServer, error) {
	newHooks, err := hooksFactory(opts.Config)
	if err != nil {
		return nil, err
	}
	return &TelnetServer{
		opts:     opts,
		listener: listener,
		newHooks: newHooks,
		conns:    make(chan net.Conn, 1),
		prompts:  newPromptUpdates(),
	}, nil
}

// Addr returns the listening address.
func (s *TelnetServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve runs until ctx is cancelled or the listener fails. The listener is
// closed on return.
func (s *TelnetServer) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return s.acceptLoop(ctx) })
	g.Go(func() error { return s.pollLoop(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		return s.listener.Close()
	})
	if w := watchConfig(s.opts.ConfigPath, s.prompts); w != nil {
		g.Go(func() error { return w.Run(ctx) })
	}

	logging.Info("Server", "Listening for telnet clients on %s", s.listener.Addr())
	err := g.Wait()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *TelnetServer) acceptLoop(ctx context.Context) error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if s.busy.Load() {
			s.reject(conn)
			continue
		}
		select {
		case s.conns <- conn:
		default:
			s.reject(conn)
		}
	}
}

func (s *TelnetServer) reject(conn net.Conn) {
	logging.Info("Server", "Rejecting %s, a session is already active", conn.RemoteAddr())
	_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
	_, _ = conn.Write([]byte(busyMessage))
	_ = conn.Close()
}

// drainQueued closes connections accepted but never bound to the session.
func (s *TelnetServer) drainQueued() {
	for {
		select {
		case conn := <-s.conns:
			s.reject(conn)
		default:
			return
		}
	}
}

// pollLoop owns the session: it binds new clients, applies prompt updates
// and drives the session at the poll interval.
func (s *TelnetServer) pollLoop(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval(s.opts.Config))
	defer ticker.Stop()

	prompt := renderPrompt(s.opts.Config)
	var (
		session *shell.Session
		client  *transport.Conn
	)

	disconnect := func() {
		session.End()
		if err := client.Close(); err != nil {
			logging.Debug("Server", "Closing %s: %v", client.RemoteAddr(), err)
		}
		logging.Info("Server", "Client %s disconnected", client.RemoteAddr())
		session, client = nil, nil
		s.busy.Store(false)
	}

	for {
		select {
		case <-ctx.Done():
			if client != nil {
				disconnect()
			}
			s.drainQueued()
			return nil

		case p := <-s.prompts:
			prompt = p
			if session != nil {
				session.SetPrompt(p)
			}

		case conn := <-s.conns:
			if client != nil {
				s.reject(conn)
				continue
			}
			s.busy.Store(true)
			client = transport.NewConn(conn)
			session = shell.New(s.opts.Registry, sessionConfig(s.opts.Config, s.newHooks(), prompt))
			if err := session.Begin(client, s.opts.Config.HistorySize, shell.ModeRemote); err != nil {
				logging.Error("Server", err, "Cannot start session for %s", conn.RemoteAddr())
				disconnect()
				continue
			}
			logging.Info("Server", "Client %s connected, session %s", conn.RemoteAddr(), session.ID())

		case <-ticker.C:
			if client == nil {
				continue
			}
			if client.Connected() {
				session.Loop()
			}
			if !client.Connected() || !session.Active() {
				disconnect()
			}
		}
	}
}
