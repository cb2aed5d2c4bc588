package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"termshell/internal/commands"
	"termshell/internal/config"
	"termshell/internal/shell"
)

func testRegistry(t *testing.T) *shell.Registry {
	t.Helper()
	r := shell.NewRegistry()
	require.NoError(t, commands.Register(r, commands.Environment{}))
	return r
}

func testConfig() config.TermshellConfig {
	cfg := config.GetDefaultConfig()
	cfg.PollInterval = time.Millisecond
	return cfg
}

// readUntil reads from conn until the accumulated output contains want.
func readUntil(t *testing.T, conn net.Conn, want string) string {
	t.Helper()
	var got bytes.Buffer
	buf := make([]byte, 256)
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(got.String(), want) {
		require.NoError(t, conn.SetReadDeadline(deadline))
		n, err := conn.Read(buf)
		got.Write(buf[:n])
		if err != nil {
			require.Failf(t, "read failed", "waiting for %q, got %q: %v", want, got.String(), err)
		}
	}
	return got.String()
}

func waitClosed(t *testing.T, conn net.Conn) {
	t.Helper()
	buf := make([]byte, 256)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, err := conn.Read(buf)
		if err != nil {
			assert.True(t, errors.Is(err, io.EOF) || strings.Contains(err.Error(), "reset"), "got %v", err)
			return
		}
	}
}

func startTelnet(t *testing.T, cfg config.TermshellConfig) (*TelnetServer, func()) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv, err := NewTelnetServer(l, Options{Config: cfg, Registry: testRegistry(t)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	return srv, func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("Serve did not return after cancel")
		}
	}
}

func TestTelnetServer_Session(t *testing.T) {
	srv, stop := startTelnet(t, testConfig())
	defer stop()

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	greeting := readUntil(t, conn, "$ ")
	assert.True(t, strings.HasPrefix(greeting, "\xff\xfb\x01\xff\xfb\x03"), "greeting offers echo and suppress go-ahead")

	_, err = conn.Write([]byte("echo hello world\r\n"))
	require.NoError(t, err)
	readUntil(t, conn, "hello world\r\n$ ")

	_, err = conn.Write([]byte("exit\r\n"))
	require.NoError(t, err)
	waitClosed(t, conn)
}

func TestTelnetServer_RejectsSecondClient(t *testing.T) {
	srv, stop := startTelnet(t, testConfig())
	defer stop()

	first, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer first.Close()
	readUntil(t, first, "$ ")

	second, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer second.Close()
	readUntil(t, second, busyMessage)
	waitClosed(t, second)

	// The first session is unaffected, and once it leaves the next client gets in.
	_, err = first.Write([]byte("exit\r\n"))
	require.NoError(t, err)
	waitClosed(t, first)

	assert.Eventually(t, func() bool { return !srv.busy.Load() }, 5*time.Second, time.Millisecond)
	third, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer third.Close()
	readUntil(t, third, "$ ")
}

func TestTelnetServer_ClientHangUp(t *testing.T) {
	srv, stop := startTelnet(t, testConfig())
	defer stop()

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	readUntil(t, conn, "$ ")
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return !srv.busy.Load() }, 5*time.Second, time.Millisecond)
}

func TestTelnetServer_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.MachineName = "bench"
	cfg.Login = config.LoginConfig{
		Enabled:      true,
		Username:     "admin",
		PasswordHash: string(hash),
		UID:          5,
		FailureDelay: time.Millisecond,
	}
	srv, stop := startTelnet(t, cfg)
	defer stop()

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	readUntil(t, conn, "bench login: ")
	_, err = conn.Write([]byte("admin\r\n"))
	require.NoError(t, err)
	readUntil(t, conn, "Password: ")
	_, err = conn.Write([]byte("secret\r\n"))
	require.NoError(t, err)
	readUntil(t, conn, "$ ")

	_, err = conn.Write([]byte("whoami\r\n"))
	require.NoError(t, err)
	readUntil(t, conn, "uid=5\r\n")
}

func TestNewTelnetServer_BadLoginConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Login = config.LoginConfig{Enabled: true, Username: "admin", PasswordHash: "plain"}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	_, err = NewTelnetServer(l, Options{Config: cfg, Registry: testRegistry(t)})
	assert.Error(t, err)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunConsole(t *testing.T) {
	in, inWriter := io.Pipe()
	out := &syncBuffer{}

	opts := Options{Config: testConfig(), Registry: testRegistry(t)}

	done := make(chan error, 1)
	go func() {
		done <- RunConsole(context.Background(), opts, in, out)
	}()

	_, err := inWriter.Write([]byte("echo console\r"))
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "console\r\n$ ")
	}, 5*time.Second, time.Millisecond)

	_, err = inWriter.Write([]byte("exit\r"))
	require.NoError(t, err)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("console did not stop after exit")
	}
	assert.False(t, strings.HasPrefix(out.String(), "\xff"), "no telnet negotiation on a console")
}

func TestRunConsole_InputClosed(t *testing.T) {
	out := &syncBuffer{}
	err := RunConsole(context.Background(), Options{Config: testConfig(), Registry: testRegistry(t)},
		strings.NewReader("echo last\r"), out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "last\r\n")
}

func TestListen_WithoutActivation(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	assert.NotEmpty(t, l.Addr().String())

	NotifyReady()
}

func TestPromptUpdates_KeepsLatest(t *testing.T) {
	p := newPromptUpdates()
	p.push("a> ")
	p.push("b> ")
	assert.Equal(t, "b> ", <-p)

	select {
	case extra := <-p:
		t.Fatalf("unexpected extra prompt %q", extra)
	default:
	}
}

func TestTelnetServer_ClosesQueuedConnectionsOnShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	srv, err := NewTelnetServer(l, Options{Config: testConfig(), Registry: testRegistry(t)})
	require.NoError(t, err)

	client, queued := net.Pipe()
	defer client.Close()
	srv.conns <- queued

	done := make(chan struct{})
	go func() {
		srv.drainQueued()
		close(done)
	}()

	readUntil(t, client, busyMessage)
	waitClosed(t, client)
	<-done
	assert.Empty(t, srv.conns)
}
