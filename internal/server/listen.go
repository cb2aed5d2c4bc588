package server

import (
	"fmt"
	"net"

	"github.com/coreos/go-systemd/v22/activation"
	"github.com/coreos/go-systemd/v22/daemon"

	"termshell/pkg/logging"
)

// Listen returns the socket passed by systemd socket activation if there is
// one, and otherwise listens on addr.
func Listen(addr string) (net.Listener, error) {
	listeners, err := activation.Listeners()
	if err != nil {
		return nil, fmt.Errorf("socket activation: %w", err)
	}
	for i, l := range listeners {
		if l == nil {
			continue
		}
		for _, extra := range listeners[i+1:] {
			if extra != nil {
				_ = extra.Close()
			}
		}
		logging.Info("Server", "Using socket activated listener %s", l.Addr())
		return l, nil
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return l, nil
}

// NotifyReady tells systemd the server is accepting connections. It is a
// no-op outside systemd.
func NotifyReady() {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logging.Warn("Server", "Cannot notify systemd: %v", err)
		return
	}
	if sent {
		logging.Debug("Server", "Notified systemd of readiness")
	}
}
