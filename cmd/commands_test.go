package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderCommands(t *testing.T) {
	registry, err := newRegistry()
	if err != nil {
		t.Fatalf("newRegistry() error = %v", err)
	}

	var buf bytes.Buffer
	renderCommands(&buf, registry)
	output := buf.String()

	for _, c := range registry.All() {
		if !strings.Contains(output, c.Name()) {
			t.Errorf("Output should list %q. Got: %q", c.Name(), output)
		}
		if !strings.Contains(output, c.Help()) {
			t.Errorf("Output should describe %q. Got: %q", c.Name(), output)
		}
	}

	if strings.Index(output, "led") > strings.Index(output, "uptime") {
		t.Errorf("Commands should be listed in registration order. Got: %q", output)
	}
}

func TestNewCommandsCmd(t *testing.T) {
	commandsCmd := newCommandsCmd()
	if commandsCmd.Use != "commands" {
		t.Errorf("Expected Use to be 'commands', got %s", commandsCmd.Use)
	}

	var buf bytes.Buffer
	commandsCmd.SetOut(&buf)
	commandsCmd.SetArgs([]string{})
	if err := commandsCmd.Execute(); err != nil {
		t.Fatalf("Error executing commands: %v", err)
	}
	if !strings.Contains(buf.String(), "echo") {
		t.Errorf("Output should list echo. Got: %q", buf.String())
	}
}
