package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd == nil {
		t.Fatal("NewRootCmd() returned nil")
	}
	if cmd.Use != "calc-hub" {
		t.Errorf("Expected Use='calc-hub', got %q", cmd.Use)
	}

	// Verify persistent flags are registered
	for _, name := range []string{"config", "visitor", "backend", "db", "verbose", "no-track"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Persistent flag %q not registered", name)
		}
	}

	// Verify subcommands are registered
	for _, name := range []string{"assign", "assignments", "usage", "recommend", "tests", "search", "events", "visitor", "config", "version"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub == cmd {
			t.Errorf("Subcommand %q not registered", name)
		}
	}
}

func TestCommandFlags(t *testing.T) {
	opts := &globalOptions{}

	tests := []struct {
		name  string
		cmd   *cobra.Command
		flags []string
	}{
		{"assign", NewAssignCmd(opts), []string{"default", "json"}},
		{"recommend", NewRecommendCmd(opts), []string{"context", "limit", "personalized", "json"}},
		{"search", NewSearchCmd(opts), []string{"limit", "category", "json"}},
		{"visitor", NewVisitorCmd(opts), []string{"reset"}},
		{"version", NewVersionCmd(), []string{"json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, flag := range tt.flags {
				if tt.cmd.Flags().Lookup(flag) == nil {
					t.Errorf("Flag %q not registered", flag)
				}
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Version:", "Commit:", "Built:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q: %q", want, out)
		}
	}
}

func TestCommandHelp(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"root help", []string{"--help"}},
		{"usage help", []string{"usage", "--help"}},
		{"recommend help", []string{"recommend", "--help"}},
		{"events help", []string{"events", "export", "--help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCmd()
			cmd.SetArgs(tt.args)

			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			if err := cmd.Execute(); err != nil {
				t.Errorf("Execute() error = %v", err)
			}
			if buf.Len() == 0 {
				t.Error("Help produced no output")
			}
		})
	}
}
