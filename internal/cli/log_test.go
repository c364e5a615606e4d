package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, LogInfo)

	logger.Debug("hidden")
	logger.Info("scene loaded", "items", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} INFO scene loaded items=2`).MatchString(out) {
		t.Errorf("unexpected line format: %q", out)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("before")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("after")

	out := buf.String()
	if strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Errorf("log = %q, want only the line logged after switching to debug", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("a bare context should fall back to log.Default()")
	}

	l := newLogger(&bytes.Buffer{}, LogDebug)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestRootCommandAttachesLogger(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	var got *log.Logger
	root.AddCommand(&cobra.Command{
		Use: "whoami",
		RunE: func(cmd *cobra.Command, _ []string) error {
			got = loggerFromContext(cmd.Context())
			return nil
		},
	})
	root.SetArgs([]string{"whoami"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got != c.Logger {
		t.Error("subcommands should see the CLI logger in their context")
	}
}

func TestVerboseFlag(t *testing.T) {
	tests := []struct {
		name      string
		flags     []string
		wantDebug bool
	}{
		{"default", nil, false},
		{"long flag", []string{"--verbose"}, true},
		{"short flag", []string{"-v"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := writeScene(t, testScene)
			out := filepath.Join(t.TempDir(), "frame.svg")

			var buf bytes.Buffer
			c := New(&buf, LogInfo)
			root := c.RootCommand()
			root.SetArgs(append([]string{"render", scene, "--no-cache", "--at", "1", "-o", out}, tt.flags...))
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("render: %v", err)
			}
			if got := c.Logger.GetLevel() == LogDebug; got != tt.wantDebug {
				t.Errorf("debug level = %v, want %v", got, tt.wantDebug)
			}

			logged := buf.String()
			if !strings.Contains(logged, "Rendered 1 frames (") {
				t.Errorf("missing progress line in %q", logged)
			}
			if got := strings.Contains(logged, "scene loaded"); got != tt.wantDebug {
				t.Errorf("debug scene line present = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, LogInfo)).done("Rendered %d frames", 3)

	if !regexp.MustCompile(`Rendered 3 frames \(\d+(\.\d+)?[µn]?m?s\)`).MatchString(buf.String()) {
		t.Errorf("progress line = %q", buf.String())
	}
}
