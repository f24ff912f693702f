package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/config"
)

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	logger.Info("page appended", "page", 2, "items", 20)

	got := buf.String()
	for _, want := range []string{"page appended", "page=2", "items=20"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q should contain %q", got, want)
		}
	}
}

// Waterfall passes log at debug level, so they only show up with --verbose.
func TestVerboseShowsLayoutPasses(t *testing.T) {
	tests := []struct {
		name   string
		level  log.Level
		passes bool
	}{
		{"default", LogInfo, false},
		{"verbose", LogDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			feed := writeFeed(t, dir)
			descs, err := config.ImportFeed(feed)
			if err != nil {
				t.Fatal(err)
			}
			f, err := testGeometry().settings()
			if err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			c := New(&buf, LogInfo)
			c.SetLogLevel(tt.level)

			if _, err := c.compute(context.Background(), f, descs, filepath.Dir(feed)); err != nil {
				t.Fatalf("compute: %v", err)
			}

			out := buf.String()
			if got := strings.Contains(out, "layout pass"); got != tt.passes {
				t.Errorf("layout pass logged = %v, want %v\n%s", got, tt.passes, out)
			}
			if !strings.Contains(out, "Placed 3 items") {
				t.Errorf("progress line missing:\n%s", out)
			}
		})
	}
}

func TestRootAttachesLogger(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if err := root.PersistentPreRunE(cmd, nil); err != nil {
		t.Fatal(err)
	}
	if got := loggerFromContext(cmd.Context()); got != c.Logger {
		t.Error("commands should log through the CLI logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}
}
