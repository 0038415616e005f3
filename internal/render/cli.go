package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CLIRenderer renders through the Mermaid command line tool (mmdc).
type CLIRenderer struct {
	Command string   // executable, "mmdc" when empty
	Args    []string // extra arguments, e.g. a puppeteer config
}

// Render writes source to a temporary file, runs the CLI on it and reads
// back the SVG it produced.
func (c *CLIRenderer) Render(ctx context.Context, source string) (string, error) {
	dir, err := os.MkdirTemp("", "seqedit-render-")
	if err != nil {
		return "", fmt.Errorf("creating render dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "diagram.mmd")
	out := filepath.Join(dir, "diagram.svg")
	if err := os.WriteFile(in, []byte(source), 0o644); err != nil {
		return "", fmt.Errorf("writing render input: %w", err)
	}

	command := c.Command
	if command == "" {
		command = "mmdc"
	}
	args := append([]string{"-i", in, "-o", out, "-q"}, c.Args...)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("running %s: %w", command, err)
		}
		return "", fmt.Errorf("running %s: %w: %s", command, err, msg)
	}

	svg, err := os.ReadFile(out)
	if err != nil {
		return "", fmt.Errorf("reading render output: %w", err)
	}
	return string(svg), nil
}
