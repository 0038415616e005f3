package config

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to seqedit! Let's configure the editor.")
	fmt.Println()

	cfg := DefaultConfig()

	// Preselect Kroki when the local CLI is missing.
	items := []string{
		"cli   - local Mermaid CLI (mmdc)",
		"kroki - Kroki HTTP service",
		"none  - edit only, no preview",
	}
	kinds := []RendererKind{RendererCLI, RendererKroki, RendererNone}
	cursor := 0
	if _, err := exec.LookPath(cfg.Renderer.Command); err != nil {
		fmt.Printf("%s was not found on PATH.\n\n", cfg.Renderer.Command)
		cursor = 1
	}

	// 1. Renderer.
	rendererPrompt := promptui.Select{
		Label:     "Select diagram renderer",
		Items:     items,
		CursorPos: cursor,
	}
	idx, _, err := rendererPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("renderer selection: %w", err)
	}
	cfg.Renderer.Kind = kinds[idx]

	// 2. Renderer details.
	switch cfg.Renderer.Kind {
	case RendererCLI:
		cmdPrompt := promptui.Prompt{Label: "Mermaid CLI command", Default: cfg.Renderer.Command}
		if cfg.Renderer.Command, err = cmdPrompt.Run(); err != nil {
			return nil, fmt.Errorf("renderer command: %w", err)
		}
	case RendererKroki:
		urlPrompt := promptui.Prompt{
			Label:   "Kroki base URL",
			Default: cfg.Renderer.KrokiURL,
			Validate: func(s string) error {
				if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
					return fmt.Errorf("must be an http(s) URL")
				}
				return nil
			},
		}
		if cfg.Renderer.KrokiURL, err = urlPrompt.Run(); err != nil {
			return nil, fmt.Errorf("kroki url: %w", err)
		}
	}

	// 3. Port.
	portPrompt := promptui.Prompt{
		Label:   "Editor port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 4. Data directory.
	dataPrompt := promptui.Prompt{Label: "Data directory", Default: cfg.DataDir}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}
