package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SEQEDIT_*). A double underscore steps
// into a nested section: SEQEDIT_RENDERER__KIND -> renderer.kind.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("SEQEDIT_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "SEQEDIT_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validRenderers is the set of recognized renderer kinds.
var validRenderers = map[RendererKind]bool{
	RendererCLI:   true,
	RendererKroki: true,
	RendererNone:  true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if !validRenderers[c.Renderer.Kind] {
		return fmt.Errorf("invalid renderer.kind %q: must be one of cli, kroki, none", c.Renderer.Kind)
	}
	if c.Renderer.Kind == RendererKroki && c.Renderer.KrokiURL == "" {
		return fmt.Errorf("renderer.kroki_url is required for the kroki renderer")
	}
	if c.Renderer.Timeout < 0 {
		return fmt.Errorf("renderer.timeout must be non-negative")
	}
	e := c.Editor
	if e.MinZoom <= 0 || e.MaxZoom < e.MinZoom {
		return fmt.Errorf("editor zoom range [%g, %g] is invalid", e.MinZoom, e.MaxZoom)
	}
	if e.ZoomStep <= 0 {
		return fmt.Errorf("editor.zoom_step must be positive")
	}
	if e.DefaultEditorWidth <= 0 || e.DefaultEditorWidth >= 100 {
		return fmt.Errorf("editor.default_editor_width must be between 0 and 100")
	}
	return nil
}
