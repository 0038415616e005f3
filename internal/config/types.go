package config

import "time"

// RendererKind selects how diagrams are rendered.
type RendererKind string

const (
	RendererCLI   RendererKind = "cli"   // local Mermaid CLI (mmdc)
	RendererKroki RendererKind = "kroki" // Kroki HTTP service
	RendererNone  RendererKind = "none"  // no preview; editing still works
)

// Config is the top-level seqedit configuration, corresponding to .seqedit.yml.
type Config struct {
	DataDir         string         `yaml:"data_dir" koanf:"data_dir"`
	Port            int            `yaml:"port" koanf:"port"`
	AllowAllOrigins bool           `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	Renderer        RendererConfig `yaml:"renderer" koanf:"renderer"`
	Editor          EditorConfig   `yaml:"editor" koanf:"editor"`
}

// RendererConfig configures the external diagram renderer.
type RendererConfig struct {
	Kind     RendererKind  `yaml:"kind" koanf:"kind"`
	Command  string        `yaml:"command" koanf:"command"`
	Args     []string      `yaml:"args" koanf:"args"`
	KrokiURL string        `yaml:"kroki_url" koanf:"kroki_url"`
	Timeout  time.Duration `yaml:"timeout" koanf:"timeout"` // 0 = no limit
}

// EditorConfig holds presentation defaults for the browser editor.
type EditorConfig struct {
	MinZoom            float64 `yaml:"min_zoom" koanf:"min_zoom"`
	MaxZoom            float64 `yaml:"max_zoom" koanf:"max_zoom"`
	ZoomStep           float64 `yaml:"zoom_step" koanf:"zoom_step"`
	DefaultEditorWidth float64 `yaml:"default_editor_width" koanf:"default_editor_width"` // percent
}
