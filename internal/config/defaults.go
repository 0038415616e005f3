package config

import "path/filepath"

// DefaultPath is where commands look for configuration unless --config says otherwise.
const DefaultPath = ".seqedit.yml"

// DatabaseFile is the name of the SQLite file inside DataDir.
const DatabaseFile = "seqedit.db"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".seqedit",
		Port:    8080,
		Renderer: RendererConfig{
			Kind:     RendererCLI,
			Command:  "mmdc",
			KrokiURL: "https://kroki.io",
		},
		Editor: EditorConfig{
			MinZoom:            0.25,
			MaxZoom:            3,
			ZoomStep:           0.05,
			DefaultEditorWidth: 30,
		},
	}
}

// DatabasePath returns the path of the document database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, DatabaseFile)
}
